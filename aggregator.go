package main

import (
	"fmt"
	"log"
	"sort"
)

// Aggregate reduces the enriched document set to the analysis report in one
// pass. It is a pure function: same input, byte-identical report.
func Aggregate(posts []EnrichedPost) AnalysisReport {
	findings := MainFindings{
		TotalPosts:            len(posts),
		SentimentDistribution: make(map[string]int),
		CompetitorSummary:     []CompetitorMention{},
	}
	actionable := []ActionableItem{}

	// Competitor counts keep first-seen order so the descending sort below is
	// stable on ties.
	competitorCounts := make(map[string]int)
	var competitorOrder []string
	tally := func(names []string) {
		for _, name := range names {
			if _, seen := competitorCounts[name]; !seen {
				competitorOrder = append(competitorOrder, name)
			}
			competitorCounts[name]++
		}
	}

	for _, post := range posts {
		if post.Sentiment != SentimentNotMentioned {
			findings.PostsMentioningSubject++
		}
		findings.SentimentDistribution[post.Sentiment]++
		tally(post.Competitors)

		if post.ActionNeeded == ActionNeededYes {
			actionable = append(actionable, NewPostItem(post))
		}

		for _, comment := range post.Comments {
			findings.TotalComments++
			findings.SentimentDistribution[comment.Sentiment]++
			tally(comment.Competitors)

			if comment.ActionNeeded == ActionNeededYes {
				actionable = append(actionable, NewCommentItem(post.PostID, comment))
			}
		}
	}

	// Descending by count, stable, empty names excluded.
	sort.SliceStable(competitorOrder, func(i, j int) bool {
		return competitorCounts[competitorOrder[i]] > competitorCounts[competitorOrder[j]]
	})
	for _, name := range competitorOrder {
		if name == "" {
			continue
		}
		findings.CompetitorSummary = append(findings.CompetitorSummary, CompetitorMention{
			Competitor: name,
			Mentions:   competitorCounts[name],
		})
	}

	return AnalysisReport{
		MainFindings:    findings,
		ActionableItems: actionable,
	}
}

// RunAggregation loads the enriched artifact, aggregates it and writes the
// report artifact once.
func RunAggregation(settings *Settings) error {
	var posts []EnrichedPost
	if err := ReadArtifact(settings.Paths.Enriched, &posts); err != nil {
		return fmt.Errorf("loading enriched posts: %w", err)
	}
	log.Printf("Loaded %d posts from %s", len(posts), settings.Paths.Enriched)

	report := Aggregate(posts)

	if err := WriteArtifact(settings.Paths.Report, report); err != nil {
		return fmt.Errorf("writing analysis report: %w", err)
	}
	reportsWritten.Inc()
	log.Printf("✓ Analysis complete: %d actionable items written to %s", len(report.ActionableItems), settings.Paths.Report)
	return nil
}
