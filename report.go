package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// LoadReport reads the analysis report artifact. Callers decide how to present
// a missing file; os.IsNotExist distinguishes it from corruption.
func LoadReport(path string) (*AnalysisReport, error) {
	var report AnalysisReport
	if err := ReadArtifact(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FilterActionableItems applies the dashboard's filter contract: an optional
// item type and an optional case-insensitive author substring. The author
// search applies to comments only; post items pass through it unfiltered.
func FilterActionableItems(items []ActionableItem, itemType, author string) []ActionableItem {
	author = strings.ToLower(strings.TrimSpace(author))
	filtered := make([]ActionableItem, 0, len(items))

	for _, item := range items {
		if itemType != "" && string(item.Type) != itemType {
			continue
		}
		if author != "" && item.Type == ItemTypeComment {
			if !strings.Contains(strings.ToLower(item.Author), author) {
				continue
			}
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// PrintReport renders the report for the console: KPI lines, sentiment
// distribution, the top competitor table and numbered actionable items.
func PrintReport(w io.Writer, report *AnalysisReport, topCompetitors int, itemType, author string) {
	f := report.MainFindings

	fmt.Fprintf(w, "=== MAIN FINDINGS ===\n")
	fmt.Fprintf(w, "Total posts:              %d\n", f.TotalPosts)
	fmt.Fprintf(w, "Total comments:           %d\n", f.TotalComments)
	fmt.Fprintf(w, "Posts mentioning subject: %d\n", f.PostsMentioningSubject)
	fmt.Fprintf(w, "Actionable items:         %d\n", len(report.ActionableItems))

	fmt.Fprintf(w, "\n=== SENTIMENT DISTRIBUTION ===\n")
	if len(f.SentimentDistribution) == 0 {
		fmt.Fprintln(w, "No sentiment data available.")
	} else {
		for _, label := range sortedKeys(f.SentimentDistribution) {
			fmt.Fprintf(w, "%-16s %d\n", label, f.SentimentDistribution[label])
		}
	}

	fmt.Fprintf(w, "\n=== TOP COMPETITOR MENTIONS ===\n")
	if len(f.CompetitorSummary) == 0 {
		fmt.Fprintln(w, "No competitor mentions available.")
	} else {
		rows := f.CompetitorSummary
		if topCompetitors > 0 && len(rows) > topCompetitors {
			rows = rows[:topCompetitors]
		}
		for _, row := range rows {
			fmt.Fprintf(w, "%-24s %d\n", row.Competitor, row.Mentions)
		}
	}

	items := FilterActionableItems(report.ActionableItems, itemType, author)
	fmt.Fprintf(w, "\n=== ACTIONABLE ITEMS ===\n")
	if len(items) == 0 {
		fmt.Fprintln(w, "No items match the current filters.")
		return
	}
	for i, item := range items {
		if item.Type == ItemTypePost {
			fmt.Fprintf(w, "\n%d. POST %s - %s\n", i+1, item.PostID, item.Title)
		} else {
			fmt.Fprintf(w, "\n%d. COMMENT %s on post %s by %s\n", i+1, item.CommentID, item.PostID, item.Author)
		}
		fmt.Fprintf(w, "   Reason: %s\n", item.ActionReason)
		fmt.Fprintf(w, "   Suggested response: %s\n", item.SuggestedResponse)
	}
}

// RunReport is the report subcommand body: load, filter, print. A missing
// artifact is a user-facing message, not a failure.
func RunReport(settings *Settings, itemType, author string) error {
	report, err := LoadReport(settings.Paths.Report)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Report %s not found. Run `threadpulse analyze` first.\n", settings.Paths.Report)
			return nil
		}
		return fmt.Errorf("loading report: %w", err)
	}

	PrintReport(os.Stdout, report, settings.Report.TopCompetitors, itemType, author)
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
