package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Enricher walks the raw document set in order, labels every post and comment
// through the enrichment provider and checkpoints the full output artifact
// after each post, so an interrupted run loses at most one post of work.
type Enricher struct {
	provider Summarizer
	settings *Settings
	prompt   string
	subject  string
	throttle *Throttle
}

// NewEnricher creates an enricher with the configured provider pause.
func NewEnricher(provider Summarizer, cfg *Config) *Enricher {
	return &Enricher{
		provider: provider,
		settings: cfg.Settings,
		prompt:   cfg.GetSummarizePrompt(),
		subject:  cfg.Settings.SubjectProduct,
		throttle: NewThrottle(time.Duration(cfg.Settings.Enrichment.PauseSeconds * float64(time.Second))),
	}
}

// Run enriches every raw post, rewriting the enriched artifact after each one.
func (e *Enricher) Run(ctx context.Context) error {
	var rawPosts []RawPost
	if err := ReadArtifact(e.settings.Paths.Raw, &rawPosts); err != nil {
		return fmt.Errorf("loading raw posts: %w", err)
	}
	log.Printf("Loaded %d posts from %s", len(rawPosts), e.settings.Paths.Raw)

	enriched := make([]EnrichedPost, 0, len(rawPosts))
	for i, post := range rawPosts {
		log.Printf("[%d/%d] Processing post %s", i+1, len(rawPosts), post.ID)

		enriched = append(enriched, e.EnrichPost(ctx, post))

		// Checkpoint: full rewrite after every post.
		if err := WriteArtifact(e.settings.Paths.Enriched, enriched); err != nil {
			return fmt.Errorf("checkpointing enriched posts: %w", err)
		}
		log.Printf("  ✓ Checkpointed %d posts to %s", len(enriched), e.settings.Paths.Enriched)
	}

	log.Printf("✓ Processing complete: %d posts enriched", len(enriched))
	return nil
}

// EnrichPost labels one post and all of its comments.
func (e *Enricher) EnrichPost(ctx context.Context, post RawPost) EnrichedPost {
	postText := fmt.Sprintf("%s\n\n%s", post.Title, post.SelfText)
	result := e.enrich(ctx, postText)
	log.Printf("  → Post summary: %s", result.Summary)

	out := EnrichedPost{
		PostID:            post.ID,
		Title:             post.Title,
		Author:            post.Author,
		CreatedUTC:        post.CreatedUTC,
		Score:             post.Score,
		NumComments:       post.NumComments,
		URL:               post.URL,
		QueryMatched:      post.QueryMatched,
		Platform:          post.Platform,
		Summary:           result.Summary,
		Sentiment:         result.Sentiment,
		Benefits:          result.Benefits,
		Complaints:        result.Complaints,
		Competitors:       result.Competitors,
		OverallTone:       result.OverallTone,
		ActionNeeded:      result.ActionNeeded,
		ActionReason:      result.ActionReason,
		SuggestedResponse: result.SuggestedResponse,
		Comments:          make([]EnrichedComment, 0, len(post.Comments)),
	}

	for j, comment := range post.Comments {
		log.Printf("  [%d/%d] Processing comment %s", j+1, len(post.Comments), comment.ID)

		commentText := fmt.Sprintf("[By %s]\n%s", comment.Author, comment.Body)
		cr := e.enrich(ctx, commentText)
		log.Printf("    → Comment summary: %s", cr.Summary)

		out.Comments = append(out.Comments, EnrichedComment{
			ID:                comment.ID,
			Author:            comment.Author,
			Body:              comment.Body,
			Score:             comment.Score,
			CreatedUTC:        comment.CreatedUTC,
			Summary:           cr.Summary,
			Sentiment:         cr.Sentiment,
			Benefits:          cr.Benefits,
			Complaints:        cr.Complaints,
			Competitors:       cr.Competitors,
			OverallTone:       cr.OverallTone,
			ActionNeeded:      cr.ActionNeeded,
			ActionReason:      cr.ActionReason,
			SuggestedResponse: cr.SuggestedResponse,
		})
	}

	return out
}

// enrich runs one provider call through the fallback boundary, then honors the
// provider request-rate budget.
func (e *Enricher) enrich(ctx context.Context, text string) Enrichment {
	result := enrichText(ctx, e.provider, e.prompt, e.subject, text, e.settings.Enrichment.MaxInputChars)
	e.throttle.Wait()
	return result
}
