package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ContentSource is the collector's view of the content platform.
type ContentSource interface {
	Search(ctx context.Context, subreddit, query string, limit int, sort string) ([]Submission, error)
	Comments(ctx context.Context, postID string, limit int, sort string) ([]Comment, error)
}

// Collector queries the content source per configured search term and
// assembles the raw document set. Submissions matched by several terms are kept
// once per term; provenance matters downstream.
type Collector struct {
	source    ContentSource
	settings  *Settings
	throttle  *Throttle
	converter *md.Converter
}

// NewCollector creates a collector with the configured pause between
// submissions.
func NewCollector(source ContentSource, settings *Settings) *Collector {
	return &Collector{
		source:    source,
		settings:  settings,
		throttle:  NewThrottle(time.Duration(settings.Collector.PauseSeconds * float64(time.Second))),
		converter: md.NewConverter("", true, nil),
	}
}

// Run collects raw posts for every configured query. A failed search aborts
// the run; a failure on a single submission is logged and skipped.
func (c *Collector) Run(ctx context.Context) ([]RawPost, error) {
	allPosts := make([]RawPost, 0)

	for _, query := range c.settings.Queries {
		log.Printf("Searching for %q in r/%s (limit=%d, sort=new)", query, c.settings.Subreddit, c.settings.MaxPostsPerQuery)

		submissions, err := c.source.Search(ctx, c.settings.Subreddit, query, c.settings.MaxPostsPerQuery, "new")
		if err != nil {
			return nil, fmt.Errorf("searching for %q: %w", query, err)
		}

		for _, sub := range submissions {
			post, err := c.collectSubmission(ctx, sub, query)
			if err != nil {
				log.Printf("✗ Error processing submission %s: %v", sub.ID, err)
				continue
			}
			allPosts = append(allPosts, post)
			postsCollected.Inc()

			c.throttle.Wait()
		}
	}

	return allPosts, nil
}

// RunAndSave runs a collection pass and writes the raw artifact once.
func (c *Collector) RunAndSave(ctx context.Context) error {
	posts, err := c.Run(ctx)
	if err != nil {
		return err
	}
	if err := WriteArtifact(c.settings.Paths.Raw, posts); err != nil {
		return fmt.Errorf("writing raw artifact: %w", err)
	}
	log.Printf("✓ Data collection complete: %d posts saved to %s", len(posts), c.settings.Paths.Raw)
	return nil
}

func (c *Collector) collectSubmission(ctx context.Context, sub Submission, query string) (RawPost, error) {
	comments, err := c.source.Comments(ctx, sub.ID, c.settings.CommentLimit, "top")
	if err != nil {
		return RawPost{}, fmt.Errorf("fetching comments: %w", err)
	}

	post := RawPost{
		ID:           sub.ID,
		Title:        sub.Title,
		Author:       sub.Author,
		CreatedUTC:   sub.CreatedUTC,
		Score:        sub.Score,
		NumComments:  sub.NumComments,
		URL:          sub.URL,
		QueryMatched: query,
		SelfText:     c.normalizeBody(sub.SelfText, sub.SelfTextHTML),
		Platform:     PlatformReddit,
		Comments:     make([]RawComment, 0, len(comments)),
	}

	for _, comment := range comments {
		body := c.normalizeBody(comment.Body, comment.BodyHTML)
		if body == "" {
			continue
		}
		post.Comments = append(post.Comments, RawComment{
			ID:         comment.ID,
			Author:     comment.Author,
			Body:       body,
			Score:      comment.Score,
			CreatedUTC: comment.CreatedUTC,
		})
	}

	return post, nil
}

// normalizeBody prefers the plain text body and falls back to converting the
// HTML body to markdown when only that is present.
func (c *Collector) normalizeBody(text, html string) string {
	text = strings.TrimSpace(text)
	if text != "" || html == "" {
		return text
	}
	converted, err := c.converter.ConvertString(html)
	if err != nil {
		return text
	}
	return strings.TrimSpace(converted)
}
