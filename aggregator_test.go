package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestAggregateTotals(t *testing.T) {
	posts := []EnrichedPost{
		{PostID: "p1", Sentiment: "positive", Comments: []EnrichedComment{
			{ID: "c1", Sentiment: "negative"},
			{ID: "c2", Sentiment: "neutral"},
		}},
		{PostID: "p2", Sentiment: SentimentNotMentioned},
	}

	report := Aggregate(posts)
	f := report.MainFindings

	if f.TotalPosts != 2 {
		t.Errorf("total_posts = %d, want 2", f.TotalPosts)
	}
	if f.TotalComments != 2 {
		t.Errorf("total_comments = %d, want 2", f.TotalComments)
	}
	if f.PostsMentioningSubject != 1 {
		t.Errorf("posts_mentioning_subject = %d, want 1", f.PostsMentioningSubject)
	}
}

func TestAggregateSentimentDistributionCoversEveryDocument(t *testing.T) {
	posts := []EnrichedPost{
		{PostID: "p1", Sentiment: "positive", Comments: []EnrichedComment{
			{ID: "c1", Sentiment: "positive"},
			{ID: "c2", Sentiment: "unknown"},
		}},
		{PostID: "p2", Sentiment: "negative", Comments: []EnrichedComment{
			{ID: "c3", Sentiment: "negative"},
		}},
	}

	f := Aggregate(posts).MainFindings

	total := 0
	for _, count := range f.SentimentDistribution {
		total += count
	}
	if want := f.TotalPosts + f.TotalComments; total != want {
		t.Errorf("sentiment counts sum to %d, want total_posts+total_comments = %d", total, want)
	}
	if f.SentimentDistribution["positive"] != 2 {
		t.Errorf("positive = %d, want 2", f.SentimentDistribution["positive"])
	}
}

func TestAggregateCompetitorOrdering(t *testing.T) {
	// Counts A:3, B:5, C:5 with B seen before C; empty names never surface.
	posts := []EnrichedPost{
		{PostID: "p1", Competitors: []string{"A", "B", "C", ""}},
		{PostID: "p2", Competitors: []string{"A", "B", "C", ""}},
		{PostID: "p3", Competitors: []string{"A", "B", "C"}, Comments: []EnrichedComment{
			{ID: "c1", Competitors: []string{"B", "C"}},
			{ID: "c2", Competitors: []string{"B", "C"}},
		}},
	}

	summary := Aggregate(posts).MainFindings.CompetitorSummary

	want := []CompetitorMention{{"B", 5}, {"C", 5}, {"A", 3}}
	if len(summary) != len(want) {
		t.Fatalf("competitor_summary = %+v, want %+v", summary, want)
	}
	for i := range want {
		if summary[i] != want[i] {
			t.Errorf("competitor_summary[%d] = %+v, want %+v (descending, stable ties)", i, summary[i], want[i])
		}
	}
}

func TestAggregateActionableItemOrdering(t *testing.T) {
	posts := []EnrichedPost{
		{PostID: "p1", Title: "post one", ActionNeeded: "yes", Comments: []EnrichedComment{
			{ID: "c1", ActionNeeded: "no_action"},
			{ID: "c2", Author: "alice", ActionNeeded: "yes"},
		}},
		{PostID: "p2", ActionNeeded: "no_action", Comments: []EnrichedComment{
			{ID: "c3", Author: "bob", ActionNeeded: "yes"},
		}},
	}

	items := Aggregate(posts).ActionableItems

	if len(items) != 3 {
		t.Fatalf("actionable_items = %+v, want 3 entries", items)
	}
	if items[0].Type != ItemTypePost || items[0].PostID != "p1" {
		t.Errorf("items[0] = %+v, want post p1", items[0])
	}
	if items[1].Type != ItemTypeComment || items[1].CommentID != "c2" {
		t.Errorf("items[1] = %+v, want comment c2 of p1", items[1])
	}
	if items[2].Type != ItemTypeComment || items[2].CommentID != "c3" || items[2].PostID != "p2" {
		t.Errorf("items[2] = %+v, want comment c3 of p2", items[2])
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	posts := []EnrichedPost{
		{PostID: "p1", Sentiment: "positive", Competitors: []string{"X", "Y"}, ActionNeeded: "yes",
			Comments: []EnrichedComment{{ID: "c1", Sentiment: "negative", Competitors: []string{"Y"}}}},
	}

	first, err := json.Marshal(Aggregate(posts))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Aggregate(posts))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two aggregation runs produced different reports")
	}
}

func TestAggregateEndToEndScenario(t *testing.T) {
	posts := []EnrichedPost{
		{PostID: "p1", Sentiment: SentimentUnknown, Comments: []EnrichedComment{
			{ID: "c1", Author: "alice", Sentiment: "negative", ActionNeeded: "yes"},
		}},
		{PostID: "p2", Sentiment: SentimentUnknown},
	}

	report := Aggregate(posts)
	f := report.MainFindings

	if f.TotalPosts != 2 || f.TotalComments != 1 {
		t.Errorf("totals = %d/%d, want 2/1", f.TotalPosts, f.TotalComments)
	}
	if f.SentimentDistribution["negative"] != 1 {
		t.Errorf("negative count = %d, want 1", f.SentimentDistribution["negative"])
	}
	if f.SentimentDistribution[SentimentUnknown] != 2 {
		t.Errorf("unknown count = %d, want 2", f.SentimentDistribution[SentimentUnknown])
	}
	if len(report.ActionableItems) != 1 || report.ActionableItems[0].Type != ItemTypeComment {
		t.Errorf("actionable_items = %+v, want single comment item", report.ActionableItems)
	}
}

func TestRunAggregationWritesReport(t *testing.T) {
	settings := &Settings{}
	settings.applyDefaults()
	dir := t.TempDir()
	settings.Paths.Enriched = filepath.Join(dir, "enriched.json")
	settings.Paths.Report = filepath.Join(dir, "report.json")

	posts := []EnrichedPost{{PostID: "p1", Sentiment: "positive", ActionNeeded: "yes"}}
	if err := WriteArtifact(settings.Paths.Enriched, posts); err != nil {
		t.Fatal(err)
	}

	if err := RunAggregation(settings); err != nil {
		t.Fatalf("RunAggregation() error = %v", err)
	}

	var report AnalysisReport
	if err := ReadArtifact(settings.Paths.Report, &report); err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if report.MainFindings.TotalPosts != 1 || len(report.ActionableItems) != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestRunAggregationMissingInputFails(t *testing.T) {
	settings := &Settings{}
	settings.applyDefaults()
	settings.Paths.Enriched = filepath.Join(t.TempDir(), "absent.json")

	if err := RunAggregation(settings); err == nil {
		t.Fatal("RunAggregation() expected error when enriched artifact is missing")
	}
}
