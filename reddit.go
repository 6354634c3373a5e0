package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRedditAPIBase  = "https://oauth.reddit.com"
	defaultRedditTokenURL = "https://www.reddit.com/api/v1/access_token"
)

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Submission is one search hit as returned by the content source.
type Submission struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	CreatedUTC   float64 `json:"created_utc"`
	Score        int     `json:"score"`
	NumComments  int     `json:"num_comments"`
	URL          string  `json:"url"`
	SelfText     string  `json:"selftext"`
	SelfTextHTML string  `json:"selftext_html"`
}

// Comment is one comment node from a submission's tree.
type Comment struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	BodyHTML   string  `json:"body_html"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	// Replies is either an empty string or a nested listing; decoded lazily
	// during flattening.
	Replies json.RawMessage `json:"replies"`
}

type redditThing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type redditListing struct {
	Data struct {
		Children []redditThing `json:"children"`
	} `json:"data"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// RedditClient is a minimal script-app client for the Reddit API: password-grant
// OAuth, subreddit search and comment listing.
type RedditClient struct {
	APIBase  string
	TokenURL string

	creds      Credentials
	httpClient *http.Client

	token       string
	tokenExpiry time.Time
}

// NewRedditClient creates a client from the configured credentials.
func NewRedditClient(creds Credentials) *RedditClient {
	return &RedditClient{
		APIBase:    defaultRedditAPIBase,
		TokenURL:   defaultRedditTokenURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate performs the password-grant token exchange. An authentication
// failure here is fatal for the whole run.
func (rc *RedditClient) Authenticate(ctx context.Context) error {
	form := url.Values{}
	if rc.creds.RedditUsername != "" {
		debugLog("Authenticating with password grant as %s", rc.creds.RedditUsername)
		form.Set("grant_type", "password")
		form.Set("username", rc.creds.RedditUsername)
		form.Set("password", rc.creds.RedditPassword)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(rc.creds.RedditClientID, rc.creds.RedditClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", rc.creds.RedditUserAgent)

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, URL: rc.TokenURL}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}
	if tok.Error != "" || tok.AccessToken == "" {
		return fmt.Errorf("reddit authentication failed: %s", tok.Error)
	}

	rc.token = tok.AccessToken
	rc.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return nil
}

func (rc *RedditClient) ensureToken(ctx context.Context) error {
	if rc.token != "" && time.Now().Before(rc.tokenExpiry.Add(-time.Minute)) {
		return nil
	}
	return rc.Authenticate(ctx)
}

func (rc *RedditClient) get(ctx context.Context, rawURL string, out interface{}) error {
	if err := rc.ensureToken(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rc.token)
	req.Header.Set("User-Agent", rc.creds.RedditUserAgent)

	debugLog("GET %s", rawURL)
	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	debugLog("GET %s -> %d", rawURL, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", rawURL, err)
	}
	return nil
}

// Search fetches up to limit submissions matching query in the given subreddit.
func (rc *RedditClient) Search(ctx context.Context, subreddit, query string, limit int, sort string) ([]Submission, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", sort)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("restrict_sr", "1")
	q.Set("raw_json", "1")
	searchURL := fmt.Sprintf("%s/r/%s/search.json?%s", rc.APIBase, url.PathEscape(subreddit), q.Encode())

	var listing redditListing
	if err := rc.get(ctx, searchURL, &listing); err != nil {
		return nil, err
	}

	subs := make([]Submission, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var sub Submission
		if err := json.Unmarshal(child.Data, &sub); err != nil {
			return nil, fmt.Errorf("parsing submission: %w", err)
		}
		if sub.Author == "" {
			sub.Author = "[deleted]"
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Comments fetches up to limit comments for a submission, provider-ranked by
// sort, flattened breadth-first. "more" continuation placeholders are dropped
// without extra fetches; deeply nested threads lose their continuations.
func (rc *RedditClient) Comments(ctx context.Context, postID string, limit int, sort string) ([]Comment, error) {
	q := url.Values{}
	q.Set("sort", sort)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	commentsURL := fmt.Sprintf("%s/comments/%s.json?%s", rc.APIBase, url.PathEscape(postID), q.Encode())

	// The endpoint returns a two-element array: the submission listing and the
	// comment tree.
	var listings []redditListing
	if err := rc.get(ctx, commentsURL, &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected comments payload for %s", postID)
	}

	return flattenComments(listings[1].Data.Children, limit), nil
}

// flattenComments walks the comment tree breadth-first, skipping "more"
// placeholders, until limit comments are collected (limit <= 0 means all).
func flattenComments(children []redditThing, limit int) []Comment {
	queue := append([]redditThing(nil), children...)
	var out []Comment

	for len(queue) > 0 {
		if limit > 0 && len(out) >= limit {
			break
		}
		thing := queue[0]
		queue = queue[1:]

		if thing.Kind != "t1" {
			continue
		}

		var c Comment
		if err := json.Unmarshal(thing.Data, &c); err != nil {
			continue
		}
		if c.Author == "" {
			c.Author = "[deleted]"
		}

		replies := c.Replies
		c.Replies = nil
		out = append(out, c)

		// "replies" is an empty string for leaves, a listing otherwise.
		if len(replies) > 0 && replies[0] == '{' {
			var nested redditListing
			if err := json.Unmarshal(replies, &nested); err == nil {
				queue = append(queue, nested.Data.Children...)
			}
		}
	}
	return out
}
