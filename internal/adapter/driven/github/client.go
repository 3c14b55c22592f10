// Package github implements the CommitSource port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/commitcast/internal/adapter/driven/transport"
	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommitSource = (*Client)(nil)

// maxEventPages bounds event pagination; the events API only serves the
// most recent 300 events anyway.
const maxEventPages = 3

// maxSearchPages bounds search pagination. Search serves at most 1000 results
// (10 pages of 100) and answers 422 past that.
const maxSearchPages = 10

// Client implements the driven.CommitSource port using the go-github library.
type Client struct {
	gh       *gh.Client
	strategy model.CommitSourceKind
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. logging (debug line per request)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (GitHub REST API client with PAT auth)
func NewClient(token string, strategy model.CommitSourceKind) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = transport.NewLogging(nil, slog.Default())
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client, strategy: strategy}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, strategy model.CommitSourceKind) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client, strategy: strategy}, nil
}

// Authenticate fetches the authenticated user as a connectivity check and
// returns its login.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", classify("get authenticated user", err)
	}
	return user.GetLogin(), nil
}

// FetchCommits returns commits authored by username at or after since using
// the configured strategy.
func (c *Client) FetchCommits(ctx context.Context, username string, since time.Time) ([]model.Commit, error) {
	switch c.strategy {
	case model.CommitSourceEvents:
		return c.fetchFromEvents(ctx, username, since)
	default:
		return c.fetchFromSearch(ctx, username, since)
	}
}

// fetchFromSearch queries the commit search API, newest first. It handles
// pagination automatically and maps go-github types to domain model types.
func (c *Client) fetchFromSearch(ctx context.Context, username string, since time.Time) ([]model.Commit, error) {
	query := fmt.Sprintf("author:%s committer-date:>=%s", username, since.UTC().Format(time.RFC3339))
	opts := &gh.SearchOptions{
		Sort:  "committer-date",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	commits := []model.Commit{}

	for page := 0; page < maxSearchPages; page++ {
		result, resp, err := c.gh.Search.Commits(ctx, query, opts)
		if err != nil {
			return nil, classify(fmt.Sprintf("search commits (page %d)", opts.Page), err)
		}

		logRateLimit(resp, "search/commits", opts.Page, len(result.Commits))

		for _, item := range result.Commits {
			commit := mapSearchResult(item)
			if commit.Timestamp.Before(since) {
				continue
			}
			commits = append(commits, commit)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// fetchFromEvents lists the user's recent events and flattens the commits of
// push events created at or after since. Events arrive newest first, so
// paging stops at the first older event.
func (c *Client) fetchFromEvents(ctx context.Context, username string, since time.Time) ([]model.Commit, error) {
	opts := &gh.ListOptions{PerPage: 100}
	commits := []model.Commit{}

	for page := 0; page < maxEventPages; page++ {
		events, resp, err := c.gh.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			return nil, classify(fmt.Sprintf("list events for %s (page %d)", username, opts.Page), err)
		}

		logRateLimit(resp, "users/events", opts.Page, len(events))

		reachedOlder := false
		for _, event := range events {
			created := event.GetCreatedAt().Time
			if created.Before(since) {
				reachedOlder = true
				continue
			}
			if event.GetType() != "PushEvent" {
				continue
			}

			payload, err := event.ParsePayload()
			if err != nil {
				slog.Warn("skipping unparseable push event", "event_id", event.GetID(), "error", err)
				continue
			}
			push, ok := payload.(*gh.PushEvent)
			if !ok {
				continue
			}

			for _, hc := range push.Commits {
				commits = append(commits, mapHeadCommit(hc, event.GetRepo().GetName(), created))
			}
		}

		if reachedOlder || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commits, nil
}

// mapSearchResult converts a go-github CommitResult to a domain model Commit.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapSearchResult(item *gh.CommitResult) model.Commit {
	return model.Commit{
		SHA:        item.GetSHA(),
		Message:    item.GetCommit().GetMessage(),
		Repository: item.GetRepository().GetFullName(),
		Timestamp:  item.GetCommit().GetCommitter().GetDate().Time,
		URL:        item.GetHTMLURL(),
	}
}

// mapHeadCommit converts a push event commit to a domain model Commit. Push
// payloads from the events API usually omit per-commit timestamps, so the
// event's creation time stands in.
func mapHeadCommit(hc *gh.HeadCommit, repo string, eventTime time.Time) model.Commit {
	ts := hc.GetTimestamp().Time
	if ts.IsZero() {
		ts = eventTime
	}
	return model.Commit{
		Message:    hc.GetMessage(),
		Repository: repo,
		Timestamp:  ts,
	}
}

// classify wraps a go-github error with the matching port sentinel. 401
// responses mean the token is bad; everything else is a fetch failure.
func classify(op string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w: %w", op, driven.ErrAuthentication, err)
	}
	return fmt.Errorf("%s: %w: %w", op, driven.ErrFetch, err)
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	// The search API has its own 30/minute budget.
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 5 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
