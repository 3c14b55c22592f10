// Package twitter implements the Publisher port against the X (Twitter) v2
// API using OAuth 1.0a user-context credentials.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dghubble/oauth1"

	"github.com/ericfisherdev/commitcast/internal/adapter/driven/transport"
	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Publisher = (*Publisher)(nil)

const (
	defaultBaseURL = "https://api.twitter.com"
	statusURLBase  = "https://x.com/i/web/status/"
)

// Credentials holds the app key pair and the user's access token pair.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Publisher implements the driven.Publisher port.
type Publisher struct {
	http    *http.Client
	baseURL string
}

// NewPublisher creates a Publisher that signs every request with OAuth 1.0a.
func NewPublisher(creds Credentials) *Publisher {
	base := transport.NewLoggingClient(slog.Default())
	return &Publisher{
		http:    NewSignedHTTPClient(creds, base),
		baseURL: defaultBaseURL,
	}
}

// NewSignedHTTPClient returns a client that adds an OAuth 1.0a Authorization
// header to every request before handing it to base.
func NewSignedHTTPClient(creds Credentials, base *http.Client) *http.Client {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	// oauth1 builds its signing transport on top of the client found in ctx.
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	return config.Client(ctx, token)
}

// NewPublisherWithHTTPClient creates a Publisher with a custom http.Client and
// base URL. This constructor is intended for testing.
func NewPublisherWithHTTPClient(httpClient *http.Client, baseURL string) *Publisher {
	return &Publisher{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

// Problem types X attaches to a 403 caused by the credentials themselves
// rather than by the post.
var authProblemTypes = []string{
	"https://api.twitter.com/2/problems/unsupported-authentication",
	"https://api.twitter.com/2/problems/client-forbidden",
}

// Publish creates one post with the given text and returns its ID and URL.
// A 401, or a 403 whose problem type blames the credentials, maps to
// driven.ErrAuthentication. Any other failure maps to driven.ErrPublish,
// including a 403 that rejects the post itself (duplicate content).
func (p *Publisher) Publish(ctx context.Context, text string) (model.PostResult, error) {
	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return model.PostResult{}, fmt.Errorf("%w: encode request: %w", driven.ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return model.PostResult{}, fmt.Errorf("%w: build request: %w", driven.ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return model.PostResult{}, fmt.Errorf("%w: post tweet: %w", driven.ErrPublish, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.PostResult{}, fmt.Errorf("%w: read response: %w", driven.ErrPublish, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.PostResult{}, statusError(resp.StatusCode, raw)
	}

	var created createTweetResponse
	if err := json.Unmarshal(raw, &created); err != nil {
		return model.PostResult{}, fmt.Errorf("%w: decode response: %w", driven.ErrPublish, err)
	}
	if created.Data.ID == "" {
		return model.PostResult{}, fmt.Errorf("%w: response has no post id", driven.ErrPublish)
	}

	return model.PostResult{
		ID:  created.Data.ID,
		URL: statusURLBase + created.Data.ID,
	}, nil
}

// statusError builds the error for a non-2xx response, preferring the API's
// own detail message when present.
func statusError(status int, raw []byte) error {
	msg := http.StatusText(status)
	var apiErr apiErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Detail != "" {
		msg = apiErr.Detail
	}

	sentinel := driven.ErrPublish
	switch {
	case status == http.StatusUnauthorized:
		sentinel = driven.ErrAuthentication
	case status == http.StatusForbidden && slices.Contains(authProblemTypes, apiErr.Type):
		sentinel = driven.ErrAuthentication
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, msg)
}
