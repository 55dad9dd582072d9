package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Codeforces public read API. All calls go through the
// shared Limiter and validate the response envelope's status before use.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *Limiter

	// submissionWindow bounds how far back HasSolved looks in a member's
	// submission history. 500 catches solves made before the member joined
	// the club, at the cost of a larger judge response per check.
	submissionWindow int
}

type Option func(*Client)

// WithSubmissionWindow overrides the lookback bound for HasSolved.
func WithSubmissionWindow(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.submissionWindow = n
		}
	}
}

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(baseURL string, limiter *Limiter, opts ...Option) *Client {
	c := &Client{
		http:             &http.Client{Timeout: 10 * time.Second},
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		limiter:          limiter,
		submissionWindow: 500,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProblemInfo is the judge's metadata for a problem.
type ProblemInfo struct {
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// UserInfo is the judge's public profile for a handle.
type UserInfo struct {
	Handle    string  `json:"handle"`
	Rating    *int    `json:"rating,omitempty"`
	MaxRating *int    `json:"max_rating,omitempty"`
	Rank      *string `json:"rank,omitempty"`
	Avatar    string  `json:"avatar,omitempty"`
}

// Wire types, matching the Codeforces API field names.

type apiEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type apiProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating"`
	Tags      []string `json:"tags"`
}

type apiStandings struct {
	Problems []apiProblem `json:"problems"`
}

type apiProblemset struct {
	Problems []apiProblem `json:"problems"`
}

type apiSubmission struct {
	ContestID int        `json:"contestId"`
	Problem   apiProblem `json:"problem"`
	Verdict   string     `json:"verdict"`
}

type apiUser struct {
	Handle    string  `json:"handle"`
	Rating    *int    `json:"rating"`
	MaxRating *int    `json:"maxRating"`
	Rank      *string `json:"rank"`
	Avatar    string  `json:"avatar"`
}

// get performs a rate-limited GET against the API and returns the result
// payload. A non-"OK" envelope becomes an *APIError with the judge's comment.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("judge: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("judge: read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("judge: decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if envelope.Status != "OK" {
		return nil, &APIError{Comment: envelope.Comment}
	}
	return envelope.Result, nil
}

// FetchProblemInfo looks a problem up on the judge. contest.standings is the
// primary source; when its failure indicates the contest itself could not be
// resolved, the full problemset catalog is tried instead (needed for problems
// from gym-less rounds the standings endpoint refuses to serve).
func (c *Client) FetchProblemInfo(ctx context.Context, contestID int, index string) (*ProblemInfo, error) {
	result, err := c.get(ctx, fmt.Sprintf("/contest.standings?contestId=%d&from=1&count=1", contestID))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Comment, "contestId") {
			return c.fetchFromProblemset(ctx, contestID, index)
		}
		return nil, err
	}

	var standings apiStandings
	if err := json.Unmarshal(result, &standings); err != nil {
		return nil, fmt.Errorf("judge: decode standings: %w", err)
	}
	for _, p := range standings.Problems {
		if p.Index == index {
			return problemInfoFrom(contestID, p), nil
		}
	}
	return nil, fmt.Errorf("%w: %d%s", ErrProblemNotFound, contestID, index)
}

func (c *Client) fetchFromProblemset(ctx context.Context, contestID int, index string) (*ProblemInfo, error) {
	result, err := c.get(ctx, "/problemset.problems")
	if err != nil {
		return nil, err
	}
	var catalog apiProblemset
	if err := json.Unmarshal(result, &catalog); err != nil {
		return nil, fmt.Errorf("judge: decode problemset: %w", err)
	}
	for _, p := range catalog.Problems {
		if p.ContestID == contestID && p.Index == index {
			return problemInfoFrom(contestID, p), nil
		}
	}
	return nil, fmt.Errorf("%w: %d%s", ErrProblemNotFound, contestID, index)
}

func problemInfoFrom(contestID int, p apiProblem) *ProblemInfo {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ProblemInfo{
		ContestID: contestID,
		Index:     p.Index,
		Name:      p.Name,
		Rating:    p.Rating,
		Tags:      tags,
	}
}

// HasSolved reports whether the handle has an accepted submission for
// (contestID, index) among its most recent submissions; the lookback is
// bounded by the client's submission window.
func (c *Client) HasSolved(ctx context.Context, handle string, contestID int, index string) (bool, error) {
	result, err := c.get(ctx, fmt.Sprintf("/user.status?handle=%s&from=1&count=%d", handle, c.submissionWindow))
	if err != nil {
		return false, err
	}

	var submissions []apiSubmission
	if err := json.Unmarshal(result, &submissions); err != nil {
		return false, fmt.Errorf("judge: decode submissions: %w", err)
	}
	for _, sub := range submissions {
		if sub.ContestID == contestID && sub.Problem.Index == index && sub.Verdict == "OK" {
			return true, nil
		}
	}
	return false, nil
}

// FetchUserInfo returns the judge's public profile for a handle.
func (c *Client) FetchUserInfo(ctx context.Context, handle string) (*UserInfo, error) {
	result, err := c.get(ctx, fmt.Sprintf("/user.info?handles=%s", handle))
	if err != nil {
		return nil, err
	}

	var users []apiUser
	if err := json.Unmarshal(result, &users); err != nil {
		return nil, fmt.Errorf("judge: decode user info: %w", err)
	}
	if len(users) == 0 {
		return nil, &APIError{Comment: fmt.Sprintf("handle %s not found", handle)}
	}
	u := users[0]
	return &UserInfo{
		Handle:    u.Handle,
		Rating:    u.Rating,
		MaxRating: u.MaxRating,
		Rank:      u.Rank,
		Avatar:    u.Avatar,
	}, nil
}
