// Package moderation scores user-submitted text against the external
// profanity service and decides whether a submission may be persisted.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/brrock/ronotbroyt.xyz/internal/middleware"
	"github.com/brrock/ronotbroyt.xyz/internal/observability"
)

// RejectThreshold is the lowest score that rejects a field.
const RejectThreshold = 1.0

// Scorer obtains a profanity score for a single piece of text.
// Higher means more profane; scores at or above RejectThreshold reject.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Client calls the hosted profanity scoring service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the service at baseURL. timeout bounds
// each scoring call; a timed-out field counts as unscored and rejects.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Message string `json:"message"`
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

// Score sends text to the scoring service and returns its score.
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(scoreRequest{Message: text})
	if err != nil {
		return 0, fmt.Errorf("encode moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("moderation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("moderation service returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode moderation response: %w", err)
	}
	if decoded.Score == nil {
		return 0, fmt.Errorf("moderation response missing score")
	}
	return *decoded.Score, nil
}

// Verdict is the outcome of checking a submission's text fields.
type Verdict struct {
	Allowed bool
	// Failing holds the score of every field that scored at or above
	// RejectThreshold.
	Failing map[string]float64
	// Unavailable lists fields whose score could not be obtained.
	// Unscored fields reject the submission.
	Unavailable []string
}

// Checker runs every field of a submission through a Scorer.
type Checker struct {
	scorer Scorer
}

func NewChecker(scorer Scorer) *Checker {
	return &Checker{scorer: scorer}
}

// Check scores all fields concurrently and reports every failure at once,
// so the author sees the full picture in a single round trip.
func (ch *Checker) Check(ctx context.Context, fields map[string]string) Verdict {
	type result struct {
		field string
		score float64
		err   error
	}

	results := make([]result, 0, len(fields))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, text := range fields {
		wg.Add(1)
		go func(name, text string) {
			defer wg.Done()
			ctx, span := observability.TraceModerationCall(ctx, name)
			defer span.End()

			start := time.Now()
			score, err := ch.scorer.Score(ctx, text)
			if err != nil {
				span.RecordError(err)
			}
			outcome := "passed"
			if err != nil {
				outcome = "unavailable"
			} else if score >= RejectThreshold {
				outcome = "rejected"
			}
			observability.ObserveModeration(outcome, start)

			mu.Lock()
			results = append(results, result{field: name, score: score, err: err})
			mu.Unlock()
		}(name, text)
	}
	wg.Wait()

	verdict := Verdict{Allowed: true, Failing: map[string]float64{}}
	for _, r := range results {
		switch {
		case r.err != nil:
			middleware.Logger.WarnContext(ctx, "moderation check unavailable",
				slog.String("field", r.field),
				slog.String("error", r.err.Error()),
			)
			verdict.Unavailable = append(verdict.Unavailable, r.field)
			verdict.Allowed = false
		case r.score >= RejectThreshold:
			verdict.Failing[r.field] = r.score
			verdict.Allowed = false
		}
	}
	sort.Strings(verdict.Unavailable)
	return verdict
}
