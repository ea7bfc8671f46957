package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorerStub struct {
	scoreFn func(ctx context.Context, text string) (float64, error)
	calls   atomic.Int64
}

func (s *scorerStub) Score(ctx context.Context, text string) (float64, error) {
	s.calls.Add(1)
	return s.scoreFn(ctx, text)
}

func TestClient_Score(t *testing.T) {
	t.Parallel()

	t.Run("returns score from service", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "hello world", req["message"])

			fmt.Fprintln(w, `{"score": 0.12}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		score, err := client.Score(context.Background(), "hello world")
		require.NoError(t, err)
		assert.InDelta(t, 0.12, score, 1e-9)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.Score(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("missing score field is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.Score(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("timeout is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			fmt.Fprintln(w, `{"score": 0}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 20*time.Millisecond)
		_, err := client.Score(context.Background(), "text")
		assert.Error(t, err)
	})
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	t.Run("all clean fields pass", func(t *testing.T) {
		t.Parallel()

		stub := &scorerStub{scoreFn: func(_ context.Context, _ string) (float64, error) {
			return 0.2, nil
		}}
		verdict := NewChecker(stub).Check(context.Background(), map[string]string{
			"title":   "a title",
			"content": "some content",
		})

		assert.True(t, verdict.Allowed)
		assert.Empty(t, verdict.Failing)
		assert.Empty(t, verdict.Unavailable)
		assert.EqualValues(t, 2, stub.calls.Load())
	})

	t.Run("every failing field is reported", func(t *testing.T) {
		t.Parallel()

		stub := &scorerStub{scoreFn: func(_ context.Context, text string) (float64, error) {
			if text == "clean" {
				return 0, nil
			}
			return 1.5, nil
		}}
		verdict := NewChecker(stub).Check(context.Background(), map[string]string{
			"title":   "bad",
			"content": "worse",
			"extra":   "clean",
		})

		assert.False(t, verdict.Allowed)
		assert.Len(t, verdict.Failing, 2)
		assert.InDelta(t, 1.5, verdict.Failing["title"], 1e-9)
		assert.InDelta(t, 1.5, verdict.Failing["content"], 1e-9)
	})

	t.Run("score at threshold rejects", func(t *testing.T) {
		t.Parallel()

		stub := &scorerStub{scoreFn: func(_ context.Context, _ string) (float64, error) {
			return RejectThreshold, nil
		}}
		verdict := NewChecker(stub).Check(context.Background(), map[string]string{"content": "edge"})

		assert.False(t, verdict.Allowed)
	})

	t.Run("scorer error fails closed", func(t *testing.T) {
		t.Parallel()

		stub := &scorerStub{scoreFn: func(_ context.Context, _ string) (float64, error) {
			return 0, errors.New("service down")
		}}
		verdict := NewChecker(stub).Check(context.Background(), map[string]string{
			"title":   "anything",
			"content": "anything",
		})

		assert.False(t, verdict.Allowed)
		assert.Empty(t, verdict.Failing)
		assert.Equal(t, []string{"content", "title"}, verdict.Unavailable)
	})

	t.Run("no fields passes trivially", func(t *testing.T) {
		t.Parallel()

		stub := &scorerStub{scoreFn: func(_ context.Context, _ string) (float64, error) {
			return 0, nil
		}}
		verdict := NewChecker(stub).Check(context.Background(), nil)

		assert.True(t, verdict.Allowed)
		assert.Zero(t, stub.calls.Load())
	})
}
