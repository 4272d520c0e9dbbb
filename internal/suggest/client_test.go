package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/pkg/logger"
)

func geminiReply(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	require.NoError(t, err)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, Model: "gemini-test", APIKey: "k3y"}, logger.Discard(),
		WithHTTPClient(srv.Client()))
	return c, &hits
}

func TestSuggest_Success(t *testing.T) {
	req := Request{Loves: "coffee", Hobbies: "hiking", Age: AgeSenior, Budget: BudgetHigh, Occasion: "Anniversary"}

	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k3y", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 1)
		prompt := body.Contents[0].Parts[0].Text
		for _, s := range []string{"coffee", "hiking", "Senior", "High", "Anniversary"} {
			assert.Contains(t, prompt, s)
		}

		_, _ = io.WriteString(w, geminiReply(t, "```json\n[{\"name\":\"A\",\"description\":\"B\",\"approximate_price\":\"$10\"}]\n```"))
	})

	got, err := c.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []models.Suggestion{{Name: "A", Description: "B", ApproximatePrice: "$10"}}, got)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSuggest_MissingInterestsSkipsNetwork(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Suggest(context.Background(), NewRequest("  ", ""))
	require.ErrorIs(t, err, ErrMissingInterests)
	assert.Zero(t, hits.Load())
}

func TestSuggest_HTTPStatus(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded"}}`)
	})

	_, err := c.Suggest(context.Background(), NewRequest("books", ""))
	require.ErrorIs(t, err, ErrHTTPStatus)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "quota exceeded", se.Message)
	assert.Contains(t, se.Error(), "429")
	assert.Equal(t, int32(1), hits.Load(), "no retry")
}

func TestSuggest_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"malformed envelope", `{"candidates":`, ErrDecoding},
		{"no candidates", `{"candidates":[]}`, ErrNoContent},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`, ErrNoContent},
		{"null text", `{"candidates":[{"content":{"parts":[{"text":null}]}}]}`, ErrNoContent},
		{"malformed inner json", "", ErrDecoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == "" {
				body = geminiReply(t, "Here are some ideas: [{\"name\":")
			}
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := c.Suggest(context.Background(), NewRequest("", "chess"))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSuggest_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, Model: "m", APIKey: "k"}, logger.Discard())
	_, err := c.Suggest(context.Background(), NewRequest("tea", ""))
	require.ErrorIs(t, err, ErrNetwork)
}

func TestSuggest_InvalidEndpoint(t *testing.T) {
	tests := []Config{
		{BaseURL: "", Model: "m", APIKey: "k"},
		{BaseURL: "https://example.com", Model: "", APIKey: "k"},
		{BaseURL: "https://example.com", Model: "m", APIKey: ""},
		{BaseURL: "not a url", Model: "m", APIKey: "k"},
		{BaseURL: "http://[::1", Model: "m", APIKey: "k"},
	}
	for _, cfg := range tests {
		c := NewClient(cfg, logger.Discard())
		_, err := c.Suggest(context.Background(), NewRequest("tea", ""))
		require.ErrorIs(t, err, ErrInvalidEndpoint, "%+v", cfg)
	}
}

func TestSuggest_ObserverSeesOutcome(t *testing.T) {
	var outcomes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "m", APIKey: "k"}, logger.Discard(),
		WithObserver(func(outcome string, _ time.Duration) { outcomes = append(outcomes, outcome) }))
	_, err := c.Suggest(context.Background(), NewRequest("tea", ""))
	require.Error(t, err)
	assert.Equal(t, []string{"http_status"}, outcomes)
}

func TestEndpoint(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://generativelanguage.googleapis.com", Model: "gemini-1.5-flash", APIKey: "a b"}, nil)
	u, err := c.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent?key=a+b", u.String())
}

func TestParseSuggestions(t *testing.T) {
	t.Run("null is not a list", func(t *testing.T) {
		for _, text := range []string{"null", "```json\nnull\n```"} {
			got, err := ParseSuggestions(text)
			require.ErrorIs(t, err, ErrDecoding, text)
			assert.Nil(t, got)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		got, err := ParseSuggestions("[]")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("fenced", func(t *testing.T) {
		got, err := ParseSuggestions("```json\n[{\"name\":\"A\",\"description\":\"B\",\"approximate_price\":\"$10\"}]\n```")
		require.NoError(t, err)
		assert.Equal(t, []models.Suggestion{{Name: "A", Description: "B", ApproximatePrice: "$10"}}, got)
	})

	t.Run("any length", func(t *testing.T) {
		items := make([]string, 7)
		for i := range items {
			items[i] = `{"name":"n","description":"d","approximate_price":"p"}`
		}
		got, err := ParseSuggestions("  [" + strings.Join(items, ",") + "]  ")
		require.NoError(t, err)
		assert.Len(t, got, 7)

		got, err = ParseSuggestions("[]")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("partial record", func(t *testing.T) {
		_, err := ParseSuggestions(`[{"name":"A","description":"B"}]`)
		require.ErrorIs(t, err, ErrDecoding)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseSuggestions("Sorry, I can only help with gifts.")
		require.ErrorIs(t, err, ErrDecoding)
	})
}

func TestRequestParsing(t *testing.T) {
	a, err := ParseAgeGroup("teenager")
	require.NoError(t, err)
	assert.Equal(t, AgeTeenager, a)
	_, err = ParseAgeGroup("toddler")
	require.Error(t, err)

	b, err := ParseBudget(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, BudgetHigh, b)
	_, err = ParseBudget("free")
	require.Error(t, err)

	r := NewRequest("x", "")
	assert.Equal(t, AgeAdult, r.Age)
	assert.Equal(t, BudgetMedium, r.Budget)
	assert.Equal(t, "Birthday", r.Occasion)
}
