// Package suggest asks a generative language model for gift ideas and turns
// its reply into typed suggestions.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/models"
)

// Config holds the endpoint settings of the generative language API.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Client calls the generateContent endpoint. It never retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logrus.Logger
	observe    func(outcome string, elapsed time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithObserver registers fn to be called after every request that reached the
// network stage, with "ok" or the error kind as outcome.
func WithObserver(fn func(outcome string, elapsed time.Duration)) Option {
	return func(cl *Client) { cl.observe = fn }
}

// NewClient creates a Client.
func NewClient(cfg Config, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Endpoint returns the generateContent URL including the API key.
func (c *Client) Endpoint() (*url.URL, error) {
	if c.cfg.BaseURL == "" || c.cfg.Model == "" || c.cfg.APIKey == "" {
		return nil, &Error{Kind: KindInvalidEndpoint, Err: errors.New("base URL, model and API key are required")}
	}
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, &Error{Kind: KindInvalidEndpoint, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &Error{Kind: KindInvalidEndpoint, Err: fmt.Errorf("base URL %q is not absolute", c.cfg.BaseURL)}
	}
	u = u.JoinPath("v1beta", "models", c.cfg.Model+":generateContent")
	u.RawQuery = url.Values{"key": {c.cfg.APIKey}}.Encode()
	return u, nil
}

// Suggest asks the model for gift ideas matching req. Failures are returned as
// *Error, except ErrMissingInterests which is returned before any network call.
func (c *Client) Suggest(ctx context.Context, req Request) ([]models.Suggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := c.Endpoint()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(req)}}}},
	})
	if err != nil {
		return nil, &Error{Kind: KindRequestEncoding, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindInvalidEndpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	suggestions, err := c.do(httpReq)
	c.record(err, time.Since(start))
	return suggestions, err
}

func (c *Client) do(httpReq *http.Request) ([]models.Suggestion, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil {
			e.Message = apiErr.Error.Message
		}
		return nil, e
	}

	var decoded generateResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &Error{Kind: KindDecoding, Err: err}
	}

	if len(decoded.Candidates) == 0 ||
		len(decoded.Candidates[0].Content.Parts) == 0 ||
		decoded.Candidates[0].Content.Parts[0].Text == nil {
		return nil, &Error{Kind: KindNoContent}
	}

	return ParseSuggestions(*decoded.Candidates[0].Content.Parts[0].Text)
}

func (c *Client) record(err error, elapsed time.Duration) {
	outcome := "ok"
	var se *Error
	if errors.As(err, &se) {
		outcome = se.Kind.String()
	}

	if c.logger != nil {
		entry := c.logger.WithFields(logrus.Fields{
			"model":    c.cfg.Model,
			"outcome":  outcome,
			"duration": elapsed,
		})
		if err != nil {
			entry.WithError(err).Warn("Gift suggestion request failed")
		} else {
			entry.Info("Gift suggestions generated")
		}
	}
	if c.observe != nil {
		c.observe(outcome, elapsed)
	}
}

type wireSuggestion struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	ApproximatePrice *string `json:"approximate_price"`
}

// ParseSuggestions decodes the model's text reply. Surrounding whitespace and
// markdown code fences are removed first. Every element must carry all three
// fields; any array length is accepted.
func ParseSuggestions(text string) ([]models.Suggestion, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var wire []wireSuggestion
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &Error{Kind: KindDecoding, Err: err}
	}
	if wire == nil {
		return nil, &Error{Kind: KindDecoding, Err: errors.New("reply is not a JSON array")}
	}

	out := make([]models.Suggestion, 0, len(wire))
	for i, w := range wire {
		if w.Name == nil || w.Description == nil || w.ApproximatePrice == nil {
			return nil, &Error{Kind: KindDecoding, Err: fmt.Errorf("suggestion %d is missing a field", i)}
		}
		out = append(out, models.Suggestion{
			Name:             *w.Name,
			Description:      *w.Description,
			ApproximatePrice: *w.ApproximatePrice,
		})
	}
	return out, nil
}
