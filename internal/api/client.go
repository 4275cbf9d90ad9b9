// Package api is the client for the remote example sentence service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/f3rmion/sentences/internal/sentences"
)

const (
	// FallbackErrorMessage is shown when the service fails without saying why.
	FallbackErrorMessage = "Failed to fetch examples"
	// UnexpectedErrorMessage is shown for transport and decoding failures.
	UnexpectedErrorMessage = "An unexpected error occurred. Please try again."

	apiKeyHeader   = "x-api-key"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrMissingBaseURL is returned when the client has no service URL.
var ErrMissingBaseURL = errors.New("api base URL not configured")

// Client issues lookups against the sentence service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for failure details.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// response is the JSON body returned by the service.
type response struct {
	Message   string              `json:"message"`
	Language  string              `json:"language"`
	Sentences []sentences.Example `json:"sentences"`
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		// Trim any whitespace/newlines that might have snuck in
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Execute performs exactly one lookup for term and folds every way it can end
// into an Outcome. It never returns raw transport errors to the caller.
func (c *Client) Execute(ctx context.Context, term string) sentences.Outcome {
	start := time.Now()
	log := c.logger.With(slog.String("term", term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(term), nil)
	if err != nil {
		log.Error("creating request", slog.String("error", err.Error()))
		return failure(0, UnexpectedErrorMessage)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("making request", slog.String("error", err.Error()))
		return failure(0, UnexpectedErrorMessage)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Error("reading response", slog.Int("status", resp.StatusCode), slog.String("error", err.Error()))
		return failure(resp.StatusCode, UnexpectedErrorMessage)
	}

	var data response
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := FallbackErrorMessage
		if decodeErr == nil && strings.TrimSpace(data.Message) != "" {
			msg = data.Message
		}
		log.Warn("lookup failed",
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
			slog.Duration("elapsed", time.Since(start)),
		)
		return failure(resp.StatusCode, msg)
	}

	if decodeErr != nil {
		log.Error("unmarshaling response", slog.Int("status", resp.StatusCode), slog.String("error", decodeErr.Error()))
		return failure(resp.StatusCode, UnexpectedErrorMessage)
	}

	examples := data.Sentences
	if examples == nil {
		examples = []sentences.Example{}
	}

	log.Info("lookup succeeded",
		slog.String("language", data.Language),
		slog.Int("examples", len(examples)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return sentences.Outcome{
		Kind:             sentences.OutcomeSuccess,
		DetectedLanguage: data.Language,
		Examples:         examples,
		Message:          data.Message,
		StatusCode:       resp.StatusCode,
	}
}

// endpoint builds {base-url}/{escaped term}.
func (c *Client) endpoint(term string) string {
	return c.baseURL + "/" + url.PathEscape(term)
}

func failure(status int, msg string) sentences.Outcome {
	return sentences.Outcome{
		Kind:       sentences.OutcomeError,
		Message:    msg,
		StatusCode: status,
	}
}
