// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package moderation provides a resilient client for the external
// profanity-filtering API.
//
// Each call POSTs raw text to the provider and classifies the outcome:
// responses below 400 yield the censored text, 4xx responses are
// terminal ClientErrors, 5xx responses and transport failures are
// transient and retried with exponential backoff under a bounded budget.
package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Default retry policy values, matching the provider integration the
// service was built against: 3 retries beyond the first attempt.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 250 * time.Millisecond
)

// badWordsResponse is the provider's success payload.
type badWordsResponse struct {
	Content         string    `json:"content"`
	BadWordsTotal   int64     `json:"bad_words_total"`
	BadWordsList    []badWord `json:"bad_words_list"`
	CensoredContent string    `json:"censored_content"`
}

type badWord struct {
	Original    string `json:"original"`
	Word        string `json:"word"`
	Deviations  int64  `json:"deviations"`
	Info        int64  `json:"info"`
	ReplacedLen int64  `json:"replacedLen"`
}

// apiErrorResponse is the provider's error payload.
type apiErrorResponse struct {
	Message string `json:"message"`
}

// Policy is the retry policy for moderation calls: attempt budget, base
// backoff delay, and the transient-vs-terminal classification. A nil
// Retryable uses IsTransient.
type Policy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	Retryable  func(error) bool
}

// DefaultPolicy returns the production retry policy.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsTransient(err)
}

// Config configures a Client. Endpoint and APIKey are required. A nil
// HTTPClient uses http.DefaultClient; Metrics may be nil.
type Config struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Policy     Policy
	Metrics    *Metrics
}

// Client calls the external moderation API. It holds only read-only
// configuration and is safe for concurrent use by many in-flight
// requests.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	policy     Policy
	metrics    *Metrics
}

// NewClient creates a moderation Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, oops.Code("MODERATION_CONFIG_INVALID").Errorf("endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, oops.Code("MODERATION_CONFIG_INVALID").Errorf("api key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	policy := cfg.Policy
	if policy.MaxRetries == 0 && policy.BaseDelay == 0 {
		policy = DefaultPolicy()
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultBaseDelay
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		policy:     policy,
		metrics:    cfg.Metrics,
	}, nil
}

// Censor sends text to the provider and returns the censored version.
// Transient failures are retried with exponential backoff up to the
// policy's budget; the terminal error is one of ClientError, ServerError,
// or TransportError.
func (c *Client) Censor(ctx context.Context, text string) (string, error) {
	backoff := retry.WithMaxRetries(c.policy.MaxRetries, retry.NewExponential(c.policy.BaseDelay))

	attempts := 0
	var censored string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			c.metrics.recordRetry()
		}

		result, err := c.attempt(ctx, text)
		if err != nil {
			if c.policy.retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		censored = result
		return nil
	})
	if err != nil {
		c.metrics.recordOutcome(outcomeLabel(err))
		slog.Debug("moderation call failed",
			"attempts", attempts,
			"error", err,
		)
		return "", err
	}

	c.metrics.recordOutcome("success")
	return censored, nil
}

// attempt performs one HTTP exchange and classifies the result.
func (c *Client) attempt(ctx context.Context, text string) (string, error) {
	url := c.endpoint + "/bad_words?censor_character=*"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(text))
	if err != nil {
		return "", oops.Code("MODERATION_REQUEST_INVALID").Wrap(err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", &ServerError{Status: resp.StatusCode, Message: errorMessage(body)}
	case resp.StatusCode >= http.StatusBadRequest:
		return "", &ClientError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	var parsed badWordsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", oops.Code("MODERATION_BAD_RESPONSE").
			With("status", resp.StatusCode).
			Wrap(err)
	}
	return parsed.CensoredContent, nil
}

// errorMessage extracts the provider's {message} error body best-effort;
// an unparseable body keeps the numeric status with an empty message.
func errorMessage(body []byte) string {
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}

func outcomeLabel(err error) string {
	var clientErr *ClientError
	var serverErr *ServerError
	var transportErr *TransportError
	switch {
	case errors.As(err, &clientErr):
		return "client_error"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	default:
		return "error"
	}
}
