// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package client talks to the chat-messages endpoint that answers each query.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"query-batch/internal/logger"
)

const (
	// ResponseMode is always blocking; streaming replies are not consumed.
	ResponseMode = "blocking"

	// NoAnswer replaces a missing or malformed answer field.
	NoAnswer = "No answer available"

	maxErrorBody = 512
)

var ErrNoEndpoint = errors.New("no API endpoint configured (set API_URL)")

// Options configures a Client.
type Options struct {
	URL     string
	APIKey  string
	User    string
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client sends queries to a single endpoint.
type Client struct {
	url    string
	apiKey string
	user   string
	http   *http.Client
}

// Request is the JSON body of a query.
type Request struct {
	Inputs         map[string]any `json:"inputs"`
	Query          string         `json:"query"`
	ResponseMode   string         `json:"response_mode"`
	ConversationID string         `json:"conversation_id"`
	User           string         `json:"user"`
}

// Response is the decoded reply. Only "answer" is interpreted.
type Response map[string]any

// Answer returns the answer field or NoAnswer when it is absent or not a string.
func (r Response) Answer() string {
	if s, ok := r["answer"].(string); ok {
		return s
	}
	return NoAnswer
}

// StatusError reports a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrNoEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.APIKey == "" {
		logger.Warn("API key is empty; requests will be sent without a usable bearer token")
	}
	return &Client{
		url:    opts.URL,
		apiKey: opts.APIKey,
		user:   opts.User,
		http:   httpClient,
	}, nil
}

// User returns the identifier sent with each request.
func (c *Client) User() string { return c.user }

// Query posts the text and decodes the JSON reply.
func (c *Client) Query(ctx context.Context, query string) (Response, error) {
	payload, err := json.Marshal(Request{
		Inputs:         map[string]any{},
		Query:          query,
		ResponseMode:   ResponseMode,
		ConversationID: "",
		User:           c.user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("Received response", "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := strings.TrimSpace(string(body))
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody] + "..."
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: excerpt}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out == nil {
		out = Response{}
	}
	return out, nil
}
