// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package httpx provides the outbound HTTP client for the Clinera REST API.

It abstracts away bearer credential injection, request correlation, and common
body decoding patterns, ensuring consistent error classification and type safety.

Architecture:

  - One Door: Every network call in the client core goes through [Client].
  - Correlation: Each request carries a UUIDv7 X-Request-ID for backend log joins.
  - Classification: Non-2xx statuses and transport failures are wrapped as
    [apperr.AppError] values so callers branch on failure class, never on codes.
*/
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clinera/clinera/internal/platform/apperr"
	"github.com/clinera/clinera/internal/platform/ctxutil"
	"github.com/clinera/clinera/pkg/uuid"
)

// maxBodyBytes caps response reads so a misbehaving backend cannot exhaust
// client memory. 4 MiB comfortably covers the largest search result page.
const maxBodyBytes = 4 << 20

// Client is a thin, safe wrapper around [http.Client] bound to one API base URL.
type Client struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger
}

// NewClient constructs a [Client] for the given API base URL.
//
// # Parameters
//   - baseURL: Root of the Clinera REST API (scheme + host, optional prefix).
//   - timeout: Per-request deadline applied on top of any context deadline.
//   - logger: Structured logger for request diagnostics.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("httpx: base URL %q must include scheme and host", baseURL)
	}

	return &Client{
		base:   parsed,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

/*
GetJSON issues an authenticated GET request and decodes the 2xx JSON body.

Description: The single suspension point of the client core. Transport errors
come back as Transient, 401/403 as AuthRejected, other statuses per
[apperr.FromStatus]. The response body is decoded only on success.

Parameters:
  - ctx: context.Context (deadline and cancellation)
  - path: API path relative to the base URL (e.g. "/auth/me")
  - query: optional query parameters (nil allowed)
  - token: bearer credential, empty for anonymous calls
  - target: pointer to the decode destination, nil to discard the body

Returns:
  - error: nil on 2xx, classified [apperr.AppError] otherwise
*/
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, token string, target interface{}) error {

	// Resolve the absolute request URL against the configured base.
	requestURL := *c.base
	requestURL.Path = strings.TrimRight(requestURL.Path, "/") + path
	if query != nil {
		requestURL.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("httpx: build request: %w", err))
	}

	// Correlation ID: reuse one from the context if a caller set it,
	// otherwise mint a fresh UUIDv7.
	requestID := ctxutil.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New()
	}
	request.Header.Set("X-Request-ID", requestID)
	request.Header.Set("Accept", "application/json")

	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		// Transport failure: DNS, refused connection, timeout. Swallowed
		// upstream per the client failure policy, but logged here once.
		c.logger.Warn("api request failed",
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return apperr.Transient(err)
	}
	defer func() {
		// Drain so the underlying connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBodyBytes))
		_ = response.Body.Close()
	}()

	c.logger.Debug("api request completed",
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", response.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if appErr := apperr.FromStatus(response.StatusCode); appErr != nil {
		return appErr
	}

	if target == nil {
		return nil
	}

	body := io.LimitReader(response.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return apperr.Internal(fmt.Errorf("httpx: decode %s response: %w", path, err))
	}

	return nil
}
