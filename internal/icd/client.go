// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"context"
	"net/url"

	"github.com/clinera/clinera/internal/platform/constants"
	"github.com/clinera/clinera/internal/platform/httpx"
)

// # Contracts & Types

// Fetcher defines the remote code lookup round trip.
//
// # Why an interface?
//
// Decoupling the [Searcher] from the HTTP transport lets tests count and fake
// lookups without a live backend.
type Fetcher interface {
	// Search returns the ordered matches for the query. Errors are classified
	// via the apperr taxonomy; the Searcher maps every failure to an empty
	// result set, per the widget's failure policy.
	Search(ctx context.Context, token, query string) ([]Result, error)
}

// TokenSource supplies the current bearer credential for outbound lookups.
// Wired from the session store so the widget itself never owns auth state.
type TokenSource func() string

// # API Fetcher

// APIFetcher implements [Fetcher] against GET /icd/search.
type APIFetcher struct {
	api *httpx.Client
}

// NewFetcher creates an [APIFetcher] on the shared API client.
func NewFetcher(api *httpx.Client) *APIFetcher {
	return &APIFetcher{api: api}
}

/*
Search calls the code search endpoint.

Parameters:
  - ctx: context.Context
  - token: Bearer credential (empty for anonymous, which the backend rejects)
  - query: The promoted query text, passed verbatim as the q parameter

Returns:
  - []Result: Ordered matches, capped by the backend's response size
  - error: Classified [apperr.AppError] on any non-2xx or transport failure
*/
func (fetcher *APIFetcher) Search(ctx context.Context, token, query string) ([]Result, error) {
	params := url.Values{"q": []string{query}}

	var results []Result
	if err := fetcher.api.GetJSON(ctx, constants.PathCodeSearch, params, token, &results); err != nil {
		return nil, err
	}
	return results, nil
}
