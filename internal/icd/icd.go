// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package icd implements incremental search-as-you-type against the Clinera
ICD-11 code lookup endpoint.

It is the engine behind the diagnosis picker: keystrokes are debounced into
lookups, lookups are served from a shared cache before touching the network,
and arbitrarily long result lists stay cheap to render through a windowed
(virtualized) viewport with keyboard navigation.

# Architecture

  - Searcher: Orchestrates the query lifecycle (debounce, gate, cache, fetch).
  - Cache: Injected, bounded query cache (in-process or Redis-backed).
  - Fetcher: The remote lookup round trip.
  - Geometry: Pure viewport math for the virtualized result list.

# Failure Policy

A failed or non-2xx lookup renders as "no results", never as an error banner.
The spinner state is tied directly to fetch-in-flight and always clears.
*/
package icd

// Result is one ICD-11 match returned by the code search endpoint.
type Result struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}
