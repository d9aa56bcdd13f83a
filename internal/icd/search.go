// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/clinera/clinera/internal/platform/constants"
)

// # Widget State

// View is an immutable snapshot of the widget state handed to the render
// callback after every transition.
type View struct {
	// RawQuery is the literal text currently in the input.
	RawQuery string
	// Query is the promoted (debounced) query driving Results.
	Query string
	// Results is the ordered match set for Query.
	Results []Result
	// Highlight is the index of the keyboard-highlighted row, always within
	// [0, len(Results)-1] when Results is non-empty.
	Highlight int
	// Offset is the viewport scroll position in pixels.
	Offset int
	// Open reports whether the result list is visible.
	Open bool
	// Fetching reports whether a lookup is in flight (drives the spinner).
	Fetching bool
	// Window is the materialized slice of Results for the current Offset.
	Window Window
}

// Config wires a [Searcher]'s dependencies and tuning.
type Config struct {
	Cache   Cache
	Fetcher Fetcher
	Token   TokenSource
	Logger  *slog.Logger

	// DebounceWindow overrides the quiescence delay. Zero selects the default.
	DebounceWindow time.Duration
	// MinQueryRunes overrides the lookup gate. Zero selects the default.
	MinQueryRunes int
	// Geometry overrides the viewport dimensions. Zero selects the default.
	Geometry Geometry

	// OnUpdate receives a [View] after every state transition.
	OnUpdate func(View)
	// OnSelect receives the committed selection.
	OnSelect func(Result)
}

// # Searcher

// Searcher orchestrates the typeahead lifecycle for one search input.
//
// # Concurrency
//
// Keystrokes mutate state synchronously under one mutex; lookups run on the
// debounce timer goroutine. Every dispatched lookup carries a monotonic
// sequence number and only the latest may update visible state, so a slow
// response for an abandoned query can never overwrite newer results. Stale
// responses are still cached.
type Searcher struct {
	mu sync.Mutex

	base     context.Context
	cache    Cache
	fetcher  Fetcher
	token    TokenSource
	logger   *slog.Logger
	limiter  *rate.Limiter
	geometry Geometry
	minRunes int

	debouncer *Debouncer

	rawQuery  string
	promoted  string
	results   []Result
	highlight int
	offset    int
	open      bool
	inflight  int
	seq       uint64

	onUpdate func(View)
	onSelect func(Result)
}

// NewSearcher constructs a [Searcher].
//
// # Parameters
//   - ctx: Lifecycle context; lookups dispatched after it is cancelled fail
//     quietly as empty results.
//   - cfg: Dependencies and tuning. Cache, Fetcher, Token and Logger are
//     required.
func NewSearcher(ctx context.Context, cfg Config) *Searcher {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = constants.DebounceWindow
	}
	if cfg.MinQueryRunes <= 0 {
		cfg.MinQueryRunes = constants.MinQueryRunes
	}
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = DefaultGeometry
	}

	searcher := &Searcher{
		base:     ctx,
		cache:    cfg.Cache,
		fetcher:  cfg.Fetcher,
		token:    cfg.Token,
		logger:   cfg.Logger,
		limiter:  rate.NewLimiter(rate.Limit(constants.SearchRateLimit), constants.SearchRateBurst),
		geometry: cfg.Geometry,
		minRunes: cfg.MinQueryRunes,
		onUpdate: cfg.OnUpdate,
		onSelect: cfg.OnSelect,
	}
	searcher.debouncer = NewDebouncer(cfg.DebounceWindow, searcher.lookup)

	return searcher
}

// # Input Handling

// SetQuery records a keystroke. The raw query updates synchronously (the
// input is never blocked); promotion to a lookup is debounced, and any
// pending promotion is cancelled by the next keystroke.
func (searcher *Searcher) SetQuery(raw string) {
	searcher.mu.Lock()
	searcher.rawQuery = raw

	if raw == "" {
		// Cleared input closes the list immediately; no lookup fires and any
		// in-flight response is invalidated.
		searcher.promoted = ""
		searcher.results = nil
		searcher.highlight = 0
		searcher.offset = 0
		searcher.open = false
		searcher.seq++
		searcher.mu.Unlock()

		searcher.debouncer.Stop()
		searcher.notifyView()
		return
	}
	searcher.mu.Unlock()

	searcher.debouncer.Trigger(raw)
	searcher.notifyView()
}

// Stop cancels any pending promotion. Called on widget teardown.
func (searcher *Searcher) Stop() {
	searcher.debouncer.Stop()
}

// # Lookup Pipeline

// lookup promotes a debounced query: gate, cache, then network.
// Runs on the debounce timer goroutine.
func (searcher *Searcher) lookup(raw string) {
	key := NormalizeQuery(raw)

	searcher.mu.Lock()
	searcher.promoted = raw
	searcher.seq++
	seq := searcher.seq
	searcher.mu.Unlock()

	// Queries below the gate are too broad to send anywhere.
	if utf8.RuneCountInString(key) < searcher.minRunes {
		searcher.apply(seq, nil, false)
		return
	}

	ctx, cancel := context.WithTimeout(searcher.base, constants.DefaultRequestTimeout)
	defer cancel()

	// Cache hit skips the network entirely.
	if cached, found := searcher.cache.Get(ctx, key); found {
		searcher.apply(seq, cached, true)
		return
	}

	searcher.fetchStarted()
	defer searcher.fetchFinished()

	if err := searcher.limiter.Wait(ctx); err != nil {
		// Limiter aborts only when the context dies; render as no results.
		searcher.logger.Warn("code search throttled out",
			slog.String("query", key),
			slog.Any("error", err),
		)
		searcher.apply(seq, nil, true)
		return
	}

	results, err := searcher.fetcher.Search(ctx, searcher.token(), raw)
	if err != nil {
		// Transport failures and non-2xx render identically to zero matches.
		results = []Result{}
	}

	// Store even empty result sets, and store stale responses too: a lookup
	// the user has moved past is still a valid answer for its own query.
	searcher.cache.Set(ctx, key, results)

	searcher.apply(seq, results, true)
}

// apply installs a result set if, and only if, it is still the latest
// dispatched lookup. The highlight resets whenever the result set changes.
func (searcher *Searcher) apply(seq uint64, results []Result, open bool) {
	searcher.mu.Lock()
	if seq != searcher.seq {
		searcher.mu.Unlock()
		return
	}

	searcher.results = results
	searcher.highlight = 0
	searcher.offset = 0
	searcher.open = open
	searcher.mu.Unlock()

	searcher.notifyView()
}

// fetchStarted marks a lookup in flight. The spinner follows the counter so
// overlapping lookups cannot strand it on.
func (searcher *Searcher) fetchStarted() {
	searcher.mu.Lock()
	searcher.inflight++
	searcher.mu.Unlock()
	searcher.notifyView()
}

// fetchFinished is the finally-equivalent path: the spinner always clears.
func (searcher *Searcher) fetchFinished() {
	searcher.mu.Lock()
	searcher.inflight--
	searcher.mu.Unlock()
	searcher.notifyView()
}

// # Keyboard Navigation

// MoveDown moves the highlight one row down, clamped to the result bounds.
func (searcher *Searcher) MoveDown() { searcher.move(1) }

// MoveUp moves the highlight one row up, clamped to the result bounds.
func (searcher *Searcher) MoveUp() { searcher.move(-1) }

// move shifts the highlight and auto-scrolls by exactly one row height when
// the newly highlighted row would fall outside the visible window.
func (searcher *Searcher) move(delta int) {
	searcher.mu.Lock()

	if !searcher.open || len(searcher.results) == 0 {
		searcher.mu.Unlock()
		return
	}

	next := searcher.highlight + delta
	if next < 0 {
		next = 0
	}
	if last := len(searcher.results) - 1; next > last {
		next = last
	}
	if next == searcher.highlight {
		// Already at the boundary: no state change, no notification.
		searcher.mu.Unlock()
		return
	}
	searcher.highlight = next

	// One row height per step. Fast repeated presses can outrun this, which
	// is an accepted simplification of the picker.
	top := searcher.offset / searcher.geometry.RowHeight
	bottom := top + searcher.geometry.VisibleRows - 1
	switch {
	case next > bottom:
		searcher.offset += searcher.geometry.RowHeight
	case next < top:
		searcher.offset -= searcher.geometry.RowHeight
	}
	searcher.offset = searcher.geometry.ClampOffset(searcher.offset, len(searcher.results))

	searcher.mu.Unlock()
	searcher.notifyView()
}

// Scroll records a new viewport offset and recomputes the window.
func (searcher *Searcher) Scroll(offset int) {
	searcher.mu.Lock()
	searcher.offset = searcher.geometry.ClampOffset(offset, len(searcher.results))
	searcher.mu.Unlock()
	searcher.notifyView()
}

// # Selection

// Choose highlights the given row (a click) and commits it.
func (searcher *Searcher) Choose(index int) {
	searcher.mu.Lock()
	if searcher.open && len(searcher.results) > 0 {
		if index < 0 {
			index = 0
		}
		if last := len(searcher.results) - 1; index > last {
			index = last
		}
		searcher.highlight = index
	}
	searcher.mu.Unlock()

	searcher.Commit()
}

// Commit hands the highlighted row to the selection callback, clears the
// input, closes the list and resets the highlight. With no results this is a
// no-op, so Enter on an empty list cannot dispatch anything.
func (searcher *Searcher) Commit() {
	searcher.mu.Lock()

	if !searcher.open || len(searcher.results) == 0 {
		searcher.mu.Unlock()
		return
	}

	selected := searcher.results[searcher.highlight]
	searcher.rawQuery = ""
	searcher.promoted = ""
	searcher.results = nil
	searcher.highlight = 0
	searcher.offset = 0
	searcher.open = false
	searcher.seq++
	callback := searcher.onSelect
	searcher.mu.Unlock()

	searcher.debouncer.Stop()
	if callback != nil {
		callback(selected)
	}
	searcher.notifyView()
}

// # Observation

// View returns an immutable snapshot of the widget state.
func (searcher *Searcher) View() View {
	searcher.mu.Lock()
	defer searcher.mu.Unlock()
	return searcher.viewLocked()
}

// viewLocked builds a View. Caller must hold the lock.
func (searcher *Searcher) viewLocked() View {
	return View{
		RawQuery:  searcher.rawQuery,
		Query:     searcher.promoted,
		Results:   searcher.results,
		Highlight: searcher.highlight,
		Offset:    searcher.offset,
		Open:      searcher.open,
		Fetching:  searcher.inflight > 0,
		Window:    searcher.geometry.Window(searcher.offset, len(searcher.results)),
	}
}

// notifyView publishes the current view to the render callback.
func (searcher *Searcher) notifyView() {
	searcher.mu.Lock()
	view := searcher.viewLocked()
	callback := searcher.onUpdate
	searcher.mu.Unlock()

	if callback != nil {
		callback(view)
	}
}
