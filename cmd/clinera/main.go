// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

// Command clinera is the interactive terminal client for the Clinera API.
//
// # Startup Sequence
//
//  1. Initialize structured logger (stderr, so stdout stays interactive).
//  2. Load configuration from environment variables.
//  3. Open the token vault and initialize the session store.
//  4. Connect the shared query cache (Redis) when configured.
//  5. Wire the ICD search engine.
//  6. Run the command loop.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/clinera/clinera/internal/guard"
	"github.com/clinera/clinera/internal/icd"
	"github.com/clinera/clinera/internal/platform/config"
	"github.com/clinera/clinera/internal/platform/constants"
	"github.com/clinera/clinera/internal/platform/httpx"
	redisstore "github.com/clinera/clinera/internal/platform/redis"
	"github.com/clinera/clinera/internal/platform/sec"
	"github.com/clinera/clinera/internal/session"
)

// views maps the protected dashboards to their role allow-lists. The admin
// console additionally admits nobody else; every role still lands somewhere
// via its fallback route.
var views = map[string]*guard.Guard{
	"reception": guard.New(sec.RoleReceptionist, sec.RoleSuperAdmin),
	"assistant": guard.New(sec.RoleAssistant, sec.RoleSuperAdmin),
	"doctor":    guard.New(sec.RoleDoctor),
	"admin":     guard.New(sec.RoleSuperAdmin),
	"patients":  guard.New(), // any authenticated role
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "clinera"))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "clinera"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("client_initializing",
		slog.String("api", cfg.APIBaseURL),
		slog.String("environment", cfg.Environment),
	)

	// Root context, cancelled on SIGINT/SIGTERM so in-flight lookups die with
	// the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Session Store ──────────────────────────────────────────────────
	api, err := httpx.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, log)
	must(log, err, "build api client")

	vault, err := session.NewFileVault(cfg.VaultDir)
	must(log, err, "open token vault")

	store := session.NewStore(vault, session.NewIdentityFetcher(api), log)
	if err := store.Initialize(ctx); err != nil {
		log.Warn("session initialization incomplete", slog.Any("error", err))
	}

	// ── 4. Query Cache ────────────────────────────────────────────────────
	var cache icd.Cache = icd.NewMemoryCache(cfg.QueryCacheTTL, constants.QueryCacheSweep)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			// The shared cache is an optimization; fall back to in-process.
			log.Warn("shared cache unavailable, using in-process cache",
				slog.Any("error", err),
			)
		} else {
			defer func() { _ = rdb.Close() }()
			cache = icd.NewRedisCache(rdb, cfg.QueryCacheTTL, log)
		}
	}

	// ── 5. Search Engine ──────────────────────────────────────────────────
	updates := make(chan icd.View, 16)
	searcher := icd.NewSearcher(ctx, icd.Config{
		Cache:          cache,
		Fetcher:        icd.NewFetcher(api),
		Token:          func() string { return store.Snapshot().Token },
		Logger:         log,
		DebounceWindow: cfg.DebounceWindow,
		OnUpdate: func(view icd.View) {
			// Keep only the latest view; the loop drains on demand.
			select {
			case updates <- view:
			default:
			}
		},
		OnSelect: func(result icd.Result) {
			fmt.Printf("selected %s  %s\n", result.Code, result.Title)
		},
	})
	defer searcher.Stop()

	// ── 6. Command Loop ───────────────────────────────────────────────────
	runLoop(ctx, store, searcher, updates, cfg.DebounceWindow)

	log.Info("client stopped cleanly")
}

// runLoop reads commands from stdin until EOF, "quit", or signal.
func runLoop(ctx context.Context, store *session.Store, searcher *icd.Searcher, updates <-chan icd.View, debounce time.Duration) {
	fmt.Println("clinera " + constants.AppVersion + " — commands: login <token> | whoami | open <view> | find <text> | down | up | pick | logout | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command, args := fields[0], fields[1:]

		switch command {
		case "login":
			if len(args) != 1 {
				fmt.Println("usage: login <token>")
				continue
			}
			if err := store.Login(ctx, args[0], nil); err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			printSnapshot(store.Snapshot())

		case "whoami":
			// Re-issues the identity check; this is how a session escapes
			// the authenticating limbo after connectivity returns.
			_ = store.Verify(ctx)
			printSnapshot(store.Snapshot())

		case "open":
			if len(args) != 1 {
				fmt.Println("usage: open <" + strings.Join(viewNames(), "|") + ">")
				continue
			}
			gate, ok := views[args[0]]
			if !ok {
				fmt.Println("unknown view:", args[0])
				continue
			}
			printOutcome(args[0], gate.Evaluate(store.Snapshot()))

		case "find":
			if len(args) == 0 {
				fmt.Println("usage: find <text>")
				continue
			}
			searcher.SetQuery(strings.Join(args, " "))
			printResults(awaitResults(updates, debounce))

		case "down":
			searcher.MoveDown()
			printResults(searcher.View())

		case "up":
			searcher.MoveUp()
			printResults(searcher.View())

		case "pick":
			searcher.Commit()

		case "logout":
			if err := store.Logout(); err != nil {
				fmt.Println("logout incomplete:", err)
			}
			printSnapshot(store.Snapshot())

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", command)
		}
	}
}

// awaitResults drains view updates until the pending lookup settles.
func awaitResults(updates <-chan icd.View, debounce time.Duration) icd.View {
	// Debounce window + request timeout bounds the wait.
	deadline := time.After(debounce + constants.DefaultRequestTimeout + 250*time.Millisecond)
	var latest icd.View
	for {
		select {
		case view := <-updates:
			latest = view
			if view.Query != "" && !view.Fetching {
				return view
			}
		case <-deadline:
			return latest
		}
	}
}

func printSnapshot(snapshot session.Snapshot) {
	switch snapshot.State {
	case session.StateAuthenticated:
		fmt.Printf("%s: %s (%s)\n", snapshot.State, snapshot.Identity.DisplayName, snapshot.Identity.Role)
	default:
		fmt.Println(snapshot.State)
	}
}

func printOutcome(view string, outcome guard.Outcome) {
	switch outcome.Decision {
	case guard.DecisionAllow:
		fmt.Println("rendering", view)
	case guard.DecisionRedirect, guard.DecisionLoginRedirect:
		fmt.Println("redirect ->", outcome.Route)
	case guard.DecisionDenied:
		fmt.Println("Access Denied")
	default:
		fmt.Println(outcome.Decision)
	}
}

func printResults(view icd.View) {
	if len(view.Results) == 0 {
		fmt.Println("no results")
		return
	}
	window := view.Window
	for index := window.Start; index < window.End; index++ {
		marker := "  "
		if index == view.Highlight {
			marker = "> "
		}
		fmt.Printf("%s%-12s %s\n", marker, view.Results[index].Code, view.Results[index].Title)
	}
	fmt.Printf("(%d matches)\n", len(view.Results))
}

// viewNames lists the protected views for the usage line.
func viewNames() []string {
	names := make([]string, 0, len(views))
	for name := range views {
		names = append(names, name)
	}
	return names
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
