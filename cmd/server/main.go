package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legends-trivia/trivia/internal/catalog"
	"github.com/legends-trivia/trivia/internal/game"
	"github.com/legends-trivia/trivia/internal/levels"
	"github.com/legends-trivia/trivia/internal/platform/cache"
	"github.com/legends-trivia/trivia/internal/platform/config"
	"github.com/legends-trivia/trivia/internal/platform/database"
	"github.com/legends-trivia/trivia/internal/progress"
	"github.com/legends-trivia/trivia/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// The game cannot run without its question bank.
	questions, err := catalog.Load(cfg.Data.QuestionsPath)
	if err != nil {
		slog.Error("failed to load question catalog", "error", err)
		os.Exit(1)
	}

	lvls := levels.Load(cfg.Data.LevelsPath, questions, cfg.Data.LevelSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	b, err := newProgressBackend(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up progress backend", "backend", cfg.Progress.Backend, "error", err)
		os.Exit(1)
	}
	defer b.close()

	handler := &remote.Handler{
		Questions:   questions,
		Levels:      lvls,
		Progress:    b.store,
		ProgressFor: b.storeFor,
		Events:      b.events,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     newMux(handler, b.health),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "levels", lvls.TotalLevels(), "questions", questions.Len())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// backend bundles the configured progress source, its event logger,
// and the connection it may hold open. The file backend shares one
// store across connections; the hosted backends scope progress to the
// connecting player via storeFor.
type backend struct {
	store    progress.Store
	storeFor func(ctx context.Context, playerID string) (progress.Store, error)
	events   game.EventLogger
	health   func(context.Context) error // nil for the file backend
	close    func()
}

func newProgressBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Progress.Backend {
	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		var events game.EventLogger = game.NopEventLogger{}
		if cfg.Progress.Events {
			events = game.NewPostgresEventLogger(db.Pool)
		}
		return &backend{
			storeFor: func(ctx context.Context, playerID string) (progress.Store, error) {
				return progress.NewPostgresStore(ctx, db.Pool, playerID)
			},
			events: events,
			health: db.HealthCheck,
			close:  db.Close,
		}, nil

	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, err
		}
		return &backend{
			storeFor: func(_ context.Context, playerID string) (progress.Store, error) {
				return progress.NewRedisStore(c.Client, playerID)
			},
			events: game.NopEventLogger{},
			health: c.HealthCheck,
			close:  func() { c.Close() },
		}, nil

	default:
		return &backend{
			store:  progress.Open(cfg.Progress.Path),
			events: game.NopEventLogger{},
			close:  func() {},
		}, nil
	}
}

// newMux creates the HTTP router with the play and health endpoints.
// readyz reports the progress backend's reachability when one holds a
// connection.
func newMux(play http.Handler, health func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /play", play)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				slog.Warn("readiness check failed", "error", err)
				writeStatus(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":%q}`, status)
}
