package main

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/example/forum-platform/internal/forum/handlers"
	"github.com/example/forum-platform/internal/forum/store"
	"github.com/example/forum-platform/internal/platform/auth"
	"github.com/example/forum-platform/internal/platform/config"
	"github.com/example/forum-platform/internal/platform/db"
	"github.com/example/forum-platform/internal/platform/events"
	"github.com/example/forum-platform/internal/platform/httpserver"
	"github.com/example/forum-platform/internal/platform/logging"
	"github.com/example/forum-platform/internal/platform/natsconn"
	"github.com/example/forum-platform/internal/platform/run"
)

// forumStore is the full persistence surface the API needs. Both the
// Postgres and in-memory backends satisfy it.
type forumStore interface {
	store.UserStore
	store.ForumStore
	store.ThreadStore
	store.PostStore
	store.ServiceStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st, pool, closePool := initStore(cfg, log)
	if closePool != nil {
		defer closePool()
	}

	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, events disabled", zap.Error(err))
		nc = nil
	} else {
		defer nc.Close()
	}
	ev := events.New(nc, log)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error {
		if pool == nil {
			return nil
		}
		return pool.Ping(context.Background())
	}})

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/{nickname}/create", handlers.CreateUser(st, log))
		r.Get("/user/{nickname}/profile", handlers.GetUser(st, log))
		r.Post("/user/{nickname}/profile", handlers.UpdateUser(st, log))

		r.Post("/forum/create", handlers.CreateForum(st, log))
		r.Get("/forum/{slug}/details", handlers.GetForum(st, log))
		r.Post("/forum/{slug}/create", handlers.CreateThread(st, ev, log))
		r.Get("/forum/{slug}/threads", handlers.ListForumThreads(st, log))
		r.Get("/forum/{slug}/users", handlers.ListForumUsers(st, log))

		r.Get("/thread/{slugOrID}/details", handlers.GetThread(st, log))
		r.Post("/thread/{slugOrID}/details", handlers.UpdateThread(st, log))
		r.Post("/thread/{slugOrID}/create", handlers.CreatePosts(st, ev, log))
		r.Get("/thread/{slugOrID}/posts", handlers.ListPosts(st, log))
		r.Post("/thread/{slugOrID}/vote", handlers.VoteThread(st, ev, log))

		r.Get("/post/{id}/details", handlers.GetPost(st, log))
		r.Post("/post/{id}/details", handlers.UpdatePost(st, log))

		r.Get("/service/status", handlers.ServiceStatus(st, log))
		if cfg.AdminJWTSecret != "" {
			verifier := auth.JWTVerifier{Secret: []byte(cfg.AdminJWTSecret)}
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser(verifier))
				r.Use(auth.RequireAdmin)
				r.Post("/service/clear", handlers.ServiceClear(st, log))
			})
		} else {
			log.Warn("ADMIN_JWT_SECRET not set, /api/service/clear is unauthenticated (development only)")
			r.Post("/service/clear", handlers.ServiceClear(st, log))
		}
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStore selects the persistence backend. In production
// (APP_ENV=production) it requires a working Postgres connection and
// terminates the process otherwise.
func initStore(cfg config.AppConfig, log *zap.Logger) (forumStore, *pgxpool.Pool, func()) {
	fatal := func(msg string, err error) {
		log.Error(msg, zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	pool, err := db.Open(context.Background())
	if err != nil {
		if cfg.Production() {
			fatal("postgres is required in production but unavailable", err)
		}
		log.Warn("postgres unavailable, using in-memory store (development only)", zap.Error(err))
		return store.NewMemoryStore(), nil, nil
	}

	if err := store.Migrate(context.Background(), pool); err != nil {
		pool.Close()
		if cfg.Production() {
			fatal("schema migration failed", err)
		}
		log.Warn("schema migration failed, falling back to in-memory store", zap.Error(err))
		return store.NewMemoryStore(), nil, nil
	}

	log.Info("forum store: postgres")
	return store.NewPostgresStore(pool), pool, pool.Close
}
