// Command server runs the taskdeck HTTP API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/password"
	"github.com/taskdeck/taskdeck/internal/ratelimit"
	sqlstore "github.com/taskdeck/taskdeck/internal/store/sql"
	"github.com/taskdeck/taskdeck/internal/tasks"
	"github.com/taskdeck/taskdeck/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := sqlstore.New(sqlstore.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.Ping(ctx); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to %s database", sqlstore.DialectFromDSN(cfg.DatabaseURL))

	tokens := token.NewService(&token.Config{
		Secret:        cfg.JWTSecret,
		SigningMethod: cfg.SigningMethod,
		TTL:           cfg.AccessTokenTTL,
		ClockSkew:     cfg.ClockSkew,
	})

	authSvc, err := auth.NewService(st, password.NewBcryptHasher(password.DefaultBcryptCost))
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}

	limiter := newLimiter(cfg)
	if limiter != nil {
		defer limiter.Close()
	}

	a := api.New(api.Config{
		Auth:     authSvc,
		Resolver: auth.NewResolver(tokens, st),
		Tokens:   tokens,
		Tasks:    tasks.NewService(st),
		Store:    st,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.Router(),
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

// newLimiter builds the auth rate limiter: Redis-backed when REDIS_URL
// is set, in-memory otherwise, nil when disabled.
func newLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.AuthRateLimit == 0 {
		return nil
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse REDIS_URL: %v", err)
		}
		return ratelimit.NewRedisLimiter(&ratelimit.RedisConfig{
			Client: redis.NewClient(opts),
			Rate:   cfg.AuthRateLimit,
			Window: cfg.AuthRateWindow,
		})
	}

	return ratelimit.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
}
