package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rgehrsitz/itax/internal/cache"
	"github.com/rgehrsitz/itax/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the comparator over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		debugMode, _ := cmd.Flags().GetBool("debug")
		logger := cliLogger{debug: debugMode}

		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		origins, _ := cmd.Flags().GetString("allowed-origins")

		srv := server.New(engine)
		srv.SetLogger(logger)
		srv.CacheTTL = ttl
		if origins != "" {
			for _, o := range strings.Split(origins, ",") {
				srv.AllowedOrigins = append(srv.AllowedOrigins, strings.TrimSpace(o))
			}
		}
		srv.Cache = newStore(cmd.Context(), redisAddr, logger)

		httpServer := &http.Server{
			Addr:              addr,
			Handler:           h2c.NewHandler(srv.Handler(), &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s (rules %s)", addr, engine.Rules.Fingerprint())
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

// newStore returns a Redis store when addr is set and reachable, else an
// in-process store.
func newStore(ctx context.Context, addr string, logger cliLogger) cache.Store {
	if addr == "" {
		return cache.NewMemoryStore()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	store := cache.NewRedisStore(addr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warnf("redis at %s unavailable, using in-memory cache: %v", addr, err)
		store.Close()
		return cache.NewMemoryStore()
	}
	logger.Infof("caching results in redis at %s", addr)
	return store
}

func init() {
	serveCmd.Flags().String("addr", envOr("ITAX_ADDR", ":8080"), "Listen address (env ITAX_ADDR)")
	serveCmd.Flags().String("redis", os.Getenv("ITAX_REDIS_ADDR"), "Redis address for the result cache (env ITAX_REDIS_ADDR)")
	ttl, err := time.ParseDuration(envOr("ITAX_CACHE_TTL", "1h"))
	if err != nil {
		ttl = time.Hour
	}
	serveCmd.Flags().Duration("cache-ttl", ttl, "Result cache TTL (env ITAX_CACHE_TTL)")
	serveCmd.Flags().String("allowed-origins", os.Getenv("ITAX_ALLOWED_ORIGINS"), "Comma-separated CORS origins (env ITAX_ALLOWED_ORIGINS)")
}
