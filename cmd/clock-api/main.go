// Command clock-api serves the clock solver over HTTP.
//
// Usage:
//
//	clock-api -addr 127.0.0.1:5000 -redis localhost:6379 -cache-ttl 24h
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Arcadaos/ffxiii2-enigme/internal/solver"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "Listen address")
	redisAddr := flag.String("redis", "", "Redis address for caching answers (empty = no cache)")
	cacheTTL := flag.Duration("cache-ttl", 24*time.Hour, "How long cached answers are kept (0 = forever)")
	maxDials := flag.Int("max-dials", 0, "Reject clocks with more dials than this (0 = no limit)")
	flag.Parse()

	logger := log.New(os.Stderr, "[api] ", log.LstdFlags)

	opts := []solver.ServerOption{
		solver.WithServerLogger(logger),
		solver.WithMaxDials(*maxDials),
	}
	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Printf("redis %s unreachable, answers will not be cached: %v", *redisAddr, err)
		} else {
			opts = append(opts, solver.WithCache(solver.NewRedisCache(client, *cacheTTL)))
			logger.Printf("caching answers in redis %s", *redisAddr)
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           solver.NewServer(opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
	logger.Printf("stopped")
}
