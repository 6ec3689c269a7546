package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/team8-2025-2026/AiAgents/internal/backend"
	"github.com/team8-2025-2026/AiAgents/internal/chat"
	"github.com/team8-2025-2026/AiAgents/internal/config"
	internalhttp "github.com/team8-2025-2026/AiAgents/internal/http"
	"github.com/team8-2025-2026/AiAgents/internal/session"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		log.Printf("REDIS_ADDR not set, sessions are in-memory and lost on restart")
		sessions = session.NewMemoryStore()
	}

	api := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	chats := chat.NewService(chat.MockSource{}, cfg.ChatReplyDelay)
	chat.StartJobs(ctx, cfg, chats)

	server := internalhttp.NewServer(ctx, cfg, api, sessions, chats, redisClient)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("webui http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
