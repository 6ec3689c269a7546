package chat

import (
	"context"
	"log"
	"time"

	"github.com/team8-2025-2026/AiAgents/internal/config"
)

// StartJobs runs the periodic background work for chat state: refreshing each
// known user's list from the source and purging long-deleted chats. Stops
// when ctx is cancelled.
func StartJobs(ctx context.Context, cfg config.Config, svc *Service) {
	if !cfg.ChatJobsEnabled {
		return
	}
	interval := cfg.ChatRefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	purgeAfter := cfg.ChatPurgeAfter
	if purgeAfter <= 0 {
		purgeAfter = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, owner := range svc.Owners() {
					since := svc.Seq(owner)
					tickCtx, cancel := context.WithTimeout(ctx, interval)
					applied, err := svc.Refresh(tickCtx, owner, since)
					cancel()
					if err != nil {
						log.Printf("chat refresh error for %s: %v", owner, err)
						continue
					}
					if !applied {
						// Raced a local mutation; next tick retries.
						continue
					}
				}
				if purged := svc.PurgeDeleted(purgeAfter); purged > 0 {
					log.Printf("chat purge removed %d chats", purged)
				}
			}
		}
	}()
}
