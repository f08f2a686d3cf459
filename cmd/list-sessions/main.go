package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/shinobi-codex/internal/repositories/selections"
)

func main() {
	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)
	defer client.Close()

	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	// TTL only matters for writes; listing never refreshes expiry
	repo := selections.NewRedis(client, selections.DefaultTTL)

	sessions, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}

	fmt.Printf("Found %d sessions:\n", len(sessions))
	for _, sess := range sessions {
		character := sess.Character
		if character == "" {
			character = "(unselected)"
		}
		fmt.Printf("  %s: %s, updated %s\n", sess.ID, character, sess.UpdatedAt.Format(time.RFC3339))
	}
}
