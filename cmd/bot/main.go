package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/shinobi-codex/internal/catalog"
	"github.com/KirkDiggler/shinobi-codex/internal/config"
	v2 "github.com/KirkDiggler/shinobi-codex/internal/discord/v2"
	"github.com/KirkDiggler/shinobi-codex/internal/discord/v2/routers"
	"github.com/KirkDiggler/shinobi-codex/internal/repositories/selections"
	"github.com/KirkDiggler/shinobi-codex/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	cat, err := loadCatalog(cfg.Codex.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Loaded %d characters", cat.Len())

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	providerConfig := &services.ProviderConfig{
		Catalog: cat,
		SelectionRepository: selections.NewInMemoryRepository(&selections.InMemoryConfig{
			TTL: cfg.Codex.SelectionTTL,
		}),
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	if cfg.Redis.URL != "" {
		log.Println("Connecting to Redis")

		redisClient, err = connectRedis(cfg.Redis.URL)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			log.Println("Falling back to in-memory selections")
		} else {
			log.Println("Successfully connected to Redis")
			providerConfig.SelectionRepository = selections.NewRedis(redisClient, cfg.Codex.SelectionTTL)
		}
	} else {
		log.Println("No REDIS_URL found, using in-memory selections")
	}

	serviceProvider := services.NewProvider(providerConfig)

	pipeline, err := v2.SetupPipeline(serviceProvider, &v2.Config{
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		DeferAfter:         2 * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to set up interaction pipeline: %v", err)
	}

	dg.AddHandler(v2.InteractionHandler(pipeline))

	if err := dg.Open(); err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		if closeErr := dg.Close(); closeErr != nil {
			log.Printf("Failed to close Discord connection: %v", closeErr)
		}
	}()

	// Empty guild ID registers global commands
	if _, err := dg.ApplicationCommandBulkOverwrite(cfg.Discord.AppID, cfg.Discord.GuildID, routers.Commands()); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	log.Printf("Loading catalog from %s", path)
	return catalog.LoadFile(path)
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
