package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"eventfinder/internal/cache"
	"eventfinder/internal/config"
	"eventfinder/internal/events"
	"eventfinder/internal/geocode"
	"eventfinder/internal/handler"
	"eventfinder/internal/llm"
	"eventfinder/internal/ranker"
	"eventfinder/internal/repository"
	"eventfinder/internal/router"
	"eventfinder/internal/service"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		log.Fatalf("database not ready: %v", err)
	}
	log.Println("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			log.Fatalf("failed to migrate down %v", err)
		}
		log.Println("migrations dropped")
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		log.Fatalf("failed to migrate up %v", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis url %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	recCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := recCache.Ping(ctx); err != nil {
		log.Fatalf("redis not ready: %v", err)
	}
	log.Println("connected to Redis")

	// ------------ Wiring ---------------
	geocoder := geocode.NewClient(cfg.NominatimURL, cfg.HTTPTimeout)
	aggregator := events.NewAggregator(buildSources(cfg, geocoder)...)
	log.Printf("active event sources: %v", aggregator.SourceNames())

	var completer service.Completer
	if cfg.OpenAIKey != "" {
		completer = llm.NewClient(cfg.OpenAIKey, cfg.HTTPTimeout)
	} else {
		log.Println("OPENAI_API_KEY not set, using basic event summaries")
	}

	repo := repository.New(pool)
	svc := service.NewService(repo, recCache, aggregator, ranker.New(), completer)
	h := handler.NewHandler(svc, geocoder, cfg.ResponseFormat)

	// ---------------- Server --------------------
	log.Printf("Server running on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), router.Setup(h)))
}

// buildSources activates each event API whose key is configured.
func buildSources(cfg *config.Config, geocoder *geocode.Client) []events.Source {
	var sources []events.Source
	if cfg.TicketmasterKey != "" {
		sources = append(sources, events.NewTicketmaster(cfg.TicketmasterKey, geocoder, cfg.HTTPTimeout))
	}
	if cfg.SeatGeekKey != "" {
		sources = append(sources, events.NewSeatGeek(cfg.SeatGeekKey, cfg.HTTPTimeout))
	}
	if cfg.MeetupKey != "" {
		sources = append(sources, events.NewMeetup(cfg.MeetupKey, geocoder, cfg.HTTPTimeout))
	}
	if cfg.VividSeatsKey != "" {
		sources = append(sources, events.NewVividSeats(cfg.VividSeatsKey, geocoder, cfg.HTTPTimeout))
	}
	return sources
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations applied successfully")
	return nil
}
