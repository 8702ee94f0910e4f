package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/talentmarket/shiftpulse/pkg/cache"
	"github.com/talentmarket/shiftpulse/pkg/listing"
	"github.com/talentmarket/shiftpulse/pkg/logging"
	"github.com/talentmarket/shiftpulse/pkg/report"
)

func main() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	logging.Setup(logging.ConfigFromEnv())

	baseURL := getEnv("BASE_URL", "http://localhost:3000")

	clientCfg := listing.DefaultConfig(baseURL)
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		clientCfg.PageSize = mustAtoi("PAGE_SIZE", v)
	}

	client, err := listing.New(clientCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create listing client")
	}

	reportCfg := report.DefaultConfig()
	if v := os.Getenv("TOP_N"); v != "" {
		reportCfg.TopN = mustAtoi("TOP_N", v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			log.Fatal().Err(err).Str("value", v).Msg("Invalid CACHE_TTL")
		}
		reportCfg.CacheTTL = ttl
	}

	// Cache is optional. Without REDIS_URL the report is computed fresh.
	var cacheManager *cache.Manager
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		cacheManager = cache.NewManager(redisClient)
	}

	reporter, err := report.NewReporter(client, cacheManager, reportCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create reporter")
	}

	ctx := context.Background()
	ranked, err := reporter.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Report failed")
	}

	if err := renderRanking(os.Stdout, getEnv("OUTPUT", "text"), ranked); err != nil {
		log.Fatal().Err(err).Msg("Failed to render ranking")
	}
}

// renderRanking writes the ranking in the requested format, "text" for one
// line per rank or "json" for machine consumption.
func renderRanking(w io.Writer, format string, ranked []report.WorkplaceCount) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	case "text":
		for i, wc := range ranked {
			fmt.Fprintf(w, "%d. %s (%d shifts)\n", i+1, wc.Name, wc.ShiftCount)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

func mustAtoi(name, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatal().Err(err).Str("value", value).Msgf("Invalid %s", name)
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
