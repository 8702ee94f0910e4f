package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/talentmarket/shiftpulse/pkg/cache"
	"github.com/talentmarket/shiftpulse/pkg/listing"
	"github.com/talentmarket/shiftpulse/pkg/pagination"
)

// Config holds reporter configuration.
type Config struct {
	// TopN is the number of workplaces to keep in the ranking
	TopN int

	// CacheTTL is how long a computed ranking stays valid in the cache
	CacheTTL time.Duration
}

// DefaultConfig returns the default reporter configuration.
func DefaultConfig() Config {
	return Config{
		TopN:     3,
		CacheTTL: 1 * time.Minute,
	}
}

// Reporter materializes the workplaces and shifts collections through the
// listing client and computes the top-N ranking. A cache manager is optional;
// when present, a fresh cached ranking short-circuits both traversals.
type Reporter struct {
	client *listing.Client
	cache  *cache.Manager
	config Config
	logger zerolog.Logger
}

// NewReporter creates a new reporter. cacheManager may be nil to disable
// caching.
func NewReporter(client *listing.Client, cacheManager *cache.Manager, cfg Config) (*Reporter, error) {
	if client == nil {
		return nil, fmt.Errorf("listing client is required")
	}
	if cfg.TopN < 0 {
		return nil, fmt.Errorf("top-n must be non-negative (got %d)", cfg.TopN)
	}

	return &Reporter{
		client: client,
		cache:  cacheManager,
		config: cfg,
		logger: log.With().Str("component", "reporter").Logger(),
	}, nil
}

// Run produces the current top-N ranking. The two traversals run
// sequentially; they share no state, so this is simplicity, not a
// correctness requirement.
func (r *Reporter) Run(ctx context.Context) ([]WorkplaceCount, error) {
	key := r.cacheKey()

	if r.cache != nil {
		if ranked, ok := r.fromCache(ctx, key); ok {
			return ranked, nil
		}
	}

	start := time.Now()

	workplaces, err := pagination.FetchAll(ctx, r.client.WorkplacePage, pagination.Config{
		PageSize: r.client.PageSize(),
		Source:   "workplaces",
	})
	if err != nil {
		return nil, fmt.Errorf("traverse workplaces: %w", err)
	}

	shifts, err := pagination.FetchAllSharded(ctx, r.client.ShiftPage, pagination.Config{
		PageSize: r.client.PageSize(),
		Source:   "shifts",
	})
	if err != nil {
		return nil, fmt.Errorf("traverse shifts: %w", err)
	}

	ranked := TopWorkplaces(workplaces, shifts, r.config.TopN)

	r.logger.Info().
		Int("workplaces", len(workplaces)).
		Int("shifts", len(shifts)).
		Int("ranked", len(ranked)).
		Dur("duration", time.Since(start)).
		Msg("Ranking computed")

	if r.cache != nil {
		r.toCache(ctx, key, ranked)
	}

	return ranked, nil
}

func (r *Reporter) cacheKey() cache.Key {
	return cache.Key{
		Report: "top-workplaces",
		Params: map[string]string{
			"n":     strconv.Itoa(r.config.TopN),
			"limit": strconv.Itoa(r.client.PageSize()),
		},
	}
}

// fromCache returns a cached ranking if one is present and fresh. Cache
// failures never fail the report, they just force recomputation.
func (r *Reporter) fromCache(ctx context.Context, key cache.Key) ([]WorkplaceCount, bool) {
	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn().Err(err).Msg("Cache get error")
		}
		return nil, false
	}

	var ranked []WorkplaceCount
	if err := json.Unmarshal(entry.Data, &ranked); err != nil {
		r.logger.Warn().Err(err).Msg("Discarding undecodable cached ranking")
		return nil, false
	}

	r.logger.Debug().
		Time("computed_at", entry.ComputedAt).
		Msg("Serving ranking from cache")
	return ranked, true
}

func (r *Reporter) toCache(ctx context.Context, key cache.Key, ranked []WorkplaceCount) {
	data, err := json.Marshal(ranked)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to marshal ranking for cache")
		return
	}

	entry := cache.NewEntry(data, r.config.CacheTTL)
	if err := r.cache.Set(ctx, key, entry); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to cache ranking")
	}
}
