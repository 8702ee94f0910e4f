// Package pagination provides exhaustive traversal of cursor-paginated listing endpoints
package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPageSize is used when a config does not specify a page size.
// Must match the limit convention agreed with the listing service.
const DefaultPageSize = 20

// Config holds traversal configuration
type Config struct {
	// PageSize is the fixed limit sent with every page request
	PageSize int
	// Source names the collection being traversed (logging only)
	Source string
}

// DefaultConfig returns safe default traversal configuration
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Source:   "default",
	}
}

func (c Config) normalized() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Source == "" {
		c.Source = "default"
	}
	return c
}

// Page is a single fetched page of a listing.
type Page[T any] struct {
	// Items are the records of this page, in response order
	Items []T
	// HasNext reports whether the response linked to a subsequent page
	HasNext bool
}

// FetchFunc fetches one page of a flat listing.
// page is 1-based; limit is the traversal-wide page size.
type FetchFunc[T any] func(ctx context.Context, page, limit int) (Page[T], error)

// ShardFetchFunc fetches one page of a single shard of a sharded listing.
// shard is 0-based; page and limit follow the flat convention.
type ShardFetchFunc[T any] func(ctx context.Context, shard, page, limit int) (Page[T], error)

// FetchAll walks a flat listing to exhaustion and returns every item in
// arrival order. Traversal stops at the first page that is empty or carries
// no next link, whichever comes first. Any fetch error aborts the whole
// traversal with no partial result.
func FetchAll[T any](ctx context.Context, fetch FetchFunc[T], cfg Config) ([]T, error) {
	cfg = cfg.normalized()
	start := time.Now()

	var items []T
	pages := 0
	for page := 1; ; page++ {
		p, err := fetch(ctx, page, cfg.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", cfg.Source, page, err)
		}
		pages++
		items = append(items, p.Items...)

		// Either stop signal ends the walk: an empty page guards against a
		// source that still advertises a next link on its final page.
		if len(p.Items) == 0 || !p.HasNext {
			break
		}
	}

	log.Debug().
		Str("source", cfg.Source).
		Int("pages", pages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Flat traversal complete")

	return items, nil
}

// FetchAllSharded walks a sharded listing to exhaustion. Shards are probed
// contiguously from index 0; within each shard pages follow the flat
// traversal rules. A shard whose first page comes back empty ends the whole
// scan: shard indices are assumed dense, so an empty shard is
// indistinguishable from the end of the collection and no later index is
// probed. Items are returned in shard, then page, then in-page order.
func FetchAllSharded[T any](ctx context.Context, fetch ShardFetchFunc[T], cfg Config) ([]T, error) {
	cfg = cfg.normalized()
	start := time.Now()

	var items []T
	shards := 0
	for shard := 0; ; shard++ {
		for page := 1; ; page++ {
			p, err := fetch(ctx, shard, page, cfg.PageSize)
			if err != nil {
				return nil, fmt.Errorf("fetch %s shard %d page %d: %w", cfg.Source, shard, page, err)
			}
			if len(p.Items) == 0 {
				if page == 1 {
					// Empty shard: the collection is exhausted.
					log.Debug().
						Str("source", cfg.Source).
						Int("shards", shards).
						Int("items", len(items)).
						Dur("duration", time.Since(start)).
						Msg("Sharded traversal complete")
					return items, nil
				}
				// Tail page of a non-empty shard: only this shard is done.
				break
			}
			items = append(items, p.Items...)
			if !p.HasNext {
				break
			}
		}
		shards++
	}
}
