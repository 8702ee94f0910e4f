package report_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentmarket/shiftpulse/internal/testutil"
	"github.com/talentmarket/shiftpulse/pkg/cache"
	"github.com/talentmarket/shiftpulse/pkg/listing"
	"github.com/talentmarket/shiftpulse/pkg/report"
)

func newReporter(t *testing.T, baseURL string, pageSize, topN int) *report.Reporter {
	t.Helper()

	clientCfg := listing.DefaultConfig(baseURL)
	clientCfg.PageSize = pageSize
	clientCfg.InitialBackoff = 1 * time.Millisecond
	client, err := listing.New(clientCfg)
	if err != nil {
		t.Fatalf("listing.New() error = %v", err)
	}

	reporter, err := report.NewReporter(client, nil, report.Config{TopN: topN})
	if err != nil {
		t.Fatalf("NewReporter() error = %v", err)
	}
	return reporter
}

func TestReporter_Run(t *testing.T) {
	mock := testutil.NewMockListing()
	defer mock.Close()

	mock.SetWorkplaces([]testutil.ListingWorkplace{
		{ID: 1, Name: "A", Status: 0},
		{ID: 2, Name: "B", Status: 1},
		{ID: 3, Name: "C", Status: 0},
	})
	shifts := append(testutil.Shifts(1, 1, 2), testutil.Shifts(10, 3, 1)...)
	mock.SetShardShifts(0, shifts)

	reporter := newReporter(t, mock.URL(), 10, 3)

	got, err := reporter.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertRanking(t, got, []report.WorkplaceCount{
		{Name: "A", ShiftCount: 2},
		{Name: "C", ShiftCount: 1},
	})
}

func TestReporter_Run_TraversesEverything(t *testing.T) {
	mock := testutil.NewMockListing()
	defer mock.Close()

	// 25 workplaces at page size 10: 3 workplace pages.
	mock.SetWorkplaces(testutil.Workplaces(25))
	// Shard 0 holds 25 shifts (3 pages), shard 1 holds 5 (1 page),
	// shard 2 is empty (1 probe ends the scan): 5 shift requests.
	mock.SetShardShifts(0, testutil.Shifts(1, 1, 25))
	mock.SetShardShifts(1, testutil.Shifts(100, 2, 5))

	reporter := newReporter(t, mock.URL(), 10, 1)

	got, err := reporter.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertRanking(t, got, []report.WorkplaceCount{
		{Name: "Workplace 1", ShiftCount: 25},
	})

	workplaceReqs, shiftReqs := 0, 0
	for _, req := range mock.Requests() {
		switch {
		case strings.HasPrefix(req, "/workplaces"):
			workplaceReqs++
		case strings.HasPrefix(req, "/shifts"):
			shiftReqs++
		}
	}
	if workplaceReqs != 3 {
		t.Errorf("workplace requests = %d, want 3", workplaceReqs)
	}
	if shiftReqs != 5 {
		t.Errorf("shift requests = %d, want 5", shiftReqs)
	}
}

func TestReporter_Run_TransportFailureIsFatal(t *testing.T) {
	mock := testutil.NewMockListing()
	defer mock.Close()

	mock.SetWorkplaces(testutil.Workplaces(3))
	mock.SetResponse("/shifts", testutil.NewServerErrorResponse())

	reporter := newReporter(t, mock.URL(), 10, 3)

	got, err := reporter.Run(context.Background())
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if got != nil {
		t.Errorf("Run() = %+v, want nil on traversal failure", got)
	}
}

// setupTestRedis creates a test Redis client, skipping if unavailable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestReporter_Run_CachedRanking(t *testing.T) {
	manager := cache.NewManager(setupTestRedis(t))

	mock := testutil.NewMockListing()
	defer mock.Close()

	mock.SetWorkplaces([]testutil.ListingWorkplace{
		{ID: 1, Name: "A", Status: 0},
	})
	mock.SetShardShifts(0, testutil.Shifts(1, 1, 2))

	clientCfg := listing.DefaultConfig(mock.URL())
	clientCfg.PageSize = 10
	client, err := listing.New(clientCfg)
	if err != nil {
		t.Fatalf("listing.New() error = %v", err)
	}

	reporter, err := report.NewReporter(client, manager, report.Config{
		TopN:     3,
		CacheTTL: 1 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewReporter() error = %v", err)
	}

	ctx := context.Background()

	// First run misses the cache and traverses the source.
	first, err := reporter.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	fetched := mock.RequestCount()
	if fetched == 0 {
		t.Fatal("expected the first run to hit the listing source")
	}

	// Second run is served from the cache; no new requests go out.
	second, err := reporter.Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if mock.RequestCount() != fetched {
		t.Errorf("requests = %d, want %d (cached run must not fetch)", mock.RequestCount(), fetched)
	}
	assertRanking(t, second, first)
}

func TestNewReporter_Validation(t *testing.T) {
	if _, err := report.NewReporter(nil, nil, report.DefaultConfig()); err == nil {
		t.Error("NewReporter(nil client) expected error, got nil")
	}

	client, err := listing.New(listing.DefaultConfig("http://localhost:3000"))
	if err != nil {
		t.Fatalf("listing.New() error = %v", err)
	}
	if _, err := report.NewReporter(client, nil, report.Config{TopN: -1}); err == nil {
		t.Error("NewReporter(negative top-n) expected error, got nil")
	}
}
