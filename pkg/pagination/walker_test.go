package pagination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// pageScript builds a FetchFunc from a fixed sequence of pages and counts calls.
func pageScript(pages []Page[int], calls *int) FetchFunc[int] {
	return func(ctx context.Context, page, limit int) (Page[int], error) {
		*calls++
		if page < 1 || page > len(pages) {
			return Page[int]{}, fmt.Errorf("unexpected page %d", page)
		}
		return pages[page-1], nil
	}
}

func seq(from, n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = from + i
	}
	return items
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name      string
		pages     []Page[int]
		wantItems int
		wantCalls int
	}{
		{
			name: "two pages full then partial",
			pages: []Page[int]{
				{Items: seq(1, 10), HasNext: true},
				{Items: seq(11, 3), HasNext: false},
			},
			wantItems: 13,
			wantCalls: 2,
		},
		{
			name:      "empty collection",
			pages:     []Page[int]{{Items: nil, HasNext: false}},
			wantItems: 0,
			wantCalls: 1,
		},
		{
			name: "single page without next link",
			pages: []Page[int]{
				{Items: seq(1, 7), HasNext: false},
			},
			wantItems: 7,
			wantCalls: 1,
		},
		{
			name: "empty page with lying next link stops traversal",
			pages: []Page[int]{
				{Items: seq(1, 10), HasNext: true},
				{Items: nil, HasNext: true},
			},
			wantItems: 10,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			items, err := FetchAll(context.Background(), pageScript(tt.pages, &calls), DefaultConfig())
			if err != nil {
				t.Fatalf("FetchAll() error = %v", err)
			}
			if len(items) != tt.wantItems {
				t.Errorf("len(items) = %d, want %d", len(items), tt.wantItems)
			}
			if calls != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestFetchAll_PreservesOrder(t *testing.T) {
	pages := []Page[int]{
		{Items: []int{3, 1, 2}, HasNext: true},
		{Items: []int{9, 7}, HasNext: false},
	}

	calls := 0
	items, err := FetchAll(context.Background(), pageScript(pages, &calls), DefaultConfig())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	want := []int{3, 1, 2, 9, 7}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %d, want %d", i, items[i], want[i])
		}
	}
}

func TestFetchAll_FailFast(t *testing.T) {
	fetchErr := errors.New("connection reset")
	fetch := func(ctx context.Context, page, limit int) (Page[int], error) {
		if page == 2 {
			return Page[int]{}, fetchErr
		}
		return Page[int]{Items: seq(1, 10), HasNext: true}, nil
	}

	items, err := FetchAll(context.Background(), fetch, Config{PageSize: 10, Source: "shifts"})
	if err == nil {
		t.Fatal("FetchAll() expected error, got nil")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error = %v, want wrapped %v", err, fetchErr)
	}
	if !strings.Contains(err.Error(), "shifts page 2") {
		t.Errorf("error %q does not name the failing page", err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil on failure", items)
	}
}

func TestFetchAll_PageSizePassedThrough(t *testing.T) {
	var gotLimit int
	fetch := func(ctx context.Context, page, limit int) (Page[int], error) {
		gotLimit = limit
		return Page[int]{}, nil
	}

	if _, err := FetchAll(context.Background(), fetch, Config{PageSize: 50}); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("limit = %d, want 50", gotLimit)
	}
}

// shardScript builds a ShardFetchFunc from per-shard page sequences and
// records every (shard, page) probe.
func shardScript(shards [][]Page[int], probes *[][2]int) ShardFetchFunc[int] {
	return func(ctx context.Context, shard, page, limit int) (Page[int], error) {
		*probes = append(*probes, [2]int{shard, page})
		if shard >= len(shards) || page > len(shards[shard]) {
			return Page[int]{}, nil
		}
		return shards[shard][page-1], nil
	}
}

func TestFetchAllSharded(t *testing.T) {
	// Shard 0 spans pages 1-2 then an empty tail page, shard 1 is empty on
	// its first page: only shard 0's items come back and shard 2 is never
	// probed.
	shards := [][]Page[int]{
		{
			{Items: seq(1, 20), HasNext: true},
			{Items: seq(21, 20), HasNext: true},
			{Items: nil, HasNext: false},
		},
		{},
	}

	var probes [][2]int
	items, err := FetchAllSharded(context.Background(), shardScript(shards, &probes), Config{PageSize: 20, Source: "shifts"})
	if err != nil {
		t.Fatalf("FetchAllSharded() error = %v", err)
	}

	if len(items) != 40 {
		t.Errorf("len(items) = %d, want 40", len(items))
	}

	wantProbes := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 1}}
	if len(probes) != len(wantProbes) {
		t.Fatalf("probes = %v, want %v", probes, wantProbes)
	}
	for i, p := range wantProbes {
		if probes[i] != p {
			t.Errorf("probe[%d] = %v, want %v", i, probes[i], p)
		}
	}
}

func TestFetchAllSharded_EmptyFirstShard(t *testing.T) {
	shards := [][]Page[int]{{}}

	var probes [][2]int
	items, err := FetchAllSharded(context.Background(), shardScript(shards, &probes), DefaultConfig())
	if err != nil {
		t.Fatalf("FetchAllSharded() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
	if len(probes) != 1 {
		t.Errorf("probes = %v, want exactly one probe of shard 0 page 1", probes)
	}
}

func TestFetchAllSharded_GapEndsScan(t *testing.T) {
	// A gap (empty shard 1 followed by a populated shard 2) is treated as
	// exhaustion: shard 2's items are deliberately never collected.
	shards := [][]Page[int]{
		{{Items: seq(1, 5), HasNext: false}},
		{},
		{{Items: seq(100, 5), HasNext: false}},
	}

	var probes [][2]int
	items, err := FetchAllSharded(context.Background(), shardScript(shards, &probes), DefaultConfig())
	if err != nil {
		t.Fatalf("FetchAllSharded() error = %v", err)
	}

	if len(items) != 5 {
		t.Errorf("len(items) = %d, want 5 (shard 2 beyond the gap must not be collected)", len(items))
	}
	for _, p := range probes {
		if p[0] == 2 {
			t.Errorf("shard 2 was probed after the gap: probes = %v", probes)
		}
	}
}

func TestFetchAllSharded_FailFast(t *testing.T) {
	fetchErr := errors.New("bad gateway")
	fetch := func(ctx context.Context, shard, page, limit int) (Page[int], error) {
		if shard == 1 {
			return Page[int]{}, fetchErr
		}
		return Page[int]{Items: seq(1, 3), HasNext: false}, nil
	}

	items, err := FetchAllSharded(context.Background(), fetch, DefaultConfig())
	if err == nil {
		t.Fatal("FetchAllSharded() expected error, got nil")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error = %v, want wrapped %v", err, fetchErr)
	}
	if items != nil {
		t.Errorf("items = %v, want nil on failure", items)
	}
}
