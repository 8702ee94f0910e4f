// Package testutil provides testing utilities for the shiftpulse packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// ListingWorkplace is a workplace fixture served by the mock listing API.
type ListingWorkplace struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// ListingShift is a shift fixture served by the mock listing API.
type ListingShift struct {
	ID          int64   `json:"id"`
	WorkplaceID int64   `json:"workplaceId"`
	WorkerID    *int64  `json:"workerId"`
	CancelledAt *string `json:"cancelledAt"`
}

// MockResponse defines the behavior for a canned mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockListing is a configurable mock listing API server for testing.
// It serves a flat paginated /workplaces collection and a sharded paginated
// /shifts collection with the data/links.next envelope.
type MockListing struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	workplaces []ListingWorkplace
	shards     [][]ListingShift

	// Tracking
	requests []string
}

// NewMockListing creates a new mock listing server with empty collections.
func NewMockListing() *MockListing {
	mock := &MockListing{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, r.URL.Path+"?"+r.URL.RawQuery)
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case "/workplaces":
			mock.serveWorkplaces(w, r)
		case "/shifts":
			mock.serveShifts(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockListing) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockListing) Close() {
	m.server.Close()
}

// Reset clears request tracking.
func (m *MockListing) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetWorkplaces replaces the workplaces fixture.
func (m *MockListing) SetWorkplaces(workplaces []ListingWorkplace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workplaces = workplaces
}

// SetShardShifts replaces the shifts fixture for one shard index.
// Shards must be populated contiguously from 0 for realistic behavior.
func (m *MockListing) SetShardShifts(shard int, shifts []ListingShift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.shards) <= shard {
		m.shards = append(m.shards, nil)
	}
	m.shards[shard] = shifts
}

// SetHandler sets a custom handler for a specific path, overriding the
// built-in collections.
func (m *MockListing) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockListing) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the total number of requests made to the server.
func (m *MockListing) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns the path+query of every request, in arrival order.
func (m *MockListing) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockListing) serveWorkplaces(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	workplaces := m.workplaces
	m.mu.RUnlock()

	page, limit, ok := pageParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page or limit")
		return
	}

	items, hasNext := slicePage(len(workplaces), page, limit)
	next := ""
	if hasNext {
		next = fmt.Sprintf("/workplaces?page=%d&limit=%d", page+1, limit)
	}
	writeEnvelope(w, workplaces[items[0]:items[1]], next)
}

func (m *MockListing) serveShifts(w http.ResponseWriter, r *http.Request) {
	shard, err := strconv.Atoi(r.URL.Query().Get("shard"))
	if err != nil || shard < 0 {
		writeError(w, http.StatusBadRequest, "invalid shard")
		return
	}

	m.mu.RLock()
	var shifts []ListingShift
	if shard < len(m.shards) {
		shifts = m.shards[shard]
	}
	m.mu.RUnlock()

	page, limit, ok := pageParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page or limit")
		return
	}

	items, hasNext := slicePage(len(shifts), page, limit)
	next := ""
	if hasNext {
		next = fmt.Sprintf("/shifts?shard=%d&page=%d&limit=%d", shard, page+1, limit)
	}
	writeEnvelope(w, shifts[items[0]:items[1]], next)
}

func pageParams(r *http.Request) (page, limit int, ok bool) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 0, 0, false
	}
	limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return 0, 0, false
	}
	return page, limit, true
}

// slicePage returns the [start, end) bounds of a 1-based page and whether a
// further page exists.
func slicePage(total, page, limit int) ([2]int, bool) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return [2]int{start, end}, end < total
}

func writeEnvelope(w http.ResponseWriter, data any, next string) {
	body := map[string]any{
		"data": data,
		"links": map[string]any{
			"next": nil,
		},
	}
	if next != "" {
		body["links"] = map[string]any{"next": next}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": %q}`, msg)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// Workplaces generates n workplace fixtures; every third one is inactive.
func Workplaces(n int) []ListingWorkplace {
	out := make([]ListingWorkplace, n)
	for i := range out {
		status := 0
		if (i+1)%3 == 0 {
			status = 1
		}
		out[i] = ListingWorkplace{
			ID:     int64(i + 1),
			Name:   fmt.Sprintf("Workplace %d", i+1),
			Status: status,
		}
	}
	return out
}

// Shifts generates n shift fixtures for one workplace.
func Shifts(startID int64, workplaceID int64, n int) []ListingShift {
	out := make([]ListingShift, n)
	for i := range out {
		out[i] = ListingShift{
			ID:          startID + int64(i),
			WorkplaceID: workplaceID,
		}
	}
	return out
}
