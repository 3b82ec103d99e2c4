package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erazemk/exotics/internal/db"
	"github.com/erazemk/exotics/internal/store"
)

// fakeUpstream serves GET /{uuid} with a Mojang-style profile payload.
func fakeUpstream(t *testing.T, known map[string]string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		uuid := strings.TrimPrefix(r.URL.Path, "/")
		name, ok := known[uuid]
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": uuid, "name": name})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveBatch(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, map[string]string{"p1": "Alice", "p2": "Bob"}, &hits)

	r := NewResolver(database, upstream.URL)
	results := r.ResolveBatch(context.Background(), []string{"p1", "p2", "ghost"})

	if got := results["p1"]; got == nil || *got != "Alice" {
		t.Errorf("p1: expected Alice, got %v", got)
	}
	if got := results["p2"]; got == nil || *got != "Bob" {
		t.Errorf("p2: expected Bob, got %v", got)
	}
	if results["ghost"] != nil {
		t.Errorf("ghost: expected nil, got %v", *results["ghost"])
	}
}

func TestResolveBatchCap(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, nil, &hits)

	uuids := make([]string, 60)
	for i := range uuids {
		uuids[i] = fmt.Sprintf("player-%02d", i)
	}

	r := NewResolver(database, upstream.URL)
	results := r.ResolveBatch(context.Background(), uuids)

	if len(results) != MaxBatch {
		t.Errorf("expected %d attempted lookups, got %d", MaxBatch, len(results))
	}
	if hits.Load() != MaxBatch {
		t.Errorf("expected %d upstream hits, got %d", MaxBatch, hits.Load())
	}
	// Excess UUIDs simply have no entry; the caller treats that as null.
	if _, ok := results["player-59"]; ok {
		t.Error("UUID past the cap must not be looked up")
	}
}

func TestResolveBatchDeduplicates(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, map[string]string{"p1": "Alice"}, &hits)

	r := NewResolver(database, upstream.URL)
	r.ResolveBatch(context.Background(), []string{"p1", "p1", "p1", ""})

	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream hit for duplicates, got %d", hits.Load())
	}
}

func TestCacheHitSkipsUpstream(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, map[string]string{"p1": "Alice"}, &hits)

	r := NewResolver(database, upstream.URL)
	r.ResolveBatch(context.Background(), []string{"p1"})
	r.ResolveBatch(context.Background(), []string{"p1"})

	if hits.Load() != 1 {
		t.Errorf("expected second batch to hit the cache, got %d upstream hits", hits.Load())
	}
}

func TestNegativeCaching(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, nil, &hits)

	r := NewResolver(database, upstream.URL)
	r.ResolveBatch(context.Background(), []string{"ghost"})
	r.ResolveBatch(context.Background(), []string{"ghost"})

	if hits.Load() != 1 {
		t.Errorf("expected negative result to be cached, got %d upstream hits", hits.Load())
	}
}

func TestNegativeCachingDisabled(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, nil, &hits)

	r := NewResolver(database, upstream.URL)
	r.NegativeTTL = 0 // historical always-retry behavior

	r.ResolveBatch(context.Background(), []string{"ghost"})
	r.ResolveBatch(context.Background(), []string{"ghost"})

	if hits.Load() != 2 {
		t.Errorf("expected unknown UUID to be retried, got %d upstream hits", hits.Load())
	}
}

func TestStaleCacheRefetched(t *testing.T) {
	database := db.NewTestDB(t)
	var hits atomic.Int64
	upstream := fakeUpstream(t, map[string]string{"p1": "Renamed"}, &hits)

	old := "OldName"
	store.PutCachedUsername(context.Background(), database, "p1", &old)

	r := NewResolver(database, upstream.URL)
	r.TTL = 0 // everything is stale

	results := r.ResolveBatch(context.Background(), []string{"p1"})
	if got := results["p1"]; got == nil || *got != "Renamed" {
		t.Errorf("expected refetched name, got %v", got)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 upstream hit for stale entry, got %d", hits.Load())
	}
}

func TestUpstreamFailureResolvesNil(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	r := NewResolver(database, server.URL)
	results := r.ResolveBatch(context.Background(), []string{"p1", "p2"})

	if len(results) != 2 {
		t.Fatalf("expected entries for both UUIDs, got %d", len(results))
	}
	if results["p1"] != nil || results["p2"] != nil {
		t.Error("failed lookups must resolve to nil")
	}

	// Failures are not cached as negatives: a later request retries.
	entry, _ := store.GetCachedUsername(context.Background(), database, "p1")
	if entry != nil {
		t.Error("transport failure must not write a cache row")
	}
}

func TestUpstreamTimeoutResolvesNil(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	r := NewResolver(database, server.URL)
	r.Client = &http.Client{Timeout: 20 * time.Millisecond}

	results := r.ResolveBatch(context.Background(), []string{"p1"})
	if results["p1"] != nil {
		t.Error("timed-out lookup must resolve to nil")
	}
}
