// Package profile resolves player UUIDs to usernames through a cached
// upstream lookup and decorates result rows with profile links.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/exotics/internal/store"
)

// MaxBatch caps the number of upstream lookups per request. UUIDs past the
// cap keep a null username; they are dropped from enrichment, not from the
// result set.
const MaxBatch = 50

// Resolver looks up usernames with a sqlite-backed cache in front of the
// upstream profile service.
type Resolver struct {
	DB      *sql.DB
	BaseURL string // upstream endpoint, UUID appended as a path segment
	Client  *http.Client

	// TTL is the freshness window for cached hits. NegativeTTL covers cached
	// "player unknown" results; zero disables negative caching so unknown
	// UUIDs are retried on every request (the historical behavior).
	TTL         time.Duration
	NegativeTTL time.Duration
}

// NewResolver builds a resolver with the default 24 h positive and 5 min
// negative freshness windows and a 5 s per-lookup timeout.
func NewResolver(db *sql.DB, baseURL string) *Resolver {
	return &Resolver{
		DB:          db,
		BaseURL:     baseURL,
		Client:      &http.Client{Timeout: 5 * time.Second},
		TTL:         24 * time.Hour,
		NegativeTTL: 5 * time.Minute,
	}
}

// ResolveBatch resolves up to MaxBatch of the given UUIDs concurrently.
// The returned map holds an entry per attempted UUID; a nil value means the
// lookup failed or the player is unknown. Lookups never abort each other and
// ResolveBatch itself never fails.
func (r *Resolver) ResolveBatch(ctx context.Context, uuids []string) map[string]*string {
	attempted := dedupe(uuids)
	if len(attempted) > MaxBatch {
		attempted = attempted[:MaxBatch]
	}

	results := make(map[string]*string, len(attempted))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, uuid := range attempted {
		g.Go(func() error {
			username := r.resolve(gctx, uuid)
			mu.Lock()
			results[uuid] = username
			mu.Unlock()
			return nil // a failed lookup must not cancel its siblings
		})
	}
	g.Wait()

	return results
}

// resolve returns the username for one UUID, consulting the cache first.
// Any failure resolves to nil.
func (r *Resolver) resolve(ctx context.Context, uuid string) *string {
	entry, err := store.GetCachedUsername(ctx, r.DB, uuid)
	if err != nil {
		slog.Warn("username cache read failed", "uuid", uuid, "error", err)
	} else if entry != nil && r.fresh(entry) {
		return entry.Username
	}

	username, known, err := r.fetch(ctx, uuid)
	if err != nil {
		// Transport failures are not cached; the stale entry, if any, is
		// better than nothing.
		slog.Warn("username lookup failed", "uuid", uuid, "error", err)
		if entry != nil {
			return entry.Username
		}
		return nil
	}

	// Negative results are only written back when negative caching is on.
	if known || r.NegativeTTL > 0 {
		if err := store.PutCachedUsername(ctx, r.DB, uuid, username); err != nil {
			slog.Warn("username cache write failed", "uuid", uuid, "error", err)
		}
	}
	return username
}

// fresh reports whether a cache entry is still within its freshness window.
func (r *Resolver) fresh(entry *store.CachedUsername) bool {
	ttl := r.TTL
	if entry.Username == nil {
		ttl = r.NegativeTTL
	}
	if ttl <= 0 {
		return false
	}
	return time.Since(entry.FetchedAt) < ttl
}

// fetch queries the upstream profile service. known is false when the service
// answered but does not know the UUID.
func (r *Resolver) fetch(ctx context.Context, uuid string) (username *string, known bool, err error) {
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/"+uuid, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building profile request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("querying profile service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, false, fmt.Errorf("decoding profile response: %w", err)
		}
		if body.Name == "" {
			return nil, true, nil
		}
		return &body.Name, true, nil
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("profile service returned %d", resp.StatusCode)
	}
}

// dedupe keeps the first occurrence of each UUID, preserving order.
func dedupe(uuids []string) []string {
	seen := make(map[string]bool, len(uuids))
	var out []string
	for _, u := range uuids {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
