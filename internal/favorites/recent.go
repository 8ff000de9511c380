package favorites

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/skycast-dev/skycast/internal/store"
)

const (
	keyRecentSearches = "recentSearches"
	maxRecentSearches = 5
)

// RecentSearch is one remembered query.
type RecentSearch struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Recents keeps the last few search queries, most recent first, deduplicated
// by query.
type Recents struct {
	mu sync.Mutex
	kv store.KV

	now func() time.Time
}

func NewRecents(kv store.KV) *Recents {
	return &Recents{kv: kv, now: time.Now}
}

// List returns the remembered searches, most recent first. Corrupt stored
// JSON yields an empty list.
func (r *Recents) List() []RecentSearch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Recents) load() []RecentSearch {
	raw, ok, err := r.kv.Get(keyRecentSearches)
	if err != nil || !ok {
		if err != nil {
			log.Printf("recent searches: read failed, treating as empty: %v", err)
		}
		return nil
	}
	var searches []RecentSearch
	if err := json.Unmarshal([]byte(raw), &searches); err != nil {
		log.Printf("recent searches: stored list is corrupt, resetting: %v", err)
		return nil
	}
	return searches
}

// Record remembers a query at the head of the ring, dropping any older
// entry with the same query and trimming to the cap.
func (r *Recents) Record(query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := []RecentSearch{{Query: query, Timestamp: r.now().UTC()}}
	for _, s := range r.load() {
		if s.Query == query {
			continue
		}
		updated = append(updated, s)
		if len(updated) == maxRecentSearches {
			break
		}
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return err
	}
	return r.kv.Set(keyRecentSearches, string(raw))
}
