// Package activity keeps the in-memory "last activity per user" snapshot
// served by the live feed. It is best-effort and non-durable: the snapshot
// starts empty on every process start and is never read back from storage.
//
// A Tracker is safe for concurrent use. Writers (the ingestion adapter)
// call Record; readers (feed handlers) call Snapshot, which copies the
// entries under a read lock and sorts the copy outside of it.
package activity

import (
	"sort"
	"sync"
	"time"
)

// Entry is one user's latest activity as exposed on the feed.
type Entry struct {
	User          string    `json:"user"`
	DisplayName   string    `json:"display_name"`
	LastText      string    `json:"last_text"`
	LastTimestamp time.Time `json:"last_timestamp"`
	CommentCount  int64     `json:"comment_count"`
}

// Option configures a Tracker.
type Option func(*config)

type config struct {
	maxEntries int
}

// WithMaxEntries bounds the number of tracked users. When the bound is hit,
// the least recently active user is dropped. n <= 0 means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// Tracker holds the per-user activity map.
type Tracker struct {
	cfg config

	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewTracker returns an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	return &Tracker{
		cfg:     cfg,
		entries: make(map[string]*Entry),
	}
}

// Record stores text as the latest activity of handle at time at and bumps
// the user's comment count. An empty handle is ignored. displayName falls
// back to handle when empty.
func (t *Tracker) Record(handle, displayName, text string, at time.Time) {
	if handle == "" {
		return
	}
	if displayName == "" {
		displayName = handle
	}
	at = at.UTC()

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[handle]
	if !ok {
		if t.cfg.maxEntries > 0 && len(t.entries) >= t.cfg.maxEntries {
			t.evictOldestLocked()
		}
		e = &Entry{User: handle}
		t.entries[handle] = e
	}
	e.DisplayName = displayName
	e.LastText = text
	e.LastTimestamp = at
	e.CommentCount++
}

// Snapshot returns a copy of every entry, newest activity first. Entries
// with equal timestamps are ordered by user.
func (t *Tracker) Snapshot() []Entry {
	t.mu.RLock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastTimestamp.Equal(out[j].LastTimestamp) {
			return out[i].LastTimestamp.After(out[j].LastTimestamp)
		}
		return out[i].User < out[j].User
	})
	return out
}

// Len reports the number of tracked users.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Tracker) evictOldestLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for user, e := range t.entries {
		if !found || e.LastTimestamp.Before(oldest) ||
			(e.LastTimestamp.Equal(oldest) && user < victim) {
			victim, oldest, found = user, e.LastTimestamp, true
		}
	}
	if found {
		delete(t.entries, victim)
	}
}
