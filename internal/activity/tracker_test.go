package activity

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

var base = time.Date(2025, 8, 11, 17, 5, 0, 0, time.UTC)

func TestRecord_CountsAndOverwrites(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", "Alice", "hi", base)
	tr.Record("alice", "", "there", base.Add(time.Second))

	snap := tr.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry, got %+v", snap)
	}
	e := snap[0]
	if e.User != "alice" || e.LastText != "there" || e.CommentCount != 2 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	// Empty display name falls back to the handle.
	if e.DisplayName != "alice" {
		t.Fatalf("display name fallback: got %q", e.DisplayName)
	}
	if !e.LastTimestamp.Equal(base.Add(time.Second)) {
		t.Fatalf("timestamp not updated: %v", e.LastTimestamp)
	}
}

func TestRecord_IgnoresEmptyHandle(t *testing.T) {
	tr := NewTracker()
	tr.Record("", "ghost", "boo", base)
	if tr.Len() != 0 {
		t.Fatalf("empty handle must be ignored")
	}
}

func TestSnapshot_SortedNewestFirst_TiesByUser(t *testing.T) {
	tr := NewTracker()
	tr.Record("carol", "", "c", base)
	tr.Record("bob", "", "b", base.Add(2*time.Second))
	tr.Record("alice", "", "a", base.Add(2*time.Second))
	tr.Record("dave", "", "d", base.Add(time.Second))

	snap := tr.Snapshot()
	want := []string{"alice", "bob", "dave", "carol"}
	for i, u := range want {
		if snap[i].User != u {
			t.Fatalf("order = %v; want %v", users(snap), want)
		}
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", "", "hi", base)

	snap := tr.Snapshot()
	snap[0].LastText = "mutated"

	if got := tr.Snapshot()[0].LastText; got != "hi" {
		t.Fatalf("snapshot aliases internal state: %q", got)
	}
}

func TestSnapshot_EmptyIsNonNil(t *testing.T) {
	snap := NewTracker().Snapshot()
	if snap == nil || len(snap) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", snap)
	}
	b, _ := json.Marshal(snap)
	if string(b) != "[]" {
		t.Fatalf("expected [] json, got %s", b)
	}
}

func TestEntry_JSONShape(t *testing.T) {
	e := Entry{User: "u", DisplayName: "U", LastText: "t", LastTimestamp: base, CommentCount: 3}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"user":"u","display_name":"U","last_text":"t","last_timestamp":"2025-08-11T17:05:00Z","comment_count":3}`
	if string(b) != want {
		t.Fatalf("json = %s; want %s", b, want)
	}
}

func TestWithMaxEntries_EvictsLeastRecent(t *testing.T) {
	tr := NewTracker(WithMaxEntries(2))
	tr.Record("old", "", "1", base)
	tr.Record("mid", "", "2", base.Add(time.Second))
	tr.Record("new", "", "3", base.Add(2*time.Second))

	if tr.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", tr.Len())
	}
	for _, e := range tr.Snapshot() {
		if e.User == "old" {
			t.Fatalf("least recent user should have been evicted")
		}
	}

	// Updating an existing user never evicts.
	tr.Record("mid", "", "again", base.Add(3*time.Second))
	if tr.Len() != 2 {
		t.Fatalf("update must not change size, got %d", tr.Len())
	}
}

func TestConcurrentRecordAndSnapshot(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr.Record(fmt.Sprintf("user-%d", i%10), "", "m", base.Add(time.Duration(i)*time.Millisecond))
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()

	if tr.Len() != 10 {
		t.Fatalf("expected 10 users, got %d", tr.Len())
	}
	var total int64
	for _, e := range tr.Snapshot() {
		total += e.CommentCount
	}
	if total != 4*200 {
		t.Fatalf("lost updates: total count %d", total)
	}
}

func users(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.User
	}
	return out
}
