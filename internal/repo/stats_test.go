package repo

import (
	"context"
	"testing"
)

func TestMessagesStats_ZeroRows(t *testing.T) {
	db := newStoreDB(t)
	count, maxID, err := MessagesStats(context.Background(), db)
	if err != nil {
		t.Fatalf("MessagesStats error: %v", err)
	}
	if count != 0 || maxID != 0 {
		t.Fatalf("expected (0, 0), got (%d, %d)", count, maxID)
	}
}

func TestMessagesStats_TracksInserts(t *testing.T) {
	db := newStoreDB(t)
	mustAppend(t, db, "a", "1")
	last := mustAppend(t, db, "b", "2")

	count, maxID, err := MessagesStats(context.Background(), db)
	if err != nil {
		t.Fatalf("MessagesStats error: %v", err)
	}
	if count != 2 || maxID != last.ID {
		t.Fatalf("expected (2, %d), got (%d, %d)", last.ID, count, maxID)
	}

	// Review flips leave the fingerprint untouched.
	if _, err := MarkReviewed(context.Background(), db, []int64{last.ID}, true); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}
	c2, m2, err := MessagesStats(context.Background(), db)
	if err != nil || c2 != count || m2 != maxID {
		t.Fatalf("stats changed after review flip: (%d, %d, %v)", c2, m2, err)
	}
}
