// Package ingest connects to a livestream chat and forwards every comment
// to the message store and the activity tracker.
//
// Platform payloads arrive with optional fields. Normalize is the single
// place that turns them into the fully populated events used downstream.
package ingest

import (
	"strings"

	"github.com/JohnSOGO/ChatMan/internal/sysutil"
)

// Connected is emitted once the source has joined the room.
type Connected struct {
	RoomID string
	Handle string
}

// Comment is a normalized chat comment. UserHandle is never empty.
type Comment struct {
	UserHandle      string
	UserDisplayName string
	Text            string
}

// RawComment is a platform comment before normalization. Any field may be
// empty.
type RawComment struct {
	Login       string
	UserID      string
	DisplayName string
	Text        string
}

// Normalize resolves the handle (login, else numeric user id) and the
// display name (display name, else handle). It reports false when no handle
// can be derived; such comments are dropped.
func Normalize(raw RawComment) (Comment, bool) {
	handle := strings.TrimSpace(sysutil.FirstNonEmpty(raw.Login, raw.UserID))
	if handle == "" {
		return Comment{}, false
	}
	display := strings.TrimSpace(sysutil.FirstNonEmpty(raw.DisplayName, handle))
	return Comment{
		UserHandle:      handle,
		UserDisplayName: display,
		Text:            raw.Text,
	}, true
}
