// Package domain defines the persistence models for captured chat messages.
// These types are mapped with GORM and form the core data layer of the
// chat capture and review application.
package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the canonical textual form of Message.Timestamp: UTC,
// second precision, ending in a literal 'Z'. Values in this layout sort
// lexicographically in chronological order.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Message is a single chat comment captured from the livestream.
//
// A message is written exactly once by the ingestion path. User, Text and
// Timestamp never change afterwards; Reviewed is the only mutable column and
// is flipped by the review workflow in batches.
//
// Fields:
//   - ID: store-assigned, strictly increasing identifier.
//   - User: platform handle of the author (numeric id when no handle exists).
//   - Text: raw comment content, stored verbatim.
//   - Timestamp: ingestion instant in TimestampLayout, assigned by the store.
//   - Reviewed: whether a human has triaged the message.
type Message struct {
	ID        int64  `json:"id"        gorm:"column:id;primaryKey;autoIncrement"`
	User      string `json:"user"      gorm:"column:user;not null"`
	Text      string `json:"text"      gorm:"column:text;not null"`
	Timestamp string `json:"timestamp" gorm:"column:timestamp;not null"`
	Reviewed  bool   `json:"reviewed"  gorm:"column:reviewed;not null"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Time parses Timestamp. The zero time is returned for malformed values.
func (m Message) Time() time.Time {
	t, err := ParseTimestamp(m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimestamp renders t in TimestampLayout, truncated to the second.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// ParseTimestamp parses a canonical timestamp. Anything that is not exactly
// in TimestampLayout is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	// time.Parse accepts fractional seconds the layout does not name.
	if t.Format(TimestampLayout) != s {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: not in %s", s, TimestampLayout)
	}
	return t, nil
}
