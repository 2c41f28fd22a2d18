package domain

import (
	"testing"
	"time"
)

func TestTableName(t *testing.T) {
	if (Message{}).TableName() != "messages" {
		t.Fatalf("Message.TableName() = %q; want %q", (Message{}).TableName(), "messages")
	}
}

func TestFormatTimestamp_UTCSecondPrecision(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2025, 8, 11, 19, 5, 32, 987_000_000, loc)

	got := FormatTimestamp(in)
	if got != "2025-08-11T17:05:32Z" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
}

func TestTimestamps_SortLexicographically(t *testing.T) {
	base := time.Date(2025, 1, 9, 23, 59, 59, 0, time.UTC)
	a := FormatTimestamp(base)
	b := FormatTimestamp(base.Add(time.Second))
	c := FormatTimestamp(base.Add(10 * 24 * time.Hour))
	if !(a < b && b < c) {
		t.Fatalf("expected %q < %q < %q", a, b, c)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"canonical", "2025-08-11T17:05:32Z", false},
		{"offset form", "2025-08-11T17:05:32+00:00", true},
		{"fractional", "2025-08-11T17:05:32.5Z", true},
		{"nanoseconds", "2025-08-11T17:05:32.123456789Z", true},
		{"garbage", "yesterday", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestMessageTime(t *testing.T) {
	m := Message{Timestamp: "2025-08-11T17:05:32Z"}
	want := time.Date(2025, 8, 11, 17, 5, 32, 0, time.UTC)
	if !m.Time().Equal(want) {
		t.Fatalf("Time() = %v; want %v", m.Time(), want)
	}
	if !(Message{Timestamp: "bad"}).Time().IsZero() {
		t.Fatalf("malformed timestamp should yield zero time")
	}
}
