// Package repo implements the data persistence layer for captured chat
// messages, backed by GORM. This file provides the write path, the review
// flag mutation, and the query views over the messages table.
//
// All functions accept a *gorm.DB handle (plain or transaction-bound) and a
// context. Every storage failure is returned wrapped with ErrStoreUnavailable.
//
// Ordering: "newest" always means timestamp DESC with id DESC as the
// tie-break, since timestamps only carry second precision.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JohnSOGO/ChatMan/internal/domain"
)

// markChunkSize bounds the number of bound parameters per UPDATE statement.
const markChunkSize = 500

// nowFunc is the store clock. Tests replace it to get deterministic timestamps.
var nowFunc = time.Now

// AppendMessage inserts a new message for user with the current UTC second as
// its timestamp and reviewed=false. The insert is a single statement, so the
// row is either fully visible to readers or not at all.
func AppendMessage(ctx context.Context, db *gorm.DB, user, text string) (*domain.Message, error) {
	m := &domain.Message{
		User:      user,
		Text:      text,
		Timestamp: domain.FormatTimestamp(nowFunc()),
		Reviewed:  false,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, unavailable(err)
	}
	return m, nil
}

// MarkReviewed sets reviewed=value on every message whose id is in ids and
// returns how many rows matched. Unknown ids are ignored. Duplicated ids are
// counted once. The whole batch runs in one transaction: on failure nothing
// is applied.
//
// The count is "rows matched", so repeating a call reports the same number
// even though no flag changes the second time.
func MarkReviewed(ctx context.Context, db *gorm.DB, ids []int64, value bool) (int64, error) {
	uniq := dedupeIDs(ids)
	if len(uniq) == 0 {
		return 0, nil
	}

	var matched int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(uniq); start += markChunkSize {
			end := min(start+markChunkSize, len(uniq))
			res := tx.Model(&domain.Message{}).
				Where("id IN ?", uniq[start:end]).
				Update("reviewed", value)
			if res.Error != nil {
				return res.Error
			}
			matched += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}
	return matched, nil
}

// MostRecentMessage returns the newest message across all users, or nil when
// the store is empty.
func MostRecentMessage(ctx context.Context, db *gorm.DB) (*domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, unavailable(err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// latestPerUserSQL picks, per user, the maximal timestamp (index-assisted
// group-by-max on idx_messages_user_ts) and then the highest id among that
// user's rows at that second, so every user yields exactly one row.
const latestPerUserSQL = `
WITH latest AS (
	SELECT user, MAX(timestamp) AS max_ts
	FROM messages
	GROUP BY user
), picked AS (
	SELECT MAX(m.id) AS id
	FROM messages m
	JOIN latest l ON l.user = m.user AND l.max_ts = m.timestamp
	GROUP BY m.user
)
SELECT m.id, m.user, m.text, m.timestamp, m.reviewed
FROM messages m
JOIN picked p ON p.id = m.id
ORDER BY m.timestamp DESC, m.id DESC`

// LatestPerUser returns one message per distinct user: the one with that
// user's maximal timestamp. Results are ordered newest first; users whose
// latest messages share the same second are ordered by id descending.
func LatestPerUser(ctx context.Context, db *gorm.DB) ([]domain.Message, error) {
	out := make([]domain.Message, 0)
	if err := db.WithContext(ctx).Raw(latestPerUserSQL).Scan(&out).Error; err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// ListUnreviewed returns up to limit unreviewed messages, newest first.
// A limit <= 0 yields an empty slice without touching the database.
func ListUnreviewed(ctx context.Context, db *gorm.DB, limit int) ([]domain.Message, error) {
	out := make([]domain.Message, 0)
	if limit <= 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("reviewed = 0").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// ListUserMessages returns every message written by user, ordered by
// timestamp (id as tie-break) in the requested direction. When hideReviewed
// is set, reviewed messages are excluded.
func ListUserMessages(ctx context.Context, db *gorm.DB, user string, sortDesc, hideReviewed bool) ([]domain.Message, error) {
	order := "timestamp ASC, id ASC"
	if sortDesc {
		order = "timestamp DESC, id DESC"
	}
	q := db.WithContext(ctx).Where("user = ?", user)
	if hideReviewed {
		q = q.Where("reviewed = 0")
	}
	out := make([]domain.Message, 0)
	if err := q.Order(order).Find(&out).Error; err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// ListUsers returns the distinct authors present in the store in byte order.
func ListUsers(ctx context.Context, db *gorm.DB) ([]string, error) {
	out := make([]string, 0)
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Distinct("user").
		Order("user ASC").
		Pluck("user", &out).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// dedupeIDs drops duplicates while keeping first-seen order.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
