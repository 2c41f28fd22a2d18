// Package repo implements the data persistence layer for captured chat
// messages, backed by GORM. This file provides a small aggregate query used
// for conditional responses (weak ETags) in the HTTP layer.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// MessagesStats returns the total number of stored messages and the highest
// id assigned so far (0 when empty).
//
// Messages are append-only, so (count, maxID) changes on every insert. Review
// flag flips do not change it; callers that need to observe those must add
// their own discriminator.
func MessagesStats(ctx context.Context, db *gorm.DB) (count int64, maxID int64, err error) {
	var row struct {
		Count int64
		MaxID int64
	}
	err = db.WithContext(ctx).
		Raw("SELECT COUNT(*) AS count, COALESCE(MAX(id), 0) AS max_id FROM messages").
		Scan(&row).Error
	if err != nil {
		return 0, 0, unavailable(err)
	}
	return row.Count, row.MaxID, nil
}
