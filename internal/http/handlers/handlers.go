package handlers

import (
	"context"
	"html/template"

	"github.com/JohnSOGO/ChatMan/internal/activity"
	"github.com/JohnSOGO/ChatMan/internal/domain"
	"github.com/JohnSOGO/ChatMan/internal/ingest"
)

// ReviewService is the store surface the review endpoints need.
// *services.MessageService satisfies it.
type ReviewService interface {
	MarkReviewed(ctx context.Context, ids []int64, value bool) (int64, error)
	MostRecent(ctx context.Context) (*domain.Message, error)
	LatestPerUser(ctx context.Context) ([]domain.Message, error)
	Unreviewed(ctx context.Context, limit int) ([]domain.Message, error)
	ResolveLimit(limit int, present bool) int
	UserMessages(ctx context.Context, user string, desc, hideReviewed bool) ([]domain.Message, error)
	Users(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (count, maxID int64, err error)
}

// Snapshotter yields the current activity view. *activity.Tracker
// satisfies it.
type Snapshotter interface {
	Snapshot() []activity.Entry
}

// RoomReporter reports the live chat room ingestion has joined.
// *ingest.Adapter satisfies it.
type RoomReporter interface {
	Room() ingest.Connected
}

// Handlers bundles the endpoint dependencies. A nil activity source makes
// the feed serve an empty list; a nil room reporter leaves the chat state
// out of /health.
type Handlers struct {
	svc      ReviewService
	activity Snapshotter
	room     RoomReporter
	feedPath string
	page     *template.Template
}

// New wires the handlers. feedPath is the URL the index page polls.
func New(svc ReviewService, activity Snapshotter, room RoomReporter, feedPath string) *Handlers {
	return &Handlers{
		svc:      svc,
		activity: activity,
		room:     room,
		feedPath: feedPath,
		page:     indexTemplate,
	}
}
