package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JohnSOGO/ChatMan/internal/activity"
	"github.com/JohnSOGO/ChatMan/internal/domain"
)

// ErrNoHandle is returned for comments without a user handle.
var ErrNoHandle = errors.New("comment has no user handle")

// Appender is the store surface the adapter writes to.
type Appender interface {
	Append(ctx context.Context, user, text string) (*domain.Message, error)
}

// Adapter turns ingestion events into store writes and activity updates.
// Either sink may be nil, in which case that side is skipped.
type Adapter struct {
	Store    Appender
	Activity *activity.Tracker
	Logger   zerolog.Logger

	// Now stamps activity entries; defaults to time.Now.
	Now func() time.Time

	mu   sync.RWMutex
	room Connected
}

// OnConnected records the joined room.
func (a *Adapter) OnConnected(ev Connected) {
	a.mu.Lock()
	a.room = ev
	a.mu.Unlock()

	a.Logger.Info().
		Str("room_id", ev.RoomID).
		Str("handle", ev.Handle).
		Msg("connected to live chat")
}

// Room returns the last Connected event, zero before the first one.
func (a *Adapter) Room() Connected {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.room
}

// OnComment persists the comment and updates the activity snapshot.
// Persist failures are logged and counted; the comment is still recorded
// in the activity snapshot and nothing is retried.
func (a *Adapter) OnComment(ctx context.Context, c Comment) error {
	if c.UserHandle == "" {
		ingestErrors.WithLabelValues("normalize").Inc()
		a.Logger.Warn().Msg("dropping comment without user handle")
		return ErrNoHandle
	}

	var persistErr error
	if a.Store != nil {
		m, err := a.Store.Append(ctx, c.UserHandle, c.Text)
		if err != nil {
			persistErr = err
			ingestErrors.WithLabelValues("persist").Inc()
			a.Logger.Error().Err(err).
				Str("user", c.UserHandle).
				Msg("failed to store chat message")
		} else {
			a.Logger.Debug().
				Int64("id", m.ID).
				Str("user", c.UserHandle).
				Msg("stored chat message")
		}
	}

	if a.Activity != nil {
		a.Activity.Record(c.UserHandle, c.UserDisplayName, c.Text, a.now())
		activityUsers.Set(float64(a.Activity.Len()))
	}

	if persistErr == nil {
		ingestedMessages.Inc()
	}
	return persistErr
}

// OnRaw normalizes raw and forwards it to OnComment.
func (a *Adapter) OnRaw(ctx context.Context, raw RawComment) error {
	c, ok := Normalize(raw)
	if !ok {
		ingestErrors.WithLabelValues("normalize").Inc()
		a.Logger.Warn().Msg("dropping comment without login or user id")
		return ErrNoHandle
	}
	return a.OnComment(ctx, c)
}

func (a *Adapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
