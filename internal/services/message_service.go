// MessageService is the facade over the chat message store. It validates
// inputs, applies limit defaults and caps, and forwards to the repo
// functions. Store failures keep their ErrStoreUnavailable wrapping so
// handlers can map them consistently.
//
// Public methods are OpenTelemetry-instrumented; spans carry the user,
// limit and batch size where applicable.

package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JohnSOGO/ChatMan/internal/domain"
	"github.com/JohnSOGO/ChatMan/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	defaultUnreviewedLimit = 100
	maxUnreviewedLimit     = 1000
)

// MessageService exposes the store operations used by ingestion, the feed,
// the review API and the review console.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// DefaultLimit is used by Unreviewed callers that do not pass a limit
	// (see ResolveLimit). MaxLimit caps every requested limit.
	DefaultLimit int
	MaxLimit     int

	// UserLocale drives the collation used to sort user names.
	UserLocale language.Tag
}

// NewMessageService constructs a MessageService with the default limits.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		DB:           db,
		DefaultLimit: defaultUnreviewedLimit,
		MaxLimit:     maxUnreviewedLimit,
		UserLocale:   language.Und,
	}
}

func tracer() trace.Tracer { return otel.Tracer("services/MessageService") }

// Append stores one message for user. The text is kept verbatim; an empty
// user is rejected since every stored row must be attributable.
func (s *MessageService) Append(ctx context.Context, user, text string) (*domain.Message, error) {
	ctx, span := tracer().Start(ctx, "Append",
		trace.WithAttributes(attribute.String("chat.user", user)),
	)
	defer span.End()

	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("%w: user is empty", ErrInvalidArgument)
	}
	return repo.AppendMessage(ctx, s.DB, user, text)
}

// MarkReviewed flips the reviewed flag of every id in the batch to value and
// returns the number of rows matched. A batch containing a non-positive id is
// rejected as a whole before touching the store.
func (s *MessageService) MarkReviewed(ctx context.Context, ids []int64, value bool) (int64, error) {
	ctx, span := tracer().Start(ctx, "MarkReviewed",
		trace.WithAttributes(
			attribute.Int("batch.size", len(ids)),
			attribute.Bool("reviewed", value),
		),
	)
	defer span.End()

	for _, id := range ids {
		if id <= 0 {
			return 0, fmt.Errorf("%w: id %d", ErrInvalidArgument, id)
		}
	}
	return repo.MarkReviewed(ctx, s.DB, ids, value)
}

// MostRecent returns the newest stored message or ErrNoMessages.
func (s *MessageService) MostRecent(ctx context.Context) (*domain.Message, error) {
	ctx, span := tracer().Start(ctx, "MostRecent")
	defer span.End()

	m, err := repo.MostRecentMessage(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNoMessages
	}
	return m, nil
}

// LatestPerUser returns one message per user: that user's newest.
func (s *MessageService) LatestPerUser(ctx context.Context) ([]domain.Message, error) {
	ctx, span := tracer().Start(ctx, "LatestPerUser")
	defer span.End()

	return repo.LatestPerUser(ctx, s.DB)
}

// Unreviewed returns up to limit unreviewed messages, newest first.
// A negative limit is an ErrInvalidArgument; zero yields an empty slice;
// anything above MaxLimit is capped.
func (s *MessageService) Unreviewed(ctx context.Context, limit int) ([]domain.Message, error) {
	ctx, span := tracer().Start(ctx, "Unreviewed",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalidArgument, limit)
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return repo.ListUnreviewed(ctx, s.DB, limit)
}

// ResolveLimit turns an optional limit into the one passed to Unreviewed:
// absent means DefaultLimit.
func (s *MessageService) ResolveLimit(limit int, present bool) int {
	if present {
		return limit
	}
	if s.DefaultLimit > 0 {
		return s.DefaultLimit
	}
	return defaultUnreviewedLimit
}

// UserMessages returns every message of user in the requested order,
// optionally without the reviewed ones.
func (s *MessageService) UserMessages(ctx context.Context, user string, desc, hideReviewed bool) ([]domain.Message, error) {
	ctx, span := tracer().Start(ctx, "UserMessages",
		trace.WithAttributes(
			attribute.String("chat.user", user),
			attribute.Bool("desc", desc),
			attribute.Bool("hide_reviewed", hideReviewed),
		),
	)
	defer span.End()

	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("%w: user is empty", ErrInvalidArgument)
	}
	return repo.ListUserMessages(ctx, s.DB, user, desc, hideReviewed)
}

// Users returns the distinct authors, sorted for humans: case-insensitive
// collation in UserLocale rather than byte order.
func (s *MessageService) Users(ctx context.Context) ([]string, error) {
	ctx, span := tracer().Start(ctx, "Users")
	defer span.End()

	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	// Collators are not safe for concurrent use; build one per call.
	collate.New(s.UserLocale, collate.IgnoreCase).SortStrings(users)
	return users, nil
}

// Stats returns (count, maxID) of the store. It changes on every append and
// is used to derive weak ETags for append-only views.
func (s *MessageService) Stats(ctx context.Context) (count, maxID int64, err error) {
	ctx, span := tracer().Start(ctx, "Stats")
	defer span.End()

	return repo.MessagesStats(ctx, s.DB)
}
