// Package services defines the business logic over the chat message store.
// This file centralizes the service-level error values so that callers
// (HTTP handlers, the review console, the ingestion adapter) can check them
// with errors.Is and map them to their own presentation.
package services

import (
	"errors"

	"github.com/JohnSOGO/ChatMan/internal/repo"
)

var (
	// ErrInvalidArgument is returned when a caller passes a value the store
	// operations cannot accept (negative limit, blank user, non-positive id).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoMessages is returned by MostRecent when the store holds no message.
	ErrNoMessages = errors.New("no messages")

	// ErrStoreUnavailable is the repository sentinel, re-exported so callers
	// do not need to import repo to classify failures.
	ErrStoreUnavailable = repo.ErrStoreUnavailable
)
