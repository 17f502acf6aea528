// Package store defines the remote relational store contract the sync
// engine depends on: five queryable tables with join expansion to the
// related profile, insert-returning-row, update-by-id and delete-by-id.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate row")
)

// NewProfile carries data for creating a profile row.
type NewProfile struct {
	ExternalID  string
	Email       string
	DisplayName string
	Role        types.Role
	AvatarURL   string
}

// NewVideo carries data for creating a video row.
type NewVideo struct {
	Title           string
	Description     string
	ThumbnailURL    string
	MediaURL        string
	TutorID         uuid.UUID
	DurationSeconds int
	Category        string
	Tags            []string
}

// NewComment carries data for creating a comment row.
type NewComment struct {
	VideoID uuid.UUID
	UserID  uuid.UUID
	Content string
}

// NewLike carries data for creating a like row.
type NewLike struct {
	UserID  uuid.UUID
	VideoID uuid.UUID
}

// NewSubscription carries data for creating a subscription row.
type NewSubscription struct {
	StudentID uuid.UUID
	TutorID   uuid.UUID
}

// NewWatch carries data for creating a watch-history row.
type NewWatch struct {
	UserID   uuid.UUID
	VideoID  uuid.UUID
	Progress types.Progress
}

// Store is the async table API of the remote relational store. Every
// returned row carries the store-minted id; inserts and updates return
// the confirmed row so the caller can apply it to its mirror.
type Store interface {
	// Profiles.
	ProfileByExternalID(ctx context.Context, externalID string) (Profile, error)
	InsertProfile(ctx context.Context, input NewProfile) (Profile, error)

	// Videos, joined with the owning profile, most recent first.
	Videos(ctx context.Context) ([]Video, error)
	InsertVideo(ctx context.Context, input NewVideo) (Video, error)
	SetVideoLikeCount(ctx context.Context, id uuid.UUID, count int) error
	SetVideoViewCount(ctx context.Context, id uuid.UUID, count int) error

	// Comments, joined with the authoring profile, most recent first.
	Comments(ctx context.Context) ([]Comment, error)
	InsertComment(ctx context.Context, input NewComment) (Comment, error)

	// Likes.
	Likes(ctx context.Context) ([]Like, error)
	InsertLike(ctx context.Context, input NewLike) (Like, error)
	DeleteLike(ctx context.Context, id uuid.UUID) error

	// Subscriptions.
	Subscriptions(ctx context.Context) ([]Subscription, error)
	InsertSubscription(ctx context.Context, input NewSubscription) (Subscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error

	// Watch history, most recently watched first.
	WatchHistory(ctx context.Context) ([]WatchHistory, error)
	InsertWatch(ctx context.Context, input NewWatch) (WatchHistory, error)
	TouchWatch(ctx context.Context, id uuid.UUID, watchedAt time.Time) (WatchHistory, error)
}
