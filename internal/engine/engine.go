// Package engine implements the client-side synchronization engine: it
// owns the session mirror of the remote collections, exposes the five
// mutation operations with toggle/upsert semantics, and serves derived
// lookups to the presentation layer.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kgothalangLekitlane/Learn/internal/identity"
	"github.com/kgothalangLekitlane/Learn/internal/mirror"
	"github.com/kgothalangLekitlane/Learn/internal/profile"
	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
	"github.com/kgothalangLekitlane/Learn/pkg/media"
	"github.com/kgothalangLekitlane/Learn/pkg/metrics"
)

// Engine drives one authenticated session: provision on sign-in, bulk
// load the mirror, then apply user mutations remote-first. The remote
// store stays the system of record; the mirror is discarded on sign-out.
type Engine struct {
	store       store.Store
	provisioner *profile.Provisioner
	media       media.Service
	mirror      *mirror.Mirror
	logger      *slog.Logger

	mu      sync.RWMutex
	profile *store.Profile
	loading bool
}

// New creates an engine. The media service may be nil when the session
// never publishes raw files.
func New(st store.Store, provisioner *profile.Provisioner, mediaService media.Service, logger *slog.Logger) *Engine {
	return &Engine{
		store:       st,
		provisioner: provisioner,
		media:       mediaService,
		mirror:      mirror.New(),
		logger:      logger,
	}
}

// SignIn provisions the profile for the identity and performs the
// initial bulk load. Calling it with a new identity replaces the session.
func (e *Engine) SignIn(ctx context.Context, id identity.Identity) error {
	prof, err := e.provisioner.Ensure(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.profile = &prof
	e.mu.Unlock()

	return e.Refresh(ctx)
}

// SignOut drops the session profile and empties the mirror.
func (e *Engine) SignOut() {
	e.mu.Lock()
	e.profile = nil
	e.mu.Unlock()

	e.mirror.Clear()

	e.logger.Info("session closed, mirror discarded")
}

// Refresh re-runs the full bulk load. All five reads must succeed before
// any of them reaches the mirror; a failed load leaves previous state
// untouched. Counter fields diverged by an earlier partial apply are
// re-derived from the store here.
func (e *Engine) Refresh(ctx context.Context) error {
	e.setLoading(true)
	defer e.setLoading(false)

	started := time.Now()

	videos, err := e.store.Videos(ctx)
	if err != nil {
		return apperrors.Wrap(err, "load videos failed", apperrors.ErrRemoteWrite)
	}

	comments, err := e.store.Comments(ctx)
	if err != nil {
		return apperrors.Wrap(err, "load comments failed", apperrors.ErrRemoteWrite)
	}

	likes, err := e.store.Likes(ctx)
	if err != nil {
		return apperrors.Wrap(err, "load likes failed", apperrors.ErrRemoteWrite)
	}

	subscriptions, err := e.store.Subscriptions(ctx)
	if err != nil {
		return apperrors.Wrap(err, "load subscriptions failed", apperrors.ErrRemoteWrite)
	}

	history, err := e.store.WatchHistory(ctx)
	if err != nil {
		return apperrors.Wrap(err, "load watch history failed", apperrors.ErrRemoteWrite)
	}

	e.mirror.Replace(mirror.Snapshot{
		Videos:        videos,
		Comments:      comments,
		Likes:         likes,
		Subscriptions: subscriptions,
		History:       history,
	})

	metrics.MirrorLoadDuration.Observe(time.Since(started).Seconds())
	for collection, size := range e.mirror.Sizes() {
		metrics.MirrorRows.WithLabelValues(collection).Set(float64(size))
	}

	e.logger.Info("mirror loaded",
		slog.Int("videos", len(videos)),
		slog.Int("comments", len(comments)),
		slog.Int("likes", len(likes)),
		slog.Int("subscriptions", len(subscriptions)),
		slog.Int("history", len(history)),
		slog.Duration("elapsed", time.Since(started)),
	)

	return nil
}

// Loading reports whether a bulk load is in flight.
func (e *Engine) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

func (e *Engine) setLoading(loading bool) {
	e.mu.Lock()
	e.loading = loading
	e.mu.Unlock()
}

// Profile returns the session profile, if one has been provisioned.
func (e *Engine) Profile() (store.Profile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.profile == nil {
		return store.Profile{}, false
	}
	return *e.profile, true
}

func (e *Engine) requireProfile() (store.Profile, error) {
	prof, ok := e.Profile()
	if !ok {
		return store.Profile{}, apperrors.New("no provisioned profile for this session", apperrors.ErrNotProvisioned, nil)
	}
	return prof, nil
}

// Raw read access to the mirrored collections.

// Videos returns the mirrored video collection, most recent first.
func (e *Engine) Videos() []store.Video { return e.mirror.Videos() }

// Comments returns the mirrored comment collection, most recent first.
func (e *Engine) Comments() []store.Comment { return e.mirror.Comments() }

// Likes returns the mirrored like collection.
func (e *Engine) Likes() []store.Like { return e.mirror.Likes() }

// Subscriptions returns the mirrored subscription collection.
func (e *Engine) Subscriptions() []store.Subscription { return e.mirror.Subscriptions() }

// History returns the mirrored watch-history collection.
func (e *Engine) History() []store.WatchHistory { return e.mirror.History() }
