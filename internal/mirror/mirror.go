// Package mirror holds the session-scoped in-memory copy of the five
// remote collections. It is authoritative for reads within a session:
// populated by explicit bulk loads, advanced only by confirmed remote
// writes, and discarded on sign-out.
package mirror

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kgothalangLekitlane/Learn/internal/store"
)

// Snapshot is the result of one full bulk load. A snapshot replaces the
// mirror wholesale, so a partially failed load never reaches it.
type Snapshot struct {
	Videos        []store.Video
	Comments      []store.Comment
	Likes         []store.Like
	Subscriptions []store.Subscription
	History       []store.WatchHistory
}

// Mirror is the in-memory collection container. All methods are safe for
// concurrent use; apply operations are idempotent so a confirmed remote
// result can be re-applied without drift.
type Mirror struct {
	mu            sync.RWMutex
	videos        []store.Video
	comments      []store.Comment
	likes         []store.Like
	subscriptions []store.Subscription
	history       []store.WatchHistory
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{}
}

// Replace swaps in a freshly loaded snapshot, discarding all previous state.
func (m *Mirror) Replace(snapshot Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.videos = snapshot.Videos
	m.comments = snapshot.Comments
	m.likes = snapshot.Likes
	m.subscriptions = snapshot.Subscriptions
	m.history = snapshot.History
}

// Clear empties every collection. Used on sign-out.
func (m *Mirror) Clear() {
	m.Replace(Snapshot{})
}

// Sizes reports the row count of each collection, keyed by collection name.
func (m *Mirror) Sizes() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]int{
		"videos":        len(m.videos),
		"comments":      len(m.comments),
		"likes":         len(m.likes),
		"subscriptions": len(m.subscriptions),
		"history":       len(m.history),
	}
}

// Videos returns a copy of the video collection, most recent first.
func (m *Mirror) Videos() []store.Video {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Video(nil), m.videos...)
}

// Comments returns a copy of the comment collection, most recent first.
func (m *Mirror) Comments() []store.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Comment(nil), m.comments...)
}

// Likes returns a copy of the like collection.
func (m *Mirror) Likes() []store.Like {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Like(nil), m.likes...)
}

// Subscriptions returns a copy of the subscription collection.
func (m *Mirror) Subscriptions() []store.Subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Subscription(nil), m.subscriptions...)
}

// History returns a copy of the watch-history collection, most recently
// watched first.
func (m *Mirror) History() []store.WatchHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.WatchHistory(nil), m.history...)
}

// Apply operations ----------------------------------------------------------

// PrependVideo inserts a confirmed video at the head of the collection so
// new uploads sort first without a reload. Re-applying the same row is a no-op.
func (m *Mirror) PrependVideo(video store.Video) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.videos {
		if existing.ID == video.ID {
			return
		}
	}

	m.videos = append([]store.Video{video}, m.videos...)
}

// PrependComment inserts a confirmed comment at the head of the collection.
func (m *Mirror) PrependComment(comment store.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.comments {
		if existing.ID == comment.ID {
			return
		}
	}

	m.comments = append([]store.Comment{comment}, m.comments...)
}

// AddLike records a confirmed like row. Re-applying the same row is a no-op.
func (m *Mirror) AddLike(like store.Like) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.likes {
		if existing.ID == like.ID {
			return
		}
	}

	m.likes = append(m.likes, like)
}

// RemoveLike drops a like row by id. Removing an absent row is a no-op.
func (m *Mirror) RemoveLike(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.likes {
		if existing.ID == id {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return
		}
	}
}

// AddSubscription records a confirmed subscription row.
func (m *Mirror) AddSubscription(subscription store.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.subscriptions {
		if existing.ID == subscription.ID {
			return
		}
	}

	m.subscriptions = append(m.subscriptions, subscription)
}

// RemoveSubscription drops a subscription row by id.
func (m *Mirror) RemoveSubscription(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.subscriptions {
		if existing.ID == id {
			m.subscriptions = append(m.subscriptions[:i], m.subscriptions[i+1:]...)
			return
		}
	}
}

// SetVideoLikeCount writes a confirmed absolute like count onto a video.
func (m *Mirror) SetVideoLikeCount(id uuid.UUID, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.videos {
		if m.videos[i].ID == id {
			m.videos[i].LikeCount = count
			return
		}
	}
}

// SetVideoViewCount writes a confirmed absolute view count onto a video.
func (m *Mirror) SetVideoViewCount(id uuid.UUID, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.videos {
		if m.videos[i].ID == id {
			m.videos[i].ViewCount = count
			return
		}
	}
}

// PrependHistory inserts a confirmed fresh watch row at the head of the
// history collection.
func (m *Mirror) PrependHistory(watch store.WatchHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.history {
		if existing.ID == watch.ID {
			return
		}
	}

	m.history = append([]store.WatchHistory{watch}, m.history...)
}

// UpdateHistory replaces an existing history row in place with its
// confirmed updated version. An unknown id is a no-op.
func (m *Mirror) UpdateHistory(watch store.WatchHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.history {
		if m.history[i].ID == watch.ID {
			m.history[i] = watch
			return
		}
	}
}

// TouchHistory stamps watchedAt on an existing row by id.
func (m *Mirror) TouchHistory(id uuid.UUID, watchedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.history {
		if m.history[i].ID == id {
			m.history[i].WatchedAt = watchedAt
			return
		}
	}
}
