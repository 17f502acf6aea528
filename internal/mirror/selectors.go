package mirror

import (
	"github.com/google/uuid"

	"github.com/kgothalangLekitlane/Learn/internal/store"
)

// Derived view selectors: pure reads over the current mirror state.
// Everything here is computed on demand; nothing below caches.

// VideoByID looks up a video by id.
func (m *Mirror) VideoByID(id uuid.UUID) (store.Video, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, video := range m.videos {
		if video.ID == id {
			return video, true
		}
	}

	return store.Video{}, false
}

// CommentsByVideo returns all comments on a video, most recent first.
func (m *Mirror) CommentsByVideo(videoID uuid.UUID) []store.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []store.Comment
	for _, comment := range m.comments {
		if comment.VideoID == videoID {
			matched = append(matched, comment)
		}
	}

	return matched
}

// VideosByTutor returns all videos owned by a tutor, most recent first.
func (m *Mirror) VideosByTutor(tutorID uuid.UUID) []store.Video {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []store.Video
	for _, video := range m.videos {
		if video.TutorID == tutorID {
			matched = append(matched, video)
		}
	}

	return matched
}

// LikeBy finds the like row for a (user, video) pair.
func (m *Mirror) LikeBy(userID, videoID uuid.UUID) (store.Like, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, like := range m.likes {
		if like.UserID == userID && like.VideoID == videoID {
			return like, true
		}
	}

	return store.Like{}, false
}

// SubscriptionBy finds the subscription row for a (student, tutor) pair.
func (m *Mirror) SubscriptionBy(studentID, tutorID uuid.UUID) (store.Subscription, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, subscription := range m.subscriptions {
		if subscription.StudentID == studentID && subscription.TutorID == tutorID {
			return subscription, true
		}
	}

	return store.Subscription{}, false
}

// SubscriberCount counts subscription rows for a tutor. Always derived
// from the rows, never cached, so it cannot drift from the collection.
func (m *Mirror) SubscriberCount(tutorID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, subscription := range m.subscriptions {
		if subscription.TutorID == tutorID {
			count++
		}
	}

	return count
}

// HistoryBy finds the watch-history row for a (user, video) pair.
func (m *Mirror) HistoryBy(userID, videoID uuid.UUID) (store.WatchHistory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, watch := range m.history {
		if watch.UserID == userID && watch.VideoID == videoID {
			return watch, true
		}
	}

	return store.WatchHistory{}, false
}

// HistoryByUser returns a user's watch history, most recently watched first.
func (m *Mirror) HistoryByUser(userID uuid.UUID) []store.WatchHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []store.WatchHistory
	for _, watch := range m.history {
		if watch.UserID == userID {
			matched = append(matched, watch)
		}
	}

	return matched
}
