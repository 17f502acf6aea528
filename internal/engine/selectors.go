package engine

import (
	"github.com/google/uuid"

	"github.com/kgothalangLekitlane/Learn/internal/store"
)

// Pure synchronous queries over the current mirror snapshot.

// VideoByID looks up a video by id.
func (e *Engine) VideoByID(id uuid.UUID) (store.Video, bool) {
	return e.mirror.VideoByID(id)
}

// CommentsForVideo returns all comments on a video, most recent first.
func (e *Engine) CommentsForVideo(videoID uuid.UUID) []store.Comment {
	return e.mirror.CommentsByVideo(videoID)
}

// TutorVideos returns all videos owned by a tutor, most recent first.
func (e *Engine) TutorVideos(tutorID uuid.UUID) []store.Video {
	return e.mirror.VideosByTutor(tutorID)
}

// IsLiked reports whether the session profile has liked the video.
// Returns false, not an error, when no profile is provisioned.
func (e *Engine) IsLiked(videoID uuid.UUID) bool {
	prof, ok := e.Profile()
	if !ok {
		return false
	}

	_, liked := e.mirror.LikeBy(prof.ID, videoID)
	return liked
}

// IsSubscribed reports whether the session profile is subscribed to the
// tutor. Returns false, not an error, when no profile is provisioned.
func (e *Engine) IsSubscribed(tutorID uuid.UUID) bool {
	prof, ok := e.Profile()
	if !ok {
		return false
	}

	_, subscribed := e.mirror.SubscriptionBy(prof.ID, tutorID)
	return subscribed
}

// SubscriberCount counts the subscription rows referencing a tutor.
func (e *Engine) SubscriberCount(tutorID uuid.UUID) int {
	return e.mirror.SubscriberCount(tutorID)
}

// WatchedHistory returns the session profile's watch history, most
// recently watched first. Empty when no profile is provisioned.
func (e *Engine) WatchedHistory() []store.WatchHistory {
	prof, ok := e.Profile()
	if !ok {
		return nil
	}

	return e.mirror.HistoryByUser(prof.ID)
}
