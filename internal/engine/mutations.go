package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
	"github.com/kgothalangLekitlane/Learn/pkg/metrics"
	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// Every mutation writes to the remote store first and applies the
// confirmed result to the mirror after, so a rejected write leaves the
// mirror untouched. The one exception is a failed counter write after a
// successful row write: the row-level mirror change is kept, the
// divergence is reported as a partial apply, and the next Refresh
// re-derives the counter from the store.

// UploadVideoInput carries data for publishing a video whose assets are
// already uploaded.
type UploadVideoInput struct {
	Title           string
	Description     string
	ThumbnailURL    string
	MediaURL        string
	DurationSeconds int
	Category        string
	Tags            []string
}

// UploadVideo inserts a video owned by the session profile and prepends
// it to the mirror so it sorts first without a reload.
func (e *Engine) UploadVideo(ctx context.Context, input UploadVideoInput) (store.Video, error) {
	const op = "upload_video"

	prof, err := e.requireProfile()
	if err != nil {
		return store.Video{}, e.fail(op, err)
	}

	if strings.TrimSpace(input.Title) == "" {
		return store.Video{}, e.fail(op, apperrors.New("video title is required", apperrors.ErrValidation, nil))
	}

	video, err := e.store.InsertVideo(ctx, store.NewVideo{
		Title:           input.Title,
		Description:     input.Description,
		ThumbnailURL:    input.ThumbnailURL,
		MediaURL:        input.MediaURL,
		TutorID:         prof.ID,
		DurationSeconds: input.DurationSeconds,
		Category:        input.Category,
		Tags:            input.Tags,
	})
	if err != nil {
		return store.Video{}, e.fail(op, apperrors.Wrap(err, "video insert rejected", apperrors.ErrRemoteWrite))
	}

	e.mirror.PrependVideo(video)
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()

	return video, nil
}

// AddComment appends a comment by the session profile to a video.
// Comments are append-only; whitespace-only content is rejected before
// any write happens.
func (e *Engine) AddComment(ctx context.Context, videoID uuid.UUID, content string) (store.Comment, error) {
	const op = "add_comment"

	prof, err := e.requireProfile()
	if err != nil {
		return store.Comment{}, e.fail(op, err)
	}

	if strings.TrimSpace(content) == "" {
		return store.Comment{}, e.fail(op, apperrors.New("comment content is required", apperrors.ErrValidation, nil))
	}

	comment, err := e.store.InsertComment(ctx, store.NewComment{
		VideoID: videoID,
		UserID:  prof.ID,
		Content: content,
	})
	if err != nil {
		return store.Comment{}, e.fail(op, apperrors.Wrap(err, "comment insert rejected", apperrors.ErrRemoteWrite))
	}

	e.mirror.PrependComment(comment)
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()

	return comment, nil
}

// ToggleLike creates the like row for (session profile, video) if absent
// and removes it if present, then writes the adjusted like count as a
// second, distinct remote write. The count is floored at zero so a stale
// starting value can never push it negative.
func (e *Engine) ToggleLike(ctx context.Context, videoID uuid.UUID) error {
	const op = "toggle_like"

	prof, err := e.requireProfile()
	if err != nil {
		return e.fail(op, err)
	}

	if existing, liked := e.mirror.LikeBy(prof.ID, videoID); liked {
		if err := e.store.DeleteLike(ctx, existing.ID); err != nil {
			return e.fail(op, apperrors.Wrap(err, "like delete rejected", apperrors.ErrRemoteWrite))
		}
		e.mirror.RemoveLike(existing.ID)

		return e.writeLikeCount(ctx, op, videoID, -1)
	}

	like, err := e.store.InsertLike(ctx, store.NewLike{UserID: prof.ID, VideoID: videoID})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// A racing toggle on the same key already created the row;
			// treat as applied and let the next refresh converge.
			e.logger.Warn("like already applied by concurrent toggle",
				slog.String("video_id", videoID.String()),
			)
			metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()
			return nil
		}
		return e.fail(op, apperrors.Wrap(err, "like insert rejected", apperrors.ErrRemoteWrite))
	}
	e.mirror.AddLike(like)

	return e.writeLikeCount(ctx, op, videoID, +1)
}

// writeLikeCount issues the dependent counter write after a like row
// write was acknowledged. The next value derives from the mirror's
// current count, matching the row change just applied.
func (e *Engine) writeLikeCount(ctx context.Context, op string, videoID uuid.UUID, delta int) error {
	next := delta
	if video, ok := e.mirror.VideoByID(videoID); ok {
		next = video.LikeCount + delta
	}
	if next < 0 {
		next = 0
	}

	if err := e.store.SetVideoLikeCount(ctx, videoID, next); err != nil {
		return e.partialApply(op, videoID, "like_count", err)
	}

	e.mirror.SetVideoLikeCount(videoID, next)
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()

	return nil
}

// ToggleSubscription creates the subscription row for (session profile,
// tutor) if absent and removes it if present. Only students may own
// subscriptions; there is no denormalized counter to maintain because
// subscriber counts are always derived by counting rows.
func (e *Engine) ToggleSubscription(ctx context.Context, tutorID uuid.UUID) error {
	const op = "toggle_subscription"

	prof, err := e.requireProfile()
	if err != nil {
		return e.fail(op, err)
	}

	if !prof.IsStudent() {
		return e.fail(op, apperrors.New("only students can subscribe", apperrors.ErrAuthorization, nil))
	}

	if existing, subscribed := e.mirror.SubscriptionBy(prof.ID, tutorID); subscribed {
		if err := e.store.DeleteSubscription(ctx, existing.ID); err != nil {
			return e.fail(op, apperrors.Wrap(err, "subscription delete rejected", apperrors.ErrRemoteWrite))
		}
		e.mirror.RemoveSubscription(existing.ID)
		metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()
		return nil
	}

	subscription, err := e.store.InsertSubscription(ctx, store.NewSubscription{StudentID: prof.ID, TutorID: tutorID})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			e.logger.Warn("subscription already applied by concurrent toggle",
				slog.String("tutor_id", tutorID.String()),
			)
			metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()
			return nil
		}
		return e.fail(op, apperrors.Wrap(err, "subscription insert rejected", apperrors.ErrRemoteWrite))
	}

	e.mirror.AddSubscription(subscription)
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()

	return nil
}

// RecordWatch upserts the watch-history row for (session profile, video):
// a repeat view only touches watchedAt in place, a first view inserts a
// fresh row at progress zero. The video's view count is then incremented
// unconditionally; view counts track watch events while history rows
// track videos ever watched, and those are deliberately different.
func (e *Engine) RecordWatch(ctx context.Context, videoID uuid.UUID) error {
	const op = "record_watch"

	prof, err := e.requireProfile()
	if err != nil {
		return e.fail(op, err)
	}

	if existing, watched := e.mirror.HistoryBy(prof.ID, videoID); watched {
		updated, err := e.store.TouchWatch(ctx, existing.ID, time.Now().UTC())
		if err != nil {
			return e.fail(op, apperrors.Wrap(err, "watch history update rejected", apperrors.ErrRemoteWrite))
		}
		e.mirror.UpdateHistory(updated)
	} else {
		watch, err := e.store.InsertWatch(ctx, store.NewWatch{
			UserID:   prof.ID,
			VideoID:  videoID,
			Progress: types.ZeroProgress(),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				e.logger.Warn("watch history already recorded by concurrent session",
					slog.String("video_id", videoID.String()),
				)
			} else {
				return e.fail(op, apperrors.Wrap(err, "watch history insert rejected", apperrors.ErrRemoteWrite))
			}
		} else {
			e.mirror.PrependHistory(watch)
		}
	}

	video, ok := e.mirror.VideoByID(videoID)
	if !ok {
		// Nothing to count against; the history row is already recorded.
		metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()
		return nil
	}

	next := video.ViewCount + 1
	if err := e.store.SetVideoViewCount(ctx, videoID, next); err != nil {
		return e.partialApply(op, videoID, "view_count", err)
	}

	e.mirror.SetVideoViewCount(videoID, next)
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusOK).Inc()

	return nil
}

// fail records a failed mutation and passes the error through.
func (e *Engine) fail(op string, err error) error {
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusError).Inc()
	return err
}

// partialApply reports a counter write that failed after its row write
// succeeded: the mirror keeps the row-level change, the divergence is
// logged and counted, and the next Refresh self-heals the field.
func (e *Engine) partialApply(op string, videoID uuid.UUID, field string, err error) error {
	metrics.PartialAppliesTotal.Inc()
	metrics.MutationsTotal.WithLabelValues(op, metrics.StatusPartialApply).Inc()

	e.logger.Error("counter write failed after row write, mirror diverged until next refresh",
		slog.String("operation", op),
		slog.String("video_id", videoID.String()),
		slog.String("field", field),
		slog.String("error", err.Error()),
	)

	return apperrors.New("counter write failed after row write", apperrors.ErrPartialApply, err).
		WithFields(map[string]string{
			"video_id": videoID.String(),
			"field":    field,
		})
}
