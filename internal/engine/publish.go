package engine

import (
	"context"
	"errors"
	"io"

	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
)

// ErrMediaUnavailable is returned when a raw-file publish is attempted
// without a configured media service.
var ErrMediaUnavailable = errors.New("media service is not configured")

// PublishVideoInput carries raw media assets plus video metadata.
type PublishVideoInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string

	Media         io.ReadSeeker
	MediaName     string
	Thumbnail     io.Reader
	ThumbnailName string
}

// PublishVideo runs the full upload flow: probe the media duration, push
// the media file and thumbnail through the media collaborator, then
// insert the video with the returned URLs. Only tutors publish.
func (e *Engine) PublishVideo(ctx context.Context, input PublishVideoInput) (store.Video, error) {
	const op = "publish_video"

	prof, err := e.requireProfile()
	if err != nil {
		return store.Video{}, e.fail(op, err)
	}

	if !prof.IsTutor() {
		return store.Video{}, e.fail(op, apperrors.New("only tutors can publish videos", apperrors.ErrAuthorization, nil))
	}

	if e.media == nil {
		return store.Video{}, e.fail(op, ErrMediaUnavailable)
	}

	duration, err := e.media.ProbeDuration(input.Media)
	if err != nil {
		return store.Video{}, e.fail(op, apperrors.Wrap(err, "media duration probe failed", apperrors.ErrValidation))
	}

	mediaURL, err := e.media.UploadVideo(ctx, input.Media, input.MediaName, prof.ID.String())
	if err != nil {
		return store.Video{}, e.fail(op, apperrors.Wrap(err, "media upload failed", apperrors.ErrRemoteWrite))
	}

	var thumbnailURL string
	if input.Thumbnail != nil {
		thumbnailURL, err = e.media.UploadThumbnail(ctx, input.Thumbnail, input.ThumbnailName, prof.ID.String())
		if err != nil {
			return store.Video{}, e.fail(op, apperrors.Wrap(err, "thumbnail upload failed", apperrors.ErrRemoteWrite))
		}
	}

	return e.UploadVideo(ctx, UploadVideoInput{
		Title:           input.Title,
		Description:     input.Description,
		ThumbnailURL:    thumbnailURL,
		MediaURL:        mediaURL,
		DurationSeconds: duration,
		Category:        input.Category,
		Tags:            input.Tags,
	})
}
