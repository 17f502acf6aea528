package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgothalangLekitlane/Learn/internal/engine"
	"github.com/kgothalangLekitlane/Learn/internal/profile"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

type fakeMedia struct {
	probeErr  error
	uploadErr error

	uploadedVideos     []string
	uploadedThumbnails []string
}

func (f *fakeMedia) UploadVideo(_ context.Context, _ io.Reader, filename, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploadedVideos = append(f.uploadedVideos, filename)
	return "https://cdn.example.com/videos/" + filename, nil
}

func (f *fakeMedia) UploadThumbnail(_ context.Context, _ io.Reader, filename, _ string) (string, error) {
	f.uploadedThumbnails = append(f.uploadedThumbnails, filename)
	return "https://cdn.example.com/thumbnails/" + filename, nil
}

func (f *fakeMedia) ProbeDuration(io.ReadSeeker) (int, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return 120, nil
}

func newEngineWithMedia(t *testing.T, st *fakeStore, m *fakeMedia) *engine.Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.New(st, profile.NewProvisioner(st, noRoles{}, logger), m, logger)
}

func TestPublishVideoTutorsOnly(t *testing.T) {
	st := newFakeStore()
	eng := newEngineWithMedia(t, st, &fakeMedia{})
	signIn(t, eng, types.RoleStudent)

	_, err := eng.PublishVideo(context.Background(), engine.PublishVideoInput{Title: "lesson"})
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorization))
	assert.Empty(t, st.videos)
}

func TestPublishVideoRequiresMediaService(t *testing.T) {
	st := newFakeStore()
	eng := newEngine(t, st) // no media collaborator wired
	signIn(t, eng, types.RoleTutor)

	_, err := eng.PublishVideo(context.Background(), engine.PublishVideoInput{Title: "lesson"})
	assert.ErrorIs(t, err, engine.ErrMediaUnavailable)
}

func TestPublishVideoFullFlow(t *testing.T) {
	st := newFakeStore()
	m := &fakeMedia{}
	eng := newEngineWithMedia(t, st, m)
	prof := signIn(t, eng, types.RoleTutor)

	video, err := eng.PublishVideo(context.Background(), engine.PublishVideoInput{
		Title:         "Channels in Depth",
		Category:      "go",
		Media:         bytes.NewReader([]byte("fake mp4 bytes")),
		MediaName:     "channels.mp4",
		Thumbnail:     strings.NewReader("fake png bytes"),
		ThumbnailName: "channels.png",
	})
	require.NoError(t, err)

	assert.Equal(t, prof.ID, video.TutorID)
	assert.Equal(t, 120, video.DurationSeconds)
	assert.Equal(t, "https://cdn.example.com/videos/channels.mp4", video.MediaURL)
	assert.Equal(t, "https://cdn.example.com/thumbnails/channels.png", video.ThumbnailURL)

	require.Len(t, eng.Videos(), 1)
	assert.Equal(t, video.ID, eng.Videos()[0].ID)
}

func TestPublishVideoThumbnailOptional(t *testing.T) {
	st := newFakeStore()
	m := &fakeMedia{}
	eng := newEngineWithMedia(t, st, m)
	signIn(t, eng, types.RoleTutor)

	video, err := eng.PublishVideo(context.Background(), engine.PublishVideoInput{
		Title:     "No Thumbnail",
		Media:     bytes.NewReader([]byte("fake mp4 bytes")),
		MediaName: "plain.mp4",
	})
	require.NoError(t, err)
	assert.Empty(t, video.ThumbnailURL)
	assert.Empty(t, m.uploadedThumbnails)
}

func TestPublishVideoProbeFailure(t *testing.T) {
	st := newFakeStore()
	m := &fakeMedia{probeErr: errors.New("no movie header")}
	eng := newEngineWithMedia(t, st, m)
	signIn(t, eng, types.RoleTutor)

	_, err := eng.PublishVideo(context.Background(), engine.PublishVideoInput{
		Title:     "Broken File",
		Media:     bytes.NewReader([]byte("not mp4")),
		MediaName: "broken.mp4",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, st.videos)
}
