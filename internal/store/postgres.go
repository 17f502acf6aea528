package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres implements Store on top of a GORM PostgreSQL connection.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres wraps an open GORM connection.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// ProfileByExternalID retrieves a profile by the external identity id.
func (p *Postgres) ProfileByExternalID(ctx context.Context, externalID string) (Profile, error) {
	var profile Profile
	err := p.db.WithContext(ctx).First(&profile, "external_id = ?", externalID).Error
	if err != nil {
		return Profile{}, translate(err)
	}
	return profile, nil
}

// InsertProfile creates a profile row and returns it with the store-assigned id.
func (p *Postgres) InsertProfile(ctx context.Context, input NewProfile) (Profile, error) {
	profile := Profile{
		ExternalID:  input.ExternalID,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Role:        input.Role,
		AvatarURL:   input.AvatarURL,
	}

	if err := p.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return Profile{}, translate(err)
	}

	return profile, nil
}

// Videos retrieves all videos joined with their owning profile, most recent first.
func (p *Postgres) Videos(ctx context.Context) ([]Video, error) {
	var videos []Video
	err := p.db.WithContext(ctx).
		Preload("Tutor").
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, translate(err)
	}
	return videos, nil
}

// InsertVideo creates a video row and returns it joined with the owning profile.
func (p *Postgres) InsertVideo(ctx context.Context, input NewVideo) (Video, error) {
	video := Video{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		ThumbnailURL:    input.ThumbnailURL,
		MediaURL:        input.MediaURL,
		TutorID:         input.TutorID,
		DurationSeconds: input.DurationSeconds,
		Category:        input.Category,
		Tags:            input.Tags,
	}

	if err := p.db.WithContext(ctx).Create(&video).Error; err != nil {
		return Video{}, translate(err)
	}

	var created Video
	if err := p.db.WithContext(ctx).Preload("Tutor").First(&created, "id = ?", video.ID).Error; err != nil {
		return Video{}, translate(err)
	}

	return created, nil
}

// SetVideoLikeCount writes an absolute like count for a video.
func (p *Postgres) SetVideoLikeCount(ctx context.Context, id uuid.UUID, count int) error {
	return p.updateVideoColumn(ctx, id, "like_count", count)
}

// SetVideoViewCount writes an absolute view count for a video.
func (p *Postgres) SetVideoViewCount(ctx context.Context, id uuid.UUID, count int) error {
	return p.updateVideoColumn(ctx, id, "view_count", count)
}

func (p *Postgres) updateVideoColumn(ctx context.Context, id uuid.UUID, column string, value int) error {
	result := p.db.WithContext(ctx).Model(&Video{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Comments retrieves all comments joined with their authoring profile, most recent first.
func (p *Postgres) Comments(ctx context.Context) ([]Comment, error) {
	var comments []Comment
	err := p.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

// InsertComment creates a comment row and returns it joined with the author.
func (p *Postgres) InsertComment(ctx context.Context, input NewComment) (Comment, error) {
	comment := Comment{
		VideoID: input.VideoID,
		UserID:  input.UserID,
		Content: input.Content,
	}

	if err := p.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return Comment{}, translate(err)
	}

	var created Comment
	if err := p.db.WithContext(ctx).Preload("User").First(&created, "id = ?", comment.ID).Error; err != nil {
		return Comment{}, translate(err)
	}

	return created, nil
}

// Likes retrieves all like rows.
func (p *Postgres) Likes(ctx context.Context) ([]Like, error) {
	var likes []Like
	if err := p.db.WithContext(ctx).Find(&likes).Error; err != nil {
		return nil, translate(err)
	}
	return likes, nil
}

// InsertLike creates a like row for a (user, video) pair.
func (p *Postgres) InsertLike(ctx context.Context, input NewLike) (Like, error) {
	like := Like{UserID: input.UserID, VideoID: input.VideoID}
	if err := p.db.WithContext(ctx).Create(&like).Error; err != nil {
		return Like{}, translate(err)
	}
	return like, nil
}

// DeleteLike removes a like row by id.
func (p *Postgres) DeleteLike(ctx context.Context, id uuid.UUID) error {
	return p.deleteByID(ctx, &Like{}, id)
}

// Subscriptions retrieves all subscription rows.
func (p *Postgres) Subscriptions(ctx context.Context) ([]Subscription, error) {
	var subscriptions []Subscription
	if err := p.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		return nil, translate(err)
	}
	return subscriptions, nil
}

// InsertSubscription creates a subscription row for a (student, tutor) pair.
func (p *Postgres) InsertSubscription(ctx context.Context, input NewSubscription) (Subscription, error) {
	subscription := Subscription{StudentID: input.StudentID, TutorID: input.TutorID}
	if err := p.db.WithContext(ctx).Create(&subscription).Error; err != nil {
		return Subscription{}, translate(err)
	}
	return subscription, nil
}

// DeleteSubscription removes a subscription row by id.
func (p *Postgres) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	return p.deleteByID(ctx, &Subscription{}, id)
}

// WatchHistory retrieves all watch-history rows, most recently watched first.
func (p *Postgres) WatchHistory(ctx context.Context) ([]WatchHistory, error) {
	var history []WatchHistory
	err := p.db.WithContext(ctx).Order("watched_at DESC").Find(&history).Error
	if err != nil {
		return nil, translate(err)
	}
	return history, nil
}

// InsertWatch creates a watch-history row with the current time as watchedAt.
func (p *Postgres) InsertWatch(ctx context.Context, input NewWatch) (WatchHistory, error) {
	watch := WatchHistory{
		UserID:    input.UserID,
		VideoID:   input.VideoID,
		Progress:  input.Progress,
		WatchedAt: time.Now().UTC(),
	}

	if err := p.db.WithContext(ctx).Create(&watch).Error; err != nil {
		return WatchHistory{}, translate(err)
	}

	return watch, nil
}

// TouchWatch updates the watchedAt timestamp of an existing history row in
// place and returns the updated row. Progress is left untouched.
func (p *Postgres) TouchWatch(ctx context.Context, id uuid.UUID, watchedAt time.Time) (WatchHistory, error) {
	result := p.db.WithContext(ctx).Model(&WatchHistory{}).Where("id = ?", id).Update("watched_at", watchedAt.UTC())
	if result.Error != nil {
		return WatchHistory{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return WatchHistory{}, ErrNotFound
	}

	var updated WatchHistory
	if err := p.db.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		return WatchHistory{}, translate(err)
	}

	return updated, nil
}

func (p *Postgres) deleteByID(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := p.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps gorm errors onto the store sentinels. The string check
// covers drivers that bypass gorm's error translation.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "duplicate key value"):
		return ErrDuplicate
	default:
		return err
	}
}
