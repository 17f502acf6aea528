package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// Placeholder names used when a joined profile could not be resolved.
const (
	UnknownTutorName = "Unknown Tutor"
	UnknownUserName  = "Unknown User"
)

// Profile represents the internal record for an externally authenticated user.
type Profile struct {
	types.BaseModel

	ExternalID  string     `gorm:"type:varchar(255);not null;uniqueIndex;column:external_id" json:"externalId"`
	Email       string     `gorm:"type:varchar(255);not null" json:"email"`
	DisplayName string     `gorm:"type:varchar(255);not null;column:display_name" json:"displayName"`
	Role        types.Role `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	AvatarURL   string     `gorm:"type:text;column:avatar_url" json:"avatarUrl"`
}

// TableName overrides the default table name.
func (Profile) TableName() string { return "profiles" }

// IsStudent reports whether the profile may own subscriptions.
func (p Profile) IsStudent() bool { return p.Role == types.RoleStudent }

// IsTutor reports whether the profile may publish videos.
func (p Profile) IsTutor() bool { return p.Role == types.RoleTutor }

// Video represents a published learning video.
type Video struct {
	types.BaseModel

	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	ThumbnailURL    string         `gorm:"type:text;column:thumbnail_url" json:"thumbnailUrl"`
	MediaURL        string         `gorm:"type:text;column:media_url" json:"mediaUrl"`
	TutorID         uuid.UUID      `gorm:"type:uuid;not null;column:tutor_id;index" json:"tutorId"`
	DurationSeconds int            `gorm:"type:int;not null;default:0;column:duration_seconds" json:"durationSeconds"`
	ViewCount       int            `gorm:"type:int;not null;default:0;column:view_count" json:"viewCount"`
	LikeCount       int            `gorm:"type:int;not null;default:0;column:like_count" json:"likeCount"`
	Category        string         `gorm:"type:varchar(100)" json:"category"`
	Tags            pq.StringArray `gorm:"type:text[]" json:"tags"`

	// Joined owning profile; nil when the join could not be expanded.
	Tutor *Profile `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
}

// TableName overrides the default table name.
func (Video) TableName() string { return "videos" }

// TutorDisplayName resolves the owning tutor's name, with a placeholder
// when the joined profile is absent.
func (v Video) TutorDisplayName() string {
	if v.Tutor == nil {
		return UnknownTutorName
	}
	return v.Tutor.DisplayName
}

// Comment represents a comment on a video. Comments are append-only.
type Comment struct {
	types.BaseModel

	VideoID uuid.UUID `gorm:"type:uuid;not null;column:video_id;index:idx_video_created,priority:1" json:"videoId"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;column:user_id" json:"userId"`
	Content string    `gorm:"type:text;not null" json:"content"`

	// Joined authoring profile; nil when the join could not be expanded.
	User *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the default table name.
func (Comment) TableName() string { return "comments" }

// AuthorDisplayName resolves the author's name, with a placeholder when
// the joined profile is absent.
func (c Comment) AuthorDisplayName() string {
	if c.User == nil {
		return UnknownUserName
	}
	return c.User.DisplayName
}

// Like represents a user liking a video. At most one row exists per
// (user, video) pair.
type Like struct {
	types.BaseModel

	UserID  uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_like_user_video,priority:1" json:"userId"`
	VideoID uuid.UUID `gorm:"type:uuid;not null;column:video_id;uniqueIndex:idx_like_user_video,priority:2;index" json:"videoId"`
}

// TableName overrides the default table name.
func (Like) TableName() string { return "video_likes" }

// Subscription represents a student following a tutor. At most one row
// exists per (student, tutor) pair.
type Subscription struct {
	types.BaseModel

	StudentID uuid.UUID `gorm:"type:uuid;not null;column:student_id;uniqueIndex:idx_sub_student_tutor,priority:1" json:"studentId"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;column:tutor_id;uniqueIndex:idx_sub_student_tutor,priority:2;index" json:"tutorId"`
}

// TableName overrides the default table name.
func (Subscription) TableName() string { return "subscriptions" }

// WatchHistory represents a user's watch record for a video. At most one
// row exists per (user, video) pair; repeat views update it in place.
type WatchHistory struct {
	types.BaseModel

	UserID    uuid.UUID      `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_history_user_video,priority:1" json:"userId"`
	VideoID   uuid.UUID      `gorm:"type:uuid;not null;column:video_id;uniqueIndex:idx_history_user_video,priority:2" json:"videoId"`
	Progress  types.Progress `gorm:"type:numeric(10,2);not null;default:0" json:"progress"`
	WatchedAt time.Time      `gorm:"type:timestamp;not null;column:watched_at;index" json:"watchedAt"`
}

// TableName overrides the default table name.
func (WatchHistory) TableName() string { return "video_history" }
