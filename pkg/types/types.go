package types

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role represents the platform role of a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// DefaultRole is assigned when no role signal is available at provisioning time.
const DefaultRole = RoleStudent

// Valid reports whether the role is one of the known platform roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// BaseModel contains common fields for all persisted rows.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Progress wraps decimal.Decimal for playback-position values so that
// fractional seconds survive the numeric column round trip exactly.
type Progress decimal.Decimal

// NewProgress creates Progress from float64.
func NewProgress(value float64) Progress {
	return Progress(decimal.NewFromFloat(value))
}

// ZeroProgress returns the starting playback position for a fresh watch.
func ZeroProgress() Progress {
	return Progress(decimal.Zero)
}

// Float64 returns the float64 representation.
func (p Progress) Float64() float64 {
	return decimal.Decimal(p).InexactFloat64()
}

// String returns string representation.
func (p Progress) String() string {
	return decimal.Decimal(p).String()
}

// IsZero returns true if value is zero.
func (p Progress) IsZero() bool {
	return decimal.Decimal(p).IsZero()
}

// Value implements driver.Valuer for database serialization.
func (p Progress) Value() (driver.Value, error) {
	return decimal.Decimal(p).Value()
}

// Scan implements sql.Scanner for database deserialization.
func (p *Progress) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*p = Progress(d)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Progress) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(p).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = Progress(d)
	return nil
}
