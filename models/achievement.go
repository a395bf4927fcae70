package models

import (
	"github.com/chroniclehq/chroniclebackend/lifecycle"
)

// Achievement represents a dated historical fact, optionally attached to a
// person and optionally scoped to a country. Unattached achievements are
// global events. It corresponds to the 'achievements' table.
type Achievement struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	PersonID    *string          `json:"person_id,omitempty" gorm:"index"`
	CountryID   *int64           `json:"country_id,omitempty" gorm:"index"`
	Year        int              `json:"year" gorm:"index;not null"`
	Description string           `json:"description" gorm:"not null"`
	ImageURL    *string          `json:"image_url,omitempty"`
	SourceLink  *string          `json:"source_link,omitempty"`
	Status      lifecycle.Status `json:"status" gorm:"index;not null"`
	CreatedBy   uint             `json:"created_by" gorm:"index;not null"`
	ReviewedBy  *uint            `json:"reviewed_by,omitempty"`
	ReviewedAt  *int64           `json:"reviewed_at,omitempty"`
	CreatedAt   int64            `json:"created_at" gorm:"not null"` // Unix timestamp
	UpdatedAt   int64            `json:"updated_at" gorm:"not null"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Achievement) TableName() string {
	return "achievements"
}

// AchievementInput carries the caller-supplied attributes for creating or
// reworking an achievement.
type AchievementInput struct {
	PersonID    *string `json:"person_id,omitempty"`
	CountryID   *int64  `json:"country_id,omitempty"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	SourceLink  *string `json:"source_link,omitempty"`
}
