package models

import (
	"github.com/chroniclehq/chroniclebackend/lifecycle"
)

// Person represents a crowd-submitted biographical record.
// It corresponds to the 'people' table. The ID is a slug derived from the
// name at creation time and never changes afterwards.
type Person struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	BirthYear   int     `json:"birth_year" gorm:"not null"`
	DeathYear   int     `json:"death_year" gorm:"not null"`
	Category    string  `json:"category" gorm:"index"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	WikiLink    *string `json:"wiki_link,omitempty"`

	Status        lifecycle.Status `json:"status" gorm:"index;not null"`
	CreatedBy     uint             `json:"created_by" gorm:"index;not null"`
	UpdatedBy     *uint            `json:"updated_by,omitempty"`
	ReviewedBy    *uint            `json:"reviewed_by,omitempty"`
	ReviewComment *string          `json:"review_comment,omitempty"`
	SubmittedAt   *int64           `json:"submitted_at,omitempty"`
	ReviewedAt    *int64           `json:"reviewed_at,omitempty"`
	CreatedAt     int64            `json:"created_at" gorm:"not null"` // Unix timestamp
	UpdatedAt     int64            `json:"updated_at" gorm:"not null"` // Unix timestamp

	// Relationships
	Periods      []Period      `json:"periods,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Achievements []Achievement `json:"achievements,omitempty" gorm:"foreignKey:PersonID;constraint:OnDelete:SET NULL"`
	Edits        []PersonEdit  `json:"-" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// IsOwnedBy reports whether the record is still the given contributor's to
// manage. Approved persons are shared artifacts and belong to nobody.
func (p *Person) IsOwnedBy(userID uint) bool {
	return p.CreatedBy == userID
}

// PersonInput carries the caller-supplied attributes for creating a person
// or reworking a draft.
type PersonInput struct {
	Name        string  `json:"name"`
	BirthYear   int     `json:"birth_year"`
	DeathYear   int     `json:"death_year"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	WikiLink    *string `json:"wiki_link,omitempty"`
}
