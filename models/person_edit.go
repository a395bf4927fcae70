package models

import (
	"github.com/chroniclehq/chroniclebackend/lifecycle"
)

// PersonEditPayload is the closed set of person attributes an edit proposal
// may change. Periods are deliberately absent: approving an edit never
// touches the life-period partition, so no interval re-validation is needed.
type PersonEditPayload struct {
	Name        *string `json:"name,omitempty"`
	BirthYear   *int    `json:"birth_year,omitempty"`
	DeathYear   *int    `json:"death_year,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	WikiLink    *string `json:"wiki_link,omitempty"`
}

// IsEmpty reports whether the payload changes nothing.
func (p PersonEditPayload) IsEmpty() bool {
	return p.Name == nil && p.BirthYear == nil && p.DeathYear == nil &&
		p.Category == nil && p.Description == nil && p.ImageURL == nil && p.WikiLink == nil
}

// ApplyTo copies the populated fields onto the target person.
func (p PersonEditPayload) ApplyTo(person *Person) {
	if p.Name != nil {
		person.Name = *p.Name
	}
	if p.BirthYear != nil {
		person.BirthYear = *p.BirthYear
	}
	if p.DeathYear != nil {
		person.DeathYear = *p.DeathYear
	}
	if p.Category != nil {
		person.Category = *p.Category
	}
	if p.Description != nil {
		person.Description = *p.Description
	}
	if p.ImageURL != nil {
		person.ImageURL = p.ImageURL
	}
	if p.WikiLink != nil {
		person.WikiLink = p.WikiLink
	}
}

// PersonEdit represents a proposed patch against an already-approved person,
// reviewed independently of the person's own lifecycle. It corresponds to
// the 'person_edits' table.
type PersonEdit struct {
	ID             uint              `json:"id" gorm:"primaryKey;autoIncrement"`
	PersonID       string            `json:"person_id" gorm:"index;not null"`
	ProposerUserID uint              `json:"proposer_user_id" gorm:"index;not null"`
	Payload        PersonEditPayload `json:"payload" gorm:"serializer:json"`
	Status         lifecycle.Status  `json:"status" gorm:"index;not null"`
	ReviewComment  *string           `json:"review_comment,omitempty"`
	ReviewedBy     *uint             `json:"reviewed_by,omitempty"`
	ReviewedAt     *int64            `json:"reviewed_at,omitempty"`
	CreatedAt      int64             `json:"created_at" gorm:"not null"` // Unix timestamp
	UpdatedAt      int64             `json:"updated_at" gorm:"not null"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (PersonEdit) TableName() string {
	return "person_edits"
}
