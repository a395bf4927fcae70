package models

import (
	"github.com/chroniclehq/chroniclebackend/lifecycle"
)

// PeriodType distinguishes the interval kinds attached to a person. Only
// life periods participate in the lifespan coverage rule; other types are
// descriptive annotations.
const (
	PeriodTypeLife  = "life"
	PeriodTypeRuler = "ruler"
)

// Period represents one time-bounded residency or rule interval of a person.
// It corresponds to the 'periods' table. Life periods are always written as
// a complete set (delete then reinsert), never patched row by row.
type Period struct {
	ID         uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	PersonID   string           `json:"person_id" gorm:"index;not null"`
	CountryID  int64            `json:"country_id" gorm:"not null"`
	StartYear  int              `json:"start_year" gorm:"not null"`
	EndYear    int              `json:"end_year" gorm:"not null"`
	PeriodType string           `json:"period_type" gorm:"not null;default:life"`
	Status     lifecycle.Status `json:"status" gorm:"index;not null"`
	CreatedBy  uint             `json:"created_by" gorm:"not null"`
	CreatedAt  int64            `json:"created_at" gorm:"not null"` // Unix timestamp
	UpdatedAt  int64            `json:"updated_at" gorm:"not null"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Period) TableName() string {
	return "periods"
}
