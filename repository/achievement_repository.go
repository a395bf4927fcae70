package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chroniclehq/chroniclebackend/apperrors"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
)

// AchievementRepository applies the same draft/pending/approved workflow to
// achievements. Achievements carry no interval invariant and may outlive
// their person.
type AchievementRepository struct {
	DB *gorm.DB
}

// NewAchievementRepository creates a new instance of AchievementRepository
func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func validateAchievementInput(input models.AchievementInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.ValidationField(apperrors.ReasonInvalidAttribute, "description", "description is required")
	}
	return nil
}

// Create records a new achievement, optionally attached to a person.
func (r *AchievementRepository) Create(input models.AchievementInput, actor lifecycle.Actor, saveAsDraft bool) (*models.Achievement, error) {
	if err := validateAchievementInput(input); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	achievement := &models.Achievement{
		PersonID:    input.PersonID,
		CountryID:   input.CountryID,
		Year:        input.Year,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		SourceLink:  input.SourceLink,
		Status:      lifecycle.CreationStatus(actor, saveAsDraft),
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if input.PersonID != nil {
			var count int64
			if err := tx.Model(&models.Person{}).Where("id = ?", *input.PersonID).Count(&count).Error; err != nil {
				return apperrors.Storage(err)
			}
			if count == 0 {
				return apperrors.NotFound(fmt.Sprintf("person %q not found", *input.PersonID))
			}
		}
		return translateStoreErr(tx.Create(achievement).Error)
	})
	if err != nil {
		return nil, err
	}
	return achievement, nil
}

// UpdateDraft reworks an achievement's fields. Owners may only rework
// drafts; moderators may edit any state.
func (r *AchievementRepository) UpdateDraft(id uint, input models.AchievementInput, actor lifecycle.Actor) error {
	if err := validateAchievementInput(input); err != nil {
		return err
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		achievement, err := r.load(tx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CanEditContent(achievement.Status, actor, achievement.CreatedBy == actor.ID); err != nil {
			return err
		}

		achievement.PersonID = input.PersonID
		achievement.CountryID = input.CountryID
		achievement.Year = input.Year
		achievement.Description = input.Description
		achievement.ImageURL = input.ImageURL
		achievement.SourceLink = input.SourceLink
		achievement.UpdatedAt = time.Now().Unix()
		return translateStoreErr(tx.Save(achievement).Error)
	})
}

// Submit moves a draft achievement into the review queue.
func (r *AchievementRepository) Submit(id uint, actor lifecycle.Actor) (*models.Achievement, error) {
	return r.transition(id, lifecycle.TransitionSubmit, actor, nil)
}

// RevertToDraft pulls a pending achievement back out of the queue.
func (r *AchievementRepository) RevertToDraft(id uint, actor lifecycle.Actor) error {
	_, err := r.transition(id, lifecycle.TransitionRevert, actor, nil)
	return err
}

// Review resolves a pending achievement.
func (r *AchievementRepository) Review(id uint, approve bool, reviewer lifecycle.Actor) (*models.Achievement, error) {
	transition := lifecycle.TransitionReject
	if approve {
		transition = lifecycle.TransitionApprove
	}
	return r.transition(id, transition, reviewer, &reviewer.ID)
}

// transition runs one decision-table move on a single achievement row.
func (r *AchievementRepository) transition(id uint, t lifecycle.Transition, actor lifecycle.Actor, reviewedBy *uint) (*models.Achievement, error) {
	var achievement *models.Achievement

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		achievement, err = r.load(tx, id)
		if err != nil {
			return err
		}

		decision, err := lifecycle.Decide(lifecycle.KindAchievement, t, achievement.Status, actor, achievement.CreatedBy == actor.ID)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		achievement.Status = decision.Next
		achievement.UpdatedAt = now
		if decision.StampReview {
			achievement.ReviewedBy = reviewedBy
			achievement.ReviewedAt = &now
		}
		return translateStoreErr(tx.Save(achievement).Error)
	})
	if err != nil {
		return nil, err
	}
	return achievement, nil
}

// GetByID retrieves a single achievement
func (r *AchievementRepository) GetByID(id uint) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.DB.First(&achievement, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("achievement %d not found", id))
		}
		return nil, apperrors.Storage(err)
	}
	return &achievement, nil
}

// ListByPerson retrieves all achievements attached to a person
func (r *AchievementRepository) ListByPerson(personID string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.DB.Where("person_id = ?", personID).Order("year ASC").Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for person %s: %w", personID, err)
	}
	return achievements, nil
}

// ListByStatus retrieves achievements in a given workflow state, oldest
// first for the review queue
func (r *AchievementRepository) ListByStatus(status lifecycle.Status) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.DB.Where("status = ?", status).Order("created_at ASC").Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements with status %s: %w", status, err)
	}
	return achievements, nil
}

// Delete removes an achievement. Owners may delete their drafts; anything
// else requires a moderator.
func (r *AchievementRepository) Delete(id uint, actor lifecycle.Actor) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		achievement, err := r.load(tx, id)
		if err != nil {
			return err
		}
		if !actor.CanModerate() && !(achievement.CreatedBy == actor.ID && achievement.Status == lifecycle.StatusDraft) {
			return apperrors.Forbidden("only moderators may delete submitted or published achievements")
		}
		return translateStoreErr(tx.Delete(&models.Achievement{}, id).Error)
	})
}

func (r *AchievementRepository) load(tx *gorm.DB, id uint) (*models.Achievement, error) {
	var achievement models.Achievement
	err := tx.First(&achievement, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("achievement %d not found", id))
		}
		return nil, apperrors.Storage(err)
	}
	return &achievement, nil
}
