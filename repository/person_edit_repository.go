package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chroniclehq/chroniclebackend/apperrors"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/realtime"
)

// PersonEditRepository manages proposed edits against approved persons.
// Approved content is never mutated directly by contributors; changes are
// queued as edits and only land on the person when a moderator approves.
type PersonEditRepository struct {
	DB       *gorm.DB
	Notifier Notifier
}

// NewPersonEditRepository creates a new instance of PersonEditRepository
func NewPersonEditRepository(db *gorm.DB, notifier Notifier) *PersonEditRepository {
	return &PersonEditRepository{DB: db, Notifier: notifier}
}

// Propose queues an edit against an approved person. Only approved persons
// accept proposals; anything still moving through the workflow is edited
// through the draft path instead.
func (r *PersonEditRepository) Propose(personID string, payload models.PersonEditPayload, actor lifecycle.Actor) (*models.PersonEdit, error) {
	if payload.IsEmpty() {
		return nil, apperrors.Validation(apperrors.ReasonInvalidAttribute, "edit proposal carries no changes")
	}

	var edit *models.PersonEdit
	var person *models.Person

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Person
		if err := tx.First(&p, "id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(fmt.Sprintf("person %q not found", personID))
			}
			return apperrors.Storage(err)
		}
		person = &p

		if person.Status != lifecycle.StatusApproved {
			return apperrors.NotEditable(fmt.Sprintf("person %q is in status %q; only approved persons accept edit proposals", personID, person.Status))
		}

		now := time.Now().Unix()
		edit = &models.PersonEdit{
			PersonID:       personID,
			ProposerUserID: actor.ID,
			Payload:        payload,
			Status:         lifecycle.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return translateStoreErr(tx.Create(edit).Error)
	})
	if err != nil {
		return nil, err
	}

	r.notify("edit.proposed", person, actor)
	return edit, nil
}

// Review resolves a pending edit. Approval applies the payload to the person
// in the same transaction that stamps the verdict; rejection only stamps.
func (r *PersonEditRepository) Review(editID uint, approve bool, reviewer lifecycle.Actor, comment *string) (*models.PersonEdit, error) {
	transition := lifecycle.TransitionReject
	if approve {
		transition = lifecycle.TransitionApprove
	}

	var edit *models.PersonEdit
	var person *models.Person

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var e models.PersonEdit
		if err := tx.First(&e, editID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(fmt.Sprintf("edit %d not found", editID))
			}
			return apperrors.Storage(err)
		}
		edit = &e

		decision, err := lifecycle.Decide(lifecycle.KindEdit, transition, edit.Status, reviewer, edit.ProposerUserID == reviewer.ID)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		edit.Status = decision.Next
		edit.ReviewedBy = &reviewer.ID
		edit.ReviewComment = comment
		edit.ReviewedAt = &now
		edit.UpdatedAt = now
		if err := tx.Save(edit).Error; err != nil {
			return translateStoreErr(err)
		}

		if !approve {
			return nil
		}

		var p models.Person
		if err := tx.First(&p, "id = ?", edit.PersonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(fmt.Sprintf("person %q for edit %d no longer exists", edit.PersonID, editID))
			}
			return apperrors.Storage(err)
		}
		person = &p

		edit.Payload.ApplyTo(person)
		person.UpdatedBy = &reviewer.ID
		person.UpdatedAt = now
		return translateStoreErr(tx.Save(person).Error)
	})
	if err != nil {
		return nil, err
	}

	if approve {
		r.notify("edit.approved", person, reviewer)
	} else {
		r.notify("edit.rejected", nil, reviewer)
	}
	return edit, nil
}

// GetByID retrieves a single edit proposal
func (r *PersonEditRepository) GetByID(id uint) (*models.PersonEdit, error) {
	var edit models.PersonEdit
	err := r.DB.First(&edit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("edit %d not found", id))
		}
		return nil, apperrors.Storage(err)
	}
	return &edit, nil
}

// ListPending retrieves the edit review queue, oldest first
func (r *PersonEditRepository) ListPending() ([]models.PersonEdit, error) {
	var edits []models.PersonEdit
	err := r.DB.Where("status = ?", lifecycle.StatusPending).Order("created_at ASC").Find(&edits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending edits: %w", err)
	}
	return edits, nil
}

// ListByProposer retrieves a contributor's own proposals, newest first
func (r *PersonEditRepository) ListByProposer(userID uint) ([]models.PersonEdit, error) {
	var edits []models.PersonEdit
	err := r.DB.Where("proposer_user_id = ?", userID).Order("created_at DESC").Find(&edits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list edits proposed by user %d: %w", userID, err)
	}
	return edits, nil
}

func (r *PersonEditRepository) notify(kind string, person *models.Person, actor lifecycle.Actor) {
	if r.Notifier == nil {
		return
	}
	event := realtime.Event{
		Kind:       kind,
		ActorEmail: actor.Email,
		Timestamp:  time.Now().Unix(),
	}
	if person != nil {
		event.PersonID = person.ID
		event.PersonName = person.Name
	}
	r.Notifier.Notify(event)
}
