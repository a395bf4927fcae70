package repository

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chroniclehq/chroniclebackend/apperrors"
	"github.com/chroniclehq/chroniclebackend/intervals"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/realtime"
	"github.com/chroniclehq/chroniclebackend/utils"
)

// PersonRepository applies lifecycle transitions and life-period replacements
// for person records. Every multi-row mutation runs inside one transaction:
// either the person, its periods, and its achievements all move, or nothing
// does.
type PersonRepository struct {
	DB       *gorm.DB
	Notifier Notifier // optional, fire-and-forget
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB, notifier Notifier) *PersonRepository {
	return &PersonRepository{DB: db, Notifier: notifier}
}

// translateStoreErr maps raw store failures into the engine taxonomy.
func translateStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("record not found")
	}
	return apperrors.Storage(err)
}

func validatePersonInput(input models.PersonInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.ValidationField(apperrors.ReasonInvalidAttribute, "name", "name is required")
	}
	if input.BirthYear > input.DeathYear {
		return apperrors.ValidationField(apperrors.ReasonInvalidAttribute, "birth_year",
			fmt.Sprintf("birth year %d is after death year %d", input.BirthYear, input.DeathYear))
	}
	return nil
}

// CreateDraftOrSubmission creates a new person record. Contributors land in
// draft or pending; moderators submitting directly land in approved and may
// upsert over an existing record with the same identifier.
func (r *PersonRepository) CreateDraftOrSubmission(input models.PersonInput, lifePeriods []intervals.Interval, actor lifecycle.Actor, saveAsDraft bool) (*models.Person, error) {
	if err := validatePersonInput(input); err != nil {
		return nil, err
	}

	status := lifecycle.CreationStatus(actor, saveAsDraft)
	var normalized []intervals.Interval
	if !saveAsDraft || lifePeriods != nil {
		// submissions must carry a valid partition; drafts only when supplied
		var err error
		normalized, err = intervals.Normalize(lifePeriods, input.BirthYear, input.DeathYear)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().Unix()
	var person *models.Person

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if actor.CanModerate() && status == lifecycle.StatusApproved {
			existing, err := r.findBySlug(tx, utils.Slugify(input.Name))
			if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
				return err
			}
			if existing != nil {
				person = existing
				return r.upsertApproved(tx, person, input, normalized, actor, now)
			}
		}

		slug, err := r.uniqueSlug(tx, input.Name)
		if err != nil {
			return err
		}

		person = &models.Person{
			ID:          slug,
			Name:        input.Name,
			BirthYear:   input.BirthYear,
			DeathYear:   input.DeathYear,
			Category:    input.Category,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			WikiLink:    input.WikiLink,
			Status:      status,
			CreatedBy:   actor.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if status == lifecycle.StatusPending {
			person.SubmittedAt = &now
		}
		if err := tx.Create(person).Error; err != nil {
			return translateStoreErr(err)
		}

		if normalized != nil {
			if err := r.writeLifePeriods(tx, person.ID, normalized, status, actor.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch status {
	case lifecycle.StatusPending:
		r.notify("person.submitted", person, actor)
	case lifecycle.StatusApproved:
		r.notify("person.approved", person, actor)
	}
	return person, nil
}

// UpdateDraft reworks a person's attributes and, when supplied, replaces its
// life-period set. Owners may only rework drafts; moderators may rework any
// state.
func (r *PersonRepository) UpdateDraft(personID string, input models.PersonInput, lifePeriods []intervals.Interval, actor lifecycle.Actor) error {
	if err := validatePersonInput(input); err != nil {
		return err
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		person, err := r.loadPerson(tx, personID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanEditContent(person.Status, actor, person.IsOwnedBy(actor.ID)); err != nil {
			return err
		}

		var normalized []intervals.Interval
		if lifePeriods != nil {
			// validated against the incoming lifespan, not the stored one
			normalized, err = intervals.Normalize(lifePeriods, input.BirthYear, input.DeathYear)
			if err != nil {
				return err
			}
		}

		now := time.Now().Unix()
		person.Name = input.Name
		person.BirthYear = input.BirthYear
		person.DeathYear = input.DeathYear
		person.Category = input.Category
		person.Description = input.Description
		person.ImageURL = input.ImageURL
		person.WikiLink = input.WikiLink
		person.UpdatedBy = &actor.ID
		person.UpdatedAt = now
		if err := tx.Save(person).Error; err != nil {
			return translateStoreErr(err)
		}

		if normalized != nil {
			if err := r.writeLifePeriods(tx, person.ID, normalized, person.Status, actor.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// Submit moves a draft person into the review queue. Every period of that
// person still in draft follows; achievements do not cascade on submission.
func (r *PersonRepository) Submit(personID string, actor lifecycle.Actor) (*models.Person, error) {
	var person *models.Person

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		person, err = r.loadPerson(tx, personID)
		if err != nil {
			return err
		}

		decision, err := lifecycle.Decide(lifecycle.KindPerson, lifecycle.TransitionSubmit, person.Status, actor, person.IsOwnedBy(actor.ID))
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		person.Status = decision.Next
		if decision.StampSubmittedAt {
			person.SubmittedAt = &now
		}
		person.UpdatedBy = &actor.ID
		person.UpdatedAt = now
		if err := tx.Save(person).Error; err != nil {
			return translateStoreErr(err)
		}

		return r.applyCascade(tx, person.ID, decision.Cascade, now)
	})
	if err != nil {
		return nil, err
	}

	r.notify("person.submitted", person, actor)
	return person, nil
}

// RevertToDraft pulls a pending person back out of the review queue,
// clearing its submission stamp. Everything of that person still pending --
// periods and achievements alike -- returns to draft with it.
func (r *PersonRepository) RevertToDraft(personID string, actor lifecycle.Actor) error {
	var person *models.Person

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		person, err = r.loadPerson(tx, personID)
		if err != nil {
			return err
		}

		decision, err := lifecycle.Decide(lifecycle.KindPerson, lifecycle.TransitionRevert, person.Status, actor, person.IsOwnedBy(actor.ID))
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		person.Status = decision.Next
		if decision.ClearSubmittedAt {
			person.SubmittedAt = nil
		}
		person.UpdatedBy = &actor.ID
		person.UpdatedAt = now
		if err := tx.Save(person).Error; err != nil {
			return translateStoreErr(err)
		}

		return r.applyCascade(tx, person.ID, decision.Cascade, now)
	})
	if err != nil {
		return err
	}

	r.notify("person.reverted", person, actor)
	return nil
}

// Review resolves a pending person. The verdict applies to the person row
// only; periods and achievements keep whatever state they are in.
func (r *PersonRepository) Review(personID string, approve bool, reviewer lifecycle.Actor, comment *string) (*models.Person, error) {
	transition := lifecycle.TransitionReject
	if approve {
		transition = lifecycle.TransitionApprove
	}

	var person *models.Person
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		person, err = r.loadPerson(tx, personID)
		if err != nil {
			return err
		}

		decision, err := lifecycle.Decide(lifecycle.KindPerson, transition, person.Status, reviewer, person.IsOwnedBy(reviewer.ID))
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		person.Status = decision.Next
		person.ReviewedBy = &reviewer.ID
		person.ReviewComment = comment
		person.ReviewedAt = &now
		person.UpdatedAt = now
		if err := tx.Save(person).Error; err != nil {
			return translateStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if approve {
		r.notify("person.approved", person, reviewer)
	} else {
		r.notify("person.rejected", person, reviewer)
	}
	return person, nil
}

// ReplaceLifePeriods swaps out a person's entire life-period set. The set is
// always re-validated against the stored birth and death years, which may
// differ from whatever the client thinks they are. The person's own status
// is never touched; moderator-written periods land approved, contributor
// ones pending.
func (r *PersonRepository) ReplaceLifePeriods(personID string, lifePeriods []intervals.Interval, actor lifecycle.Actor) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		person, err := r.loadPerson(tx, personID)
		if err != nil {
			return err
		}
		if !actor.CanModerate() && !person.IsOwnedBy(actor.ID) {
			return apperrors.Forbidden("life periods belong to another contributor")
		}

		normalized, err := intervals.Normalize(lifePeriods, person.BirthYear, person.DeathYear)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		return r.writeLifePeriods(tx, person.ID, normalized, lifecycle.ReplacementPeriodStatus(actor), actor.ID, now)
	})
}

// SetPortrait records an uploaded portrait URL on the person.
func (r *PersonRepository) SetPortrait(personID string, imageURL string, actor lifecycle.Actor) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		person, err := r.loadPerson(tx, personID)
		if err != nil {
			return err
		}
		if err := lifecycle.CanEditContent(person.Status, actor, person.IsOwnedBy(actor.ID)); err != nil {
			return err
		}

		now := time.Now().Unix()
		person.ImageURL = &imageURL
		person.UpdatedBy = &actor.ID
		person.UpdatedAt = now
		return translateStoreErr(tx.Save(person).Error)
	})
}

// GetApprovedByID retrieves an approved person for the public catalogue.
// Only approved periods and achievements are attached; drafts, pending
// submissions, and rejections stay invisible outside the workflow view.
func (r *PersonRepository) GetApprovedByID(id string) (*models.Person, error) {
	var person models.Person
	err := r.DB.
		Preload("Periods", "status = ?", lifecycle.StatusApproved).
		Preload("Achievements", "status = ?", lifecycle.StatusApproved).
		First(&person, "id = ? AND status = ?", id, lifecycle.StatusApproved).Error
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return &person, nil
}

// GetByID retrieves a person with periods and achievements preloaded
func (r *PersonRepository) GetByID(id string) (*models.Person, error) {
	var person models.Person
	err := r.DB.Preload("Periods").Preload("Achievements").First(&person, "id = ?", id).Error
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return &person, nil
}

// ListByStatus retrieves all persons in a given workflow state, oldest
// submission first so the review queue is fair
func (r *PersonRepository) ListByStatus(status lifecycle.Status) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Where("status = ?", status).Order("submitted_at ASC, created_at ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people with status %s: %w", status, err)
	}
	return people, nil
}

// ListByCreator retrieves a contributor's own records, newest first
func (r *PersonRepository) ListByCreator(userID uint) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Where("created_by = ?", userID).Order("updated_at DESC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people created by user %d: %w", userID, err)
	}
	return people, nil
}

// Delete removes a person and its dependent rows. Owners may delete their
// drafts; anything else requires a moderator.
func (r *PersonRepository) Delete(id string, actor lifecycle.Actor) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		person, err := r.loadPerson(tx, id)
		if err != nil {
			return err
		}
		if !actor.CanModerate() && !(person.IsOwnedBy(actor.ID) && person.Status == lifecycle.StatusDraft) {
			return apperrors.Forbidden("only moderators may delete submitted or published persons")
		}

		if err := tx.Where("person_id = ?", id).Delete(&models.Period{}).Error; err != nil {
			return translateStoreErr(err)
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.PersonEdit{}).Error; err != nil {
			return translateStoreErr(err)
		}
		// achievements survive their person, detached
		if err := tx.Model(&models.Achievement{}).Where("person_id = ?", id).Update("person_id", nil).Error; err != nil {
			return translateStoreErr(err)
		}
		return translateStoreErr(tx.Delete(&models.Person{}, "id = ?", id).Error)
	})
}

// loadPerson fetches the bare person row inside a transaction.
func (r *PersonRepository) loadPerson(tx *gorm.DB, id string) (*models.Person, error) {
	var person models.Person
	err := tx.First(&person, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("person %q not found", id))
		}
		return nil, apperrors.Storage(err)
	}
	return &person, nil
}

func (r *PersonRepository) findBySlug(tx *gorm.DB, slug string) (*models.Person, error) {
	return r.loadPerson(tx, slug)
}

// uniqueSlug derives the person identifier from the name, suffixing a
// counter on collision. The identifier never changes once assigned.
func (r *PersonRepository) uniqueSlug(tx *gorm.DB, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		return "", apperrors.ValidationField(apperrors.ReasonInvalidAttribute, "name", "name yields an empty identifier")
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&models.Person{}).Where("id = ?", slug).Count(&count).Error; err != nil {
			return "", apperrors.Storage(err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// writeLifePeriods replaces the stored life-period set: delete then
// reinsert. The set is the unit of consistency, individual rows are never
// patched.
func (r *PersonRepository) writeLifePeriods(tx *gorm.DB, personID string, set []intervals.Interval, status lifecycle.Status, createdBy uint, now int64) error {
	if err := tx.Where("person_id = ? AND period_type = ?", personID, models.PeriodTypeLife).Delete(&models.Period{}).Error; err != nil {
		return translateStoreErr(err)
	}

	periods := make([]models.Period, 0, len(set))
	for _, iv := range set {
		periods = append(periods, models.Period{
			PersonID:   personID,
			CountryID:  iv.CountryID,
			StartYear:  iv.StartYear,
			EndYear:    iv.EndYear,
			PeriodType: models.PeriodTypeLife,
			Status:     status,
			CreatedBy:  createdBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return translateStoreErr(tx.Create(&periods).Error)
}

// applyCascade flips the person's dependent rows per the policy decision.
func (r *PersonRepository) applyCascade(tx *gorm.DB, personID string, cascade *lifecycle.Cascade, now int64) error {
	if cascade == nil {
		return nil
	}
	if cascade.Periods {
		err := tx.Model(&models.Period{}).
			Where("person_id = ? AND status = ?", personID, cascade.From).
			Updates(map[string]interface{}{"status": cascade.To, "updated_at": now}).Error
		if err != nil {
			return translateStoreErr(err)
		}
	}
	if cascade.Achievements {
		err := tx.Model(&models.Achievement{}).
			Where("person_id = ? AND status = ?", personID, cascade.From).
			Updates(map[string]interface{}{"status": cascade.To, "updated_at": now}).Error
		if err != nil {
			return translateStoreErr(err)
		}
	}
	return nil
}

// upsertApproved lets a moderator overwrite an existing record in place,
// keeping its identifier.
func (r *PersonRepository) upsertApproved(tx *gorm.DB, person *models.Person, input models.PersonInput, normalized []intervals.Interval, actor lifecycle.Actor, now int64) error {
	person.Name = input.Name
	person.BirthYear = input.BirthYear
	person.DeathYear = input.DeathYear
	person.Category = input.Category
	person.Description = input.Description
	person.ImageURL = input.ImageURL
	person.WikiLink = input.WikiLink
	person.Status = lifecycle.StatusApproved
	person.UpdatedBy = &actor.ID
	person.UpdatedAt = now
	if err := tx.Save(person).Error; err != nil {
		return translateStoreErr(err)
	}
	if normalized != nil {
		return r.writeLifePeriods(tx, person.ID, normalized, lifecycle.StatusApproved, actor.ID, now)
	}
	return nil
}

// notify publishes a moderation event if a notifier is wired. Failures or a
// missing notifier never affect the committed transition.
func (r *PersonRepository) notify(kind string, person *models.Person, actor lifecycle.Actor) {
	if r.Notifier == nil || person == nil {
		return
	}
	r.Notifier.Notify(realtime.Event{
		Kind:       kind,
		PersonID:   person.ID,
		PersonName: person.Name,
		ActorEmail: actor.Email,
		Timestamp:  time.Now().Unix(),
	})
	log.Printf("queued notification %s for person %s", kind, person.ID)
}
