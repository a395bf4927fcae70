package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/chroniclehq/chroniclebackend/intervals"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

// PersonHandler serves the contributor-facing lifecycle endpoints: drafting,
// submitting, reverting, and reworking person records.
type PersonHandler struct {
	PersonRepo repository.PersonRepositoryInterface
}

func NewPersonHandler(personRepo repository.PersonRepositoryInterface) *PersonHandler {
	return &PersonHandler{PersonRepo: personRepo}
}

// lifePeriodPayload is the wire form of one life interval.
type lifePeriodPayload struct {
	CountryID int64 `json:"country_id"`
	StartYear int   `json:"start_year"`
	EndYear   int   `json:"end_year"`
}

func toIntervals(payload []lifePeriodPayload) []intervals.Interval {
	if payload == nil {
		return nil
	}
	set := make([]intervals.Interval, 0, len(payload))
	for _, p := range payload {
		set = append(set, intervals.Interval{CountryID: p.CountryID, StartYear: p.StartYear, EndYear: p.EndYear})
	}
	return set
}

type personPayload struct {
	models.PersonInput
	LifePeriods []lifePeriodPayload `json:"life_periods"`
	SaveAsDraft bool                `json:"save_as_draft"`
}

// CreatePerson creates a new draft or submission. Moderators land directly
// in approved.
func (ph *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	person, err := ph.PersonRepo.CreateDraftOrSubmission(payload.PersonInput, toIntervals(payload.LifePeriods), actor, payload.SaveAsDraft)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	log.Printf("person %s created by user %d with status %s", person.ID, actor.ID, person.Status)
	writeJSON(w, http.StatusCreated, person)
}

// GetPerson returns a single person with periods and achievements.
func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	person, err := ph.PersonRepo.GetByID(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// ListMine returns the authenticated contributor's own records.
func (ph *PersonHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	people, err := ph.PersonRepo.ListByCreator(actor.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

// UpdatePerson reworks a person's attributes and, if supplied, its life
// periods. Owners may rework drafts; moderators may edit any state.
func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if err := ph.PersonRepo.UpdateDraft(personID, payload.PersonInput, toIntervals(payload.LifePeriods), actor); err != nil {
		WriteAppError(w, err)
		return
	}

	person, err := ph.PersonRepo.GetByID(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// SubmitPerson moves a draft into the review queue.
func (ph *PersonHandler) SubmitPerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	person, err := ph.PersonRepo.Submit(personID, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// RevertPerson pulls a pending submission back to draft.
func (ph *PersonHandler) RevertPerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	if err := ph.PersonRepo.RevertToDraft(personID, actor); err != nil {
		WriteAppError(w, err)
		return
	}

	person, err := ph.PersonRepo.GetByID(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// ReplaceLifePeriods swaps a person's full life-period set. The set is
// re-validated against the stored lifespan.
func (ph *PersonHandler) ReplaceLifePeriods(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	var payload struct {
		LifePeriods []lifePeriodPayload `json:"life_periods"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if err := ph.PersonRepo.ReplaceLifePeriods(personID, toIntervals(payload.LifePeriods), actor); err != nil {
		WriteAppError(w, err)
		return
	}

	person, err := ph.PersonRepo.GetByID(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// DeletePerson removes a record: owners their drafts, moderators anything.
func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	if err := ph.PersonRepo.Delete(personID, actor); err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
