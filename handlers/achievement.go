package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

// AchievementHandler serves the achievement lifecycle endpoints.
type AchievementHandler struct {
	AchievementRepo repository.AchievementRepositoryInterface
}

func NewAchievementHandler(achievementRepo repository.AchievementRepositoryInterface) *AchievementHandler {
	return &AchievementHandler{AchievementRepo: achievementRepo}
}

type achievementPayload struct {
	models.AchievementInput
	SaveAsDraft bool `json:"save_as_draft"`
}

// CreateAchievement records a new achievement, optionally attached to a
// person.
func (ah *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var payload achievementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	achievement, err := ah.AchievementRepo.Create(payload.AchievementInput, actor, payload.SaveAsDraft)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, achievement)
}

// GetAchievement returns a single achievement.
func (ah *AchievementHandler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	achievement, err := ah.AchievementRepo.GetByID(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}

// ListByPerson returns all achievements attached to a person.
func (ah *AchievementHandler) ListByPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	achievements, err := ah.AchievementRepo.ListByPerson(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, achievements)
}

// UpdateAchievement reworks an achievement's fields.
func (ah *AchievementHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	var payload achievementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if err := ah.AchievementRepo.UpdateDraft(id, payload.AchievementInput, actor); err != nil {
		WriteAppError(w, err)
		return
	}

	achievement, err := ah.AchievementRepo.GetByID(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}

// SubmitAchievement moves a draft achievement into the review queue.
func (ah *AchievementHandler) SubmitAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	achievement, err := ah.AchievementRepo.Submit(id, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}

// RevertAchievement pulls a pending achievement back to draft.
func (ah *AchievementHandler) RevertAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	if err := ah.AchievementRepo.RevertToDraft(id, actor); err != nil {
		WriteAppError(w, err)
		return
	}

	achievement, err := ah.AchievementRepo.GetByID(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}

// DeleteAchievement removes an achievement.
func (ah *AchievementHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	if err := ah.AchievementRepo.Delete(id, actor); err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
