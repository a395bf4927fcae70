package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

// ReviewHandler serves the moderator-facing endpoints: review queues and
// verdicts for persons and achievements.
type ReviewHandler struct {
	PersonRepo      repository.PersonRepositoryInterface
	AchievementRepo repository.AchievementRepositoryInterface
}

func NewReviewHandler(personRepo repository.PersonRepositoryInterface, achievementRepo repository.AchievementRepositoryInterface) *ReviewHandler {
	return &ReviewHandler{PersonRepo: personRepo, AchievementRepo: achievementRepo}
}

type reviewPayload struct {
	Approve bool    `json:"approve"`
	Comment *string `json:"comment,omitempty"`
}

// ListPendingPeople returns the person review queue, oldest submission
// first.
func (rh *ReviewHandler) ListPendingPeople(w http.ResponseWriter, r *http.Request) {
	people, err := rh.PersonRepo.ListByStatus(lifecycle.StatusPending)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

// ReviewPerson records a verdict on a pending person. The verdict never
// touches the person's periods or achievements.
func (rh *ReviewHandler) ReviewPerson(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	person, err := rh.PersonRepo.Review(personID, payload.Approve, actor, payload.Comment)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	log.Printf("person %s reviewed by user %d: %s", person.ID, actor.ID, person.Status)
	writeJSON(w, http.StatusOK, person)
}

// ListPendingAchievements returns the achievement review queue.
func (rh *ReviewHandler) ListPendingAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := rh.AchievementRepo.ListByStatus(lifecycle.StatusPending)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, achievements)
}

// ReviewAchievement records a verdict on a pending achievement.
func (rh *ReviewHandler) ReviewAchievement(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "achievement_id")
	if !ok {
		return
	}

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	achievement, err := rh.AchievementRepo.Review(id, payload.Approve, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}
