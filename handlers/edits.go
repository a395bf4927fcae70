package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

// EditHandler serves the edit-proposal flow: contributors queue changes
// against approved persons, moderators resolve them.
type EditHandler struct {
	EditRepo repository.PersonEditRepositoryInterface
}

func NewEditHandler(editRepo repository.PersonEditRepositoryInterface) *EditHandler {
	return &EditHandler{EditRepo: editRepo}
}

// ProposeEdit queues an edit proposal against an approved person.
func (eh *EditHandler) ProposeEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	var payload models.PersonEditPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	edit, err := eh.EditRepo.Propose(personID, payload, actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, edit)
}

// ListMyEdits returns the authenticated contributor's own proposals.
func (eh *EditHandler) ListMyEdits(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	edits, err := eh.EditRepo.ListByProposer(actor.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if edits == nil {
		edits = []models.PersonEdit{}
	}
	writeJSON(w, http.StatusOK, edits)
}

// ListPendingEdits returns the edit review queue, oldest first.
func (eh *EditHandler) ListPendingEdits(w http.ResponseWriter, r *http.Request) {
	edits, err := eh.EditRepo.ListPending()
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if edits == nil {
		edits = []models.PersonEdit{}
	}
	writeJSON(w, http.StatusOK, edits)
}

// GetEdit returns a single proposal.
func (eh *EditHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := uintURLParam(w, r, "edit_id")
	if !ok {
		return
	}

	edit, err := eh.EditRepo.GetByID(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edit)
}

// ReviewEdit resolves a pending proposal. Approval applies the payload to
// the person atomically.
func (eh *EditHandler) ReviewEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	id, ok := uintURLParam(w, r, "edit_id")
	if !ok {
		return
	}

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	edit, err := eh.EditRepo.Review(id, payload.Approve, actor, payload.Comment)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edit)
}
