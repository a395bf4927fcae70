package handlers

import (
	"log"
	"net/http"

	"github.com/chroniclehq/chroniclebackend/config"
	"github.com/chroniclehq/chroniclebackend/media"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

const maxPortraitUploadBytes = 20 << 20 // 20 MiB

// PortraitHandler accepts portrait uploads for a person and records the
// stored asset path on the record.
type PortraitHandler struct {
	PersonRepo repository.PersonRepositoryInterface
	Processor  *media.Processor
	Cfg        config.Config
}

func NewPortraitHandler(personRepo repository.PersonRepositoryInterface, processor *media.Processor, cfg config.Config) *PortraitHandler {
	return &PortraitHandler{PersonRepo: personRepo, Processor: processor, Cfg: cfg}
}

// UploadPortrait processes a multipart portrait upload. The image is
// re-encoded and thumbnailed before the person row is updated; the same
// edit permissions as field edits apply.
func (ph *PortraitHandler) UploadPortrait(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}
	personID := chi.URLParam(r, "person_id")

	// fail early for unknown persons before decoding anything
	if _, err := ph.PersonRepo.GetByID(personID); err != nil {
		WriteAppError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPortraitUploadBytes)
	if err := r.ParseMultipartForm(maxPortraitUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("portrait")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Missing 'portrait' file field")
		return
	}
	defer file.Close()

	portraitPath, thumbPath, err := ph.Processor.ProcessPortrait(file, personID, ph.Cfg.ThumbnailMaxSize)
	if err != nil {
		log.Printf("portrait upload for %s (%s) failed: %v", personID, header.Filename, err)
		WriteAPIError(w, http.StatusUnprocessableEntity, "bad_image", "Could not process uploaded image")
		return
	}

	if err := ph.PersonRepo.SetPortrait(personID, portraitPath, actor); err != nil {
		WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"image_url": portraitPath,
		"thumbnail": thumbPath,
	})
}
