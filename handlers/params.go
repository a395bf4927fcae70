package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// uintURLParam parses a numeric URL parameter, writing a 400 on failure.
func uintURLParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}
