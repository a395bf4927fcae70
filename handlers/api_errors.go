package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/chroniclehq/chroniclebackend/apperrors"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}
	writeJSON(w, httpStatus, resp)
}

// httpStatusFor maps the engine error taxonomy onto HTTP statuses.
func httpStatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeInvalidTransition, apperrors.CodeNotEditable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders an engine error. Storage failures hide their detail
// from the client but are logged server-side.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := httpStatusFor(code)

	detail := err.Error()
	if code == apperrors.CodeStorage {
		log.Printf("storage error: %v", err)
		detail = "internal storage error"
	}

	entry := APIErrorDetail{
		Code:   string(code),
		Reason: string(apperrors.ReasonOf(err)),
		Status: strconv.Itoa(status),
		Detail: detail,
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		entry.Field = appErr.Field
	}
	writeJSON(w, status, APIErrorResponse{Errors: []APIErrorDetail{entry}})
}
