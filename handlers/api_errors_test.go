package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chroniclehq/chroniclebackend/apperrors"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) APIErrorDetail {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0]
}

func TestWriteAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.Validation(apperrors.ReasonCoverageGap, "gap between periods"), http.StatusBadRequest, "validation"},
		{"not found", apperrors.NotFound("person missing"), http.StatusNotFound, "not_found"},
		{"forbidden", apperrors.Forbidden("moderators only"), http.StatusForbidden, "forbidden"},
		{"invalid transition", apperrors.InvalidTransition("cannot submit from %q", "pending"), http.StatusConflict, "invalid_transition"},
		{"not editable", apperrors.NotEditable("person is not approved"), http.StatusConflict, "not_editable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAppError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			entry := decodeErrorResponse(t, rec)
			assert.Equal(t, tc.wantCode, entry.Code)
			assert.NotEmpty(t, entry.Detail)
		})
	}
}

func TestWriteAppErrorHidesStorageDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperrors.Storage(errors.New("sqlite file corrupt at /var/db")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entry := decodeErrorResponse(t, rec)
	assert.Equal(t, "storage", entry.Code)
	assert.Equal(t, "internal storage error", entry.Detail)
	assert.NotContains(t, entry.Detail, "/var/db")
}

func TestWriteAppErrorUnknownErrorTreatedAsStorage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, errors.New("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entry := decodeErrorResponse(t, rec)
	assert.Equal(t, "storage", entry.Code)
	assert.Equal(t, "internal storage error", entry.Detail)
}

func TestWriteAppErrorCarriesReasonAndField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, apperrors.ValidationField(apperrors.ReasonInvalidInterval, "life_periods[1]", "start_year exceeds end_year"))

	entry := decodeErrorResponse(t, rec)
	assert.Equal(t, "invalid_interval", entry.Reason)
	assert.Equal(t, "life_periods[1]", entry.Field)
	assert.Equal(t, "400", entry.Status)
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusUnprocessableEntity, "bad_image", "could not decode image")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	entry := decodeErrorResponse(t, rec)
	assert.Equal(t, "bad_image", entry.Code)
	assert.Equal(t, "422", entry.Status)
}
