package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(CodeForbidden, "no access")
	assert.Equal(t, "forbidden: no access", err.Error())

	err = Validation(ReasonCoverageGap, "years 1921-1923 are uncovered")
	assert.Equal(t, "validation (coverage_gap): years 1921-1923 are uncovered", err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("person missing")))
	assert.Equal(t, CodeInvalidTransition, CodeOf(InvalidTransition("cannot submit from %q", "pending")))
	assert.Equal(t, CodeNotEditable, CodeOf(NotEditable("person is not approved")))

	// unknown errors collapse to storage
	assert.Equal(t, CodeStorage, CodeOf(errors.New("disk on fire")))
}

func TestCodeOfWrapped(t *testing.T) {
	inner := Forbidden("moderators only")
	wrapped := fmt.Errorf("review person 9: %w", inner)
	assert.Equal(t, CodeForbidden, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeForbidden))
	assert.False(t, IsCode(wrapped, CodeValidation))
}

func TestReasonOf(t *testing.T) {
	err := ValidationField(ReasonInvalidInterval, "life_periods[2]", "start_year exceeds end_year")
	assert.Equal(t, ReasonInvalidInterval, ReasonOf(err))
	assert.Equal(t, "life_periods[2]", err.Field)

	// non-validation errors carry no reason
	assert.Equal(t, Reason(""), ReasonOf(NotFound("nope")))
	assert.Equal(t, Reason(""), ReasonOf(errors.New("plain")))
}

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage(cause)
	assert.Equal(t, CodeStorage, CodeOf(err))
	require.ErrorIs(t, err, cause)
}
