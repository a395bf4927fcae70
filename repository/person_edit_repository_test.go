package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chroniclehq/chroniclebackend/apperrors"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
)

func approvedPerson(t *testing.T, db *gorm.DB) *models.Person {
	t.Helper()
	repo := NewPersonRepository(db, nil)
	person, err := repo.CreateDraftOrSubmission(personInput("Marie Curie"), fullLifespan(1), testModerator, false)
	require.NoError(t, err)
	return person
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestProposeEdit(t *testing.T) {
	db := setupTestDB(t)
	notifier := &captureNotifier{}
	repo := NewPersonEditRepository(db, notifier)
	person := approvedPerson(t, db)

	edit, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("revised biography")}, testContributor)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusPending, edit.Status)
	assert.Equal(t, person.ID, edit.PersonID)
	assert.Equal(t, testContributor.ID, edit.ProposerUserID)
	assert.Equal(t, []string{"edit.proposed"}, notifier.kinds())

	// the person itself is untouched until a moderator approves
	var stored models.Person
	require.NoError(t, db.First(&stored, "id = ?", person.ID).Error)
	assert.NotEqual(t, "revised biography", stored.Description)
}

func TestProposeEmptyPayloadRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	_, err := repo.Propose(person.ID, models.PersonEditPayload{}, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestProposeOnNonApprovedPersonRejected(t *testing.T) {
	db := setupTestDB(t)
	personRepo := NewPersonRepository(db, nil)
	editRepo := NewPersonEditRepository(db, nil)

	pending, err := personRepo.CreateDraftOrSubmission(personInput("Ada Lovelace"), fullLifespan(1), testContributor, false)
	require.NoError(t, err)

	_, err = editRepo.Propose(pending.ID, models.PersonEditPayload{Description: strptr("x")}, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotEditable, apperrors.CodeOf(err))
}

func TestProposeOnMissingPerson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)

	_, err := repo.Propose("nobody", models.PersonEditPayload{Description: strptr("x")}, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestReviewEditApproveAppliesPayload(t *testing.T) {
	db := setupTestDB(t)
	notifier := &captureNotifier{}
	repo := NewPersonEditRepository(db, notifier)
	person := approvedPerson(t, db)

	edit, err := repo.Propose(person.ID, models.PersonEditPayload{
		Description: strptr("revised biography"),
		DeathYear:   intptr(1934),
	}, testContributor)
	require.NoError(t, err)
	notifier.events = nil

	comment := "checked against sources"
	reviewed, err := repo.Review(edit.ID, true, testModerator, &comment)
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, testModerator.ID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewComment)
	assert.Equal(t, comment, *reviewed.ReviewComment)

	var stored models.Person
	require.NoError(t, db.First(&stored, "id = ?", person.ID).Error)
	assert.Equal(t, "revised biography", stored.Description)
	assert.Equal(t, 1934, stored.DeathYear)
	// untouched fields keep their values
	assert.Equal(t, person.Name, stored.Name)
	assert.Equal(t, person.BirthYear, stored.BirthYear)

	assert.Equal(t, []string{"edit.approved"}, notifier.kinds())
}

func TestReviewEditRejectLeavesPersonAlone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	edit, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("vandalism")}, testContributor)
	require.NoError(t, err)

	reviewed, err := repo.Review(edit.ID, false, testModerator, nil)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusRejected, reviewed.Status)

	var stored models.Person
	require.NoError(t, db.First(&stored, "id = ?", person.ID).Error)
	assert.NotEqual(t, "vandalism", stored.Description)
}

func TestReviewEditRequiresModerator(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	edit, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("x")}, testContributor)
	require.NoError(t, err)

	// proposing an edit does not grant the right to approve it
	_, err = repo.Review(edit.ID, true, testContributor, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestReviewEditTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	edit, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("x")}, testContributor)
	require.NoError(t, err)

	_, err = repo.Review(edit.ID, true, testModerator, nil)
	require.NoError(t, err)

	_, err = repo.Review(edit.ID, false, testModerator, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestListPendingEditsOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	first, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("one")}, testContributor)
	require.NoError(t, err)
	second, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("two")}, testOther)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.PersonEdit{}).Where("id = ?", second.ID).Update("created_at", first.CreatedAt-100).Error)

	pending, err := repo.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, first.ID, pending[1].ID)
}

func TestListByProposer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPersonEditRepository(db, nil)
	person := approvedPerson(t, db)

	_, err := repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("mine")}, testContributor)
	require.NoError(t, err)
	_, err = repo.Propose(person.ID, models.PersonEditPayload{Description: strptr("theirs")}, testOther)
	require.NoError(t, err)

	mine, err := repo.ListByProposer(testContributor.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, testContributor.ID, mine[0].ProposerUserID)
}
