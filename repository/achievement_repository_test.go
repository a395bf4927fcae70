package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chroniclehq/chroniclebackend/apperrors"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
)

func achievementInput(personID *string) models.AchievementInput {
	return models.AchievementInput{
		PersonID:    personID,
		Year:        1903,
		Description: "Nobel Prize in Physics",
	}
}

func TestCreateAchievement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	// unattached achievements are global events
	ach, err := repo.Create(achievementInput(nil), testContributor, true)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDraft, ach.Status)
	assert.Nil(t, ach.PersonID)

	ach, err = repo.Create(achievementInput(nil), testContributor, false)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPending, ach.Status)

	ach, err = repo.Create(achievementInput(nil), testModerator, false)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusApproved, ach.Status)
}

func TestCreateAchievementValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	_, err := repo.Create(models.AchievementInput{Year: 1903, Description: "   "}, testContributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestCreateAchievementAttachedToMissingPerson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	missing := "nobody"
	_, err := repo.Create(achievementInput(&missing), testContributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCreateAchievementAttachedToPerson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)
	person := approvedPerson(t, db)

	ach, err := repo.Create(achievementInput(&person.ID), testContributor, false)
	require.NoError(t, err)
	require.NotNil(t, ach.PersonID)
	assert.Equal(t, person.ID, *ach.PersonID)
}

func TestAchievementWorkflow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	ach, err := repo.Create(achievementInput(nil), testContributor, true)
	require.NoError(t, err)

	submitted, err := repo.Submit(ach.ID, testContributor)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPending, submitted.Status)

	require.NoError(t, repo.RevertToDraft(ach.ID, testContributor))
	stored, err := repo.GetByID(ach.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDraft, stored.Status)

	_, err = repo.Submit(ach.ID, testContributor)
	require.NoError(t, err)

	reviewed, err := repo.Review(ach.ID, true, testModerator)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, testModerator.ID, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)
}

func TestAchievementTransitionRules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	ach, err := repo.Create(achievementInput(nil), testContributor, true)
	require.NoError(t, err)

	// only the creator may submit
	_, err = repo.Submit(ach.ID, testOther)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// review from draft reports the state, even for a moderator
	_, err = repo.Review(ach.ID, true, testModerator)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))

	_, err = repo.Submit(ach.ID, testContributor)
	require.NoError(t, err)

	_, err = repo.Submit(ach.ID, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))

	_, err = repo.Review(ach.ID, true, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestUpdateDraftAchievement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	ach, err := repo.Create(achievementInput(nil), testContributor, true)
	require.NoError(t, err)

	input := achievementInput(nil)
	input.Description = "Nobel Prize in Chemistry"
	input.Year = 1911
	require.NoError(t, repo.UpdateDraft(ach.ID, input, testContributor))

	stored, err := repo.GetByID(ach.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nobel Prize in Chemistry", stored.Description)
	assert.Equal(t, 1911, stored.Year)

	err = repo.UpdateDraft(ach.ID, input, testOther)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = repo.Submit(ach.ID, testContributor)
	require.NoError(t, err)
	err = repo.UpdateDraft(ach.ID, input, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))

	// moderators may rework any state
	require.NoError(t, repo.UpdateDraft(ach.ID, input, testModerator))
}

func TestDeleteAchievementRules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)

	ach, err := repo.Create(achievementInput(nil), testContributor, false)
	require.NoError(t, err)

	err = repo.Delete(ach.ID, testContributor)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	require.NoError(t, repo.Delete(ach.ID, testModerator))
	_, err = repo.GetByID(ach.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestListAchievementsByPerson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAchievementRepository(db)
	person := approvedPerson(t, db)

	later := achievementInput(&person.ID)
	later.Year = 1911
	_, err := repo.Create(later, testContributor, true)
	require.NoError(t, err)
	earlier := achievementInput(&person.ID)
	earlier.Year = 1903
	_, err = repo.Create(earlier, testContributor, true)
	require.NoError(t, err)

	got, err := repo.ListByPerson(person.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1903, got[0].Year)
	assert.Equal(t, 1911, got[1].Year)
}
