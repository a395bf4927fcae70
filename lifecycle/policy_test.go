package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chroniclehq/chroniclebackend/apperrors"
)

var (
	contributor = Actor{ID: 1, Role: RoleContributor}
	moderator   = Actor{ID: 2, Role: RoleModerator}
	admin       = Actor{ID: 3, Role: RoleAdmin}
)

func TestDecidePersonSubmit(t *testing.T) {
	d, err := Decide(KindPerson, TransitionSubmit, StatusDraft, contributor, true)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, d.Next)
	assert.True(t, d.StampSubmittedAt)
	assert.False(t, d.ClearSubmittedAt)

	// submission carries draft periods along but leaves achievements alone
	require.NotNil(t, d.Cascade)
	assert.Equal(t, StatusDraft, d.Cascade.From)
	assert.Equal(t, StatusPending, d.Cascade.To)
	assert.True(t, d.Cascade.Periods)
	assert.False(t, d.Cascade.Achievements)
}

func TestDecidePersonRevert(t *testing.T) {
	d, err := Decide(KindPerson, TransitionRevert, StatusPending, contributor, true)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, d.Next)
	assert.True(t, d.ClearSubmittedAt)

	// reversion pulls back both pending periods and pending achievements
	require.NotNil(t, d.Cascade)
	assert.True(t, d.Cascade.Periods)
	assert.True(t, d.Cascade.Achievements)
}

func TestDecidePersonReview(t *testing.T) {
	for _, actor := range []Actor{moderator, admin} {
		d, err := Decide(KindPerson, TransitionApprove, StatusPending, actor, false)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, d.Next)
		assert.True(t, d.StampReview)
		assert.Nil(t, d.Cascade)

		d, err = Decide(KindPerson, TransitionReject, StatusPending, actor, false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, d.Next)
		assert.True(t, d.StampReview)
	}
}

func TestDecideStateCheckedBeforeRole(t *testing.T) {
	// a contributor approving a draft gets the state error, not the role
	// error, so callers learn the true blocker first
	_, err := Decide(KindPerson, TransitionApprove, StatusDraft, contributor, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))

	_, err = Decide(KindPerson, TransitionSubmit, StatusApproved, contributor, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestDecideOwnerOnlyTransitions(t *testing.T) {
	_, err := Decide(KindPerson, TransitionSubmit, StatusDraft, contributor, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = Decide(KindPerson, TransitionRevert, StatusPending, moderator, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestDecideModeratorOnlyTransitions(t *testing.T) {
	// owning the content does not grant review rights
	_, err := Decide(KindPerson, TransitionApprove, StatusPending, contributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = Decide(KindEdit, TransitionReject, StatusPending, contributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestDecideDoubleSubmitRejected(t *testing.T) {
	_, err := Decide(KindPerson, TransitionSubmit, StatusPending, contributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestDecideAchievementTransitionsHaveNoCascade(t *testing.T) {
	d, err := Decide(KindAchievement, TransitionSubmit, StatusDraft, contributor, true)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, d.Next)
	assert.Nil(t, d.Cascade)

	d, err = Decide(KindAchievement, TransitionRevert, StatusPending, contributor, true)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, d.Next)
	assert.Nil(t, d.Cascade)
}

func TestDecideEditHasNoSubmit(t *testing.T) {
	// edit proposals are born pending; there is no submit edge for them
	_, err := Decide(KindEdit, TransitionSubmit, StatusDraft, contributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestCreationStatus(t *testing.T) {
	assert.Equal(t, StatusDraft, CreationStatus(contributor, true))
	assert.Equal(t, StatusDraft, CreationStatus(moderator, true))
	assert.Equal(t, StatusPending, CreationStatus(contributor, false))
	assert.Equal(t, StatusApproved, CreationStatus(moderator, false))
	assert.Equal(t, StatusApproved, CreationStatus(admin, false))
}

func TestCanEditContent(t *testing.T) {
	require.NoError(t, CanEditContent(StatusDraft, contributor, true))

	// moderators may rework content in any state
	require.NoError(t, CanEditContent(StatusApproved, moderator, false))
	require.NoError(t, CanEditContent(StatusPending, admin, false))

	err := CanEditContent(StatusDraft, contributor, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	err = CanEditContent(StatusPending, contributor, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestReplacementPeriodStatus(t *testing.T) {
	assert.Equal(t, StatusPending, ReplacementPeriodStatus(contributor))
	assert.Equal(t, StatusApproved, ReplacementPeriodStatus(moderator))
	assert.Equal(t, StatusApproved, ReplacementPeriodStatus(admin))
}
