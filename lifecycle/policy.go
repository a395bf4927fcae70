package lifecycle

import (
	"github.com/chroniclehq/chroniclebackend/apperrors"
)

// Cascade describes how a person-level transition propagates to dependent
// rows. Only rows currently in From are flipped to To; everything else is
// left untouched.
type Cascade struct {
	From         Status
	To           Status
	Periods      bool
	Achievements bool
}

// Decision is the outcome of a permitted transition: the resulting status
// plus the bookkeeping the repository must perform in the same transaction.
type Decision struct {
	Next             Status
	StampSubmittedAt bool
	ClearSubmittedAt bool
	StampReview      bool
	Cascade          *Cascade
}

// transitionRule is one row of the static decision table.
type transitionRule struct {
	kind          EntityKind
	transition    Transition
	from          Status
	ownerOnly     bool // only the creator may request it
	moderatorOnly bool // requires a moderator or admin actor
	decision      Decision
}

// transitionRules holds the full decision table. Submission deliberately
// cascades draft periods only, while reversion cascades both pending periods
// and pending achievements; the asymmetry mirrors what moderators may have
// queued against a pending person in the meantime.
var transitionRules = []transitionRule{
	{
		kind:       KindPerson,
		transition: TransitionSubmit,
		from:       StatusDraft,
		ownerOnly:  true,
		decision: Decision{
			Next:             StatusPending,
			StampSubmittedAt: true,
			Cascade:          &Cascade{From: StatusDraft, To: StatusPending, Periods: true},
		},
	},
	{
		kind:       KindPerson,
		transition: TransitionRevert,
		from:       StatusPending,
		ownerOnly:  true,
		decision: Decision{
			Next:             StatusDraft,
			ClearSubmittedAt: true,
			Cascade:          &Cascade{From: StatusPending, To: StatusDraft, Periods: true, Achievements: true},
		},
	},
	{
		kind:          KindPerson,
		transition:    TransitionApprove,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusApproved, StampReview: true},
	},
	{
		kind:          KindPerson,
		transition:    TransitionReject,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusRejected, StampReview: true},
	},
	{
		kind:       KindAchievement,
		transition: TransitionSubmit,
		from:       StatusDraft,
		ownerOnly:  true,
		decision:   Decision{Next: StatusPending},
	},
	{
		kind:       KindAchievement,
		transition: TransitionRevert,
		from:       StatusPending,
		ownerOnly:  true,
		decision:   Decision{Next: StatusDraft},
	},
	{
		kind:          KindAchievement,
		transition:    TransitionApprove,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusApproved, StampReview: true},
	},
	{
		kind:          KindAchievement,
		transition:    TransitionReject,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusRejected, StampReview: true},
	},
	{
		kind:          KindEdit,
		transition:    TransitionApprove,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusApproved, StampReview: true},
	},
	{
		kind:          KindEdit,
		transition:    TransitionReject,
		from:          StatusPending,
		moderatorOnly: true,
		decision:      Decision{Next: StatusRejected, StampReview: true},
	},
}

type ruleKey struct {
	kind       EntityKind
	transition Transition
}

var rulesByKey map[ruleKey]transitionRule

func init() {
	rulesByKey = make(map[ruleKey]transitionRule, len(transitionRules))
	for _, rule := range transitionRules {
		rulesByKey[ruleKey{rule.kind, rule.transition}] = rule
	}
}

// Decide evaluates the decision table for one requested transition.
// The state precondition is checked before the role so that a transition
// attempted from the wrong state reports the state, regardless of who asked.
func Decide(kind EntityKind, t Transition, current Status, actor Actor, isOwner bool) (Decision, error) {
	rule, ok := rulesByKey[ruleKey{kind, t}]
	if !ok {
		return Decision{}, apperrors.InvalidTransition("%s does not support transition %q", kind, t)
	}
	if current != rule.from {
		return Decision{}, apperrors.InvalidTransition("cannot %s %s in status %q (requires %q)", t, kind, current, rule.from)
	}
	if rule.ownerOnly && !isOwner {
		return Decision{}, apperrors.Forbidden("only the creator may " + string(t))
	}
	if rule.moderatorOnly && !actor.CanModerate() {
		return Decision{}, apperrors.Forbidden("transition " + string(t) + " requires a moderator")
	}
	return rule.decision, nil
}

// CreationStatus resolves the status a brand new content item is born with.
// Moderators submitting directly bypass the review queue entirely.
func CreationStatus(actor Actor, saveAsDraft bool) Status {
	if saveAsDraft {
		return StatusDraft
	}
	if actor.CanModerate() {
		return StatusApproved
	}
	return StatusPending
}

// CanEditContent gates free-form field edits: owners may rework drafts,
// moderators may edit anything regardless of state.
func CanEditContent(current Status, actor Actor, isOwner bool) error {
	if actor.CanModerate() {
		return nil
	}
	if !isOwner {
		return apperrors.Forbidden("content belongs to another contributor")
	}
	if current != StatusDraft {
		return apperrors.InvalidTransition("content in status %q is no longer freely editable", current)
	}
	return nil
}

// ReplacementPeriodStatus is the status newly written life periods take when
// a caller replaces a person's period set outside the draft flow.
func ReplacementPeriodStatus(actor Actor) Status {
	if actor.CanModerate() {
		return StatusApproved
	}
	return StatusPending
}
