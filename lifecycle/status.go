package lifecycle

// Status is the moderation workflow state shared by persons, periods,
// achievements, and edit proposals.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValidStatus checks if a string is a known workflow status
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Role is the coarse moderation role an actor holds. It is derived from the
// actor's permission set; the engine never consults permissions directly.
type Role string

const (
	RoleContributor Role = "contributor"
	RoleModerator   Role = "moderator"
	RoleAdmin       Role = "admin"
)

// Actor identifies the authenticated caller of an engine operation.
type Actor struct {
	ID    uint
	Role  Role
	Email string
}

// CanModerate reports whether the actor may act on the review side of the
// pipeline (approve, reject, direct creation into approved).
func (a Actor) CanModerate() bool {
	return a.Role == RoleModerator || a.Role == RoleAdmin
}

// EntityKind selects which state machine a transition is evaluated against.
type EntityKind string

const (
	KindPerson      EntityKind = "person"
	KindAchievement EntityKind = "achievement"
	KindEdit        EntityKind = "edit"
)

// Transition names a requested workflow edge.
type Transition string

const (
	TransitionSubmit  Transition = "submit"
	TransitionApprove Transition = "approve"
	TransitionReject  Transition = "reject"
	TransitionRevert  Transition = "revert"
)
