package repository

import (
	"github.com/chroniclehq/chroniclebackend/intervals"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
	"github.com/chroniclehq/chroniclebackend/realtime"
)

// Notifier receives moderation events after a transition commits. Delivery
// is fire-and-forget; implementations must never block the caller.
type Notifier interface {
	Notify(event realtime.Event)
}

// PersonRepositoryInterface defines the content lifecycle operations for
// person records and their dependent periods
type PersonRepositoryInterface interface {
	CreateDraftOrSubmission(input models.PersonInput, lifePeriods []intervals.Interval, actor lifecycle.Actor, saveAsDraft bool) (*models.Person, error)
	UpdateDraft(personID string, input models.PersonInput, lifePeriods []intervals.Interval, actor lifecycle.Actor) error
	Submit(personID string, actor lifecycle.Actor) (*models.Person, error)
	RevertToDraft(personID string, actor lifecycle.Actor) error
	Review(personID string, approve bool, reviewer lifecycle.Actor, comment *string) (*models.Person, error)
	ReplaceLifePeriods(personID string, lifePeriods []intervals.Interval, actor lifecycle.Actor) error
	SetPortrait(personID string, imageURL string, actor lifecycle.Actor) error

	GetByID(id string) (*models.Person, error)
	GetApprovedByID(id string) (*models.Person, error)
	ListByStatus(status lifecycle.Status) ([]models.Person, error)
	ListByCreator(userID uint) ([]models.Person, error)
	Delete(id string, actor lifecycle.Actor) error
}

// PersonEditRepositoryInterface manages proposed edits to approved persons
type PersonEditRepositoryInterface interface {
	Propose(personID string, payload models.PersonEditPayload, actor lifecycle.Actor) (*models.PersonEdit, error)
	Review(editID uint, approve bool, reviewer lifecycle.Actor, comment *string) (*models.PersonEdit, error)
	GetByID(id uint) (*models.PersonEdit, error)
	ListPending() ([]models.PersonEdit, error)
	ListByProposer(userID uint) ([]models.PersonEdit, error)
}

// AchievementRepositoryInterface defines the lifecycle operations for
// achievements, which follow the person state machine without the interval
// invariant
type AchievementRepositoryInterface interface {
	Create(input models.AchievementInput, actor lifecycle.Actor, saveAsDraft bool) (*models.Achievement, error)
	UpdateDraft(id uint, input models.AchievementInput, actor lifecycle.Actor) error
	Submit(id uint, actor lifecycle.Actor) (*models.Achievement, error)
	RevertToDraft(id uint, actor lifecycle.Actor) error
	Review(id uint, approve bool, reviewer lifecycle.Actor) (*models.Achievement, error)
	GetByID(id uint) (*models.Achievement, error)
	ListByPerson(personID string) ([]models.Achievement, error)
	ListByStatus(status lifecycle.Status) ([]models.Achievement, error)
	Delete(id uint, actor lifecycle.Actor) error
}

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)

	// role management for a user
	AddRoleToUser(userID uint, roleID uint) error
	RemoveRoleFromUser(userID uint, roleID uint) error
	GetUserRoles(userID uint) ([]models.Role, error)

	// direct global permission management for a user
	SetUserGlobalPermissions(userID uint, permissions []string) error
}

// RoleRepository defines the methods for role data operations
type RoleRepository interface {
	Create(role *models.Role) error
	GetByID(id uint) (*models.Role, error)
	GetByName(name string) (*models.Role, error)
	ListAll() ([]models.Role, error)
	Update(role *models.Role) error
	Delete(id uint) error
	SetRoleGlobalPermissions(roleID uint, permissions []string) error
	FindUsersByRoleID(roleID uint) ([]models.User, error)
}

// InviteCodeRepository defines the methods for invite code data operations
type InviteCodeRepository interface {
	Create(inviteCode *models.InviteCode) error
	GetByCode(code string) (*models.InviteCode, error)
	GetByID(id uint) (*models.InviteCode, error)
	Update(inviteCode *models.InviteCode) error
	IncrementUses(id uint) error
	ListAll() ([]models.InviteCode, error)
	Delete(id uint) error
}
