package permissions

// Well-known permission keys referenced from code. Everything else is looked
// up dynamically through the registry below.
const (
	PersonReview        = "person.review"
	PersonApproveDirect = "person.approve.direct"
	PersonDelete        = "person.delete"
	PersonPeriodsEdit   = "person.periods.edit"
	AchievementReview   = "achievement.review"
	EditReview          = "edit.review"
	SystemAdmin         = "system.admin"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "person.review"
	Name        string `json:"name"`        // friendly name, e.g., "Review Persons"
	Description string `json:"description"` // detailed description of what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`         // unique key for the group, e.g., "person"
	Name        string                 `json:"name"`        // friendly name for the group
	Description string                 `json:"description"` // detailed description of the permission group
	Permissions []PermissionDefinition `json:"permissions"` // list of permissions within this group
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "person",
		Name:        "Person Moderation",
		Description: "Permissions related to moderating biographical records.",
		Permissions: []PermissionDefinition{
			{
				Key:         PersonReview,
				Name:        "Review Persons",
				Description: "Allows approving or rejecting pending person submissions.",
			},
			{
				Key:         PersonApproveDirect,
				Name:        "Create Approved Persons",
				Description: "Allows creating or upserting person records directly into approved status.",
			},
			{
				Key:         PersonPeriodsEdit,
				Name:        "Replace Life Periods",
				Description: "Allows replacing the life-period set of any person regardless of ownership.",
			},
			{
				Key:         PersonDelete,
				Name:        "Delete Persons",
				Description: "Allows deleting person records and their dependent periods.",
			},
		},
	},
	{
		Key:         "achievement",
		Name:        "Achievement Moderation",
		Description: "Permissions related to moderating achievements.",
		Permissions: []PermissionDefinition{
			{
				Key:         AchievementReview,
				Name:        "Review Achievements",
				Description: "Allows approving or rejecting pending achievements.",
			},
			{
				Key:         "achievement.delete",
				Name:        "Delete Achievements",
				Description: "Allows deleting achievements.",
			},
		},
	},
	{
		Key:         "edit",
		Name:        "Edit Proposal Moderation",
		Description: "Permissions related to reviewing proposed edits to approved persons.",
		Permissions: []PermissionDefinition{
			{
				Key:         EditReview,
				Name:        "Review Edit Proposals",
				Description: "Allows approving or rejecting proposed edits; approval applies the patch.",
			},
		},
	},
	{
		Key:         "user",
		Name:        "User Management",
		Description: "Permissions related to managing user accounts.",
		Permissions: []PermissionDefinition{
			{
				Key:         "user.create",
				Name:        "Create User",
				Description: "Allows creating new user accounts.",
			},
			{
				Key:         "user.edit",
				Name:        "Edit User",
				Description: "Allows editing existing user accounts (e.g., username, roles, direct permissions).",
			},
			{
				Key:         "user.delete",
				Name:        "Delete User",
				Description: "Allows deleting user accounts.",
			},
			{
				Key:         "user.list",
				Name:        "List Users",
				Description: "Allows viewing a list of user accounts.",
			},
		},
	},
	{
		Key:         "role",
		Name:        "Role Management",
		Description: "Permissions related to managing roles and their assigned permissions.",
		Permissions: []PermissionDefinition{
			{
				Key:         "role.create",
				Name:        "Create Role",
				Description: "Allows creating new roles.",
			},
			{
				Key:         "role.edit",
				Name:        "Edit Role",
				Description: "Allows editing existing roles (e.g., name, assigned permissions).",
			},
			{
				Key:         "role.delete",
				Name:        "Delete Role",
				Description: "Allows deleting roles.",
			},
			{
				Key:         "role.list",
				Name:        "List Roles",
				Description: "Allows viewing a list of roles.",
			},
		},
	},
	{
		Key:         "invite",
		Name:        "Invite Code Management",
		Description: "Permissions related to managing user registration invite codes.",
		Permissions: []PermissionDefinition{
			{
				Key:         "invite.create",
				Name:        "Create Invite Codes",
				Description: "Allows generating new invite codes.",
			},
			{
				Key:         "invite.list",
				Name:        "List Invite Codes",
				Description: "Allows viewing all existing invite codes.",
			},
			{
				Key:         "invite.edit",
				Name:        "Edit Invite Codes",
				Description: "Allows modifying existing invite codes (e.g., expiry, max uses, active status).",
			},
			{
				Key:         "invite.delete",
				Name:        "Delete Invite Codes",
				Description: "Allows deleting invite codes.",
			},
		},
	},
	{
		Key:         "system",
		Name:        "System Administration",
		Description: "High-level system administration permissions.",
		Permissions: []PermissionDefinition{
			{
				Key:         SystemAdmin,
				Name:        "System Administrator",
				Description: "Grants every moderation capability plus system configuration access.",
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionDefinitions returns a map of all defined permissions, keyed by their unique string key
func GetAllPermissionDefinitions() map[string]PermissionDefinition {
	return allPermissionKeysMap
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	// return a copy to prevent modification of the internal slice
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// GetPermissionDefinition retrieves a specific permission definition by its key.
// Returns the definition and true if found, otherwise an empty definition and false.
func GetPermissionDefinition(key string) (PermissionDefinition, bool) {
	def, ok := allPermissionKeysMap[key]
	return def, ok
}
