package handlers

import (
	"net/http"

	"github.com/chroniclehq/chroniclebackend/permissions"
)

// PermissionsHandler serves the static moderation-permission registry so an
// admin UI can render assignment choices (person.review, edit.review, ...)
// without hardcoding the keys.
type PermissionsHandler struct{}

func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// ListDefinedPermissions returns the permission groups with names and
// descriptions, grouped by the content surface they moderate.
func (h *PermissionsHandler) ListDefinedPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}

// ListDefinedPermissionKeys returns just the flat key list, the form stored
// on users and roles.
func (h *PermissionsHandler) ListDefinedPermissionKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.GetAllPermissionKeys())
}
