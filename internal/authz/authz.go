package authz

import (
	"context"

	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
)

// Action is one of the five independent grants a role can hold over an
// option.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
	ActionUpdate Action = "update"
	ActionPrint  Action = "print"
	ActionExport Action = "export"
)

// ParseAction validates an action name; unknown names stay invalid rather
// than mapping to a deny so callers can distinguish bad input from a denied
// check.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionCreate, ActionDelete, ActionUpdate, ActionPrint, ActionExport:
		return Action(s), true
	}
	return "", false
}

// Known option identifiers. Options are the leaves of the Module->Menu->
// Option tree that permission checks resolve against.
const (
	OptionTenants         int64 = 1
	OptionBranches        int64 = 2
	OptionGenders         int64 = 3
	OptionUserStatuses    int64 = 4
	OptionRoles           int64 = 5
	OptionModules         int64 = 6
	OptionMenus           int64 = 7
	OptionCatalog         int64 = 8
	OptionUsers           int64 = 9
	OptionRoleGrants      int64 = 10
	OptionAccountStatuses int64 = 11
)

// PermissionStore resolves the five-flag grant for a (role, option) pair.
// GetPermissions returns nil with no error when no row exists; the engine
// treats that as an all-false grant.
type PermissionStore interface {
	GetPermissions(ctx context.Context, roleID, optionID int64) (*accessModel.RolePermission, error)
	UpsertGrant(ctx context.Context, grant accessModel.RolePermission) error
}

// RoleDirectory resolves a user's role. Implementations return
// internal.ErrAccountNotFound for unknown users.
type RoleDirectory interface {
	GetRoleID(ctx context.Context, userID string) (int64, error)
}

type EngineAPI interface {
	HasPermission(ctx context.Context, userID string, optionID int64, action Action) (bool, error)
	HasAnyReadAccess(ctx context.Context, userID string, optionID int64) (bool, error)
	UpsertGrant(ctx context.Context, grant accessModel.RolePermission) error
}

func flagFor(p *accessModel.RolePermission, action Action) bool {
	if p == nil {
		return false
	}
	switch action {
	case ActionCreate:
		return p.CanCreate
	case ActionDelete:
		return p.CanDelete
	case ActionUpdate:
		return p.CanUpdate
	case ActionPrint:
		return p.CanPrint
	case ActionExport:
		return p.CanExport
	}
	return false
}

func anyFlag(p *accessModel.RolePermission) bool {
	if p == nil {
		return false
	}
	return p.CanCreate || p.CanDelete || p.CanUpdate || p.CanPrint || p.CanExport
}
