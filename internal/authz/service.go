package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/identity-access/internal"
	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
)

// Engine answers "can user U perform action A on option O". Authorization
// decisions are deny-by-default: a missing user, role or grant row is an
// ordinary false, never an error. Only infrastructure failures surface as
// errors.
type Engine struct {
	store  PermissionStore
	roles  RoleDirectory
	logger *slog.Logger
}

func NewEngine(store PermissionStore, roles RoleDirectory, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		roles:  roles,
		logger: logger,
	}
}

func (e *Engine) resolve(ctx context.Context, userID string, optionID int64) (*accessModel.RolePermission, error) {
	roleID, err := e.roles.GetRoleID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}

	grant, err := e.store.GetPermissions(ctx, roleID, optionID)
	if err != nil {
		return nil, err
	}
	return grant, nil
}

func (e *Engine) HasPermission(ctx context.Context, userID string, optionID int64, action Action) (bool, error) {
	grant, err := e.resolve(ctx, userID, optionID)
	if err != nil {
		return false, err
	}
	return flagFor(grant, action), nil
}

// HasAnyReadAccess grants visibility to users that hold any of the five
// flags on the option: there is no dedicated read flag, so a print-only or
// export-only grant also allows viewing.
func (e *Engine) HasAnyReadAccess(ctx context.Context, userID string, optionID int64) (bool, error) {
	grant, err := e.resolve(ctx, userID, optionID)
	if err != nil {
		return false, err
	}
	return anyFlag(grant), nil
}

func (e *Engine) UpsertGrant(ctx context.Context, grant accessModel.RolePermission) error {
	if err := e.store.UpsertGrant(ctx, grant); err != nil {
		e.logger.Error("failed to upsert grant", "error", err, "role_id", grant.RoleID, "option_id", grant.OptionID)
		return err
	}
	e.logger.Info("grant updated", "role_id", grant.RoleID, "option_id", grant.OptionID)
	return nil
}
