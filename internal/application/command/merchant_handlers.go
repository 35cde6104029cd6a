package command

import (
	"context"

	"bazaarhub/internal/application/guard"
	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// SetMerchantStatusHandler opens or closes a merchant stall. Toggling
// to the state the merchant is already in is a no-op: nothing is
// written and the response reports statusChanged false.
type SetMerchantStatusHandler struct {
	runner *guard.Runner
}

// NewSetMerchantStatusHandler creates a new set merchant status handler
func NewSetMerchantStatusHandler(runner *guard.Runner) *SetMerchantStatusHandler {
	return &SetMerchantStatusHandler{runner: runner}
}

// Handle processes the set merchant status command
func (h *SetMerchantStatusHandler) Handle(ctx context.Context, cmd *SetMerchantStatusCommand) (*SetMerchantStatusResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	if cmd.OrganizationID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id is required")
	}
	if cmd.EventID == "" {
		return nil, apperrors.NewInvalidArgument("event_id is required")
	}
	if cmd.MerchantID == "" {
		return nil, apperrors.NewInvalidArgument("merchant_id is required")
	}
	if cmd.CallerID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity is required")
	}

	var (
		merchant *aggregate.Merchant
		caller   *aggregate.User
		acting   role.Role
		changed  bool
	)

	t := guard.Transition{
		Entity:   "merchant",
		EntityID: cmd.MerchantID,
		Action:   "setStatus",
		Load: func(ctx context.Context, uow repository.UnitOfWork) error {
			var err error
			merchant, err = uow.MerchantRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.MerchantID)
			if err != nil {
				return err
			}
			ev, c, err := loadCaller(ctx, uow, cmd.OrganizationID, cmd.EventID, cmd.CallerID)
			if err != nil {
				return err
			}
			caller = c
			acting, err = authorize(role.ToggleMerchantStatus, ev, caller)
			if err != nil {
				return err
			}
			return checkMerchantScope(acting, merchant, caller.ID())
		},
		Apply: func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error) {
			changed = merchant.SetActive(cmd.IsActive, caller.ID(), acting)
			if !changed {
				return nil, nil
			}
			events := merchant.GetUncommittedEvents()
			if err := uow.MerchantRepository().Save(ctx, merchant); err != nil {
				return nil, err
			}
			return events, nil
		},
		Audit: func() *repository.AuditEntry {
			if !changed {
				return nil
			}
			return &repository.AuditEntry{
				OrganizationID: cmd.OrganizationID,
				EventID:        cmd.EventID,
				ActorID:        cmd.CallerID,
				ActingRole:     string(acting),
				Detail: map[string]interface{}{
					"isActive": cmd.IsActive,
				},
			}
		},
	}

	if err := h.runner.Execute(ctx, t); err != nil {
		return nil, err
	}

	return &SetMerchantStatusResponse{
		MerchantID:    merchant.ID(),
		IsActive:      merchant.IsActive(),
		StatusChanged: changed,
	}, nil
}
