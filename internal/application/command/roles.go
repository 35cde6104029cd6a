package command

import (
	"context"

	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// loadCaller resolves the caller's user document and event, returning
// PermissionDenied when the caller is not a participant of the event.
func loadCaller(ctx context.Context, uow repository.UnitOfWork, orgID, eventID, callerID string) (*aggregate.Event, *aggregate.User, error) {
	ev, err := uow.EventRepository().GetByID(ctx, orgID, eventID)
	if err != nil {
		return nil, nil, err
	}
	caller, err := uow.UserRepository().GetByID(ctx, orgID, eventID, callerID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, nil, apperrors.NewPermissionDenied("caller is not a participant of this event")
		}
		return nil, nil, err
	}
	return ev, caller, nil
}

// authorize resolves the acting-as role for a capability or denies
func authorize(cap role.Capability, ev *aggregate.Event, caller *aggregate.User) (role.Role, error) {
	acting, ok := role.Authorize(cap, role.EffectiveRoles(ev, caller.ID(), caller.Roles()))
	if !ok {
		return "", apperrors.NewPermissionDenied("caller does not hold a role authorized for this operation")
	}
	return acting, nil
}

// checkMerchantScope ensures owner/assistant actors operate on their own
// merchant. Event managers pass unconditionally.
func checkMerchantScope(acting role.Role, m *aggregate.Merchant, callerID string) error {
	switch acting {
	case role.EventManager:
		return nil
	case role.MerchantOwner:
		if !m.IsOwnedBy(callerID) {
			return apperrors.NewPermissionDenied("caller does not own this merchant")
		}
	case role.MerchantAsist:
		if !m.HasAsist(callerID) {
			return apperrors.NewPermissionDenied("caller is not an assistant of this merchant")
		}
	default:
		return apperrors.NewPermissionDenied("caller role cannot act on this merchant")
	}
	return nil
}
