package query

import (
	"context"

	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// GetCashStatsHandler returns a seller manager's running cash totals.
// Seller managers read their own; event managers may read anybody's.
type GetCashStatsHandler struct {
	events repository.EventRepository
	users  repository.UserRepository
}

// NewGetCashStatsHandler creates a new cash stats handler
func NewGetCashStatsHandler(events repository.EventRepository, users repository.UserRepository) *GetCashStatsHandler {
	return &GetCashStatsHandler{events: events, users: users}
}

// Handle processes the cash stats query
func (h *GetCashStatsHandler) Handle(ctx context.Context, q *GetCashStatsQuery) (*CashStatsView, error) {
	if q == nil {
		return nil, apperrors.NewInvalidArgument("query cannot be nil")
	}
	if q.OrganizationID == "" || q.EventID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id and event_id are required")
	}

	ev, caller, err := resolveCaller(ctx, h.events, h.users, q.OrganizationID, q.EventID, q.CallerID)
	if err != nil {
		return nil, err
	}
	acting, ok := role.Authorize(role.ViewCashStats, role.EffectiveRoles(ev, caller.ID(), caller.Roles()))
	if !ok {
		return nil, apperrors.NewPermissionDenied("caller does not hold a role authorized for this operation")
	}

	targetID := q.TargetUserID
	if targetID == "" {
		targetID = caller.ID()
	}
	if acting == role.SellerManager && targetID != caller.ID() {
		return nil, apperrors.NewPermissionDenied("seller managers may only view their own cash stats")
	}

	target := caller
	if targetID != caller.ID() {
		target, err = h.users.GetByID(ctx, q.OrganizationID, q.EventID, targetID)
		if err != nil {
			return nil, err
		}
	}
	profile := target.SellerManagerProfile()
	if !ev.IsSellerManager(target.ID()) || profile == nil {
		return nil, apperrors.NewNotFound("seller manager")
	}

	return &CashStatsView{
		UserID:               target.ID(),
		Name:                 target.Name(),
		PendingFromSellers:   profile.CashStats.PendingFromSellers,
		ConfirmedFromSellers: profile.CashStats.ConfirmedFromSellers,
		CashOnHand:           profile.CashStats.CashOnHand,
		LastResetAt:          profile.CashStats.LastResetAt,
	}, nil
}
