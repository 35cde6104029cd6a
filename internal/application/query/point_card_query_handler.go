package query

import (
	"context"

	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// GetPointCardBalanceHandler exposes a card's balance breakdown to
// event staff. Reads run outside any store transaction.
type GetPointCardBalanceHandler struct {
	events repository.EventRepository
	users  repository.UserRepository
	cards  repository.PointCardRepository
}

// NewGetPointCardBalanceHandler creates a new point card balance handler
func NewGetPointCardBalanceHandler(events repository.EventRepository, users repository.UserRepository, cards repository.PointCardRepository) *GetPointCardBalanceHandler {
	return &GetPointCardBalanceHandler{events: events, users: users, cards: cards}
}

// Handle processes the point card balance query
func (h *GetPointCardBalanceHandler) Handle(ctx context.Context, q *GetPointCardBalanceQuery) (*PointCardBalanceView, error) {
	if q == nil {
		return nil, apperrors.NewInvalidArgument("query cannot be nil")
	}
	if q.OrganizationID == "" || q.EventID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id and event_id are required")
	}
	if q.CardID == "" {
		return nil, apperrors.NewInvalidArgument("card_id is required")
	}

	ev, caller, err := resolveCaller(ctx, h.events, h.users, q.OrganizationID, q.EventID, q.CallerID)
	if err != nil {
		return nil, err
	}
	if _, ok := role.Authorize(role.ViewPointCardBalance, role.EffectiveRoles(ev, caller.ID(), caller.Roles())); !ok {
		return nil, apperrors.NewPermissionDenied("caller does not hold a role authorized for this operation")
	}

	card, err := h.cards.GetByID(ctx, q.OrganizationID, q.EventID, q.CardID)
	if err != nil {
		return nil, err
	}

	balance := card.Balance()
	return &PointCardBalanceView{
		CardID:     card.ID(),
		CardNumber: card.CardNumber(),
		Initial:    balance.Initial,
		Current:    balance.Current,
		Spent:      balance.Spent,
		Reserved:   balance.Reserved,
		Available:  card.Available(),
		IsActive:   card.Status().IsActive,
		IsUsable:   card.UsableViolation() == "",
	}, nil
}
