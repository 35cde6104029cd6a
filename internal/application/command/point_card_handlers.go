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

// ReservePointCardHandler places a hold on a point card and opens the
// pending transaction that the hold backs. The hold and the transaction
// are written in the same unit of work so a crash cannot strand one
// without the other.
type ReservePointCardHandler struct {
	runner *guard.Runner
}

// NewReservePointCardHandler creates a new reserve point card handler
func NewReservePointCardHandler(runner *guard.Runner) *ReservePointCardHandler {
	return &ReservePointCardHandler{runner: runner}
}

// Handle processes the reserve point card command
func (h *ReservePointCardHandler) Handle(ctx context.Context, cmd *ReservePointCardCommand) (*ReservePointCardResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	if cmd.OrganizationID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id is required")
	}
	if cmd.EventID == "" {
		return nil, apperrors.NewInvalidArgument("event_id is required")
	}
	if cmd.CardID == "" {
		return nil, apperrors.NewInvalidArgument("card_id is required")
	}
	if cmd.MerchantID == "" {
		return nil, apperrors.NewInvalidArgument("merchant_id is required")
	}
	if cmd.Amount <= 0 {
		return nil, apperrors.NewInvalidArgument("amount must be positive")
	}
	if cmd.CallerID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity is required")
	}

	var (
		card     *aggregate.PointCard
		merchant *aggregate.Merchant
		caller   *aggregate.User
		acting   role.Role
		tx       *aggregate.Transaction
	)

	t := guard.Transition{
		Entity:   "pointCard",
		EntityID: cmd.CardID,
		Action:   "reserve",
		Load: func(ctx context.Context, uow repository.UnitOfWork) error {
			var err error
			card, err = uow.PointCardRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.CardID)
			if err != nil {
				return err
			}
			merchant, err = uow.MerchantRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.MerchantID)
			if err != nil {
				return err
			}
			ev, c, err := loadCaller(ctx, uow, cmd.OrganizationID, cmd.EventID, cmd.CallerID)
			if err != nil {
				return err
			}
			caller = c
			acting, err = authorize(role.ReservePointCard, ev, caller)
			if err != nil {
				return err
			}
			return checkMerchantScope(acting, merchant, caller.ID())
		},
		Preconditions: func() []guard.Precondition {
			return []guard.Precondition{
				{
					Name: "point card usable",
					Check: func() string {
						return card.UsableViolation()
					},
				},
				{
					Name: "available balance",
					Check: func() string {
						if card.Available() < cmd.Amount {
							return "insufficient available balance"
						}
						return ""
					},
				},
			}
		},
		Apply: func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error) {
			var err error
			tx, err = aggregate.NewTransaction(cmd.OrganizationID, cmd.EventID, cmd.MerchantID, card.HolderUserID(), cmd.Amount, aggregate.TransactionTypePointCard, card.ID())
			if err != nil {
				return nil, err
			}
			if err := card.Reserve(tx.ID(), cmd.MerchantID, cmd.Amount); err != nil {
				return nil, err
			}
			events := card.GetUncommittedEvents()
			if err := uow.PointCardRepository().Save(ctx, card); err != nil {
				return nil, err
			}
			if err := uow.TransactionRepository().Save(ctx, tx); err != nil {
				return nil, err
			}
			return events, nil
		},
		Audit: func() *repository.AuditEntry {
			return &repository.AuditEntry{
				OrganizationID: cmd.OrganizationID,
				EventID:        cmd.EventID,
				ActorID:        cmd.CallerID,
				ActingRole:     string(acting),
				Detail: map[string]interface{}{
					"amount":        cmd.Amount,
					"merchantId":    cmd.MerchantID,
					"transactionId": tx.ID(),
				},
			}
		},
	}

	if err := h.runner.Execute(ctx, t); err != nil {
		return nil, err
	}

	return &ReservePointCardResponse{
		TransactionID: tx.ID(),
		CardID:        card.ID(),
		Reserved:      card.Balance().Reserved,
		Available:     card.Available(),
	}, nil
}
