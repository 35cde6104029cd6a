package command

import (
	"context"
	"fmt"

	"bazaarhub/internal/application/guard"
	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// ConfirmTransactionHandler settles a pending payment: the transaction
// flips to confirmed and the merchant's revenue counters (plus the
// assistant's statistics and the point card's balance, when applicable)
// move in the same transaction.
type ConfirmTransactionHandler struct {
	runner *guard.Runner
}

// NewConfirmTransactionHandler creates a new confirm transaction handler
func NewConfirmTransactionHandler(runner *guard.Runner) *ConfirmTransactionHandler {
	return &ConfirmTransactionHandler{runner: runner}
}

// Handle processes the confirm transaction command
func (h *ConfirmTransactionHandler) Handle(ctx context.Context, cmd *ConfirmTransactionCommand) (*ConfirmTransactionResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	if cmd.OrganizationID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id is required")
	}
	if cmd.EventID == "" {
		return nil, apperrors.NewInvalidArgument("event_id is required")
	}
	if cmd.TransactionID == "" {
		return nil, apperrors.NewInvalidArgument("transaction_id is required")
	}
	if cmd.CallerID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity is required")
	}

	var (
		tx       *aggregate.Transaction
		merchant *aggregate.Merchant
		card     *aggregate.PointCard
		caller   *aggregate.User
		acting   role.Role
	)

	t := guard.Transition{
		Entity:   "transaction",
		EntityID: cmd.TransactionID,
		Action:   "confirm",
		Load: func(ctx context.Context, uow repository.UnitOfWork) error {
			var err error
			tx, err = uow.TransactionRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.TransactionID)
			if err != nil {
				return err
			}
			merchant, err = uow.MerchantRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, tx.MerchantID())
			if err != nil {
				return err
			}
			ev, c, err := loadCaller(ctx, uow, cmd.OrganizationID, cmd.EventID, cmd.CallerID)
			if err != nil {
				return err
			}
			caller = c
			acting, err = authorize(role.ConfirmTransaction, ev, caller)
			if err != nil {
				return err
			}
			if err := checkMerchantScope(acting, merchant, caller.ID()); err != nil {
				return err
			}
			if tx.Type() == aggregate.TransactionTypePointCard {
				card, err = uow.PointCardRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, tx.PointCardID())
				if err != nil {
					return err
				}
			}
			return nil
		},
		Preconditions: func() []guard.Precondition {
			pre := []guard.Precondition{
				{
					Name: "transaction status",
					Check: func() string {
						if tx.Status() != aggregate.TransactionStatusPending {
							return fmt.Sprintf("status must be pending, was %s", tx.Status())
						}
						return ""
					},
				},
			}
			if card != nil {
				pre = append(pre,
					guard.Precondition{
						Name: "point card usable",
						Check: func() string {
							return card.UsableViolation()
						},
					},
					guard.Precondition{
						Name: "point card reservation",
						Check: func() string {
							if card.Balance().Reserved < tx.Amount() {
								return fmt.Sprintf("reserved balance %d does not cover amount %d", card.Balance().Reserved, tx.Amount())
							}
							return ""
						},
					},
				)
			}
			return pre
		},
		Apply: func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error) {
			if err := tx.Confirm(caller.ID(), acting); err != nil {
				return nil, err
			}
			if err := merchant.RecordSale(tx.Amount(), acting); err != nil {
				return nil, err
			}

			events := append(tx.GetUncommittedEvents(), merchant.GetUncommittedEvents()...)

			if acting == role.MerchantAsist {
				if err := caller.RecordAsistCollection(tx.Amount()); err != nil {
					return nil, err
				}
				if err := uow.UserRepository().Save(ctx, caller); err != nil {
					return nil, err
				}
			}
			if card != nil {
				if err := card.Debit(tx.ID(), tx.Amount()); err != nil {
					return nil, err
				}
				events = append(events, card.GetUncommittedEvents()...)
				if err := uow.PointCardRepository().Save(ctx, card); err != nil {
					return nil, err
				}
			}
			if err := uow.TransactionRepository().Save(ctx, tx); err != nil {
				return nil, err
			}
			if err := uow.MerchantRepository().Save(ctx, merchant); err != nil {
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
					"amount":          tx.Amount(),
					"merchantId":      tx.MerchantID(),
					"transactionType": string(tx.Type()),
				},
			}
		},
	}

	if err := h.runner.Execute(ctx, t); err != nil {
		return nil, err
	}

	return &ConfirmTransactionResponse{
		TransactionID: tx.ID(),
		Amount:        tx.Amount(),
		Status:        string(tx.Status()),
		ActingRole:    string(acting),
		ConfirmedAt:   tx.UpdatedAt(),
	}, nil
}

// CancelTransactionHandler voids a pending payment and releases any
// point card reservation tied to it.
type CancelTransactionHandler struct {
	runner *guard.Runner
}

// NewCancelTransactionHandler creates a new cancel transaction handler
func NewCancelTransactionHandler(runner *guard.Runner) *CancelTransactionHandler {
	return &CancelTransactionHandler{runner: runner}
}

// Handle processes the cancel transaction command
func (h *CancelTransactionHandler) Handle(ctx context.Context, cmd *CancelTransactionCommand) (*CancelTransactionResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	if cmd.OrganizationID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id is required")
	}
	if cmd.EventID == "" {
		return nil, apperrors.NewInvalidArgument("event_id is required")
	}
	if cmd.TransactionID == "" {
		return nil, apperrors.NewInvalidArgument("transaction_id is required")
	}
	if cmd.CallerID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity is required")
	}

	var (
		tx       *aggregate.Transaction
		merchant *aggregate.Merchant
		card     *aggregate.PointCard
		caller   *aggregate.User
		acting   role.Role
	)

	t := guard.Transition{
		Entity:   "transaction",
		EntityID: cmd.TransactionID,
		Action:   "cancel",
		Load: func(ctx context.Context, uow repository.UnitOfWork) error {
			var err error
			tx, err = uow.TransactionRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.TransactionID)
			if err != nil {
				return err
			}
			merchant, err = uow.MerchantRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, tx.MerchantID())
			if err != nil {
				return err
			}
			ev, c, err := loadCaller(ctx, uow, cmd.OrganizationID, cmd.EventID, cmd.CallerID)
			if err != nil {
				return err
			}
			caller = c
			acting, err = authorize(role.CancelTransaction, ev, caller)
			if err != nil {
				return err
			}
			if err := checkMerchantScope(acting, merchant, caller.ID()); err != nil {
				return err
			}
			if tx.Type() == aggregate.TransactionTypePointCard {
				card, err = uow.PointCardRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, tx.PointCardID())
				if err != nil {
					return err
				}
			}
			return nil
		},
		Preconditions: func() []guard.Precondition {
			return []guard.Precondition{
				{
					Name: "transaction status",
					Check: func() string {
						if tx.Status() != aggregate.TransactionStatusPending {
							return fmt.Sprintf("status must be pending, was %s", tx.Status())
						}
						return ""
					},
				},
			}
		},
		Apply: func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error) {
			if err := tx.Cancel(caller.ID(), acting, cmd.Reason); err != nil {
				return nil, err
			}
			events := tx.GetUncommittedEvents()

			if card != nil {
				if err := card.Release(tx.Amount()); err != nil {
					return nil, err
				}
				if err := uow.PointCardRepository().Save(ctx, card); err != nil {
					return nil, err
				}
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
					"amount": tx.Amount(),
					"reason": cmd.Reason,
				},
			}
		},
	}

	if err := h.runner.Execute(ctx, t); err != nil {
		return nil, err
	}

	return &CancelTransactionResponse{
		TransactionID: tx.ID(),
		Status:        string(tx.Status()),
		ActingRole:    string(acting),
		CancelledAt:   tx.UpdatedAt(),
	}, nil
}
