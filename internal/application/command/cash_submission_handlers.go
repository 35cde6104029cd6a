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

// receiverMismatchMessage is shown to a seller manager who tries to
// confirm cash that was handed to somebody else.
const receiverMismatchMessage = "您不是此笔现金的接收人"

// ConfirmCashSubmissionHandler settles a pending cash handover: the
// submission flips to confirmed and the receiving manager's cash totals
// move in the same transaction.
type ConfirmCashSubmissionHandler struct {
	runner *guard.Runner
}

// NewConfirmCashSubmissionHandler creates a new confirm cash submission handler
func NewConfirmCashSubmissionHandler(runner *guard.Runner) *ConfirmCashSubmissionHandler {
	return &ConfirmCashSubmissionHandler{runner: runner}
}

// Handle processes the confirm cash submission command
func (h *ConfirmCashSubmissionHandler) Handle(ctx context.Context, cmd *ConfirmCashSubmissionCommand) (*ConfirmCashSubmissionResponse, error) {
	if cmd == nil {
		return nil, apperrors.NewInvalidArgument("command cannot be nil")
	}
	if cmd.OrganizationID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id is required")
	}
	if cmd.EventID == "" {
		return nil, apperrors.NewInvalidArgument("event_id is required")
	}
	if cmd.SubmissionID == "" {
		return nil, apperrors.NewInvalidArgument("submission_id is required")
	}
	if cmd.CallerID == "" {
		return nil, apperrors.NewUnauthenticated("caller identity is required")
	}

	var (
		submission *aggregate.CashSubmission
		caller     *aggregate.User
		acting     role.Role
	)

	t := guard.Transition{
		Entity:   "cashSubmission",
		EntityID: cmd.SubmissionID,
		Action:   "confirm",
		Load: func(ctx context.Context, uow repository.UnitOfWork) error {
			var err error
			submission, err = uow.CashSubmissionRepository().GetByID(ctx, cmd.OrganizationID, cmd.EventID, cmd.SubmissionID)
			if err != nil {
				return err
			}
			ev, c, err := loadCaller(ctx, uow, cmd.OrganizationID, cmd.EventID, cmd.CallerID)
			if err != nil {
				return err
			}
			caller = c
			acting, err = authorize(role.ConfirmCashSubmission, ev, caller)
			if err != nil {
				return err
			}
			if submission.ReceivedBy() != caller.ID() {
				return apperrors.NewPermissionDenied(receiverMismatchMessage)
			}
			return nil
		},
		Preconditions: func() []guard.Precondition {
			return []guard.Precondition{
				{
					Name: "submission status",
					Check: func() string {
						if submission.Status() != aggregate.CashSubmissionStatusPending {
							return fmt.Sprintf("status must be pending, was %s", submission.Status())
						}
						return ""
					},
				},
			}
		},
		Apply: func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error) {
			if err := submission.Confirm(caller.ID(), acting); err != nil {
				return nil, err
			}
			if err := caller.ApplyCashConfirmation(submission.Amount()); err != nil {
				return nil, err
			}
			events := submission.GetUncommittedEvents()
			if err := uow.CashSubmissionRepository().Save(ctx, submission); err != nil {
				return nil, err
			}
			if err := uow.UserRepository().Save(ctx, caller); err != nil {
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
					"amount":     submission.Amount(),
					"receivedBy": submission.ReceivedBy(),
				},
			}
		},
	}

	if err := h.runner.Execute(ctx, t); err != nil {
		return nil, err
	}

	return &ConfirmCashSubmissionResponse{
		SubmissionID: submission.ID(),
		Amount:       submission.Amount(),
		Status:       string(submission.Status()),
		ConfirmedAt:  submission.UpdatedAt(),
	}, nil
}
