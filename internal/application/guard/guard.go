package guard

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/infrastructure/bus"
	apperrors "bazaarhub/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Precondition is one named predicate over the loaded document state.
// Check returns a human-readable violation message, or an empty string
// when the predicate holds.
type Precondition struct {
	Name  string
	Check func() string
}

// Transition describes one guarded state transition: which documents to
// load, which predicates must hold, the mutation to apply, and the audit
// entry to append. The runner executes the whole sequence inside a
// single unit of work.
type Transition struct {
	Entity   string
	EntityID string
	Action   string

	// Load reads the primary document (and any secondary documents the
	// mutation touches) and performs authorization. Its errors surface
	// to the caller unchanged.
	Load func(ctx context.Context, uow repository.UnitOfWork) error

	// Preconditions is evaluated after Load; predicates close over the
	// loaded documents. The first violated predicate aborts the
	// transition.
	Preconditions func() []Precondition

	// Apply performs the mutation and saves the touched documents. It
	// returns the domain events to publish after commit.
	Apply func(ctx context.Context, uow repository.UnitOfWork) ([]event.DomainEvent, error)

	// Audit builds the audit entry for this transition. A nil func or a
	// nil return skips the append, which no-op transitions use to avoid
	// writing anything.
	Audit func() *repository.AuditEntry
}

// Runner executes guarded transitions. Conflict detection between
// concurrent transitions is delegated entirely to the underlying store's
// transaction mechanism; the runner holds no locks.
type Runner struct {
	uowFactory repository.UnitOfWorkFactory
	eventBus   bus.EventBus
	logger     *zap.Logger
}

// NewRunner creates a transition runner
func NewRunner(uowFactory repository.UnitOfWorkFactory, eventBus bus.EventBus, logger *zap.Logger) *Runner {
	return &Runner{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Execute runs the transition: begin, load, check, mutate, audit,
// commit, publish. Any failure rolls the whole unit of work back.
func (r *Runner) Execute(ctx context.Context, t Transition) error {
	uow := r.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to begin transaction: %v", err))
	}

	if err := t.Load(ctx, uow); err != nil {
		uow.Rollback(ctx)
		return passthrough(err)
	}

	if t.Preconditions != nil {
		for _, p := range t.Preconditions() {
			if msg := p.Check(); msg != "" {
				uow.Rollback(ctx)
				r.logger.Info("precondition violated",
					zap.String("entity", t.Entity),
					zap.String("entity_id", t.EntityID),
					zap.String("action", t.Action),
					zap.String("precondition", p.Name),
				)
				return apperrors.NewFailedPrecondition(msg)
			}
		}
	}

	events, err := t.Apply(ctx, uow)
	if err != nil {
		uow.Rollback(ctx)
		return passthrough(err)
	}

	if t.Audit != nil {
		if entry := t.Audit(); entry != nil {
			if entry.ID == "" {
				entry.ID = uuid.New().String()
			}
			if entry.At.IsZero() {
				entry.At = time.Now()
			}
			if entry.Entity == "" {
				entry.Entity = t.Entity
			}
			if entry.EntityID == "" {
				entry.EntityID = t.EntityID
			}
			if entry.Action == "" {
				entry.Action = t.Action
			}
			if err := uow.AuditRepository().Append(ctx, *entry); err != nil {
				uow.Rollback(ctx)
				return apperrors.NewInternalError(fmt.Sprintf("failed to append audit entry: %v", err))
			}
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to commit transaction: %v", err))
	}

	// Publish only after commit; a subscriber failure never unwinds the
	// committed transition.
	for _, e := range events {
		if err := r.eventBus.Publish(ctx, e); err != nil {
			r.logger.Warn("event publish failed",
				zap.String("event_type", e.EventType()),
				zap.String("aggregate_id", e.AggregateID()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// passthrough keeps ApplicationErrors intact and wraps everything else
// as Internal.
func passthrough(err error) error {
	var appErr *apperrors.ApplicationError
	if stderrors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInternalError(err.Error())
}
