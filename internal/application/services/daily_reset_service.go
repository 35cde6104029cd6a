package services

import (
	"context"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/infrastructure/bus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resetBatchSize caps how many documents one bulk write touches.
const resetBatchSize = 500

// ResetStore enumerates the documents the nightly sweep zeroes and
// applies the resets in bulk.
type ResetStore interface {
	ListOrganizationIDs(ctx context.Context) ([]string, error)
	ListEventIDs(ctx context.Context, orgID string) ([]string, error)
	ListMerchantIDs(ctx context.Context, orgID, eventID string) ([]string, error)
	ListAsistUserIDs(ctx context.Context, orgID, eventID string) ([]string, error)
	ResetMerchants(ctx context.Context, ids []string, at time.Time) error
	ResetAsists(ctx context.Context, ids []string, at time.Time) error
}

// ResetSummary reports one completed sweep
type ResetSummary struct {
	RunID          string        `json:"run_id"`
	Organizations  int           `json:"organizations"`
	Events         int           `json:"events"`
	MerchantsReset int           `json:"merchants_reset"`
	AsistsReset    int           `json:"asists_reset"`
	Batches        int           `json:"batches"`
	Duration       time.Duration `json:"duration"`
	StartedAt      time.Time     `json:"started_at"`
}

// DailyResetService zeroes every merchant's daily revenue and every
// assistant's daily statistics once per day at the configured local
// hour. Lifetime totals are never touched. A sweep that runs twice is
// harmless: zeroing zeroes is a no-op.
type DailyResetService struct {
	store    ResetStore
	eventBus bus.EventBus
	logger   *zap.Logger
	hour     int
	minute   int
	location *time.Location
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewDailyResetService creates a daily reset service firing at the given
// local wall-clock time.
func NewDailyResetService(store ResetStore, eventBus bus.EventBus, logger *zap.Logger, hour, minute int, location *time.Location) *DailyResetService {
	if location == nil {
		location = time.UTC
	}
	return &DailyResetService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
		hour:     hour,
		minute:   minute,
		location: location,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start launches the timer loop
func (s *DailyResetService) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info("daily reset service started",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute),
		zap.String("timezone", s.location.String()),
	)
}

// Stop terminates the timer loop and waits for it to exit
func (s *DailyResetService) Stop() {
	close(s.stopChan)
	<-s.doneChan
	s.logger.Info("daily reset service stopped")
}

func (s *DailyResetService) run(ctx context.Context) {
	defer close(s.doneChan)
	for {
		timer := time.NewTimer(time.Until(s.nextRun(time.Now())))
		select {
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("daily reset failed", zap.Error(err))
			}
		case <-s.stopChan:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next wall-clock firing time strictly after now
func (s *DailyResetService) nextRun(now time.Time) time.Time {
	local := now.In(s.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce sweeps every event of every organization immediately. The
// admin endpoint uses it for manual resets; the timer loop calls it on
// schedule.
func (s *DailyResetService) RunOnce(ctx context.Context) (*ResetSummary, error) {
	started := time.Now()
	summary := &ResetSummary{
		RunID:     uuid.New().String(),
		StartedAt: started,
	}

	orgIDs, err := s.store.ListOrganizationIDs(ctx)
	if err != nil {
		return nil, err
	}
	summary.Organizations = len(orgIDs)

	for _, orgID := range orgIDs {
		eventIDs, err := s.store.ListEventIDs(ctx, orgID)
		if err != nil {
			return nil, err
		}
		summary.Events += len(eventIDs)

		for _, eventID := range eventIDs {
			merchantIDs, err := s.store.ListMerchantIDs(ctx, orgID, eventID)
			if err != nil {
				return nil, err
			}
			batches, err := s.applyInBatches(ctx, merchantIDs, started, s.store.ResetMerchants)
			if err != nil {
				return nil, err
			}
			summary.MerchantsReset += len(merchantIDs)
			summary.Batches += batches

			asistIDs, err := s.store.ListAsistUserIDs(ctx, orgID, eventID)
			if err != nil {
				return nil, err
			}
			batches, err = s.applyInBatches(ctx, asistIDs, started, s.store.ResetAsists)
			if err != nil {
				return nil, err
			}
			summary.AsistsReset += len(asistIDs)
			summary.Batches += batches
		}
	}

	summary.Duration = time.Since(started)
	s.logger.Info("daily reset completed",
		zap.String("run_id", summary.RunID),
		zap.Int("organizations", summary.Organizations),
		zap.Int("events", summary.Events),
		zap.Int("merchants_reset", summary.MerchantsReset),
		zap.Int("asists_reset", summary.AsistsReset),
		zap.Int("batches", summary.Batches),
		zap.Duration("duration", summary.Duration),
	)

	if err := s.eventBus.Publish(ctx, &event.DailyResetCompleted{
		RunID:          summary.RunID,
		Organizations:  summary.Organizations,
		Events:         summary.Events,
		MerchantsReset: summary.MerchantsReset,
		AsistsReset:    summary.AsistsReset,
		Batches:        summary.Batches,
		Duration:       summary.Duration.String(),
		Timestamp:      started,
	}); err != nil {
		s.logger.Warn("daily reset event publish failed", zap.Error(err))
	}
	return summary, nil
}

func (s *DailyResetService) applyInBatches(ctx context.Context, ids []string, at time.Time, apply func(context.Context, []string, time.Time) error) (int, error) {
	batches := 0
	for start := 0; start < len(ids); start += resetBatchSize {
		end := start + resetBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := apply(ctx, ids[start:end], at); err != nil {
			return batches, err
		}
		batches++
	}
	return batches, nil
}
