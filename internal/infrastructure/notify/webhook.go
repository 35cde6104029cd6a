package notify

import (
	"context"
	"fmt"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/infrastructure/bus"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// webhookEventTypes lists the events forwarded to organization webhooks
var webhookEventTypes = []string{
	"CashSubmissionConfirmed",
	"TransactionConfirmed",
	"TransactionCancelled",
	"MerchantStatusChanged",
	"PointCardReserved",
	"PointCardDebited",
}

// webhookPayload is the envelope POSTed to an organization's webhook URL
type webhookPayload struct {
	EventType   string            `json:"event_type"`
	AggregateID string            `json:"aggregate_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Data        event.DomainEvent `json:"data"`
}

// WebhookNotifier forwards domain events to the owning organization's
// webhook URL. Delivery is best effort: failures are logged and never
// retried past the client's built-in retry budget, and an organization
// without a webhook URL is silently skipped.
type WebhookNotifier struct {
	client *resty.Client
	orgs   repository.OrganizationRepository
	logger *zap.Logger
}

// NewWebhookNotifier creates a webhook notifier
func NewWebhookNotifier(orgs repository.OrganizationRepository, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &WebhookNotifier{
		client: client,
		orgs:   orgs,
		logger: logger,
	}
}

// Register subscribes the notifier to every forwarded event type
func (n *WebhookNotifier) Register(eventBus bus.EventBus) error {
	for _, eventType := range webhookEventTypes {
		if err := eventBus.Subscribe(eventType, n); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}

// Handle implements bus.EventHandler
func (n *WebhookNotifier) Handle(ctx context.Context, e event.DomainEvent) error {
	orgID := organizationOf(e)
	if orgID == "" {
		return nil
	}

	org, err := n.orgs.GetByID(ctx, orgID)
	if err != nil {
		n.logger.Warn("webhook organization lookup failed",
			zap.String("organization_id", orgID),
			zap.String("event_type", e.EventType()),
			zap.Error(err),
		)
		return nil
	}
	url := org.WebhookURL()
	if url == "" {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{
			EventType:   e.EventType(),
			AggregateID: e.AggregateID(),
			OccurredAt:  e.OccurredAt(),
			Data:        e,
		}).
		Post(url)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("organization_id", orgID),
			zap.String("event_type", e.EventType()),
			zap.Error(err),
		)
		return nil
	}
	if resp.IsError() {
		n.logger.Warn("webhook rejected",
			zap.String("organization_id", orgID),
			zap.String("event_type", e.EventType()),
			zap.Int("status", resp.StatusCode()),
		)
		return nil
	}

	n.logger.Debug("webhook delivered",
		zap.String("organization_id", orgID),
		zap.String("event_type", e.EventType()),
	)
	return nil
}

func organizationOf(e event.DomainEvent) string {
	switch evt := e.(type) {
	case *event.CashSubmissionConfirmed:
		return evt.OrganizationID
	case *event.TransactionConfirmed:
		return evt.OrganizationID
	case *event.TransactionCancelled:
		return evt.OrganizationID
	case *event.MerchantStatusChanged:
		return evt.OrganizationID
	case *event.PointCardReserved:
		return evt.OrganizationID
	case *event.PointCardDebited:
		return evt.OrganizationID
	default:
		return ""
	}
}
