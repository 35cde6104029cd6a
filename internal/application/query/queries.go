package query

import (
	"context"
	"time"

	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/repository"
	apperrors "bazaarhub/pkg/errors"
)

// GetPointCardBalanceQuery requests a card's balance breakdown
type GetPointCardBalanceQuery struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	CardID         string `json:"card_id"`
	CallerID       string `json:"-"`
}

// PointCardBalanceView is the balance breakdown returned to staff
type PointCardBalanceView struct {
	CardID     string `json:"card_id"`
	CardNumber string `json:"card_number"`
	Initial    int64  `json:"initial"`
	Current    int64  `json:"current"`
	Spent      int64  `json:"spent"`
	Reserved   int64  `json:"reserved"`
	Available  int64  `json:"available"`
	IsActive   bool   `json:"is_active"`
	IsUsable   bool   `json:"is_usable"`
}

// GetMerchantDashboardQuery requests a merchant's operating dashboard
type GetMerchantDashboardQuery struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	MerchantID     string `json:"merchant_id"`
	CallerID       string `json:"-"`
}

// AsistCollectionView is one assistant's collection summary on the
// merchant dashboard
type AsistCollectionView struct {
	UserID                string `json:"user_id"`
	Name                  string `json:"name"`
	TodayCollected        int64  `json:"today_collected"`
	TodayTransactionCount int64  `json:"today_transaction_count"`
	TotalCollected        int64  `json:"total_collected"`
}

// MerchantDashboardView aggregates a merchant's status, revenue split
// and per-assistant collections
type MerchantDashboardView struct {
	MerchantID            string                `json:"merchant_id"`
	Name                  string                `json:"name"`
	IsActive              bool                  `json:"is_active"`
	Today                 int64                 `json:"today"`
	TodayTransactionCount int64                 `json:"today_transaction_count"`
	TodayOwnerCollected   int64                 `json:"today_owner_collected"`
	TodayAsistsCollected  int64                 `json:"today_asists_collected"`
	Total                 int64                 `json:"total"`
	LastResetAt           time.Time             `json:"last_reset_at"`
	Asists                []AsistCollectionView `json:"asists"`
}

// GetCashStatsQuery requests a seller manager's cash totals. TargetUserID
// defaults to the caller; only event managers may name somebody else.
type GetCashStatsQuery struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	TargetUserID   string `json:"target_user_id"`
	CallerID       string `json:"-"`
}

// CashStatsView is a seller manager's running cash totals
type CashStatsView struct {
	UserID               string    `json:"user_id"`
	Name                 string    `json:"name"`
	PendingFromSellers   int64     `json:"pending_from_sellers"`
	ConfirmedFromSellers int64     `json:"confirmed_from_sellers"`
	CashOnHand           int64     `json:"cash_on_hand"`
	LastResetAt          time.Time `json:"last_reset_at"`
}

func resolveCaller(ctx context.Context, events repository.EventRepository, users repository.UserRepository, orgID, eventID, callerID string) (*aggregate.Event, *aggregate.User, error) {
	if callerID == "" {
		return nil, nil, apperrors.NewUnauthenticated("caller identity is required")
	}
	ev, err := events.GetByID(ctx, orgID, eventID)
	if err != nil {
		return nil, nil, err
	}
	caller, err := users.GetByID(ctx, orgID, eventID, callerID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return nil, nil, apperrors.NewPermissionDenied("caller is not a participant of this event")
		}
		return nil, nil, err
	}
	return ev, caller, nil
}
