package command

import (
	"context"
	"testing"
	"time"

	"bazaarhub/internal/domain/aggregate"
	apperrors "bazaarhub/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransaction(store *memStore, id, merchantID string, amount int64, txType, cardID, status string) {
	store.transactions[id] = aggregate.TransactionState{
		ID:              id,
		OrganizationID:  testOrgID,
		EventID:         testEventID,
		MerchantID:      merchantID,
		CustomerUserID:  "cust-1",
		Amount:          amount,
		TransactionType: txType,
		PointCardID:     cardID,
		Status:          status,
		CreatedAt:       time.Now(),
	}
}

func seedCard(store *memStore, id string, balance aggregate.PointCardBalance, status aggregate.PointCardStatus) {
	store.cards[id] = aggregate.PointCardState{
		ID:             id,
		OrganizationID: testOrgID,
		EventID:        testEventID,
		CardNumber:     "C-" + id,
		HolderUserID:   "cust-1",
		Balance:        balance,
		Status:         status,
	}
}

func TestConfirmTransaction_CashByOwner(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedTransaction(store, "tx-1", "m-1", 80, "cash", "", "pending")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "merchantOwner", resp.ActingRole)

	rev := store.merchants["m-1"].DailyRevenue
	assert.Equal(t, int64(80), rev.Today)
	assert.Equal(t, int64(1), rev.TodayTransactionCount)
	assert.Equal(t, int64(80), rev.TodayOwnerCollected)
	assert.Equal(t, int64(0), rev.TodayAsistsCollected)
	assert.Equal(t, int64(80), rev.Total)
	assert.Equal(t, "confirmed", store.transactions["tx-1"].Status)
}

func TestConfirmTransaction_CashByAsistUpdatesStatistics(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "asist-1", []string{"merchantAsist"}, nil, &aggregate.MerchantAsistProfile{MerchantID: "m-1"})
	seedMerchant(store, "m-1", "owner-1", []string{"asist-1"}, true)
	seedTransaction(store, "tx-1", "m-1", 60, "cash", "", "pending")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "asist-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "merchantAsist", resp.ActingRole)

	rev := store.merchants["m-1"].DailyRevenue
	assert.Equal(t, int64(60), rev.TodayAsistsCollected)
	assert.Equal(t, int64(0), rev.TodayOwnerCollected)

	stats := store.users["asist-1"].MerchantAsist.Statistics
	assert.Equal(t, int64(60), stats.TodayCollected)
	assert.Equal(t, int64(1), stats.TodayTransactionCount)
	assert.Equal(t, int64(60), stats.TotalCollected)
}

func TestConfirmTransaction_PointCardDebitsReservation(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedCard(store, "card-1", aggregate.PointCardBalance{Initial: 500, Current: 300, Spent: 200, Reserved: 120}, aggregate.PointCardStatus{IsActive: true})
	seedTransaction(store, "tx-1", "m-1", 120, "pointCard", "card-1", "pending")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-1",
	})
	require.NoError(t, err)

	balance := store.cards["card-1"].Balance
	assert.Equal(t, int64(180), balance.Current)
	assert.Equal(t, int64(320), balance.Spent)
	assert.Equal(t, int64(0), balance.Reserved)
	assert.Equal(t, balance.Initial, balance.Current+balance.Spent)
}

func TestConfirmTransaction_PointCardReservationTooSmall(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedCard(store, "card-1", aggregate.PointCardBalance{Initial: 500, Current: 300, Spent: 200, Reserved: 50}, aggregate.PointCardStatus{IsActive: true})
	seedTransaction(store, "tx-1", "m-1", 120, "pointCard", "card-1", "pending")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
	assert.Equal(t, "pending", store.transactions["tx-1"].Status)
	assert.Equal(t, int64(300), store.cards["card-1"].Balance.Current)
}

func TestConfirmTransaction_NotPending(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedTransaction(store, "tx-1", "m-1", 80, "cash", "", "cancelled")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "status must be pending, was cancelled")
	assert.Equal(t, int64(0), store.merchants["m-1"].DailyRevenue.Today)
}

func TestConfirmTransaction_OtherMerchantOwnerDenied(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-2", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedTransaction(store, "tx-1", "m-1", 80, "cash", "", "pending")

	handler := NewConfirmTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &ConfirmTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-2",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	assert.Equal(t, "pending", store.transactions["tx-1"].Status)
}

func TestCancelTransaction_ByEventManager(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, []string{"mgr-1"}, nil)
	seedUser(store, "mgr-1", nil, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedTransaction(store, "tx-1", "m-1", 80, "cash", "", "pending")

	handler := NewCancelTransactionHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &CancelTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		Reason:         "customer walked away",
		CallerID:       "mgr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "eventManager", resp.ActingRole)
	assert.Equal(t, "cancelled", store.transactions["tx-1"].Status)
}

func TestCancelTransaction_PointCardReleasesHold(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedCard(store, "card-1", aggregate.PointCardBalance{Initial: 500, Current: 300, Spent: 200, Reserved: 120}, aggregate.PointCardStatus{IsActive: true})
	seedTransaction(store, "tx-1", "m-1", 120, "pointCard", "card-1", "pending")

	handler := NewCancelTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &CancelTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "owner-1",
	})
	require.NoError(t, err)

	balance := store.cards["card-1"].Balance
	assert.Equal(t, int64(0), balance.Reserved)
	assert.Equal(t, int64(300), balance.Current)
	assert.Equal(t, int64(200), balance.Spent)
}

func TestCancelTransaction_AlreadyConfirmed(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, []string{"mgr-1"}, nil)
	seedUser(store, "mgr-1", nil, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	seedTransaction(store, "tx-1", "m-1", 80, "cash", "", "confirmed")

	handler := NewCancelTransactionHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &CancelTransactionCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		TransactionID:  "tx-1",
		CallerID:       "mgr-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
	assert.Equal(t, "confirmed", store.transactions["tx-1"].Status)
}
