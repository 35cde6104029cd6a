package aggregate

import (
	"testing"
	"time"

	"bazaarhub/internal/domain/event"
	"bazaarhub/internal/domain/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMerchant(t *testing.T, active bool) *Merchant {
	t.Helper()
	m, err := RehydrateMerchant(MerchantState{
		ID:             "m1",
		OrganizationID: "org1",
		EventID:        "ev1",
		Name:           "Dumpling Stand",
		OwnerUserID:    "owner1",
		AsistUserIDs:   []string{"asist1"},
		OperationStatus: OperationStatus{
			IsActive: active,
		},
	})
	require.NoError(t, err)
	return m
}

func TestMerchantSetActiveTogglesAndRaisesEvent(t *testing.T) {
	m := testMerchant(t, false)

	changed := m.SetActive(true, "mgr1", role.EventManager)
	require.True(t, changed)
	assert.True(t, m.IsActive())
	assert.Equal(t, "mgr1", m.OperationStatus().ChangedBy)

	events := m.GetUncommittedEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*event.MerchantStatusChanged)
	require.True(t, ok)
	assert.True(t, evt.IsActive)
	assert.Equal(t, string(role.EventManager), evt.ActingRole)
}

func TestMerchantSetActiveSameStateIsNoOp(t *testing.T) {
	m := testMerchant(t, true)
	before := m.OperationStatus()

	changed := m.SetActive(true, "mgr1", role.MerchantOwner)
	assert.False(t, changed)
	assert.Equal(t, before, m.OperationStatus())
	assert.Empty(t, m.GetUncommittedEvents())
}

func TestMerchantRecordSaleSplitsByActingRole(t *testing.T) {
	m := testMerchant(t, true)

	require.NoError(t, m.RecordSale(100, role.MerchantOwner))
	require.NoError(t, m.RecordSale(40, role.MerchantAsist))

	rev := m.DailyRevenue()
	assert.Equal(t, int64(140), rev.Today)
	assert.Equal(t, int64(2), rev.TodayTransactionCount)
	assert.Equal(t, int64(100), rev.TodayOwnerCollected)
	assert.Equal(t, int64(40), rev.TodayAsistsCollected)
	assert.Equal(t, int64(140), rev.Total)
}

func TestMerchantRecordSaleRejectsNonPositiveAmount(t *testing.T) {
	m := testMerchant(t, true)
	assert.Error(t, m.RecordSale(0, role.MerchantOwner))
	assert.Error(t, m.RecordSale(-5, role.MerchantOwner))
}

func TestMerchantResetDailyKeepsTotal(t *testing.T) {
	m := testMerchant(t, true)
	require.NoError(t, m.RecordSale(250, role.MerchantOwner))
	require.NoError(t, m.RecordSale(50, role.MerchantAsist))

	at := time.Now()
	m.ResetDaily(at)

	rev := m.DailyRevenue()
	assert.Zero(t, rev.Today)
	assert.Zero(t, rev.TodayTransactionCount)
	assert.Zero(t, rev.TodayOwnerCollected)
	assert.Zero(t, rev.TodayAsistsCollected)
	assert.Equal(t, int64(300), rev.Total)
	assert.Equal(t, at, rev.LastResetAt)

	// reset is idempotent: a second run is a harmless re-zero
	m.ResetDaily(at)
	assert.Zero(t, m.DailyRevenue().Today)
}

func TestMerchantOwnershipChecks(t *testing.T) {
	m := testMerchant(t, true)
	assert.True(t, m.IsOwnedBy("owner1"))
	assert.False(t, m.IsOwnedBy("asist1"))
	assert.True(t, m.HasAsist("asist1"))
	assert.False(t, m.HasAsist("owner1"))
}
