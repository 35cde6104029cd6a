package command

import (
	"context"
	"testing"

	apperrors "bazaarhub/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMerchantStatus_OwnerCloses(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)

	handler := NewSetMerchantStatusHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &SetMerchantStatusCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		MerchantID:     "m-1",
		IsActive:       false,
		CallerID:       "owner-1",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.True(t, resp.StatusChanged)

	status := store.merchants["m-1"].OperationStatus
	assert.False(t, status.IsActive)
	assert.Equal(t, "owner-1", status.ChangedBy)
	require.Len(t, store.audits, 1)
	assert.Equal(t, "setStatus", store.audits[0].Action)
}

func TestSetMerchantStatus_SameStateIsNoOp(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-1", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)
	before := store.merchants["m-1"]

	handler := NewSetMerchantStatusHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &SetMerchantStatusCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		MerchantID:     "m-1",
		IsActive:       true,
		CallerID:       "owner-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.StatusChanged)

	assert.Equal(t, before, store.merchants["m-1"])
	assert.Empty(t, store.audits)
}

func TestSetMerchantStatus_EventManagerOverridesOwnership(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, []string{"mgr-1"}, nil)
	seedUser(store, "mgr-1", nil, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, false)

	handler := NewSetMerchantStatusHandler(newTestRunner(t, store))
	resp, err := handler.Handle(context.Background(), &SetMerchantStatusCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		MerchantID:     "m-1",
		IsActive:       true,
		CallerID:       "mgr-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.StatusChanged)
	assert.True(t, store.merchants["m-1"].OperationStatus.IsActive)
	require.Len(t, store.audits, 1)
	assert.Equal(t, "eventManager", store.audits[0].ActingRole)
}

func TestSetMerchantStatus_OtherOwnerDenied(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "owner-2", []string{"merchantOwner"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", nil, true)

	handler := NewSetMerchantStatusHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &SetMerchantStatusCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		MerchantID:     "m-1",
		IsActive:       false,
		CallerID:       "owner-2",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	assert.True(t, store.merchants["m-1"].OperationStatus.IsActive)
}

func TestSetMerchantStatus_AsistDenied(t *testing.T) {
	store := newMemStore()
	seedEventFixture(store, nil, nil)
	seedUser(store, "asist-1", []string{"merchantAsist"}, nil, nil)
	seedMerchant(store, "m-1", "owner-1", []string{"asist-1"}, true)

	handler := NewSetMerchantStatusHandler(newTestRunner(t, store))
	_, err := handler.Handle(context.Background(), &SetMerchantStatusCommand{
		OrganizationID: testOrgID,
		EventID:        testEventID,
		MerchantID:     "m-1",
		IsActive:       false,
		CallerID:       "asist-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}
