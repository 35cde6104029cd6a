package query

import (
	"context"
	"testing"
	"time"

	"bazaarhub/internal/domain/aggregate"
	apperrors "bazaarhub/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID   = "org-1"
	eventID = "event-1"
)

type fakeEventRepo struct{ states map[string]aggregate.EventState }

func (r *fakeEventRepo) GetByID(ctx context.Context, org, id string) (*aggregate.Event, error) {
	state, ok := r.states[id]
	if !ok || state.OrganizationID != org {
		return nil, apperrors.NewNotFound("event")
	}
	return aggregate.RehydrateEvent(state)
}

func (r *fakeEventRepo) ListIDs(ctx context.Context, org string) ([]string, error) {
	var ids []string
	for id, state := range r.states {
		if state.OrganizationID == org {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeUserRepo struct{ states map[string]aggregate.UserState }

func (r *fakeUserRepo) GetByID(ctx context.Context, org, event, id string) (*aggregate.User, error) {
	state, ok := r.states[id]
	if !ok || state.OrganizationID != org || state.EventID != event {
		return nil, apperrors.NewNotFound("user")
	}
	return aggregate.RehydrateUser(state)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*aggregate.User, error) {
	for _, state := range r.states {
		if state.Email == email {
			return aggregate.RehydrateUser(state)
		}
	}
	return nil, apperrors.NewNotFound("user")
}

func (r *fakeUserRepo) Save(ctx context.Context, user *aggregate.User) error {
	r.states[user.ID()] = user.State()
	return nil
}

type fakeMerchantRepo struct{ states map[string]aggregate.MerchantState }

func (r *fakeMerchantRepo) GetByID(ctx context.Context, org, event, id string) (*aggregate.Merchant, error) {
	state, ok := r.states[id]
	if !ok || state.OrganizationID != org || state.EventID != event {
		return nil, apperrors.NewNotFound("merchant")
	}
	return aggregate.RehydrateMerchant(state)
}

func (r *fakeMerchantRepo) Save(ctx context.Context, merchant *aggregate.Merchant) error {
	r.states[merchant.ID()] = merchant.State()
	return nil
}

type fakeCardRepo struct{ states map[string]aggregate.PointCardState }

func (r *fakeCardRepo) GetByID(ctx context.Context, org, event, id string) (*aggregate.PointCard, error) {
	state, ok := r.states[id]
	if !ok || state.OrganizationID != org || state.EventID != event {
		return nil, apperrors.NewNotFound("point card")
	}
	return aggregate.RehydratePointCard(state)
}

func (r *fakeCardRepo) Save(ctx context.Context, card *aggregate.PointCard) error {
	r.states[card.ID()] = card.State()
	return nil
}

type fixture struct {
	events    *fakeEventRepo
	users     *fakeUserRepo
	merchants *fakeMerchantRepo
	cards     *fakeCardRepo
}

func newFixture(adminIDs, sellerManagerIDs []string) *fixture {
	admins := make([]aggregate.ManagerRecord, 0, len(adminIDs))
	for _, id := range adminIDs {
		admins = append(admins, aggregate.ManagerRecord{UserID: id})
	}
	managers := make([]aggregate.ManagerRecord, 0, len(sellerManagerIDs))
	for _, id := range sellerManagerIDs {
		managers = append(managers, aggregate.ManagerRecord{UserID: id})
	}
	return &fixture{
		events: &fakeEventRepo{states: map[string]aggregate.EventState{
			eventID: {
				ID:             eventID,
				OrganizationID: orgID,
				Name:           "Night Market",
				Admins:         admins,
				SellerManagers: managers,
			},
		}},
		users:     &fakeUserRepo{states: map[string]aggregate.UserState{}},
		merchants: &fakeMerchantRepo{states: map[string]aggregate.MerchantState{}},
		cards:     &fakeCardRepo{states: map[string]aggregate.PointCardState{}},
	}
}

func (f *fixture) addUser(id string, roles []string, sm *aggregate.SellerManagerProfile, ma *aggregate.MerchantAsistProfile) {
	f.users.states[id] = aggregate.UserState{
		ID:             id,
		OrganizationID: orgID,
		EventID:        eventID,
		Name:           "User " + id,
		Email:          id + "@example.com",
		Roles:          roles,
		SellerManager:  sm,
		MerchantAsist:  ma,
	}
}

func TestGetPointCardBalance_ReturnsBreakdown(t *testing.T) {
	f := newFixture(nil, []string{"sm-1"})
	f.addUser("sm-1", []string{"sellerManager"}, &aggregate.SellerManagerProfile{}, nil)
	f.cards.states["card-1"] = aggregate.PointCardState{
		ID:             "card-1",
		OrganizationID: orgID,
		EventID:        eventID,
		CardNumber:     "C-0001",
		Balance:        aggregate.PointCardBalance{Initial: 500, Current: 300, Spent: 200, Reserved: 40},
		Status:         aggregate.PointCardStatus{IsActive: true},
	}

	handler := NewGetPointCardBalanceHandler(f.events, f.users, f.cards)
	view, err := handler.Handle(context.Background(), &GetPointCardBalanceQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		CardID:         "card-1",
		CallerID:       "sm-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), view.Current)
	assert.Equal(t, int64(40), view.Reserved)
	assert.Equal(t, int64(260), view.Available)
	assert.Equal(t, view.Initial, view.Current+view.Spent)
	assert.True(t, view.IsUsable)
}

func TestGetPointCardBalance_CustomerDenied(t *testing.T) {
	f := newFixture(nil, nil)
	f.addUser("cust-1", []string{"customer"}, nil, nil)
	f.cards.states["card-1"] = aggregate.PointCardState{
		ID:             "card-1",
		OrganizationID: orgID,
		EventID:        eventID,
		Status:         aggregate.PointCardStatus{IsActive: true},
	}

	handler := NewGetPointCardBalanceHandler(f.events, f.users, f.cards)
	_, err := handler.Handle(context.Background(), &GetPointCardBalanceQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		CardID:         "card-1",
		CallerID:       "cust-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestGetMerchantDashboard_IncludesAsistRows(t *testing.T) {
	f := newFixture(nil, nil)
	f.addUser("owner-1", []string{"merchantOwner"}, nil, nil)
	f.addUser("asist-1", []string{"merchantAsist"}, nil, &aggregate.MerchantAsistProfile{
		MerchantID: "m-1",
		Statistics: aggregate.AsistStatistics{TodayCollected: 75, TodayTransactionCount: 3, TotalCollected: 420},
	})
	f.merchants.states["m-1"] = aggregate.MerchantState{
		ID:             "m-1",
		OrganizationID: orgID,
		EventID:        eventID,
		Name:           "Dumpling Stand",
		OwnerUserID:    "owner-1",
		AsistUserIDs:   []string{"asist-1"},
		OperationStatus: aggregate.OperationStatus{
			IsActive: true,
		},
		DailyRevenue: aggregate.DailyRevenue{
			Today:                 175,
			TodayTransactionCount: 5,
			TodayOwnerCollected:   100,
			TodayAsistsCollected:  75,
			Total:                 900,
		},
	}

	handler := NewGetMerchantDashboardHandler(f.events, f.users, f.merchants)
	view, err := handler.Handle(context.Background(), &GetMerchantDashboardQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		MerchantID:     "m-1",
		CallerID:       "owner-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dumpling Stand", view.Name)
	assert.Equal(t, int64(175), view.Today)
	assert.Equal(t, int64(100), view.TodayOwnerCollected)
	require.Len(t, view.Asists, 1)
	assert.Equal(t, "asist-1", view.Asists[0].UserID)
	assert.Equal(t, int64(75), view.Asists[0].TodayCollected)
}

func TestGetMerchantDashboard_OtherOwnerDenied(t *testing.T) {
	f := newFixture(nil, nil)
	f.addUser("owner-2", []string{"merchantOwner"}, nil, nil)
	f.merchants.states["m-1"] = aggregate.MerchantState{
		ID:             "m-1",
		OrganizationID: orgID,
		EventID:        eventID,
		OwnerUserID:    "owner-1",
	}

	handler := NewGetMerchantDashboardHandler(f.events, f.users, f.merchants)
	_, err := handler.Handle(context.Background(), &GetMerchantDashboardQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		MerchantID:     "m-1",
		CallerID:       "owner-2",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestGetCashStats_SellerManagerSeesOwn(t *testing.T) {
	f := newFixture(nil, []string{"sm-1"})
	reset := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	f.addUser("sm-1", []string{"sellerManager"}, &aggregate.SellerManagerProfile{
		CashStats: aggregate.CashStats{PendingFromSellers: 50, ConfirmedFromSellers: 120, CashOnHand: 120, LastResetAt: reset},
	}, nil)

	handler := NewGetCashStatsHandler(f.events, f.users)
	view, err := handler.Handle(context.Background(), &GetCashStatsQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		CallerID:       "sm-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), view.PendingFromSellers)
	assert.Equal(t, int64(120), view.CashOnHand)
	assert.Equal(t, reset, view.LastResetAt)
}

func TestGetCashStats_SellerManagerCannotReadOthers(t *testing.T) {
	f := newFixture(nil, []string{"sm-1", "sm-2"})
	f.addUser("sm-1", []string{"sellerManager"}, &aggregate.SellerManagerProfile{}, nil)
	f.addUser("sm-2", []string{"sellerManager"}, &aggregate.SellerManagerProfile{}, nil)

	handler := NewGetCashStatsHandler(f.events, f.users)
	_, err := handler.Handle(context.Background(), &GetCashStatsQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		TargetUserID:   "sm-2",
		CallerID:       "sm-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestGetCashStats_EventManagerReadsAnyManager(t *testing.T) {
	f := newFixture([]string{"mgr-1"}, []string{"sm-1"})
	f.addUser("mgr-1", nil, nil, nil)
	f.addUser("sm-1", []string{"sellerManager"}, &aggregate.SellerManagerProfile{
		CashStats: aggregate.CashStats{CashOnHand: 300},
	}, nil)

	handler := NewGetCashStatsHandler(f.events, f.users)
	view, err := handler.Handle(context.Background(), &GetCashStatsQuery{
		OrganizationID: orgID,
		EventID:        eventID,
		TargetUserID:   "sm-1",
		CallerID:       "mgr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sm-1", view.UserID)
	assert.Equal(t, int64(300), view.CashOnHand)
}
