package command

import (
	"context"
	"testing"
	"time"

	"bazaarhub/internal/application/guard"
	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/infrastructure/bus"
	apperrors "bazaarhub/pkg/errors"

	"go.uber.org/zap"
)

// memStore backs the fake repositories with plain maps. Aggregates are
// rehydrated fresh on every read, so a mutation only becomes visible
// once the handler saves it.
type memStore struct {
	organizations map[string]aggregate.OrganizationState
	events        map[string]aggregate.EventState
	users         map[string]aggregate.UserState
	merchants     map[string]aggregate.MerchantState
	transactions  map[string]aggregate.TransactionState
	submissions   map[string]aggregate.CashSubmissionState
	cards         map[string]aggregate.PointCardState
	audits        []repository.AuditEntry

	userWrites int
	commits    int
	rollbacks  int
}

func newMemStore() *memStore {
	return &memStore{
		organizations: make(map[string]aggregate.OrganizationState),
		events:        make(map[string]aggregate.EventState),
		users:         make(map[string]aggregate.UserState),
		merchants:     make(map[string]aggregate.MerchantState),
		transactions:  make(map[string]aggregate.TransactionState),
		submissions:   make(map[string]aggregate.CashSubmissionState),
		cards:         make(map[string]aggregate.PointCardState),
	}
}

type memUnitOfWork struct {
	store *memStore
	inTx  bool
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *memUnitOfWork) Commit(ctx context.Context) error {
	u.inTx = false
	u.store.commits++
	return nil
}

func (u *memUnitOfWork) Rollback(ctx context.Context) error {
	u.inTx = false
	u.store.rollbacks++
	return nil
}

func (u *memUnitOfWork) Close() error { return nil }

func (u *memUnitOfWork) IsInTransaction() bool { return u.inTx }

func (u *memUnitOfWork) OrganizationRepository() repository.OrganizationRepository {
	return &memOrganizationRepo{store: u.store}
}

func (u *memUnitOfWork) EventRepository() repository.EventRepository {
	return &memEventRepo{store: u.store}
}

func (u *memUnitOfWork) UserRepository() repository.UserRepository {
	return &memUserRepo{store: u.store}
}

func (u *memUnitOfWork) MerchantRepository() repository.MerchantRepository {
	return &memMerchantRepo{store: u.store}
}

func (u *memUnitOfWork) TransactionRepository() repository.TransactionRepository {
	return &memTransactionRepo{store: u.store}
}

func (u *memUnitOfWork) CashSubmissionRepository() repository.CashSubmissionRepository {
	return &memCashSubmissionRepo{store: u.store}
}

func (u *memUnitOfWork) PointCardRepository() repository.PointCardRepository {
	return &memPointCardRepo{store: u.store}
}

func (u *memUnitOfWork) AuditRepository() repository.AuditRepository {
	return &memAuditRepo{store: u.store}
}

type memUnitOfWorkFactory struct {
	store *memStore
}

func (f *memUnitOfWorkFactory) CreateUnitOfWork() repository.UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memOrganizationRepo struct{ store *memStore }

func (r *memOrganizationRepo) GetByID(ctx context.Context, id string) (*aggregate.Organization, error) {
	state, ok := r.store.organizations[id]
	if !ok {
		return nil, apperrors.NewNotFound("organization")
	}
	return aggregate.RehydrateOrganization(state)
}

func (r *memOrganizationRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.store.organizations))
	for id := range r.store.organizations {
		ids = append(ids, id)
	}
	return ids, nil
}

type memEventRepo struct{ store *memStore }

func (r *memEventRepo) GetByID(ctx context.Context, orgID, id string) (*aggregate.Event, error) {
	state, ok := r.store.events[id]
	if !ok || state.OrganizationID != orgID {
		return nil, apperrors.NewNotFound("event")
	}
	return aggregate.RehydrateEvent(state)
}

func (r *memEventRepo) ListIDs(ctx context.Context, orgID string) ([]string, error) {
	var ids []string
	for id, state := range r.store.events {
		if state.OrganizationID == orgID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.User, error) {
	state, ok := r.store.users[id]
	if !ok || state.OrganizationID != orgID || state.EventID != eventID {
		return nil, apperrors.NewNotFound("user")
	}
	return aggregate.RehydrateUser(state)
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*aggregate.User, error) {
	for _, state := range r.store.users {
		if state.Email == email {
			return aggregate.RehydrateUser(state)
		}
	}
	return nil, apperrors.NewNotFound("user")
}

func (r *memUserRepo) Save(ctx context.Context, user *aggregate.User) error {
	r.store.users[user.ID()] = user.State()
	r.store.userWrites++
	return nil
}

type memMerchantRepo struct{ store *memStore }

func (r *memMerchantRepo) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Merchant, error) {
	state, ok := r.store.merchants[id]
	if !ok || state.OrganizationID != orgID || state.EventID != eventID {
		return nil, apperrors.NewNotFound("merchant")
	}
	return aggregate.RehydrateMerchant(state)
}

func (r *memMerchantRepo) Save(ctx context.Context, merchant *aggregate.Merchant) error {
	r.store.merchants[merchant.ID()] = merchant.State()
	merchant.MarkEventsAsCommitted()
	return nil
}

type memTransactionRepo struct{ store *memStore }

func (r *memTransactionRepo) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.Transaction, error) {
	state, ok := r.store.transactions[id]
	if !ok || state.OrganizationID != orgID || state.EventID != eventID {
		return nil, apperrors.NewNotFound("transaction")
	}
	return aggregate.RehydrateTransaction(state)
}

func (r *memTransactionRepo) Save(ctx context.Context, tx *aggregate.Transaction) error {
	r.store.transactions[tx.ID()] = tx.State()
	tx.MarkEventsAsCommitted()
	return nil
}

type memCashSubmissionRepo struct{ store *memStore }

func (r *memCashSubmissionRepo) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.CashSubmission, error) {
	state, ok := r.store.submissions[id]
	if !ok || state.OrganizationID != orgID || state.EventID != eventID {
		return nil, apperrors.NewNotFound("cash submission")
	}
	return aggregate.RehydrateCashSubmission(state)
}

func (r *memCashSubmissionRepo) Save(ctx context.Context, submission *aggregate.CashSubmission) error {
	r.store.submissions[submission.ID()] = submission.State()
	submission.MarkEventsAsCommitted()
	return nil
}

type memPointCardRepo struct{ store *memStore }

func (r *memPointCardRepo) GetByID(ctx context.Context, orgID, eventID, id string) (*aggregate.PointCard, error) {
	state, ok := r.store.cards[id]
	if !ok || state.OrganizationID != orgID || state.EventID != eventID {
		return nil, apperrors.NewNotFound("point card")
	}
	return aggregate.RehydratePointCard(state)
}

func (r *memPointCardRepo) Save(ctx context.Context, card *aggregate.PointCard) error {
	r.store.cards[card.ID()] = card.State()
	card.MarkEventsAsCommitted()
	return nil
}

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Append(ctx context.Context, entry repository.AuditEntry) error {
	r.store.audits = append(r.store.audits, entry)
	return nil
}

func newTestRunner(t *testing.T, store *memStore) *guard.Runner {
	t.Helper()
	return guard.NewRunner(&memUnitOfWorkFactory{store: store}, bus.NewInMemoryEventBus(), zap.NewNop())
}

const (
	testOrgID   = "org-1"
	testEventID = "event-1"
)

// seedEventFixture installs the organization and event every command
// test runs against.
func seedEventFixture(store *memStore, adminIDs, sellerManagerIDs []string) {
	store.organizations[testOrgID] = aggregate.OrganizationState{
		ID:        testOrgID,
		Name:      "Spring Bazaar Org",
		CreatedAt: time.Now(),
	}
	admins := make([]aggregate.ManagerRecord, 0, len(adminIDs))
	for _, id := range adminIDs {
		admins = append(admins, aggregate.ManagerRecord{UserID: id, AddedAt: time.Now()})
	}
	managers := make([]aggregate.ManagerRecord, 0, len(sellerManagerIDs))
	for _, id := range sellerManagerIDs {
		managers = append(managers, aggregate.ManagerRecord{UserID: id, AddedAt: time.Now()})
	}
	store.events[testEventID] = aggregate.EventState{
		ID:             testEventID,
		OrganizationID: testOrgID,
		Name:           "Spring Bazaar",
		Admins:         admins,
		SellerManagers: managers,
		StartsAt:       time.Now().Add(-time.Hour),
		EndsAt:         time.Now().Add(8 * time.Hour),
	}
}

func seedUser(store *memStore, id string, roles []string, sm *aggregate.SellerManagerProfile, ma *aggregate.MerchantAsistProfile) {
	store.users[id] = aggregate.UserState{
		ID:             id,
		OrganizationID: testOrgID,
		EventID:        testEventID,
		Name:           "User " + id,
		Email:          id + "@example.com",
		Roles:          roles,
		SellerManager:  sm,
		MerchantAsist:  ma,
	}
}

func seedMerchant(store *memStore, id, ownerID string, asistIDs []string, active bool) {
	store.merchants[id] = aggregate.MerchantState{
		ID:             id,
		OrganizationID: testOrgID,
		EventID:        testEventID,
		Name:           "Stall " + id,
		OwnerUserID:    ownerID,
		AsistUserIDs:   asistIDs,
		OperationStatus: aggregate.OperationStatus{
			IsActive: active,
		},
	}
}
