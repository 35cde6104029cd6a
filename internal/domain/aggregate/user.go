package aggregate

import (
	"fmt"
	"time"

	"bazaarhub/internal/domain/role"

	"golang.org/x/crypto/bcrypt"
)

// CashStats tracks a seller manager's running cash totals.
type CashStats struct {
	PendingFromSellers   int64     `bson:"pendingFromSellers"`
	ConfirmedFromSellers int64     `bson:"confirmedFromSellers"`
	CashOnHand           int64     `bson:"cashOnHand"`
	LastResetAt          time.Time `bson:"lastResetAt"`
}

// SellerManagerProfile is the role-specific block on a seller manager's
// user document.
type SellerManagerProfile struct {
	CashStats CashStats `bson:"cashStats"`
}

// AsistStatistics tracks a merchant assistant's collection counters.
type AsistStatistics struct {
	TodayCollected        int64     `bson:"todayCollected"`
	TodayTransactionCount int64     `bson:"todayTransactionCount"`
	TotalCollected        int64     `bson:"totalCollected"`
	LastResetAt           time.Time `bson:"lastResetAt"`
}

// MerchantAsistProfile is the role-specific block on a merchant
// assistant's user document.
type MerchantAsistProfile struct {
	MerchantID string          `bson:"merchantId"`
	Statistics AsistStatistics `bson:"statistics"`
}

// User is a participant within an event. The roles set plus the nested
// role-specific blocks drive every authorization decision.
type User struct {
	id             string
	organizationID string
	eventID        string
	name           string
	email          string
	hashedPassword string
	roles          []role.Role
	sellerManager  *SellerManagerProfile
	merchantAsist  *MerchantAsistProfile
	createdAt      time.Time
	updatedAt      time.Time
}

// UserState is the persisted shape of a user
type UserState struct {
	ID             string
	OrganizationID string
	EventID        string
	Name           string
	Email          string
	HashedPassword string
	Roles          []string
	SellerManager  *SellerManagerProfile
	MerchantAsist  *MerchantAsistProfile
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RehydrateUser rebuilds a user from its stored state. Unknown role tags
// are dropped rather than failing the whole load.
func RehydrateUser(state UserState) (*User, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	roles := make([]role.Role, 0, len(state.Roles))
	for _, tag := range state.Roles {
		if r, ok := role.Parse(tag); ok {
			roles = append(roles, r)
		}
	}
	return &User{
		id:             state.ID,
		organizationID: state.OrganizationID,
		eventID:        state.EventID,
		name:           state.Name,
		email:          state.Email,
		hashedPassword: state.HashedPassword,
		roles:          roles,
		sellerManager:  state.SellerManager,
		merchantAsist:  state.MerchantAsist,
		createdAt:      state.CreatedAt,
		updatedAt:      state.UpdatedAt,
	}, nil
}

func (u *User) ID() string             { return u.id }
func (u *User) OrganizationID() string { return u.organizationID }
func (u *User) EventID() string        { return u.eventID }
func (u *User) Name() string           { return u.name }
func (u *User) Email() string          { return u.email }

// Roles returns the user's role tags
func (u *User) Roles() []role.Role {
	out := make([]role.Role, len(u.roles))
	copy(out, u.roles)
	return out
}

// HasRole reports exact membership in the roles set
func (u *User) HasRole(r role.Role) bool {
	for _, held := range u.roles {
		if held == r {
			return true
		}
	}
	return false
}

// SellerManagerProfile returns the seller manager block, nil when the
// user does not carry that role's data.
func (u *User) SellerManagerProfile() *SellerManagerProfile {
	return u.sellerManager
}

// MerchantAsistProfile returns the merchant assistant block, nil when absent.
func (u *User) MerchantAsistProfile() *MerchantAsistProfile {
	return u.merchantAsist
}

// VerifyPassword compares the stored bcrypt hash against a candidate
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.hashedPassword), []byte(password))
}

// ApplyCashConfirmation mirrors a confirmed cash submission into the
// manager's running totals: pending decreases, confirmed and on-hand
// increase, all by the same amount.
func (u *User) ApplyCashConfirmation(amount int64) error {
	if u.sellerManager == nil {
		return fmt.Errorf("user %s has no seller manager profile", u.id)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	u.sellerManager.CashStats.PendingFromSellers -= amount
	u.sellerManager.CashStats.ConfirmedFromSellers += amount
	u.sellerManager.CashStats.CashOnHand += amount
	u.updatedAt = time.Now()
	return nil
}

// RecordAsistCollection bumps the assistant's counters for a confirmed sale
func (u *User) RecordAsistCollection(amount int64) error {
	if u.merchantAsist == nil {
		return fmt.Errorf("user %s has no merchant assistant profile", u.id)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	u.merchantAsist.Statistics.TodayCollected += amount
	u.merchantAsist.Statistics.TodayTransactionCount++
	u.merchantAsist.Statistics.TotalCollected += amount
	u.updatedAt = time.Now()
	return nil
}

// ResetAsistDaily zeroes the assistant's per-day counters
func (u *User) ResetAsistDaily(at time.Time) {
	if u.merchantAsist == nil {
		return
	}
	u.merchantAsist.Statistics.TodayCollected = 0
	u.merchantAsist.Statistics.TodayTransactionCount = 0
	u.merchantAsist.Statistics.LastResetAt = at
	u.updatedAt = at
}

func (u *User) State() UserState {
	tags := make([]string, len(u.roles))
	for i, r := range u.roles {
		tags[i] = string(r)
	}
	return UserState{
		ID:             u.id,
		OrganizationID: u.organizationID,
		EventID:        u.eventID,
		Name:           u.name,
		Email:          u.email,
		HashedPassword: u.hashedPassword,
		Roles:          tags,
		SellerManager:  u.sellerManager,
		MerchantAsist:  u.merchantAsist,
		CreatedAt:      u.createdAt,
		UpdatedAt:      u.updatedAt,
	}
}
