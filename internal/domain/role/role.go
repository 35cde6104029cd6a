package role

// Role is a closed enumeration of the role tags a user document may carry.
// Matching is exact string membership; there is no hierarchy, so holding
// EventManager does not imply any other role.
type Role string

const (
	EventManager  Role = "eventManager"
	SellerManager Role = "sellerManager"
	Seller        Role = "seller"
	MerchantOwner Role = "merchantOwner"
	MerchantAsist Role = "merchantAsist"
	Customer      Role = "customer"
)

var allRoles = map[Role]struct{}{
	EventManager:  {},
	SellerManager: {},
	Seller:        {},
	MerchantOwner: {},
	MerchantAsist: {},
	Customer:      {},
}

// Parse converts a stored role tag to a Role, rejecting unknown tags.
func Parse(s string) (Role, bool) {
	r := Role(s)
	_, ok := allRoles[r]
	return r, ok
}

// ManagerRoster reports an event's manager assignments. The event
// document's admin and seller manager arrays satisfy it.
type ManagerRoster interface {
	IsAdmin(userID string) bool
	IsSellerManager(userID string) bool
}

// EffectiveRoles computes a user's roles within one event. The roster is
// the sole source of truth for EventManager and SellerManager: manager
// tags carried on the user document are discarded and re-derived from
// the roster, the remaining tags pass through unchanged.
func EffectiveRoles(roster ManagerRoster, userID string, tags []Role) []Role {
	var roles []Role
	for _, r := range tags {
		if r == EventManager || r == SellerManager {
			continue
		}
		roles = append(roles, r)
	}
	if roster.IsAdmin(userID) {
		roles = append(roles, EventManager)
	}
	if roster.IsSellerManager(userID) {
		roles = append(roles, SellerManager)
	}
	return roles
}

// Capability names an operation class that roles can be authorized for.
type Capability string

const (
	ConfirmCashSubmission Capability = "confirmCashSubmission"
	ConfirmTransaction    Capability = "confirmTransaction"
	CancelTransaction     Capability = "cancelTransaction"
	ToggleMerchantStatus  Capability = "toggleMerchantStatus"
	ViewPointCardBalance  Capability = "viewPointCardBalance"
	ReservePointCard      Capability = "reservePointCard"
	ViewCashStats         Capability = "viewCashStats"
	ViewMerchantDashboard Capability = "viewMerchantDashboard"
	RunDailyReset         Capability = "runDailyReset"
)

// capabilityRoles maps each capability to its authorized roles in
// precedence order. When a caller holds several qualifying roles, the
// first one listed here wins and becomes the acting-as role recorded in
// audit entries.
var capabilityRoles = map[Capability][]Role{
	ConfirmCashSubmission: {SellerManager},
	ConfirmTransaction:    {MerchantOwner, MerchantAsist},
	CancelTransaction:     {EventManager, MerchantOwner, MerchantAsist},
	ToggleMerchantStatus:  {EventManager, MerchantOwner},
	ViewPointCardBalance:  {EventManager, SellerManager, MerchantOwner, MerchantAsist},
	ReservePointCard:      {MerchantOwner, MerchantAsist},
	ViewCashStats:         {EventManager, SellerManager},
	ViewMerchantDashboard: {EventManager, MerchantOwner, MerchantAsist},
	RunDailyReset:         {EventManager},
}

// Authorize checks whether any of the held roles grants the capability.
// It returns the acting-as role (first match in precedence order) and
// whether access is allowed.
func Authorize(cap Capability, held []Role) (Role, bool) {
	heldSet := make(map[Role]struct{}, len(held))
	for _, r := range held {
		heldSet[r] = struct{}{}
	}
	for _, allowed := range capabilityRoles[cap] {
		if _, ok := heldSet[allowed]; ok {
			return allowed, true
		}
	}
	return "", false
}

// AuthorizedRoles returns the roles that grant the capability, in
// precedence order.
func AuthorizedRoles(cap Capability) []Role {
	src := capabilityRoles[cap]
	out := make([]Role, len(src))
	copy(out, src)
	return out
}
