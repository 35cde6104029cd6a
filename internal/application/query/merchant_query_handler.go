package query

import (
	"context"

	"bazaarhub/internal/domain/aggregate"
	"bazaarhub/internal/domain/repository"
	"bazaarhub/internal/domain/role"
	apperrors "bazaarhub/pkg/errors"
)

// GetMerchantDashboardHandler assembles a merchant's operating view:
// open/closed state, today's revenue split and each assistant's
// collections. Owners and assistants see their own stall only.
type GetMerchantDashboardHandler struct {
	events    repository.EventRepository
	users     repository.UserRepository
	merchants repository.MerchantRepository
}

// NewGetMerchantDashboardHandler creates a new merchant dashboard handler
func NewGetMerchantDashboardHandler(events repository.EventRepository, users repository.UserRepository, merchants repository.MerchantRepository) *GetMerchantDashboardHandler {
	return &GetMerchantDashboardHandler{events: events, users: users, merchants: merchants}
}

// Handle processes the merchant dashboard query
func (h *GetMerchantDashboardHandler) Handle(ctx context.Context, q *GetMerchantDashboardQuery) (*MerchantDashboardView, error) {
	if q == nil {
		return nil, apperrors.NewInvalidArgument("query cannot be nil")
	}
	if q.OrganizationID == "" || q.EventID == "" {
		return nil, apperrors.NewInvalidArgument("organization_id and event_id are required")
	}
	if q.MerchantID == "" {
		return nil, apperrors.NewInvalidArgument("merchant_id is required")
	}

	ev, caller, err := resolveCaller(ctx, h.events, h.users, q.OrganizationID, q.EventID, q.CallerID)
	if err != nil {
		return nil, err
	}
	acting, ok := role.Authorize(role.ViewMerchantDashboard, role.EffectiveRoles(ev, caller.ID(), caller.Roles()))
	if !ok {
		return nil, apperrors.NewPermissionDenied("caller does not hold a role authorized for this operation")
	}

	merchant, err := h.merchants.GetByID(ctx, q.OrganizationID, q.EventID, q.MerchantID)
	if err != nil {
		return nil, err
	}
	switch acting {
	case role.MerchantOwner:
		if !merchant.IsOwnedBy(caller.ID()) {
			return nil, apperrors.NewPermissionDenied("caller does not operate this merchant")
		}
	case role.MerchantAsist:
		if !merchant.HasAsist(caller.ID()) {
			return nil, apperrors.NewPermissionDenied("caller does not operate this merchant")
		}
	}

	rev := merchant.DailyRevenue()
	view := &MerchantDashboardView{
		MerchantID:            merchant.ID(),
		Name:                  merchant.Name(),
		IsActive:              merchant.IsActive(),
		Today:                 rev.Today,
		TodayTransactionCount: rev.TodayTransactionCount,
		TodayOwnerCollected:   rev.TodayOwnerCollected,
		TodayAsistsCollected:  rev.TodayAsistsCollected,
		Total:                 rev.Total,
		LastResetAt:           rev.LastResetAt,
		Asists:                []AsistCollectionView{},
	}

	for _, asistID := range merchant.State().AsistUserIDs {
		asist, err := h.users.GetByID(ctx, q.OrganizationID, q.EventID, asistID)
		if err != nil {
			// A dangling assistant reference hides that row rather than
			// failing the whole dashboard.
			if apperrors.CodeOf(err) == apperrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		view.Asists = append(view.Asists, asistRow(asist))
	}
	return view, nil
}

func asistRow(asist *aggregate.User) AsistCollectionView {
	row := AsistCollectionView{
		UserID: asist.ID(),
		Name:   asist.Name(),
	}
	if profile := asist.MerchantAsistProfile(); profile != nil {
		row.TodayCollected = profile.Statistics.TodayCollected
		row.TodayTransactionCount = profile.Statistics.TodayTransactionCount
		row.TotalCollected = profile.Statistics.TotalCollected
	}
	return row
}
