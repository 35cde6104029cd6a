package aggregate

import (
	"fmt"
	"time"
)

// Organization is the top-level tenant owning events.
type Organization struct {
	id         string
	name       string
	webhookURL string
	createdAt  time.Time
}

// OrganizationState is the persisted shape of an organization
type OrganizationState struct {
	ID         string
	Name       string
	WebhookURL string
	CreatedAt  time.Time
}

// RehydrateOrganization rebuilds an organization from its stored state
func RehydrateOrganization(state OrganizationState) (*Organization, error) {
	if state.ID == "" {
		return nil, fmt.Errorf("organization id cannot be empty")
	}
	return &Organization{
		id:         state.ID,
		name:       state.Name,
		webhookURL: state.WebhookURL,
		createdAt:  state.CreatedAt,
	}, nil
}

func (o *Organization) ID() string           { return o.id }
func (o *Organization) Name() string         { return o.name }
func (o *Organization) WebhookURL() string   { return o.webhookURL }
func (o *Organization) CreatedAt() time.Time { return o.createdAt }

func (o *Organization) State() OrganizationState {
	return OrganizationState{
		ID:         o.id,
		Name:       o.name,
		WebhookURL: o.webhookURL,
		CreatedAt:  o.createdAt,
	}
}
