package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProfileProvisionedEventType  = "profile.provisioned"
	ProvisioningFailedEventType  = "profile.provisioning_failed"
	OrganizationCreatedEventType = "organization.created"
)

// NewProfileProvisionedEvent is published when the post-signup workflow
// created a profile row linked to an organization.
func NewProfileProvisionedEvent(profileID, organizationID, email string, organizationCreated bool) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ProfileProvisionedEventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"profile_id":           profileID,
			"organization_id":      organizationID,
			"email":                email,
			"organization_created": organizationCreated,
		},
	}
}

// NewProvisioningFailedEvent is published when any step of the workflow
// failed. The organization row, if one was created, is left in place.
func NewProvisioningFailedEvent(userID, organisationName, stage, reason string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ProvisioningFailedEventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"user_id":           userID,
			"organisation_name": organisationName,
			"stage":             stage,
			"reason":            reason,
		},
	}
}

func NewOrganizationCreatedEvent(organizationID, name string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      OrganizationCreatedEventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"organization_id": organizationID,
			"name":            name,
		},
	}
}
