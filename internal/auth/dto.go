package auth

import (
	errors "github.com/frahmantamala/team-management/internal"
	"github.com/frahmantamala/team-management/internal/core/common/validation"
)

// SignupDTO is the transport shape used by the HTTP handler to accept signup
// requests from the dashboard.
type SignupDTO struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	OrganisationName string  `json:"organisation_name"`
}

// Validate checks required fields before any call leaves the process.
func (d SignupDTO) Validate() *errors.AppError {
	if err := validation.ValidateSignupEmail(d.Email); err != nil {
		return err
	}
	if err := validation.ValidateSignupPassword(d.Password); err != nil {
		return err
	}
	return validation.ValidateOrganisationName(d.OrganisationName)
}
