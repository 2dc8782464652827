package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email          string
	Role           enums.AccountRole
	OrganizationID *uuid.UUID
	JTI            string
}

// AccessTokenClaims is the typed JWT the identity layer signs for clients.
// The service trusts the resolved (email, role, organization) triple.
type AccessTokenClaims struct {
	Email          string            `json:"email"`
	Role           enums.AccountRole `json:"role"`
	OrganizationID *uuid.UUID        `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}
