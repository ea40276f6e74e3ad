package models

import "github.com/golang-jwt/jwt/v5"

// AdminRole enumerates the portal roles allowed to call the API.
type AdminRole string

const (
	RoleOrgAdmin   AdminRole = "ORG_ADMIN"
	RoleSuperAdmin AdminRole = "SUPER_ADMIN"
)

// JWTClaims is the access token payload. OrgID scopes every query; there is
// no ambient session lookup anywhere below the middleware.
type JWTClaims struct {
	OrgID string    `json:"org_id"`
	Email string    `json:"email"`
	Role  AdminRole `json:"role"`
	jwt.RegisteredClaims
}
