package dto

import "github.com/golang-jwt/jwt/v5"

const (
	RoleOperator = "operator"
	RoleStudent  = "student"
)

// AuthClaims defines the custom claims carried by portal-issued tokens.
type AuthClaims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}
