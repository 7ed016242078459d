package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user has the admin role
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(domain.RoleAdmin)
}

// CanWriteQuotes checks if user may create or restore quote versions.
// Viewers are read-only; everyone else can price and version quotes.
func (u *UserContext) CanWriteQuotes() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleEstimator, domain.RoleSales, domain.RoleAPIService)
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}
