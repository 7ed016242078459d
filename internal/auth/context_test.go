package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext_RoundTrip(t *testing.T) {
	user := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Dana Reed",
		Roles:       []domain.UserRoleType{domain.RoleEstimator},
	}

	ctx := auth.WithUserContext(context.Background(), user)

	found, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.UserID, found.UserID)
	assert.Equal(t, user, auth.MustFromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	assert.Panics(t, func() {
		auth.MustFromContext(context.Background())
	})
}

func TestUserContext_HasRole(t *testing.T) {
	user := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleSales, domain.RoleEstimator},
	}

	assert.True(t, user.HasRole(domain.RoleSales))
	assert.False(t, user.HasRole(domain.RoleAdmin))
	assert.True(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleEstimator))
	assert.False(t, user.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService))
	assert.False(t, user.IsAdmin())
}

func TestUserContext_CanWriteQuotes(t *testing.T) {
	tests := []struct {
		name     string
		roles    []domain.UserRoleType
		expected bool
	}{
		{"admin", []domain.UserRoleType{domain.RoleAdmin}, true},
		{"estimator", []domain.UserRoleType{domain.RoleEstimator}, true},
		{"sales", []domain.UserRoleType{domain.RoleSales}, true},
		{"api service", []domain.UserRoleType{domain.RoleAPIService}, true},
		{"viewer", []domain.UserRoleType{domain.RoleViewer}, false},
		{"no roles", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &auth.UserContext{Roles: tt.roles}
			assert.Equal(t, tt.expected, user.CanWriteQuotes())
		})
	}
}

func TestUserContext_RolesAsStrings(t *testing.T) {
	user := &auth.UserContext{
		Roles: []domain.UserRoleType{domain.RoleAdmin, domain.RoleViewer},
	}
	assert.Equal(t, []string{"admin", "viewer"}, user.RolesAsStrings())
}
