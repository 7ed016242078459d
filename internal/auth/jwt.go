package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/domain"
)

// Claims is the token payload issued by the identity service
type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// JWTValidator validates HMAC-signed bearer tokens
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// ValidateToken parses and validates a bearer token and builds the user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	roles := make([]domain.UserRoleType, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		role := domain.UserRoleType(r)
		if role.IsValid() {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = append(roles, domain.RoleViewer)
	}

	return &UserContext{
		UserID:      userID,
		DisplayName: claims.Name,
		Email:       claims.Email,
		Roles:       roles,
	}, nil
}
