package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/domain"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       string
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		apiKey:       cfg.Auth.APIKey,
		logger:       logger,
	}
}

// Authenticate is the main authentication middleware
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")

		// Try API key first
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if m.validateAPIKey(apiKey) {
				// Create system user context with API service role
				userCtx := &UserContext{
					UserID:      uuid.MustParse("00000000-0000-0000-0000-000000000000"),
					DisplayName: "System",
					Email:       "system@meridianscan.io",
					Roles:       []domain.UserRoleType{domain.RoleAdmin, domain.RoleAPIService},
				}
				ctx := WithUserContext(r.Context(), userCtx)

				m.logger.Info("request authenticated",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("auth_type", "api_key"),
					zap.String("user_id", userCtx.UserID.String()),
					zap.Duration("auth_duration", time.Since(start)),
				)

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			m.logger.Warn("invalid API key attempt",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Try JWT Bearer token
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.jwtValidator.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.String("user_id", userCtx.UserID.String()),
			zap.Strings("roles", userCtx.RolesAsStrings()),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole middleware ensures user has one of the specified roles
func (m *Middleware) RequireRole(roles ...domain.UserRoleType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no user context", http.StatusForbidden)
				return
			}

			if !userCtx.HasAnyRole(roles...) {
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireQuoteWriter middleware ensures user may create or restore quote versions
func (m *Middleware) RequireQuoteWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}

		if !userCtx.CanWriteQuotes() {
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}
