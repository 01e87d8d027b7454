package middleware

import (
	"errors"
	"strings"

	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/auth"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// SessionAuthConfig holds configuration for the session middleware
type SessionAuthConfig struct {
	Tokens *auth.SessionTokenService
	// Revocations is optional; without it logged-out tokens stay valid until expiry
	Revocations auth.SessionRevocationList
	Logger      *zap.Logger
}

// SessionAuth validates the bearer session token and attaches the session to the request.
// The session is available to handlers through GetSession and to services through
// shared.SessionFromContext.
func SessionAuth(cfg SessionAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Tokens.Validate(tokenString)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		ctx := c.Request.Context()
		if cfg.Revocations != nil {
			revoked, err := cfg.Revocations.IsRevoked(ctx, claims.SessionID)
			if err != nil {
				// fail open: the token itself is valid
				log.Error("Failed to check session revocation",
					zap.String("session_id", claims.SessionID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, log, auth.ErrSessionRevoked, "Session has been revoked")
				return
			}
		}

		session := claims.Session()
		c.Set(SessionClaimsKey, claims)
		ctx = shared.WithSession(ctx, session)
		ctx = logger.WithSessionFields(ctx, claims.SessionID, claims.ClientID, claims.UserName)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("Session authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	text := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, text = dto.ErrCodeTokenExpired, "Session has expired, please sign in again"
	case errors.Is(err, auth.ErrSessionRevoked):
		code, text = dto.ErrCodeSessionRevoked, "Session has ended, please sign in again"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingSessionID),
		errors.Is(err, auth.ErrMissingClientID):
		code, text = dto.ErrCodeTokenInvalid, "Invalid session token"
	}

	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, text, c.GetString(RequestIDKey)))
}

// GetSessionClaims retrieves the session claims from gin.Context
func GetSessionClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(SessionClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetSession returns the request's session, or a zero session when unauthenticated
func GetSession(c *gin.Context) shared.SessionContext {
	if claims := GetSessionClaims(c); claims != nil {
		return claims.Session()
	}
	return shared.SessionContext{}
}
