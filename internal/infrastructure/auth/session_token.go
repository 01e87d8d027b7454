package auth

import (
	"errors"
	"time"

	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrTokenNotYetValid  = errors.New("token is not yet valid")
	ErrMissingSessionID  = errors.New("missing session_id in claims")
	ErrMissingClientID   = errors.New("missing client_id in claims")
	ErrSessionRevoked    = errors.New("session has been revoked")
	ErrMissingSigningKey = errors.New("jwt secret is not configured")
)

// Claims are the session token claims
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	UserName  string `json:"user_name"`
	UserType  string `json:"user_type,omitempty"`
}

// Session returns the session context carried by the claims.
// A malformed session id yields a zero session.
func (c *Claims) Session() shared.SessionContext {
	id, err := uuid.Parse(c.SessionID)
	if err != nil {
		return shared.SessionContext{}
	}
	return shared.SessionContext{
		SessionID: id,
		ClientID:  c.ClientID,
		UserName:  c.UserName,
		UserType:  c.UserType,
	}
}

// RemainingTTL returns the time until the token expires
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// SessionToken is an issued token and its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// SessionTokenService issues and validates session tokens.
// Each login starts a new session with a fresh session id.
type SessionTokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewSessionTokenService creates a new session token service
func NewSessionTokenService(cfg config.JWTConfig) *SessionTokenService {
	return &SessionTokenService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue starts a session for an authenticated user
func (s *SessionTokenService) Issue(clientID, userName, userType string) (*SessionToken, *Claims, error) {
	if len(s.secret) == 0 {
		return nil, nil, ErrMissingSigningKey
	}
	now := s.now()
	sessionID := uuid.New().String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   userName,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
		ClientID:  clientID,
		UserName:  userName,
		UserType:  userType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, nil, err
	}
	return &SessionToken{
		Token:     signed,
		ExpiresAt: now.Add(s.expiration),
		TokenType: "Bearer",
	}, claims, nil
}

// Validate parses a token and returns its claims
func (s *SessionTokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, ErrInvalidClaims
	}
	if claims.ClientID == "" {
		return nil, ErrMissingClientID
	}
	return claims, nil
}
