package identity

import (
	"context"
	"errors"
	"time"

	"github.com/erp/requisition/internal/domain/identity"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// LoginService signs users in against the upstream and manages their sessions
type LoginService struct {
	authenticator identity.Authenticator
	tokens        *auth.SessionTokenService
	revocations   auth.SessionRevocationList
	drafts        requisition.DraftRepository
	logger        *zap.Logger
}

// NewLoginService creates a new LoginService
func NewLoginService(
	authenticator identity.Authenticator,
	tokens *auth.SessionTokenService,
	revocations auth.SessionRevocationList,
	drafts requisition.DraftRepository,
	logger *zap.Logger,
) *LoginService {
	return &LoginService{
		authenticator: authenticator,
		tokens:        tokens,
		revocations:   revocations,
		drafts:        drafts,
		logger:        logger,
	}
}

// Login authenticates upstream and starts a new session
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", req.Email), zap.String("client_id", req.ClientID))

	account, err := s.authenticator.Authenticate(ctx, identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
		ClientID: req.ClientID,
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			s.logger.Warn("Login rejected upstream", zap.String("email", req.Email))
		} else {
			s.logger.Error("Login call failed", zap.String("email", req.Email), zap.Error(err))
		}
		return nil, err
	}

	clientID := account.ClientID
	if clientID == "" {
		clientID = req.ClientID
	}

	token, claims, err := s.tokens.Issue(clientID, account.UserName, account.UserType)
	if err != nil {
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start session")
	}

	s.logger.Info("User logged in",
		zap.String("user_name", account.UserName),
		zap.String("client_id", clientID),
		zap.String("session_id", claims.SessionID),
	)

	return &LoginResult{
		Token:     token.Token,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User: UserInfo{
			UserName:   account.UserName,
			UserType:   account.UserType,
			ClientID:   clientID,
			ClientName: account.ClientName,
		},
	}, nil
}

// Logout revokes the session for the rest of its token lifetime and discards its draft
func (s *LoginService) Logout(ctx context.Context, session shared.SessionContext, remaining time.Duration) error {
	if session.IsZero() {
		return shared.ErrSessionMissing
	}
	if err := s.revocations.Revoke(ctx, session.SessionID.String(), remaining); err != nil {
		return err
	}
	if err := s.drafts.DeleteBySession(ctx, session.SessionID); err != nil {
		s.logger.Warn("Failed to discard draft on logout",
			zap.String("session_id", session.SessionID.String()),
			zap.Error(err),
		)
	}
	s.logger.Info("User logged out",
		zap.String("user_name", session.UserName),
		zap.String("session_id", session.SessionID.String()),
	)
	return nil
}
