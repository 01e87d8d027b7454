package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/erp/requisition/internal/domain/identity"
	"github.com/erp/requisition/internal/domain/shared"
)

const (
	loginEndpoint = "Restpos_Login"
	loginSuccess  = "SUCCESS"
)

type loginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
}

type loginRequest struct {
	DivDes   string    `json:"DIV_DES"`
	DivID    string    `json:"DIV_ID"`
	Function string    `json:"FUNCTION"`
	SendKey  string    `json:"SEND_KEY"`
	Data     loginData `json:"DATA"`
}

type loginReply struct {
	LoginResult struct {
		Result   flexString `json:"Result"`
		UserName flexString `json:"user_name"`
		UserType flexString `json:"user_type"`
	} `json:"LoginResult"`
	ClientInfo struct {
		ClientID   flexString `json:"client_id"`
		ClientName flexString `json:"client_name"`
	} `json:"ClientInfo"`
}

// Authenticate signs a user in with the service's basic credentials.
// A refused login or a 401 is identity.ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	raw, err := c.post(ctx, c.cfg.BaseURL, loginEndpoint, loginRequest{
		DivID:    "1",
		Function: loginEndpoint,
		SendKey:  c.cfg.SendKey,
		Data: loginData{
			Email:    creds.Email,
			Password: creds.Password,
			ClientID: creds.ClientID,
		},
	}, authBasic)
	if err != nil {
		var upstream *shared.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	var reply loginReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		c.observe(loginEndpoint, ResultError)
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode login reply: %w", err)}
	}
	if !strings.EqualFold(reply.LoginResult.Result.String(), loginSuccess) {
		c.observe(loginEndpoint, ResultRejected)
		return nil, identity.ErrInvalidCredentials
	}
	c.observe(loginEndpoint, ResultOK)

	return &identity.Account{
		UserName:   reply.LoginResult.UserName.String(),
		UserType:   reply.LoginResult.UserType.String(),
		ClientID:   reply.ClientInfo.ClientID.String(),
		ClientName: reply.ClientInfo.ClientName.String(),
	}, nil
}

var _ identity.Authenticator = (*Client)(nil)
