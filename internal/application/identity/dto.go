package identity

import "time"

// LoginRequest is the sign-in form
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,max=200"`
	ClientID string `json:"client_id" binding:"required,max=50"`
}

// LoginResult is returned after a successful sign-in
type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the signed-in user
type UserInfo struct {
	UserName   string `json:"user_name"`
	UserType   string `json:"user_type"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}
