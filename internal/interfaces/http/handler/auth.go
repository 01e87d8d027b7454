package handler

import (
	"time"

	"github.com/erp/requisition/internal/application/identity"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	BaseHandler
	loginService *identity.LoginService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(loginService *identity.LoginService) *AuthHandler {
	return &AuthHandler{loginService: loginService}
}

// Login signs in against the ERP and returns a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.loginService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the current session and discards its draft
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.loginService.Logout(c.Request.Context(), claims.Session(), claims.RemainingTTL(time.Now())); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Signed out"})
}
