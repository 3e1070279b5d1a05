package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffportal/internal/model"
	"staffportal/internal/service"
	"staffportal/internal/util"
)

type Authenticator interface {
	Login(ctx context.Context, email, department string) (string, *model.User, error)
	CurrentSession(ctx context.Context, token string) (*model.SessionUser, error)
	Logout(ctx context.Context) error
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email      string `json:"email"`
		Department string `json:"department"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Department)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	c.SetCookie("session_token", token, 24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Session handles GET /api/auth/session. An unauthenticated caller gets
// {user: null} with 200, not a 401.
func (h *AuthHandler) Session(c *gin.Context) {
	token := util.ExtractToken(c.Request)

	sess, err := h.auth.CurrentSession(c.Request.Context(), token)
	if err != nil || sess == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
