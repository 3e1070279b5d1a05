package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffportal/internal/model"
	"staffportal/internal/service"
)

type LogLister interface {
	ListSMS(ctx context.Context, scope service.LogScope, userID int) ([]*model.SmsLogEntry, error)
	ListEmail(ctx context.Context, scope service.LogScope, userID int) ([]*model.EmailLogEntry, error)
	ListWeb(ctx context.Context, scope service.LogScope, userID int) ([]*model.WebAPIMessageEntry, error)
}

type LogHandler struct {
	logs LogLister
}

func NewLogHandler(logs LogLister) *LogHandler {
	return &LogHandler{logs: logs}
}

// ListSMS handles GET /api/logs/sms?scope=all|mine
func (h *LogHandler) ListSMS(c *gin.Context) {
	scope, userID, ok := scopeFromRequest(c)
	if !ok {
		return
	}

	entries, err := h.logs.ListSMS(c.Request.Context(), scope, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListEmail handles GET /api/logs/email?scope=all|mine
func (h *LogHandler) ListEmail(c *gin.Context) {
	scope, userID, ok := scopeFromRequest(c)
	if !ok {
		return
	}

	entries, err := h.logs.ListEmail(c.Request.Context(), scope, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListWeb handles GET /api/logs/webapi?scope=all|mine
func (h *LogHandler) ListWeb(c *gin.Context) {
	scope, userID, ok := scopeFromRequest(c)
	if !ok {
		return
	}

	entries, err := h.logs.ListWeb(c.Request.Context(), scope, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// scopeFromRequest reads the scope flag; "mine" needs the caller's identity.
func scopeFromRequest(c *gin.Context) (service.LogScope, int, bool) {
	scope := service.LogScope(c.DefaultQuery("scope", string(service.ScopeAll)))
	if scope != service.ScopeAll && scope != service.ScopeMine {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be all or mine"})
		return "", 0, false
	}

	sess := sessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", 0, false
	}
	return scope, sess.User.ID, true
}
