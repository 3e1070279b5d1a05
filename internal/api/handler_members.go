package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffportal/internal/model"
)

type MemberDirectory interface {
	Search(ctx context.Context, term string) ([]model.MemberView, error)
	List(ctx context.Context) ([]model.MemberView, error)
}

type MemberHandler struct {
	members MemberDirectory
}

func NewMemberHandler(members MemberDirectory) *MemberHandler {
	return &MemberHandler{members: members}
}

// Search handles GET /api/members/search?term=
func (h *MemberHandler) Search(c *gin.Context) {
	views, err := h.members.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search members"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// List handles GET /api/members
func (h *MemberHandler) List(c *gin.Context) {
	views, err := h.members.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, views)
}
