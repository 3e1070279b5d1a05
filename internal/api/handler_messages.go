package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"staffportal/internal/model"
	"staffportal/internal/provider"
	"staffportal/internal/service"
)

type Dispatcher interface {
	DispatchSMS(ctx context.Context, sess *model.SessionUser, message string, recipients []model.Recipient) ([]model.RecipientResult, string, error)
	DispatchEmail(ctx context.Context, sess *model.SessionUser, subject, html string, attachments []provider.Attachment, recipients []model.Recipient) ([]model.RecipientResult, string, error)
	PublishWeb(ctx context.Context, sess *model.SessionUser, in service.WebMessageInput) (*model.WebAPIMessage, error)
}

type PublishedReader interface {
	ListPublished(ctx context.Context, msgType string, limit int) ([]*model.WebAPIMessage, error)
}

type MessageHandler struct {
	dispatch  Dispatcher
	published PublishedReader
}

func NewMessageHandler(dispatch Dispatcher, published PublishedReader) *MessageHandler {
	return &MessageHandler{dispatch: dispatch, published: published}
}

// Send handles POST /api/messages. A JSON body is a web message; a multipart
// form is an sms or email dispatch.
func (h *MessageHandler) Send(c *gin.Context) {
	sess := sessionFromContext(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if strings.Contains(c.ContentType(), "application/json") {
		h.sendWeb(c, sess)
		return
	}
	h.sendForm(c, sess)
}

func (h *MessageHandler) sendWeb(c *gin.Context, sess *model.SessionUser) {
	var req struct {
		Title       string     `json:"title"`
		Content     string     `json:"content"`
		Priority    string     `json:"priority"`
		Type        string     `json:"type"`
		ExpiryDate  *time.Time `json:"expiryDate"`
		IsPublished bool       `json:"isPublished"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.dispatch.PublishWeb(c.Request.Context(), sess, service.WebMessageInput{
		Title:       req.Title,
		Content:     req.Content,
		Priority:    req.Priority,
		Type:        req.Type,
		ExpiryDate:  req.ExpiryDate,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
	})
}

func (h *MessageHandler) sendForm(c *gin.Context, sess *model.SessionUser) {
	msgType := c.PostForm("type")

	switch msgType {
	case "sms":
		recipients, ok := parseRecipients(c)
		if !ok {
			return
		}
		results, _, err := h.dispatch.DispatchSMS(c.Request.Context(), sess, c.PostForm("message"), recipients)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "results": results})

	case "email":
		recipients, ok := parseRecipients(c)
		if !ok {
			return
		}
		attachments, err := readAttachments(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read attachments"})
			return
		}
		results, _, err := h.dispatch.DispatchEmail(c.Request.Context(), sess,
			c.PostForm("subject"), c.PostForm("message"), attachments, recipients)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "results": results})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message type"})
	}
}

// ListPublished handles GET /api/messages?type=&limit=
func (h *MessageHandler) ListPublished(c *gin.Context) {
	msgType := c.DefaultQuery("type", "web")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}

	messages, err := h.published.ListPublished(c.Request.Context(), msgType, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func parseRecipients(c *gin.Context) ([]model.Recipient, bool) {
	raw := c.PostForm("recipients")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrNoRecipients.Error()})
		return nil, false
	}

	var recipients []model.Recipient
	if err := json.Unmarshal([]byte(raw), &recipients); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipients"})
		return nil, false
	}
	return recipients, true
}

func readAttachments(c *gin.Context) ([]provider.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var attachments []provider.Attachment
	for _, fh := range form.File["attachments"] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, provider.Attachment{
			Filename: fh.Filename,
			Content:  content,
		})
	}
	return attachments, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNoRecipients),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
