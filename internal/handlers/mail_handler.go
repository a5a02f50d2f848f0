package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/dtos"
	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

// MailHandler serves the OAuth callback and sends. Mail is nil when no
// Google client is configured.
type MailHandler struct {
	Mail       *services.EmailService
	SuccessURL string
	FailureURL string
}

func NewMailHandler(mail *services.EmailService, successURL, failureURL string) *MailHandler {
	return &MailHandler{Mail: mail, SuccessURL: successURL, FailureURL: failureURL}
}

func (h *MailHandler) available(c *gin.Context) bool {
	if h.Mail == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mail sending is not configured"})
		return false
	}
	return true
}

// AuthURL is GET /mail/authorize.
func (h *MailHandler) AuthURL(c *gin.Context) {
	if !h.available(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": h.Mail.AuthURL(middleware.UserID(c))})
}

// Callback is GET /mail/callback, the OAuth redirect target. It always
// answers with a redirect back to the client.
func (h *MailHandler) Callback(c *gin.Context) {
	if !h.available(c) {
		return
	}
	if denied := c.Query("error"); denied != "" {
		slog.Warn("mail authorization denied", "component", "mail", "reason", denied)
		c.Redirect(http.StatusFound, withMarker(h.FailureURL, "error"))
		return
	}

	userID, err := h.Mail.Connect(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		slog.Warn("mail authorization failed", "component", "mail", "user_id", userID,
			"request_id", middleware.RequestID(c), "err", err)
		c.Redirect(http.StatusFound, withMarker(h.FailureURL, "error"))
		return
	}
	c.Redirect(http.StatusFound, withMarker(h.SuccessURL, "connected"))
}

// Send is POST /mail/send.
func (h *MailHandler) Send(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req dtos.SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "to, subject and body are required")
		return
	}

	userID := middleware.UserID(c)
	err := h.Mail.Send(c.Request.Context(), userID, services.OutgoingMail{
		To:            req.To,
		Cc:            req.Cc,
		Subject:       req.Subject,
		Body:          req.Body,
		ApplicationID: req.ApplicationID,
	})
	if errors.Is(err, services.ErrReauthRequired) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   err.Error(),
			"reauth":  true,
			"authUrl": h.Mail.AuthURL(userID),
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// withMarker sets mail=<value> on target, keeping its other parameters.
func withMarker(target, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "/?mail=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set("mail", value)
	u.RawQuery = q.Encode()
	return u.String()
}
