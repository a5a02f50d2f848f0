package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/services"
	"github.com/NikitaReddy9/applyFlow/internal/throttle"
)

// respondError maps a service error to a status and a JSON body. Only
// messages meant for users reach the client; everything else is logged.
func respondError(c *gin.Context, err error) {
	var (
		tooSoon  *throttle.TooSoonError
		invalid  *services.ValidationError
		noMail   *services.MailNotAuthorizedError
		upstream *services.UpstreamError
	)
	switch {
	case errors.As(err, &tooSoon):
		wait := tooSoon.WaitSeconds()
		c.Header("Retry-After", strconv.Itoa(wait))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": tooSoon.Error(), "retryAfter": wait})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Msg})
	case errors.Is(err, services.ErrPreferencesMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &noMail):
		c.JSON(http.StatusForbidden, gin.H{"error": noMail.Error(), "authUrl": noMail.AuthURL})
	case errors.As(err, &upstream):
		slog.Warn("upstream failure", "component", "http", "request_id", middleware.RequestID(c),
			"provider", upstream.Provider, "err", upstream.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Msg})
	default:
		slog.Error("request failed", "component", "http", "request_id", middleware.RequestID(c),
			"path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
