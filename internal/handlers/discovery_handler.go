package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/dtos"
	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

type DiscoveryHandler struct {
	Discovery *services.DiscoveryService
}

func NewDiscoveryHandler(d *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{Discovery: d}
}

// Discover is POST /discover.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	var req dtos.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid JSON body")
		return
	}

	var payload *models.JobPreferences
	if req.Preferences != nil {
		p := req.Preferences.Model()
		payload = &p
	}

	res, err := h.Discovery.Run(c.Request.Context(), middleware.UserID(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
