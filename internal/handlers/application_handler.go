package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/dtos"
	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

type ApplicationHandler struct {
	Apps *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Apps: a}
}

func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.Apps.List(c.Request.Context(), middleware.UserID(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

// MarkApplied is POST /applications. A repeat for the same job answers
// 200 with the row created the first time.
func (h *ApplicationHandler) MarkApplied(c *gin.Context) {
	var req dtos.MarkAppliedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "job_id is required")
		return
	}
	app, created, err := h.Apps.MarkApplied(c.Request.Context(), middleware.UserID(c), req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	app, err := h.Apps.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	app, err := h.Apps.UpdateDetails(c.Request.Context(), middleware.UserID(c), c.Param("id"), services.ContactUpdate{
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactLinkedIn: req.ContactLinkedIn,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
