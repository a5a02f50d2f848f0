package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/dtos"
	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

type PreferencesHandler struct {
	Prefs *services.PreferencesService
}

func NewPreferencesHandler(p *services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{Prefs: p}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	p, err := h.Prefs.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PreferencesHandler) Put(c *gin.Context) {
	var req dtos.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	p, err := h.Prefs.Save(c.Request.Context(), middleware.UserID(c), req.Model())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
