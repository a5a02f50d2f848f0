package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// ListJobs is GET /jobs, best matches first.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	c.JSON(http.StatusOK, jobs)
}

// DeleteJob is DELETE /jobs/:id. Applications keep their row with the
// job reference cleared.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
