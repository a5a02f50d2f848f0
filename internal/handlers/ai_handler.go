package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/dtos"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

// AIHandler serves POST /ai. LLMService is nil when no provider is configured.
type AIHandler struct {
	LLMService *services.LLMService
}

func NewAIHandler(llm *services.LLMService) *AIHandler {
	return &AIHandler{LLMService: llm}
}

func (h *AIHandler) Handle(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	var req dtos.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "action is required")
		return
	}
	switch req.Action {
	case services.ActionFindContacts, services.ActionGenerateEmail, services.ActionScoreResume:
	default:
		badRequest(c, "unknown action "+req.Action)
		return
	}

	job := services.JobDescriptor{
		Title:       strings.TrimSpace(req.Job.Title),
		Company:     strings.TrimSpace(req.Job.Company),
		Location:    req.Job.Location,
		Description: req.Job.Description,
		ApplyURL:    req.Job.ApplyURL,
	}
	if job.Title == "" || job.Company == "" {
		badRequest(c, "job title and company are required")
		return
	}

	ctx := c.Request.Context()
	var (
		result any
		err    error
	)
	switch req.Action {
	case services.ActionFindContacts:
		result, err = h.LLMService.FindContacts(ctx, job)
	case services.ActionGenerateEmail:
		var contact *services.Contact
		if req.Contact != nil {
			contact = &services.Contact{
				Name:     req.Contact.Name,
				Title:    req.Contact.Title,
				Email:    req.Contact.Email,
				LinkedIn: req.Contact.LinkedIn,
			}
		}
		result, err = h.LLMService.GenerateEmail(ctx, job, contact, req.Resume, req.Variant)
	case services.ActionScoreResume:
		if strings.TrimSpace(req.Resume) == "" {
			badRequest(c, "resume is required")
			return
		}
		result, err = h.LLMService.ScoreResume(ctx, job, req.Resume)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
