package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/NikitaReddy9/applyFlow/internal/auth"
	"github.com/NikitaReddy9/applyFlow/internal/middleware"
	"github.com/NikitaReddy9/applyFlow/internal/services"
)

// Deps are the collaborators the HTTP layer needs. LLM and Mail may be nil.
type Deps struct {
	Verifier     auth.IdentityVerifier
	Discovery    *services.DiscoveryService
	Preferences  *services.PreferencesService
	Jobs         *services.JobService
	Applications *services.ApplicationService
	LLM          *services.LLMService
	Mail         *services.EmailService

	MailSuccessURL string
	MailFailureURL string
	CORSOrigins    []string
}

// NewRouter wires every route under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDs(), middleware.AccessLog())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	discovery := NewDiscoveryHandler(d.Discovery)
	prefs := NewPreferencesHandler(d.Preferences)
	jobs := NewJobHandler(d.Jobs)
	apps := NewApplicationHandler(d.Applications)
	ai := NewAIHandler(d.LLM)
	mail := NewMailHandler(d.Mail, d.MailSuccessURL, d.MailFailureURL)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/mail/callback", mail.Callback)
	}

	authed := api.Group("", middleware.RequireUser(d.Verifier))
	{
		authed.POST("/discover", discovery.Discover)

		authed.GET("/preferences", prefs.Get)
		authed.PUT("/preferences", prefs.Put)

		authed.GET("/jobs", jobs.ListJobs)
		authed.DELETE("/jobs/:id", jobs.DeleteJob)

		authed.GET("/applications", apps.List)
		authed.POST("/applications", apps.MarkApplied)
		authed.PATCH("/applications/:id", apps.Update)
		authed.PATCH("/applications/:id/status", apps.UpdateStatus)

		authed.POST("/ai", ai.Handle)

		authed.GET("/mail/authorize", mail.AuthURL)
		authed.POST("/mail/send", mail.Send)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"Retry-After", "X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
