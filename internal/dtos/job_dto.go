package dtos

import "github.com/NikitaReddy9/applyFlow/internal/models"

// PreferencesRequest is the body of PUT /preferences and the optional
// payload of a discovery run. List fields are comma-separated.
type PreferencesRequest struct {
	Roles           string `json:"roles"`
	Keywords        string `json:"keywords"`
	Location        string `json:"location"`
	ExperienceLevel string `json:"experienceLevel"`
	TechStack       string `json:"techStack"`
}

func (r PreferencesRequest) Model() models.JobPreferences {
	return models.JobPreferences{
		Roles:           r.Roles,
		Keywords:        r.Keywords,
		Location:        r.Location,
		ExperienceLevel: r.ExperienceLevel,
		TechStack:       r.TechStack,
	}
}

// DiscoverRequest is the body of POST /discover. Without preferences the
// saved profile is used.
type DiscoverRequest struct {
	Preferences *PreferencesRequest `json:"preferences"`
}

type MarkAppliedRequest struct {
	JobID string `json:"jobId" binding:"required"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationUpdateRequest struct {
	ContactName     *string `json:"contactName"`
	ContactEmail    *string `json:"contactEmail" binding:"omitempty,max=320"`
	ContactLinkedIn *string `json:"contactLinkedin"`
	Notes           *string `json:"notes" binding:"omitempty,max=5000"`
}
