package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Experience levels accepted on JobPreferences.
const (
	ExperienceAny    = "any"
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
	ExperienceLead   = "lead"
)

// JobPreferences is the per-user search profile. One row per user.
// Roles, Keywords and TechStack are comma-delimited lists as entered by the user.
type JobPreferences struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Roles           string `gorm:"type:text" json:"roles"`
	Keywords        string `gorm:"type:text" json:"keywords"`
	Location        string `gorm:"type:text" json:"location"`
	ExperienceLevel string `gorm:"type:text;default:'any'" json:"experienceLevel"`
	TechStack       string `gorm:"type:text" json:"techStack"`
}

// RoleList returns the trimmed, non-empty role entries in order.
func (p JobPreferences) RoleList() []string { return SplitList(p.Roles) }

// KeywordList returns the trimmed, non-empty keyword entries in order.
func (p JobPreferences) KeywordList() []string { return SplitList(p.Keywords) }

// TechList returns the trimmed, non-empty tech-stack entries in order.
func (p JobPreferences) TechList() []string { return SplitList(p.TechStack) }

// SplitList splits a comma-delimited string, trimming entries and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Job is a discovered posting. Unique per (user_id, apply_url).
type Job struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID             string    `gorm:"type:text;not null;uniqueIndex:idx_jobs_user_url" json:"userId"`
	Title              string    `gorm:"type:text;not null" json:"title"`
	Company            string    `gorm:"type:text;not null" json:"company"`
	Location           string    `gorm:"type:text" json:"location"`
	ApplyURL           string    `gorm:"type:text;not null;uniqueIndex:idx_jobs_user_url" json:"applyUrl"`
	PostedAt           time.Time `json:"postedAt"`
	DescriptionSnippet string    `gorm:"type:text" json:"descriptionSnippet"`
	Source             string    `gorm:"type:text" json:"source"`
	MatchScore         int       `json:"matchScore"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// ApplicationStatus values. Display order only; any status may follow any other.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "Applied"
	StatusPending      ApplicationStatus = "Pending"
	StatusShortlisted  ApplicationStatus = "Shortlisted"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusOffered      ApplicationStatus = "Offered"
	StatusRejected     ApplicationStatus = "Rejected"
)

// Statuses lists every ApplicationStatus in display order.
var Statuses = []ApplicationStatus{
	StatusApplied, StatusPending, StatusShortlisted, StatusInterviewing, StatusOffered, StatusRejected,
}

// ParseStatus matches s against the known statuses exactly.
func ParseStatus(s string) (ApplicationStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Application struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID string  `gorm:"type:text;not null;uniqueIndex:idx_applications_user_job" json:"userId"`
	JobID  *string `gorm:"type:text;uniqueIndex:idx_applications_user_job" json:"jobId"`
	Job    *Job    `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	Company   string            `gorm:"type:text" json:"company"`
	Role      string            `gorm:"type:text" json:"role"`
	Location  string            `gorm:"type:text" json:"location"`
	ApplyURL  string            `gorm:"type:text" json:"applyUrl"`
	PostedAt  *time.Time        `json:"postedAt"`
	AppliedAt time.Time         `json:"appliedAt"`
	Status    ApplicationStatus `gorm:"type:text;default:'Applied'" json:"status"`

	EmailSent   bool       `json:"emailSent"`
	EmailSentAt *time.Time `json:"emailSentAt"`

	ContactName     string `gorm:"type:text" json:"contactName"`
	ContactEmail    string `gorm:"type:text" json:"contactEmail"`
	ContactLinkedIn string `gorm:"type:text" json:"contactLinkedin"`
	Notes           string `gorm:"type:text" json:"notes"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// MailCredential holds the long-lived refresh token for a user's mailbox.
// Never serialized to clients.
type MailCredential struct {
	UserID       string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"`
	Email        string    `gorm:"type:text" json:"-"`
}
