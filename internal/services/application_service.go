package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/models"
)

// ApplicationRepository is the applications collection.
type ApplicationRepository interface {
	ListApplications(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error)
	GetApplication(ctx context.Context, userID, appID string) (*models.Application, error)
	FindApplicationByJob(ctx context.Context, userID, jobID string) (*models.Application, error)
	CreateApplication(ctx context.Context, app *models.Application) error
	UpdateApplication(ctx context.Context, userID, appID string, updates map[string]any) (*models.Application, error)
}

// JobLookup resolves a stored posting for the mark-applied path.
type JobLookup interface {
	GetJob(ctx context.Context, userID, jobID string) (*models.Job, error)
}

type ApplicationService struct {
	Repo ApplicationRepository
	Jobs JobLookup
	now  func() time.Time
}

func NewApplicationService(repo ApplicationRepository, jobs JobLookup) *ApplicationService {
	return &ApplicationService{Repo: repo, Jobs: jobs, now: time.Now}
}

// ContactUpdate carries optional free-text fields; nil leaves a field as is.
type ContactUpdate struct {
	ContactName     *string
	ContactEmail    *string
	ContactLinkedIn *string
	Notes           *string
}

func (s *ApplicationService) List(ctx context.Context, userID, status string) ([]models.Application, error) {
	var st models.ApplicationStatus
	if status != "" {
		var ok bool
		if st, ok = models.ParseStatus(status); !ok {
			return nil, &ValidationError{Msg: "unknown status " + status}
		}
	}
	return s.Repo.ListApplications(ctx, userID, st)
}

// MarkApplied records an application for a stored job. created is false
// when the user had already applied; the existing row is returned.
func (s *ApplicationService) MarkApplied(ctx context.Context, userID, jobID string) (app *models.Application, created bool, err error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, false, &ValidationError{Msg: "job_id is required"}
	}
	if existing, err := s.Repo.FindApplicationByJob(ctx, userID, jobID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, false, err
	}

	job, err := s.Jobs.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, false, err
	}

	posted := job.PostedAt
	app = &models.Application{
		UserID:    userID,
		JobID:     &job.ID,
		Company:   job.Company,
		Role:      job.Title,
		Location:  job.Location,
		ApplyURL:  job.ApplyURL,
		PostedAt:  &posted,
		AppliedAt: s.now(),
		Status:    models.StatusApplied,
	}
	if err := s.Repo.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			existing, ferr := s.Repo.FindApplicationByJob(ctx, userID, jobID)
			return existing, false, ferr
		}
		return nil, false, err
	}
	return app, true, nil
}

// UpdateStatus sets any known status; there is no transition graph.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, appID, status string) (*models.Application, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return nil, &ValidationError{Msg: "unknown status " + status}
	}
	return s.Repo.UpdateApplication(ctx, userID, appID, map[string]any{"status": st})
}

// UpdateDetails edits notes and contact fields.
func (s *ApplicationService) UpdateDetails(ctx context.Context, userID, appID string, u ContactUpdate) (*models.Application, error) {
	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("contact_name", u.ContactName)
	set("contact_email", u.ContactEmail)
	set("contact_linkedin", u.ContactLinkedIn)
	set("notes", u.Notes)
	if len(updates) == 0 {
		return nil, &ValidationError{Msg: "nothing to update"}
	}
	return s.Repo.UpdateApplication(ctx, userID, appID, updates)
}

// MarkEmailSent flags the application after a successful send.
func (s *ApplicationService) MarkEmailSent(ctx context.Context, userID, appID string) (*models.Application, error) {
	return s.Repo.UpdateApplication(ctx, userID, appID, map[string]any{
		"email_sent":    true,
		"email_sent_at": s.now(),
	})
}
