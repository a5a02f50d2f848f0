package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/discovery"
	"github.com/NikitaReddy9/applyFlow/internal/models"
)

// JobRepository is the jobs collection.
type JobRepository interface {
	JobExists(ctx context.Context, userID, applyURL string) (bool, error)
	CreateJob(ctx context.Context, job *models.Job) error
	ListJobs(ctx context.Context, userID string) ([]models.Job, error)
	DeleteJob(ctx context.Context, userID, jobID string) error
}

type JobService struct {
	Repo JobRepository
}

func NewJobService(repo JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// UpsertResult is what a discovery run reports back.
type UpsertResult struct {
	InsertedCount   int `json:"insertedCount"`
	TotalCandidates int `json:"totalCandidates"`
}

// UpsertCandidates inserts each candidate the user does not already have,
// scored against prefs. Existing rows are left untouched, including their
// score. A uniqueness violation from a concurrent run counts as a skip.
func (s *JobService) UpsertCandidates(ctx context.Context, userID string, candidates []discovery.Posting, prefs models.JobPreferences) (UpsertResult, error) {
	res := UpsertResult{TotalCandidates: len(candidates)}

	for _, c := range candidates {
		exists, err := s.Repo.JobExists(ctx, userID, c.ApplyURL)
		if err != nil {
			return res, fmt.Errorf("check existing job: %w", err)
		}
		if exists {
			continue
		}

		job := &models.Job{
			UserID:             userID,
			Title:              c.Title,
			Company:            c.Company,
			Location:           c.Location,
			ApplyURL:           c.ApplyURL,
			PostedAt:           c.PostedAt,
			DescriptionSnippet: c.Description,
			Source:             c.Source,
			MatchScore:         MatchScore(c, prefs),
		}
		if err := s.Repo.CreateJob(ctx, job); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				slog.Debug("job inserted concurrently, skipping",
					"component", "upsert", "user_id", userID, "url", c.ApplyURL)
				continue
			}
			return res, fmt.Errorf("insert job: %w", err)
		}
		res.InsertedCount++
	}
	return res, nil
}

func (s *JobService) ListJobs(ctx context.Context, userID string) ([]models.Job, error) {
	return s.Repo.ListJobs(ctx, userID)
}

func (s *JobService) DeleteJob(ctx context.Context, userID, jobID string) error {
	return s.Repo.DeleteJob(ctx, userID, jobID)
}
