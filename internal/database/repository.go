package database

import (
	"context"
	"errors"
	"strings"

	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a row is missing or owned by another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert hits a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

const pgUniqueViolation = "23505"

// Repository is the gorm-backed store. Every query is scoped by user id.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// --- Preferences ---

func (r *Repository) GetPreferences(ctx context.Context, userID string) (*models.JobPreferences, error) {
	var p models.JobPreferences
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// SavePreferences creates or replaces the user's row.
func (r *Repository) SavePreferences(ctx context.Context, p *models.JobPreferences) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"roles", "keywords", "location", "experience_level", "tech_stack", "updated_at"}),
	}).Create(p).Error
	return translate(err)
}

// ListPreferences returns every stored profile, for scheduled refreshes.
func (r *Repository) ListPreferences(ctx context.Context) ([]models.JobPreferences, error) {
	var out []models.JobPreferences
	err := r.DB.WithContext(ctx).Order("user_id").Find(&out).Error
	return out, translate(err)
}

// --- Jobs ---

func (r *Repository) JobExists(ctx context.Context, userID, applyURL string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Job{}).
		Where("user_id = ? AND apply_url = ?", userID, applyURL).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	return translate(r.DB.WithContext(ctx).Create(job).Error)
}

func (r *Repository) ListJobs(ctx context.Context, userID string) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("match_score DESC").Order("posted_at DESC").
		Find(&jobs).Error
	return jobs, translate(err)
}

func (r *Repository) GetJob(ctx context.Context, userID, jobID string) (*models.Job, error) {
	var job models.Job
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", jobID, userID).First(&job).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// DeleteJob removes a posting and clears references from applications.
func (r *Repository) DeleteJob(ctx context.Context, userID, jobID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("user_id = ? AND job_id = ?", userID, jobID).
			Update("job_id", nil).Error; err != nil {
			return translate(err)
		}
		res := tx.Where("id = ? AND user_id = ?", jobID, userID).Delete(&models.Job{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Applications ---

func (r *Repository) ListApplications(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	apps := make([]models.Application, 0)
	err := q.Order("applied_at DESC").Find(&apps).Error
	return apps, translate(err)
}

func (r *Repository) GetApplication(ctx context.Context, userID, appID string) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", appID, userID).First(&app).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *Repository) FindApplicationByJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).Where("user_id = ? AND job_id = ?", userID, jobID).First(&app).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *Repository) CreateApplication(ctx context.Context, app *models.Application) error {
	return translate(r.DB.WithContext(ctx).Create(app).Error)
}

// UpdateApplication applies column updates to one owned row and returns it.
func (r *Repository) UpdateApplication(ctx context.Context, userID, appID string, updates map[string]any) (*models.Application, error) {
	res := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND user_id = ?", appID, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetApplication(ctx, userID, appID)
}

// --- Mail credentials ---

func (r *Repository) GetCredential(ctx context.Context, userID string) (*models.MailCredential, error) {
	var c models.MailCredential
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Repository) SaveCredential(ctx context.Context, c *models.MailCredential) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"refresh_token", "email", "updated_at"}),
	}).Create(c).Error
	return translate(err)
}
