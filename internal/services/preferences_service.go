package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/NikitaReddy9/applyFlow/internal/models"
)

// PreferencesRepository is the one-row-per-user preferences collection.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context, userID string) (*models.JobPreferences, error)
	SavePreferences(ctx context.Context, p *models.JobPreferences) error
	ListPreferences(ctx context.Context) ([]models.JobPreferences, error)
}

type PreferencesService struct {
	Repo     PreferencesRepository
	validate *validator.Validate
}

func NewPreferencesService(repo PreferencesRepository) *PreferencesService {
	return &PreferencesService{Repo: repo, validate: validator.New()}
}

// preferencesInput is what a save must satisfy.
type preferencesInput struct {
	Roles           string `validate:"required,max=500"`
	Keywords        string `validate:"max=1000"`
	Location        string `validate:"max=200"`
	ExperienceLevel string `validate:"oneof=any entry mid senior lead"`
	TechStack       string `validate:"max=1000"`
}

// NormalizePreferences fills defaults and trims free text.
func NormalizePreferences(p models.JobPreferences) models.JobPreferences {
	p.Roles = strings.TrimSpace(p.Roles)
	p.Keywords = strings.TrimSpace(p.Keywords)
	p.Location = strings.TrimSpace(p.Location)
	p.TechStack = strings.TrimSpace(p.TechStack)
	p.ExperienceLevel = strings.ToLower(strings.TrimSpace(p.ExperienceLevel))
	if p.ExperienceLevel == "" {
		p.ExperienceLevel = models.ExperienceAny
	}
	return p
}

// Save validates and creates or replaces the user's preferences.
func (s *PreferencesService) Save(ctx context.Context, userID string, p models.JobPreferences) (*models.JobPreferences, error) {
	p = NormalizePreferences(p)
	p.UserID = userID

	in := preferencesInput{
		Roles:           strings.Join(p.RoleList(), ","),
		Keywords:        p.Keywords,
		Location:        p.Location,
		ExperienceLevel: p.ExperienceLevel,
		TechStack:       p.TechStack,
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, &ValidationError{Msg: validationMessage(err)}
	}

	if err := s.Repo.SavePreferences(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PreferencesService) Get(ctx context.Context, userID string) (*models.JobPreferences, error) {
	return s.Repo.GetPreferences(ctx, userID)
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid preferences"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "oneof":
		return "experience level must be one of: " + fe.Param()
	case "max":
		return strings.ToLower(fe.Field()) + " is too long"
	}
	return "invalid " + strings.ToLower(fe.Field())
}
