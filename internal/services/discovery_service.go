package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/NikitaReddy9/applyFlow/internal/discovery"
	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/throttle"
)

// CandidateFinder produces deduplicated candidates for a profile.
type CandidateFinder interface {
	Discover(ctx context.Context, prefs models.JobPreferences) ([]discovery.Posting, error)
}

// DiscoveryService runs discover -> score -> upsert for a user, throttled.
type DiscoveryService struct {
	Prefs    PreferencesRepository
	Jobs     *JobService
	Finder   CandidateFinder
	Throttle *throttle.Throttle

	inflight singleflight.Group
}

func NewDiscoveryService(prefs PreferencesRepository, jobs *JobService, finder CandidateFinder, th *throttle.Throttle) *DiscoveryService {
	return &DiscoveryService{Prefs: prefs, Jobs: jobs, Finder: finder, Throttle: th}
}

// Run performs one discovery for userID. payload, when non-nil, is used
// instead of the saved profile. Returns a *throttle.TooSoonError when the
// user ran inside the window and ErrPreferencesMissing when no profile can
// be found.
func (s *DiscoveryService) Run(ctx context.Context, userID string, payload *models.JobPreferences) (UpsertResult, error) {
	prefs, err := s.resolvePreferences(ctx, userID, payload)
	if err != nil {
		return UpsertResult{}, err
	}

	if err := s.Throttle.Check(ctx, userID); err != nil {
		return UpsertResult{}, err
	}

	// Concurrent calls for one user and profile share a single run.
	v, err, shared := s.inflight.Do(flightKey(userID, prefs), func() (any, error) {
		res, err := s.execute(ctx, userID, prefs)
		if err != nil {
			return res, err
		}
		if err := s.Throttle.MarkSuccess(ctx, userID); err != nil {
			slog.Warn("could not record throttle stamp", "component", "discovery", "user_id", userID, "err", err)
		}
		return res, nil
	})
	if shared {
		slog.Debug("joined in-flight discovery", "component", "discovery", "user_id", userID)
	}
	res, _ := v.(UpsertResult)
	return res, err
}

// flightKey identifies a run by user and the profile it scores against, so a
// caller with a different payload never receives another profile's result.
func flightKey(userID string, p models.JobPreferences) string {
	return strings.Join([]string{userID, p.Roles, p.Keywords, p.Location, p.ExperienceLevel, p.TechStack}, "\x1f")
}

// RunUnthrottled runs discovery on the saved profile without consulting
// or recording the throttle. Used by the scheduler and the CLI.
func (s *DiscoveryService) RunUnthrottled(ctx context.Context, userID string) (UpsertResult, error) {
	prefs, err := s.resolvePreferences(ctx, userID, nil)
	if err != nil {
		return UpsertResult{}, err
	}
	return s.execute(ctx, userID, prefs)
}

// RefreshAll runs discovery for every saved profile, one user at a time.
func (s *DiscoveryService) RefreshAll(ctx context.Context) (users, inserted int, err error) {
	all, err := s.Prefs.ListPreferences(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list preferences: %w", err)
	}
	for _, p := range all {
		if err := ctx.Err(); err != nil {
			return users, inserted, err
		}
		res, err := s.execute(ctx, p.UserID, p)
		if err != nil {
			slog.Warn("scheduled discovery failed", "component", "discovery", "user_id", p.UserID, "err", err)
			continue
		}
		users++
		inserted += res.InsertedCount
	}
	return users, inserted, nil
}

func (s *DiscoveryService) execute(ctx context.Context, userID string, prefs models.JobPreferences) (UpsertResult, error) {
	candidates, err := s.Finder.Discover(ctx, prefs)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("discover: %w", err)
	}
	res, err := s.Jobs.UpsertCandidates(ctx, userID, candidates, prefs)
	if err != nil {
		return res, err
	}
	slog.Info("discovery complete", "component", "discovery", "user_id", userID,
		"candidates", res.TotalCandidates, "inserted", res.InsertedCount)
	return res, nil
}

func (s *DiscoveryService) resolvePreferences(ctx context.Context, userID string, payload *models.JobPreferences) (models.JobPreferences, error) {
	if payload != nil {
		p := NormalizePreferences(*payload)
		p.UserID = userID
		return p, nil
	}
	stored, err := s.Prefs.GetPreferences(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return models.JobPreferences{}, ErrPreferencesMissing
	}
	if err != nil {
		return models.JobPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return *stored, nil
}
