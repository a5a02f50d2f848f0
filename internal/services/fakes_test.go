package services

import (
	"context"
	"sync"
	"time"

	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/discovery"
	"github.com/NikitaReddy9/applyFlow/internal/models"
)

// memStore is an in-memory stand-in for database.Repository.
type memStore struct {
	mu    sync.Mutex
	jobs  []models.Job
	prefs map[string]models.JobPreferences
	apps  []models.Application
	creds map[string]models.MailCredential

	// raceURLs makes JobExists report false and CreateJob report a
	// duplicate, as if another run inserted first.
	raceURLs map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		prefs:    map[string]models.JobPreferences{},
		creds:    map[string]models.MailCredential{},
		raceURLs: map[string]bool{},
	}
}

func (m *memStore) JobExists(_ context.Context, userID, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raceURLs[url] {
		return false, nil
	}
	for _, j := range m.jobs {
		if j.UserID == userID && j.ApplyURL == url {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateJob(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raceURLs[job.ApplyURL] {
		return database.ErrDuplicate
	}
	job.ID = job.ApplyURL
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *memStore) ListJobs(_ context.Context, userID string) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Job
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) DeleteJob(_ context.Context, userID, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, j := range m.jobs {
		if j.UserID == userID && j.ID == jobID {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memStore) GetPreferences(_ context.Context, userID string) (*models.JobPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) SavePreferences(_ context.Context, p *models.JobPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.UserID] = *p
	return nil
}

func (m *memStore) ListPreferences(_ context.Context) ([]models.JobPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.JobPreferences
	for _, p := range m.prefs {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) ListApplications(_ context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, a := range m.apps {
		if a.UserID == userID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) GetApplication(_ context.Context, userID, appID string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == userID && a.ID == appID {
			return &a, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) FindApplicationByJob(_ context.Context, userID, jobID string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.UserID == userID && a.JobID != nil && *a.JobID == jobID {
			return &a, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) CreateApplication(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app.ID == "" {
		app.ID = "app-" + string(rune('a'+len(m.apps)))
	}
	m.apps = append(m.apps, *app)
	return nil
}

func (m *memStore) UpdateApplication(_ context.Context, userID, appID string, updates map[string]any) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.apps {
		a := &m.apps[i]
		if a.UserID != userID || a.ID != appID {
			continue
		}
		for k, v := range updates {
			switch k {
			case "status":
				a.Status = v.(models.ApplicationStatus)
			case "notes":
				a.Notes = v.(string)
			case "contact_name":
				a.ContactName = v.(string)
			case "contact_email":
				a.ContactEmail = v.(string)
			case "contact_linkedin":
				a.ContactLinkedIn = v.(string)
			case "email_sent":
				a.EmailSent = v.(bool)
			case "email_sent_at":
				t := v.(time.Time)
				a.EmailSentAt = &t
			}
		}
		out := *a
		return &out, nil
	}
	return nil, database.ErrNotFound
}

func (m *memStore) GetCredential(_ context.Context, userID string) (*models.MailCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) SaveCredential(_ context.Context, c *models.MailCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[c.UserID] = *c
	return nil
}

type fakeFinder struct {
	mu      sync.Mutex
	results []discovery.Posting
	err     error
	calls   int
}

func (f *fakeFinder) Discover(context.Context, models.JobPreferences) ([]discovery.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

func (m *memStore) GetJob(_ context.Context, userID, jobID string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.UserID == userID && j.ID == jobID {
			return &j, nil
		}
	}
	return nil, database.ErrNotFound
}
