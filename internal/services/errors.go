package services

import (
	"errors"

	"github.com/NikitaReddy9/applyFlow/internal/database"
)

var (
	// ErrNotFound is the store's missing-or-not-owned error.
	ErrNotFound = database.ErrNotFound
	// ErrPreferencesMissing means discovery had neither a payload nor a saved profile.
	ErrPreferencesMissing = errors.New("job preferences are required")
	// ErrReauthRequired means the mail provider rejected the stored credential.
	ErrReauthRequired = errors.New("mail authorization expired, please reconnect your account")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// MailNotAuthorizedError is returned when no credential is on file.
type MailNotAuthorizedError struct {
	AuthURL string
}

func (e *MailNotAuthorizedError) Error() string { return "mail account not connected" }

// UpstreamError carries a provider failure whose message is safe to show.
type UpstreamError struct {
	Provider string
	Msg      string
	Err      error
}

func (e *UpstreamError) Error() string { return e.Provider + ": " + e.Msg }
func (e *UpstreamError) Unwrap() error { return e.Err }
