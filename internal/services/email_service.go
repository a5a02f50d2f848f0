package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	"github.com/NikitaReddy9/applyFlow/internal/auth"
	"github.com/NikitaReddy9/applyFlow/internal/database"
	"github.com/NikitaReddy9/applyFlow/internal/models"
	"github.com/NikitaReddy9/applyFlow/internal/upstream"
)

// CredentialRepository stores one mail credential per user.
type CredentialRepository interface {
	GetCredential(ctx context.Context, userID string) (*models.MailCredential, error)
	SaveCredential(ctx context.Context, c *models.MailCredential) error
}

// MailAuthorizer runs the provider's consent flow.
type MailAuthorizer interface {
	AuthURL(userID string) string
	ParseState(state string) (string, error)
	Exchange(ctx context.Context, code string) (refreshToken, email string, err error)
}

// MailSender delivers an RFC 2822 message on behalf of a credential.
type MailSender interface {
	Send(ctx context.Context, refreshToken string, raw []byte) error
}

// EmailSentMarker flags an application once outreach went out.
type EmailSentMarker interface {
	MarkEmailSent(ctx context.Context, userID, appID string) (*models.Application, error)
}

type EmailService struct {
	Creds   CredentialRepository
	Auth    MailAuthorizer
	Sender  MailSender
	Apps    EmailSentMarker
	Timeout time.Duration
}

func NewEmailService(creds CredentialRepository, authz MailAuthorizer, sender MailSender, apps EmailSentMarker, timeout time.Duration) *EmailService {
	return &EmailService{Creds: creds, Auth: authz, Sender: sender, Apps: apps, Timeout: timeout}
}

// OutgoingMail is a send request. Cc is a comma-separated address list.
type OutgoingMail struct {
	To            string
	Cc            string
	Subject       string
	Body          string
	ApplicationID string
}

func (s *EmailService) AuthURL(userID string) string {
	return s.Auth.AuthURL(userID)
}

// Connect completes the OAuth callback and stores the credential,
// replacing any previous one. It returns the user the state was issued for.
func (s *EmailService) Connect(ctx context.Context, code, state string) (string, error) {
	userID, err := s.Auth.ParseState(state)
	if err != nil {
		return "", err
	}
	if code == "" {
		return userID, &ValidationError{Msg: "authorization code is missing"}
	}

	var refresh, email string
	err = upstream.Do(ctx, s.Timeout, "mail:exchange", func(ctx context.Context) error {
		var err error
		refresh, email, err = s.Auth.Exchange(ctx, code)
		return err
	})
	if err != nil {
		return userID, fmt.Errorf("mail authorization for %s: %w", userID, err)
	}

	cred := &models.MailCredential{UserID: userID, RefreshToken: refresh, Email: email}
	if err := s.Creds.SaveCredential(ctx, cred); err != nil {
		return userID, fmt.Errorf("save mail credential: %w", err)
	}
	slog.Info("mail account connected", "component", "mail", "user_id", userID)
	return userID, nil
}

// Send delivers m from the user's connected account.
func (s *EmailService) Send(ctx context.Context, userID string, m OutgoingMail) error {
	raw, err := BuildMessage(m)
	if err != nil {
		return err
	}

	cred, err := s.Creds.GetCredential(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return &MailNotAuthorizedError{AuthURL: s.Auth.AuthURL(userID)}
	}
	if err != nil {
		return err
	}

	err = upstream.Do(ctx, s.Timeout, "mail:send", func(ctx context.Context) error {
		return s.Sender.Send(ctx, cred.RefreshToken, raw)
	})
	if err != nil {
		if IsReauthError(err) {
			slog.Warn("mail credential rejected", "component", "mail", "user_id", userID, "err", err)
			return ErrReauthRequired
		}
		return &UpstreamError{Provider: "mail", Msg: providerMessage(err), Err: err}
	}

	if m.ApplicationID != "" {
		if _, err := s.Apps.MarkEmailSent(ctx, userID, m.ApplicationID); err != nil {
			// The message is already out; only the bookkeeping failed.
			slog.Warn("mark email sent failed", "component", "mail", "user_id", userID,
				"application_id", m.ApplicationID, "err", err)
		}
	}
	return nil
}

// IsReauthError reports whether the provider refused the stored grant.
func IsReauthError(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.ErrorCode == "invalid_grant" || bytes.Contains(re.Body, []byte("invalid_grant"))
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == http.StatusUnauthorized
	}
	return false
}

func providerMessage(err error) string {
	var ge *googleapi.Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	if upstream.IsTimeout(err) {
		return "the mail provider did not respond in time"
	}
	return "failed to send email"
}

// BuildMessage validates m and renders it as an RFC 2822 plain-text message.
func BuildMessage(m OutgoingMail) ([]byte, error) {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Body) == "" {
		return nil, &ValidationError{Msg: "to, subject and body are required"}
	}
	to, err := mail.ParseAddressList(m.To)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid recipient address"}
	}
	var cc []*mail.Address
	if strings.TrimSpace(m.Cc) != "" {
		if cc, err = mail.ParseAddressList(m.Cc); err != nil {
			return nil, &ValidationError{Msg: "invalid cc address"}
		}
	}
	subject := strings.Join(strings.Fields(m.Subject), " ")

	var b strings.Builder
	b.WriteString("To: " + joinAddresses(to) + "\r\n")
	if len(cc) > 0 {
		b.WriteString("Cc: " + joinAddresses(cc) + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String()), nil
}

func joinAddresses(list []*mail.Address) string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.String()
	}
	return strings.Join(out, ", ")
}

// GmailSender sends through users.messages.send.
type GmailSender struct {
	OAuth *auth.GmailOAuth
}

func (g *GmailSender) Send(ctx context.Context, refreshToken string, raw []byte) error {
	svc, err := g.OAuth.Gmail(ctx, refreshToken)
	if err != nil {
		return err
	}
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	_, err = svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	return err
}
