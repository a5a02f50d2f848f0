package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/NikitaReddy9/applyFlow/internal/upstream"
)

// AI actions accepted by the AI endpoint.
const (
	ActionFindContacts  = "find_contacts"
	ActionGenerateEmail = "generate_email"
	ActionScoreResume   = "score_resume"
)

// Email variants for ActionGenerateEmail.
const (
	VariantInitial  = "initial"
	VariantFollowUp = "follow_up"
	VariantThankYou = "thank_you"
)

const maxPromptText = 12000

type LLMService struct {
	Client  llms.Model
	Timeout time.Duration
}

// LLMConfig selects and configures the provider.
type LLMConfig struct {
	Provider    string // "openai" or "googleai"
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	Timeout     time.Duration
}

// NewLLMService builds the provider client named by cfg.Provider.
func NewLLMService(ctx context.Context, cfg LLMConfig) (*LLMService, error) {
	var (
		client llms.Model
		err    error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
		client, err = openai.New(openai.WithToken(cfg.OpenAIKey), openai.WithModel(cfg.OpenAIModel))
	case "googleai", "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for provider googleai")
		}
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	return &LLMService{Client: client, Timeout: cfg.Timeout}, nil
}

// JobDescriptor is the posting an AI action is about.
type JobDescriptor struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	ApplyURL    string `json:"applyUrl,omitempty"`
}

type Contact struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Email      string `json:"email"`
	LinkedIn   string `json:"linkedin"`
	Confidence string `json:"confidence"`
}

type ContactsResult struct {
	Contacts []Contact `json:"contacts"`
}

type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ResumeScore struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
}

// --- Defaults used when the model output cannot be decoded ---

func DefaultContacts() ContactsResult {
	return ContactsResult{Contacts: []Contact{}}
}

func DefaultEmail(job JobDescriptor, contact *Contact) EmailDraft {
	greeting := "Hiring Team"
	if contact != nil && strings.TrimSpace(contact.Name) != "" {
		greeting = strings.TrimSpace(contact.Name)
	}
	return EmailDraft{
		Subject: fmt.Sprintf("Application for %s at %s", job.Title, job.Company),
		Body: fmt.Sprintf("Hi %s,\n\nI recently applied for the %s role at %s and wanted to introduce myself. "+
			"I would welcome the chance to discuss how my experience fits the team.\n\nThank you for your time.\n\nBest regards",
			greeting, job.Title, job.Company),
	}
}

func DefaultResumeScore() ResumeScore {
	return ResumeScore{
		Score:       0,
		Strengths:   []string{},
		Gaps:        []string{},
		Suggestions: []string{"We could not analyze your resume right now. Please try again."},
	}
}

// --- Actions ---

// FindContacts asks the model for likely recruiter contacts.
func (s *LLMService) FindContacts(ctx context.Context, job JobDescriptor) (ContactsResult, error) {
	prompt := fmt.Sprintf(findContactsPrompt, job.Company, job.Title, job.Location, clip(job.Description))
	raw, err := s.generate(ctx, ActionFindContacts, prompt)
	if err != nil {
		return ContactsResult{}, err
	}

	var out ContactsResult
	if !ParseModelJSON(raw, &out) {
		slog.Warn("malformed model output, using default", "component", "ai", "action", ActionFindContacts)
		return DefaultContacts(), nil
	}
	contacts := make([]Contact, 0, len(out.Contacts))
	for _, c := range out.Contacts {
		if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Email) == "" {
			continue
		}
		contacts = append(contacts, c)
	}
	return ContactsResult{Contacts: contacts}, nil
}

// GenerateEmail drafts an outreach message for the given variant.
func (s *LLMService) GenerateEmail(ctx context.Context, job JobDescriptor, contact *Contact, resume, variant string) (EmailDraft, error) {
	instruction, ok := variantInstructions[variant]
	if !ok {
		instruction = variantInstructions[VariantInitial]
	}
	recipient := "the hiring team"
	if contact != nil && contact.Name != "" {
		recipient = contact.Name
		if contact.Title != "" {
			recipient += " (" + contact.Title + ")"
		}
	}
	prompt := fmt.Sprintf(generateEmailPrompt, instruction, recipient, job.Title, job.Company, clip(job.Description), clip(resume))
	raw, err := s.generate(ctx, ActionGenerateEmail, prompt)
	if err != nil {
		return EmailDraft{}, err
	}

	def := DefaultEmail(job, contact)
	var out EmailDraft
	if !ParseModelJSON(raw, &out) {
		slog.Warn("malformed model output, using default", "component", "ai", "action", ActionGenerateEmail)
		return def, nil
	}
	if strings.TrimSpace(out.Subject) == "" {
		out.Subject = def.Subject
	}
	if strings.TrimSpace(out.Body) == "" {
		out.Body = def.Body
	}
	return out, nil
}

// ScoreResume rates a resume against a posting.
func (s *LLMService) ScoreResume(ctx context.Context, job JobDescriptor, resume string) (ResumeScore, error) {
	prompt := fmt.Sprintf(scoreResumePrompt, job.Title, job.Company, clip(job.Description), clip(resume))
	raw, err := s.generate(ctx, ActionScoreResume, prompt)
	if err != nil {
		return ResumeScore{}, err
	}

	var out ResumeScore
	if !ParseModelJSON(raw, &out) {
		slog.Warn("malformed model output, using default", "component", "ai", "action", ActionScoreResume)
		return DefaultResumeScore(), nil
	}
	out.Score = clamp(out.Score, 0, 100)
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Gaps == nil {
		out.Gaps = []string{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return out, nil
}

func (s *LLMService) generate(ctx context.Context, action, prompt string) (string, error) {
	var resp string
	err := upstream.Do(ctx, s.Timeout, "ai:"+action, func(ctx context.Context) error {
		var err error
		resp, err = llms.GenerateFromSinglePrompt(ctx, s.Client, prompt,
			llms.WithTemperature(0.4),
			llms.WithJSONMode(),
		)
		return err
	})
	if err != nil {
		return "", &UpstreamError{Provider: "ai", Msg: "the AI service is unavailable, please try again", Err: err}
	}
	return resp, nil
}

func clip(s string) string {
	r := []rune(s)
	if len(r) > maxPromptText {
		return string(r[:maxPromptText])
	}
	return s
}

var variantInstructions = map[string]string{
	VariantInitial:  "Write a concise first-contact email expressing interest in the role.",
	VariantFollowUp: "Write a polite follow-up to an application sent about a week ago.",
	VariantThankYou: "Write a short thank-you note after an interview.",
}

const findContactsPrompt = `You help job seekers find the right people to contact.
Company: %s
Role: %s
Location: %s
Job description:
%s

List up to 3 people likely involved in hiring for this role (recruiters, hiring managers).
Only include an email if it follows a pattern you are confident about.
Respond with JSON only, no markdown:
{"contacts":[{"name":"","title":"","email":"","linkedin":"","confidence":"high|medium|low"}]}`

const generateEmailPrompt = `%s
Recipient: %s
Role: %s at %s
Job description:
%s

Candidate resume:
%s

Keep it under 180 words, plain text, no placeholders in brackets.
Respond with JSON only, no markdown:
{"subject":"","body":""}`

const scoreResumePrompt = `Rate how well this resume fits the job on a 0-100 scale.
Role: %s at %s
Job description:
%s

Resume:
%s

Respond with JSON only, no markdown:
{"score":0,"strengths":[""],"gaps":[""],"suggestions":[""]}`
