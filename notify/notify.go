// Package notify tells the disciplinary committee about recorded decisions.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/models"
	templates "github.com/linesmerrill/party-cms-api/templates/html"
)

const (
	fromName    = "Party CMS"
	fromAddress = "no-reply@party-cms.org"
)

// sender is the part of the SendGrid client used here
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Noop drops every notification. It is used when no SendGrid key is configured.
type Noop struct{}

// DecisionRecorded does nothing
func (Noop) DecisionRecorded(context.Context, models.DisciplinaryCase) error {
	return nil
}

// SendGrid mails a decision summary to a fixed committee address
type SendGrid struct {
	client  sender
	to      string
	baseURL string
	logger  *zap.SugaredLogger
}

// Notifier is satisfied by Noop and SendGrid
type Notifier interface {
	DecisionRecorded(ctx context.Context, c models.DisciplinaryCase) error
}

// New returns a SendGrid notifier, or Noop when the API key or recipient is missing
func New(conf config.NotifyConfig, baseURL string, logger *zap.SugaredLogger) Notifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if conf.SendGridAPIKey == "" || conf.DecisionNotifyEmail == "" {
		logger.Infow("decision notifications disabled", "hasKey", conf.SendGridAPIKey != "")
		return Noop{}
	}
	return newSendGrid(sendgrid.NewSendClient(conf.SendGridAPIKey), conf.DecisionNotifyEmail, baseURL, logger)
}

func newSendGrid(client sender, to, baseURL string, logger *zap.SugaredLogger) *SendGrid {
	return &SendGrid{
		client:  client,
		to:      to,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// DecisionRecorded sends the decision summary for c
func (s *SendGrid) DecisionRecorded(ctx context.Context, c models.DisciplinaryCase) error {
	d := s.email(c)
	subject := templates.DecisionSubject(d)

	from := mail.NewEmail(fromName, fromAddress)
	to := mail.NewEmail("Disciplinary Committee", s.to)
	message := mail.NewSingleEmail(from, subject, to, templates.RenderDecisionPlainText(d), templates.RenderDecisionEmail(d))

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "caseNumber", c.Details.CaseNumber)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	s.logger.Infow("decision email sent", "caseNumber", c.Details.CaseNumber, "to", s.to)
	return nil
}

func (s *SendGrid) email(c models.DisciplinaryCase) templates.DecisionEmail {
	d := templates.DecisionEmail{
		CaseNumber:  c.Details.CaseNumber,
		SubjectName: c.Details.SubjectName,
		Position:    c.Details.Position,
		Outcome:     string(c.Details.ActionOutcome),
		Rationale:   c.Details.DecisionRationale,
		DecidedBy:   c.Details.DecisionAuthority,
	}
	if c.Details.DecisionDate != nil {
		d.DecisionDate = c.Details.DecisionDate.Time().UTC().Format(time.RFC1123)
	}
	d.EffectivePeriod = effectivePeriod(c.Details.EffectiveFrom, c.Details.EffectiveTo)
	if s.baseURL != "" {
		d.CaseURL = s.baseURL + "/api/v1/disciplinary-cases/" + c.ID.Hex()
	}
	return d
}

func effectivePeriod(from, to *primitive.DateTime) string {
	const layout = "2006-01-02"
	switch {
	case from != nil && to != nil:
		return from.Time().UTC().Format(layout) + " to " + to.Time().UTC().Format(layout)
	case from != nil:
		return "from " + from.Time().UTC().Format(layout)
	case to != nil:
		return "until " + to.Time().UTC().Format(layout)
	}
	return ""
}
