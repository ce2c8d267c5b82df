package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/platform/sendgrid"
	"github.com/losaltoshacks/registration-backend/internal/platform/ses"
)

// Confirmation is the data behind an email verification message.
type Confirmation struct {
	Kind        registrant.Kind
	RoutePrefix string
	ExternalID  uuid.UUID
	Email       string
	Token       string
}

type Notifier interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

// MailSender delivers one rendered message. Implementations wrap a provider.
type MailSender interface {
	Name() string
	Send(ctx context.Context, to, subject, text, html string) error
}

const confirmationSubject = "Los Altos Hacks Registration Confirmation"

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html>
<head></head>
<body>
  <h1>You have registered!</h1>
  <p>Please click <a href="{{.Link}}">here</a> to verify your email.</p>
</body>
</html>`))

type mailNotifier struct {
	log         *logger.Logger
	sender      MailSender
	apiEndpoint string
	metrics     *observability.Metrics
}

func NewNotifier(log *logger.Logger, sender MailSender, apiEndpoint string, metrics *observability.Metrics) Notifier {
	return &mailNotifier{
		log:         log.With("service", "Notifier"),
		sender:      sender,
		apiEndpoint: strings.TrimRight(strings.TrimSpace(apiEndpoint), "/"),
		metrics:     metrics,
	}
}

// VerificationLink is where the confirmation email points.
func VerificationLink(apiEndpoint string, c Confirmation) string {
	return fmt.Sprintf("%s%s/verify/%s/%s", strings.TrimRight(apiEndpoint, "/"), c.RoutePrefix, c.ExternalID, c.Token)
}

func (n *mailNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	link := VerificationLink(n.apiEndpoint, c)
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, struct{ Link string }{link}); err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}
	text := "You have registered! Please visit " + link + " to verify your email."

	err := n.sender.Send(ctx, c.Email, confirmationSubject, text, html.String())
	if err != nil {
		n.metrics.IncEmail(n.sender.Name(), "failed")
		return fmt.Errorf("send confirmation via %s: %w", n.sender.Name(), err)
	}
	n.metrics.IncEmail(n.sender.Name(), "sent")
	n.log.Info("confirmation email sent", "kind", string(c.Kind), "email", c.Email)
	return nil
}

type sendgridSender struct {
	client sendgrid.Client
}

func NewSendGridSender(client sendgrid.Client) MailSender {
	return &sendgridSender{client: client}
}

func (s *sendgridSender) Name() string { return "sendgrid" }

func (s *sendgridSender) Send(ctx context.Context, to, subject, text, html string) error {
	_, err := s.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: to}},
		Subject:    subject,
		Text:       text,
		HTML:       html,
		Categories: []string{"registration-confirmation"},
	})
	return err
}

type sesSender struct {
	client ses.Client
}

func NewSESSender(client ses.Client) MailSender {
	return &sesSender{client: client}
}

func (s *sesSender) Name() string { return "ses" }

func (s *sesSender) Send(ctx context.Context, to, subject, text, html string) error {
	_, err := s.client.Send(ctx, ses.Message{To: []string{to}, Subject: subject, Text: text, HTML: html})
	return err
}

// logSender writes messages to the log instead of delivering them.
type logSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) MailSender {
	return &logSender{log: log.With("sender", "log")}
}

func (s *logSender) Name() string { return "log" }

func (s *logSender) Send(_ context.Context, to, subject, text, _ string) error {
	s.log.Info("email not delivered (log provider)", "to_email", to, "subject", subject, "body", text)
	return nil
}
