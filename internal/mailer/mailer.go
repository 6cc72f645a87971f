// Package mailer sends submission notifications over Mailgun: one to the
// back-office recipients, one confirmation to the applicant, both with the
// rendered application PDF attached.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/apelng/offerintake/internal/model"
)

const defaultFromName = "The Initiates PLC Public Offer"

// sendTimeout bounds one Mailgun API call from a detached dispatch.
const sendTimeout = 30 * time.Second

// Mailer wraps a Mailgun domain client.
type Mailer struct {
	mg       mailgun.Mailgun
	from     string
	admins   []string
	support  SupportContacts
	adminURL string
	logger   *zap.Logger
}

// SupportContacts appear in the applicant confirmation footer.
type SupportContacts struct {
	Email string
	Phone string
}

// New builds a mailer for a Mailgun domain. admins is the parsed
// notification recipient list; it may be empty, in which case the admin
// notification is skipped with a warning.
func New(domain, apiKey, fromEmail string, admins []string, support SupportContacts, adminURL string, logger *zap.Logger) (*Mailer, error) {
	if domain == "" || apiKey == "" || fromEmail == "" {
		return nil, fmt.Errorf("mailgun is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		mg:       mailgun.NewMailgun(domain, apiKey),
		from:     fmt.Sprintf("%s <%s>", defaultFromName, fromEmail),
		admins:   admins,
		support:  support,
		adminURL: adminURL,
		logger:   logger,
	}, nil
}

// ParseRecipients splits comma-separated recipient lists, trims whitespace
// and removes duplicates while preserving order. primary goes first.
func ParseRecipients(primary string, extra string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(raw string) {
		for _, part := range strings.Split(raw, ",") {
			email := strings.TrimSpace(part)
			if email == "" || seen[email] {
				continue
			}
			seen[email] = true
			out = append(out, email)
		}
	}
	add(primary)
	add(extra)
	return out
}

// SendSubmissionNotification emails the back-office recipients about a new
// application.
func (m *Mailer) SendSubmissionNotification(ctx context.Context, app *model.Application, pdf []byte) error {
	if len(m.admins) == 0 {
		m.logger.Warn("no admin notification recipients configured")
		return nil
	}

	html, err := renderAdminNotification(app, m.adminURL)
	if err != nil {
		return fmt.Errorf("rendering admin notification: %w", err)
	}
	return m.send(ctx, m.admins, "New Public Offer Application Submission", html, app, pdf)
}

// SendApplicantConfirmation emails the applicant their submission summary.
func (m *Mailer) SendApplicantConfirmation(ctx context.Context, app *model.Application, pdf []byte) error {
	if app.Email == "" {
		return fmt.Errorf("application %d has no applicant email", app.ID)
	}

	html, err := renderApplicantConfirmation(app, m.support)
	if err != nil {
		return fmt.Errorf("rendering applicant confirmation: %w", err)
	}
	subject := "Your Public Offer Application Confirmation - The Initiates PLC"
	return m.send(ctx, []string{app.Email}, subject, html, app, pdf)
}

func (m *Mailer) send(ctx context.Context, to []string, subject, html string, app *model.Application, pdf []byte) error {
	msg := m.mg.NewMessage(m.from, subject, "", to...)
	msg.SetHtml(html)
	if len(pdf) > 0 {
		name := fmt.Sprintf("public-offer-application-%d.pdf", app.ID)
		msg.AddBufferAttachment(name, pdf)
	}

	_, _, err := m.mg.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending to %s: %w", strings.Join(to, ","), err)
	}
	return nil
}

// DispatchSubmissionEmails sends both notifications from a detached
// goroutine. Failures are logged, never surfaced: email must not affect the
// submission outcome.
func (m *Mailer) DispatchSubmissionEmails(app *model.Application, pdf []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := m.SendSubmissionNotification(ctx, app, pdf); err != nil {
			m.logger.Error("admin notification failed",
				zap.Uint("application_id", app.ID), zap.Error(err))
		}
		if err := m.SendApplicantConfirmation(ctx, app, pdf); err != nil {
			m.logger.Error("applicant confirmation failed",
				zap.Uint("application_id", app.ID), zap.Error(err))
		}
	}()
}
