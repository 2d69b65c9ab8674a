package service

import (
	"context"
	"fmt"

	"study_tracker/internal/config"
	"study_tracker/internal/middleware"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer は SendGrid の v3 API で送信する
type SendGridMailer struct {
	client *sendgrid.Client
	cfg    *config.SendGridConfig
}

func NewSendGridMailer(cfg *config.Config) Mailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGrid.APIKey),
		cfg:    &cfg.SendGrid,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	from := mail.NewEmail(m.cfg.FromName, m.cfg.From)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Error("Failed to send email via SendGrid", "error", err, "to", to)
		return err
	}
	if resp.StatusCode >= 300 {
		logger.Error("SendGrid rejected email", "status", resp.StatusCode, "body", resp.Body, "to", to)
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}

	logger.Info("Email sent successfully via SendGrid", "to", to, "subject", subject)
	return nil
}
