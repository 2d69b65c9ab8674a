package service

import (
	"context"
	"testing"

	"study_tracker/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name       string
		mailerType string
		want       Mailer
	}{
		{"log", "log", &LogMailer{}},
		{"smtp", "smtp", &SmtpMailer{}},
		{"sendgrid", "sendgrid", &SendGridMailer{}},
		{"不明な種類はログ出力", "pigeon", &LogMailer{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Mailer: config.MailerConfig{Type: tt.mailerType}}
			assert.IsType(t, tt.want, NewMailer(cfg))
		})
	}
}

func TestLogMailer_Send(t *testing.T) {
	assert.NoError(t, (&LogMailer{}).Send(context.Background(), "a@example.com", "subject", "body"))
}
