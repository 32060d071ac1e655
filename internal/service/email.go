package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/bachecalabs/bacheca/internal/model"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) send(kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	dashboardURL := fmt.Sprintf("%s/my/ads", s.appURL)
	subject, body := welcomeEmailTemplate(name, dashboardURL, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendAdApproved(email, name, title string) error {
	subject, body := adApprovedEmailTemplate(name, title, s.appName)
	return s.send("ad_approved", email, subject, body)
}

func (s *EmailService) SendAdRejected(email, name, title string, code model.AdRejectionCode, note string) error {
	subject, body := adRejectedEmailTemplate(name, title, code, note, s.appName)
	return s.send("ad_rejected", email, subject, body)
}

func (s *EmailService) SendVerificationApproved(email, name string) error {
	subject, body := verificationApprovedEmailTemplate(name, s.appName)
	return s.send("verification_approved", email, subject, body)
}

func (s *EmailService) SendVerificationRejected(email, name string, code model.VerificationRejectionCode, note string) error {
	subject, body := verificationRejectedEmailTemplate(name, code, note, s.appName)
	return s.send("verification_rejected", email, subject, body)
}
