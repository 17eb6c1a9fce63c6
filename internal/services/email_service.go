package services

import (
	"context"
	"fmt"
	"time"

	"jobhunt_backend/internal/email"
	"jobhunt_backend/internal/models"
)

// EmailService - высокоуровневые письма приложения
type EmailService interface {
	SendOTP(ctx context.Context, to, name, otp string) error
	SendWelcome(ctx context.Context, to, name string) error
	SendApplicationStatus(ctx context.Context, to, name string, job *models.Job, status models.ApplicationStatus) error
}

type emailService struct {
	provider email.Provider
	renderer email.TemplateRenderer
	otpTTL   time.Duration
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(provider email.Provider, renderer email.TemplateRenderer, otpTTL time.Duration) EmailService {
	return &emailService{
		provider: provider,
		renderer: renderer,
		otpTTL:   otpTTL,
	}
}

func (s *emailService) SendOTP(ctx context.Context, to, name, otp string) error {
	return s.send(ctx, to, "Verify your account", email.TemplateOTP, email.TemplateData{
		"Name":           name,
		"OTP":            otp,
		"ExpiresMinutes": int(s.otpTTL.Minutes()),
	}, fmt.Sprintf("Your OTP code is: %s", otp))
}

func (s *emailService) SendWelcome(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Welcome to JobHunt", email.TemplateWelcome, email.TemplateData{
		"Name": name,
	}, fmt.Sprintf("Welcome to JobHunt, %s! Your email is verified.", name))
}

func (s *emailService) SendApplicationStatus(ctx context.Context, to, name string, job *models.Job, status models.ApplicationStatus) error {
	subject := fmt.Sprintf("Application Update: %s", job.Title)
	plain := fmt.Sprintf("Your application for %s at %s is now %s.", job.Title, job.Company, status)

	return s.send(ctx, to, subject, email.TemplateApplicationStatus, email.TemplateData{
		"Name":     name,
		"JobTitle": job.Title,
		"Company":  job.Company,
		"Status":   string(status),
		"Message":  statusMessage(status),
	}, plain)
}

func (s *emailService) send(ctx context.Context, to, subject, template string, data email.TemplateData, plain string) error {
	msg := &email.Email{
		To:      []string{to},
		Subject: subject,
		Body:    plain,
	}

	if s.renderer != nil {
		html, err := s.renderer.Render(template, data)
		if err != nil {
			return fmt.Errorf("render %s: %w", template, err)
		}
		msg.HTMLBody = html
	}

	return s.provider.Send(ctx, msg)
}

func statusMessage(status models.ApplicationStatus) string {
	switch status {
	case models.ApplicationStatusShortlisted:
		return "Congratulations! You have been shortlisted. The employer will contact you about next steps."
	case models.ApplicationStatusRejected:
		return "Unfortunately the employer decided not to move forward with your application."
	case models.ApplicationStatusWaitlisted:
		return "You have been placed on the waitlist. We will let you know if anything changes."
	default:
		return "Your application is being reviewed."
	}
}
