package services

import (
	"context"
	"fmt"

	"ejaraat_backend/internal/email"
	"ejaraat_backend/internal/render"
)

// EmailService предоставляет высокоуровневый интерфейс для работы с email
type EmailService struct {
	mailer   email.Mailer
	renderer *render.Renderer
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(mailer email.Mailer, renderer *render.Renderer) *EmailService {
	if mailer == nil {
		mailer = email.NoopMailer{}
	}
	return &EmailService{
		mailer:   mailer,
		renderer: renderer,
	}
}

// SendHTMLEmail отправляет HTML email сообщение
func (s *EmailService) SendHTMLEmail(ctx context.Context, to []string, subject, htmlBody string) error {
	return s.mailer.Send(ctx, &email.Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendTemplatedEmail отправляет email используя шаблон
func (s *EmailService) SendTemplatedEmail(ctx context.Context, to []string, subject, templateName string, data email.TemplateData) error {
	html, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	return s.SendHTMLEmail(ctx, to, subject, html)
}
