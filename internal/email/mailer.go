package email

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Mailer определяет интерфейс для отправки email
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPMailer отправляет письма через gomail
type SMTPMailer struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Validate проверяет конфигурацию SMTP
func (m *SMTPMailer) Validate() error {
	if m.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if m.config.Port <= 0 || m.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", m.config.Port)
	}
	if m.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

func (m *SMTPMailer) Send(ctx context.Context, email *Email) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(m.buildMessage(email)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage собирает MIME сообщение; HTML-версия идёт альтернативой к тексту
func (m *SMTPMailer) buildMessage(email *Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.FromEmail, m.config.FromName)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	switch {
	case email.Body != "" && email.HTMLBody != "":
		msg.SetBody("text/plain", email.Body)
		msg.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBody("text/html", email.HTMLBody)
	default:
		msg.SetBody("text/plain", email.Body)
	}
	return msg
}

// WriteTo пишет письмо в w без отправки (предпросмотр и тесты)
func (m *SMTPMailer) WriteTo(w io.Writer, email *Email) error {
	_, err := m.buildMessage(email).WriteTo(w)
	return err
}

// NoopMailer используется, когда почта выключена
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, *Email) error { return nil }
