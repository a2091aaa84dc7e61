package service

import (
	"context"
	"fmt"

	"farmtap-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sendgrid/rest"
	"gopkg.in/gomail.v2"
)

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := s.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpEmailService struct {
	dialer   mailDialer
	from     string
	fromName string
	host     string
}

// NewSMTPEmailService sends mail through a plain SMTP relay.
func NewSMTPEmailService(host string, port int, username, password, fromEmail, fromName string) EmailService {
	return &smtpEmailService{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     fromEmail,
		fromName: fromName,
		host:     host,
	}
}

func (s *smtpEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	logger.ExternalServiceCall("smtp", "DialAndSend", "host", s.host, "to", to, "subject", subject)
	err := s.dialer.DialAndSend(s.message(to, toName, subject, plainText, htmlContent))
	logger.ExternalServiceResult("smtp", "DialAndSend", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

func (s *smtpEmailService) message(to, toName, subject, plainText, htmlContent string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", to, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainText)
	if htmlContent != "" {
		m.AddAlternative("text/html", htmlContent)
	}
	return m
}

// logEmailService records emails instead of sending them. Used when no
// provider is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	logger.InfoContext(ctx, "Email not sent, no provider configured", "to", to, "subject", subject, "body", plainText)
	return nil
}
