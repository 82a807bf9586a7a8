// Package services реализует отправку писем подтверждения регистрации,
// потребляемых из очереди RabbitMQ.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/contact-hub/internal/lib/sl"
	"github.com/magabrotheeeer/contact-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/contact-hub/internal/models"
)

// SenderService отправляет письма по сообщениям из очереди.
type SenderService struct {
	transport smtp.TransportInterface
	publicURL string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
//
// publicURL — внешний адрес сервиса, из него собирается ссылка подтверждения.
func NewSenderService(transport smtp.TransportInterface, publicURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// SendVerificationEmail разбирает сообщение очереди и отправляет письмо
// со ссылкой подтверждения почты.
func (s *SenderService) SendVerificationEmail(body []byte) error {
	var message models.VerificationEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Подтверждение регистрации в Contact Hub"
	link := fmt.Sprintf("%s/auth/verify/%s", s.publicURL, message.Token)
	bodyHTML := fmt.Sprintf(`Это письмо для подтверждения регистрации, отвечать на него не нужно.<br>
Пожалуйста, <a href='%s'>нажмите сюда</a>, чтобы подтвердить вашу почту.`, link)

	return s.sendEmail(to, subject, bodyHTML)
}

func (s *SenderService) sendEmail(to []string, subject, bodyHTML string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		bodyHTML,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("verification email sent", "to", to)
	return nil
}
