// Package services содержит отправку почтовых уведомлений: напоминаний
// о завтрашних занятиях и служебных писем о событиях абонементов.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/lib/smtp"
	"github.com/edulingo/tutorcrm/internal/models"
)

// SenderService потребляет сообщения брокера и отправляет письма через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendSessionReminder отправляет ученику напоминание о завтрашнем занятии.
func (s *SenderService) SendSessionReminder(body []byte) error {
	var message models.SessionReminder
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Напоминание о занятии"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nНапоминаем: завтра, %s в %s, у вас занятие с преподавателем %s.\n\nЕсли вы не сможете прийти, пожалуйста, предупредите заранее.",
		message.StudentName, message.Date.Format("02.01.2006"), message.StartTime, message.TeacherName)

	return s.sendEmail(to, subject, bodyText)
}

// SendSubscriptionEvent отправляет администратору письмо о создании
// или обновлении абонемента.
func (s *SenderService) SendSubscriptionEvent(body []byte) error {
	var message models.SubscriptionEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{s.transport.GetSMTPUser()}
	subject := "Изменение абонемента"
	bodyText := fmt.Sprintf("Событие: %s\nАбонемент: %d\nУченик: %d\nПреподаватель: %d",
		message.Type, message.SubscriptionID, message.StudentID, message.TeacherID)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
