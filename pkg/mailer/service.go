package mailer

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"hrms-backend/models"
)

// EmailLog persists a record of every message the service handles.
type EmailLog interface {
	CreateEmail(ctx context.Context, email *models.Email) error
}

const redactedBody = "[redacted: message carries an account link]"

// credentialCategories carry sign-in links whose bodies must not be kept
// in the email log.
var credentialCategories = map[string]bool{
	models.EmailCategoryReset:  true,
	models.EmailCategoryHiring: true,
}

type Service struct {
	transport Transport
	from      string
	logs      EmailLog
}

func NewService(transport Transport, from string, logs EmailLog) *Service {
	return &Service{transport: transport, from: from, logs: logs}
}

// Send delivers the message and records the outcome. A disabled transport
// records the message as skipped. Bodies of credential categories are
// redacted in the record.
func (s *Service) Send(ctx context.Context, category string, to []string, subject, body string) (*models.Email, error) {
	email := &models.Email{
		To:        to,
		Subject:   subject,
		Body:      body,
		Category:  category,
		MessageID: uuid.New().String() + "@hrms",
		CreatedAt: time.Now(),
	}
	if credentialCategories[category] {
		email.Body = redactedBody
	}

	var sendErr error
	switch {
	case !s.transport.Enabled():
		email.Status = models.EmailSkipped
	default:
		sendErr = s.transport.Send(ctx, s.from, to, subject, body, email.MessageID)
		if sendErr != nil {
			email.Status = models.EmailFailed
			email.Error = sendErr.Error()
		} else {
			now := time.Now()
			email.Status = models.EmailSent
			email.SentAt = &now
		}
	}

	if s.logs != nil {
		if err := s.logs.CreateEmail(ctx, email); err != nil {
			log.Printf("mailer: failed to record email %s: %v", email.MessageID, err)
		}
	}
	return email, sendErr
}

// Notify sends in the background of a request: failures are logged, not returned.
func (s *Service) Notify(ctx context.Context, category string, to, subject, body string) {
	if to == "" {
		return
	}
	if _, err := s.Send(ctx, category, []string{to}, subject, body); err != nil {
		log.Printf("mailer: %s email to %s failed: %v", category, to, err)
	}
}
