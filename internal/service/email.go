package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"costume-rental-backend/internal/domain"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendRentalConfirmation(ctx context.Context, email, name, rentalID string, totalAmount int64) error {
	subject := fmt.Sprintf("Rental %s confirmed", rentalID)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour rental %s has been confirmed. Total charged (rental fee plus deposit): %d VND.\n\nThank you for renting with us.",
		name, rentalID, totalAmount)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, rentalID string, dueDate time.Time) error {
	subject := fmt.Sprintf("Rental %s is overdue", rentalID)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour rental %s was due on %s and is now overdue. Late fees accrue daily until the items are returned. Please return them as soon as possible.",
		name, rentalID, dueDate.Format(domain.DateLayout))
	return s.send(email, name, subject, body)
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
