package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridAlertService struct {
	apiKey    string
	fromEmail string
	opsEmail  string
}

func NewSendgridAlertService(apiKey, fromEmail, opsEmail string) AlertService {
	return &sendgridAlertService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		opsEmail:  opsEmail,
	}
}

func (s *sendgridAlertService) SendOpsAlert(ctx context.Context, subject, message string) error {
	from := mail.NewEmail("Payout Ledger", s.fromEmail)
	to := mail.NewEmail("Payments Ops", s.opsEmail)
	msg := mail.NewSingleEmail(from, subject, to, message, message)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send ops alert: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
