// utils/email.go
package utils

import (
	"fmt"

	"go-pharmacy/models"

	"github.com/keighl/postmark"
	"go.uber.org/zap"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
	logger *zap.Logger
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
		logger: logger,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

// SendOrderConfirmation sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmation(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your order! Your payment for order <strong>%s</strong> has been processed successfully.<br><br>Amount Paid: <strong>$%.2f</strong><br>Items: <strong>%d</strong><br><br>Please consult your doctor or pharmacist before taking any medication.",
		order.OrderNumber,
		order.TotalAmount,
		len(order.Items),
	)
	textContent := fmt.Sprintf(
		"Dear Customer,\n\nThank you for your order! Your payment for order %s has been processed successfully.\n\nAmount Paid: $%.2f\nItems: %d\n",
		order.OrderNumber,
		order.TotalAmount,
		len(order.Items),
	)

	return es.SendEmail(toEmail, subject, htmlContent, textContent)
}
