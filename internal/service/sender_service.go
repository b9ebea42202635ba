package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"turfbooking/internal/config"
	"turfbooking/internal/entities"
)

// SenderService composes and sends booking status emails and SMS. Delivery is
// best-effort: a failure is logged and never fails the booking flow.
type SenderService struct {
	cfg *config.Config
}

func NewSenderService(cfg *config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

func (s *SenderService) SendBookingEmail(booking entities.BookingResponse, status string) {
	data := entities.BookingEmailData{
		UserName:    booking.UserName,
		BookingCode: booking.Code,
		TurfName:    booking.TurfName,
		Date:        booking.Date,
		Slot:        booking.Slot,
		Status:      status,
		CurrentYear: time.Now().Year(),
	}

	subject := fmt.Sprintf("Your Turfit booking is %s - Code: %s", status, data.BookingCode)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour turf booking is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Turf: %s\n"+
			"Date: %s\n"+
			"Slot: %s\n\n"+
			"Thank you for choosing Turfit.\n\n"+
			"© %d Turfit. All rights reserved.",
		data.UserName, status, data.BookingCode, data.TurfName, data.Date, data.Slot, data.CurrentYear,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your turf booking is <b>%s</b>.</p>"+
			"<ul><li>Booking Code: %s</li><li>Turf: %s</li><li>Date: %s</li><li>Slot: %s</li></ul>"+
			"<p>Thank you for choosing Turfit.</p>",
		data.UserName, status, data.BookingCode, data.TurfName, data.Date, data.Slot,
	)

	go func() {
		if err := s.sendWithSendGrid(booking.UserEmail, data.UserName, subject, plainTextBody, htmlBody); err != nil {
			log.Printf("Failed sending email for booking %s: %v", data.BookingCode, err)
		}
	}()
}

func (s *SenderService) SendBookingSMS(booking entities.BookingResponse, status string) {
	message := fmt.Sprintf("Turfit: booking %s is %s!\n%s, %s.\nMore details in your email.",
		booking.Code, status, booking.Date, booking.Slot)
	go func() {
		if err := s.sendSMS(booking.UserPhone, message); err != nil {
			log.Printf("Booking %s stands, but the confirmation SMS to %s failed: %v",
				booking.Code, booking.UserPhone, err)
		}
	}()
}

func (s *SenderService) sendWithSendGrid(toEmail, toName, subject, plainTextContent, htmlContent string) error {
	if s.cfg.SendGrid.APIKey == "" || s.cfg.SendGrid.FromEmail == "" {
		return fmt.Errorf("SendGrid is not configured")
	}

	from := mail.NewEmail(s.cfg.SendGrid.FromName, s.cfg.SendGrid.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.SendGrid.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("Email sent to %s (subject: %s)", toEmail, subject)
	return nil
}

func (s *SenderService) sendSMS(toNumber, messageBody string) error {
	if s.cfg.Twilio.AccountSID == "" || s.cfg.Twilio.AuthToken == "" || s.cfg.Twilio.FromNumber == "" {
		return fmt.Errorf("Twilio is not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		toNumber = "+91" + toNumber
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.Twilio.AccountSID,
		Password: s.cfg.Twilio.AuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.Twilio.FromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s (SID %s)", toNumber, *resp.Sid)
	}
	return nil
}
