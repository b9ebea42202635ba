package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"turfbooking/internal/service"
)

const statusConfirmed = "confirmed"

type StripeWebhookHandler struct {
	webhookSecret  string
	bookingService *service.BookingService
	stripeService  *service.StripeService
	senderService  *service.SenderService
}

func NewStripeWebhookHandler(webhookSecret string, bookingService *service.BookingService, stripeService *service.StripeService, senderService *service.SenderService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		webhookSecret:  webhookSecret,
		bookingService: bookingService,
		stripeService:  stripeService,
		senderService:  senderService,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.webhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			log.Printf("No session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		booking, err := h.bookingService.ConfirmPayment(r.Context(), sess.ID)
		if err != nil {
			log.Printf("Error confirming payment for session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.senderService.SendBookingEmail(*booking, statusConfirmed)
		h.senderService.SendBookingSMS(*booking, statusConfirmed)

	case "charge.refunded":
		var charge stripe.Charge
		json.Unmarshal(event.Data.Raw, &charge)
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.stripeService.GetSessionIDByPaymentIntentID(charge.PaymentIntent.ID)
			if err != nil {
				log.Printf("No session found for PaymentIntent %s: %v", charge.PaymentIntent.ID, err)
				return
			}
			if _, err := h.bookingService.MarkRefunded(r.Context(), sessionID); err != nil {
				log.Printf("Error marking booking refunded for session %s: %v", sessionID, err)
				return
			}
		}
	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
