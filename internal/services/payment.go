package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/ecert-oman/ecert-backend/internal/models"
	"github.com/ecert-oman/ecert-backend/internal/storage"
)

// CheckoutClient creates hosted checkout sessions with the payment provider.
type CheckoutClient interface {
	// CreateCheckoutSession returns the provider's session id (the payment
	// reference) and the URL the user completes payment at.
	CreateCheckoutSession(priceID string, metadata map[string]string) (id, url string, err error)
}

// StripeClient implements CheckoutClient against Stripe Checkout.
type StripeClient struct {
	successURL string
	cancelURL  string
}

// NewStripeClient sets the global Stripe key and returns a checkout client.
func NewStripeClient(secretKey, successURL, cancelURL string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{successURL: successURL, cancelURL: cancelURL}
}

func (s *StripeClient) CreateCheckoutSession(priceID string, metadata map[string]string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(uuid.NewString()),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// PaymentService creates checkout sessions for paid certificates and fulfills
// them when the payment webhook confirms completion.
type PaymentService struct {
	store         storage.Store
	messenger     Messenger
	checkout      CheckoutClient
	catalog       *Catalog
	media         *CloudinaryService
	audit         *AuditLog
	replies       Replies
	webhookSecret string
}

// NewPaymentService creates a new payment service
func NewPaymentService(store storage.Store, messenger Messenger, checkout CheckoutClient,
	catalog *Catalog, media *CloudinaryService, audit *AuditLog,
	replies Replies, webhookSecret string) *PaymentService {
	return &PaymentService{
		store:         store,
		messenger:     messenger,
		checkout:      checkout,
		catalog:       catalog,
		media:         media,
		audit:         audit,
		replies:       replies,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckout opens a checkout session for the certificate selected in the
// session and records a PendingPayment snapshot keyed by the session id. A
// prior unfulfilled record for the same sender is superseded.
func (p *PaymentService) CreateCheckout(session *models.Session) (string, error) {
	cert, ok := p.catalog.Get(session.SelectedCertificate)
	if !ok {
		return "", fmt.Errorf("unknown certificate %d", session.SelectedCertificate)
	}
	if cert.Free {
		return "", fmt.Errorf("certificate %d is free, no checkout needed", cert.ID)
	}

	metadata := map[string]string{
		"sender_number":    session.SenderNumber,
		"recipient_number": session.RecipientNumber,
		"certificate_id":   fmt.Sprintf("%d", cert.ID),
		"recipient_name":   session.RecipientName,
	}

	ref, url, err := p.checkout.CreateCheckoutSession(cert.PriceID, metadata)
	if err != nil {
		return "", err
	}

	pending := &models.PendingPayment{
		PaymentRef:      ref,
		SenderNumber:    session.SenderNumber,
		RecipientNumber: session.RecipientNumber,
		CertificateID:   cert.ID,
		RecipientName:   session.RecipientName,
		CustomMessage:   session.CustomMessage,
	}
	if err := p.store.SavePendingPayment(pending); err != nil {
		return "", fmt.Errorf("failed to record pending payment: %v", err)
	}

	log.Printf("Checkout session %s created for certificate %d, sender %s", ref, cert.ID, session.SenderNumber)
	return url, nil
}

// VerifyWebhook checks the Stripe signature and parses the event. A signature
// mismatch is an authentication error; the caller must reject with non-200
// and perform no side effects.
func (p *PaymentService) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("signature verification failed: %v", err)
	}
	return event, nil
}

// ProcessEvent handles a verified payment event. Unknown event types and
// already-processed references are acknowledged no-ops.
func (p *PaymentService) ProcessEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
	default:
		log.Printf("Unhandled webhook event: %s", event.Type)
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %v", err)
	}

	return p.Fulfill(session.ID)
}

// Fulfill delivers the certificate for a completed payment reference exactly
// once. The pending record lookup is an atomic check-and-delete, so a
// concurrent duplicate notification finds nothing and no-ops.
func (p *PaymentService) Fulfill(paymentRef string) error {
	pending, err := p.store.ConsumePendingPayment(paymentRef)
	if err != nil {
		return fmt.Errorf("failed to look up payment %s: %v", paymentRef, err)
	}
	if pending == nil {
		log.Printf("Payment %s already processed or unknown, skipping", paymentRef)
		return nil
	}

	cert, ok := p.catalog.Get(pending.CertificateID)
	if !ok {
		log.Printf("❌ No catalog entry for certificate %d (payment %s)", pending.CertificateID, paymentRef)
		return nil
	}

	imageURL := p.media.BuildCertificateURL(cert.PublicID, pending.RecipientName)
	if err := p.messenger.SendCertificateImage(pending.RecipientNumber, imageURL, pending.RecipientName); err != nil {
		log.Printf("❌ Failed to send certificate for payment %s: %v", paymentRef, err)
	}
	if pending.CustomMessage != "" {
		if err := p.messenger.SendText(pending.RecipientNumber, pending.CustomMessage); err != nil {
			log.Printf("❌ Failed to send custom message for payment %s: %v", paymentRef, err)
		}
	}

	thanks := fmt.Sprintf(p.replies.PaymentThanksFmt, pending.RecipientName)
	if err := p.messenger.SendText(pending.SenderNumber, thanks); err != nil {
		log.Printf("❌ Failed to send payment confirmation to %s: %v", pending.SenderNumber, err)
	}

	if err := p.store.DeleteSession(pending.SenderNumber); err != nil {
		log.Printf("Failed to reset session for %s: %v", pending.SenderNumber, err)
	}

	p.audit.Record(pending.SenderNumber, pending.RecipientName, pending.RecipientNumber, pending.CertificateID)

	log.Printf("✅ Payment %s fulfilled: certificate %d sent to %s", paymentRef, pending.CertificateID, pending.RecipientNumber)
	return nil
}
