package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation steps. A session's Step is always one of these; anything else
// is treated as corrupted and reset by the engine.
const (
	StepWelcome            = "welcome"
	StepSelectCertificate  = "select_certificate"
	StepAskRecipientName   = "ask_recipient_name"
	StepAskRecipientNumber = "ask_recipient_number"
	StepAskCustomMessage   = "ask_custom_message"
	StepConfirmSend        = "confirm_send"
	StepAwaitPayment       = "await_payment"
	StepAskAnother         = "ask_another"
)

// KnownStep reports whether s is a valid conversation step.
func KnownStep(s string) bool {
	switch s {
	case StepWelcome, StepSelectCertificate, StepAskRecipientName,
		StepAskRecipientNumber, StepAskCustomMessage, StepConfirmSend,
		StepAwaitPayment, StepAskAnother:
		return true
	}
	return false
}

// Session stores the per-user conversation state for the certificate flow
type Session struct {
	gorm.Model
	SenderNumber        string    `json:"sender_number" gorm:"uniqueIndex"`
	Step                string    `json:"step"`
	SelectedCertificate int       `json:"selected_certificate"`
	RecipientName       string    `json:"recipient_name"`
	RecipientNumber     string    `json:"recipient_number"`
	CustomMessage       string    `json:"custom_message"`
	CertificatesSent    int       `json:"certificates_sent"`
	PaymentPending      bool      `json:"payment_pending"`
	LastActivityAt      time.Time `json:"last_activity_at"`
}

// NewSession creates a fresh session in the welcome step.
func NewSession(senderNumber string) *Session {
	return &Session{
		SenderNumber:   senderNumber,
		Step:           StepWelcome,
		LastActivityAt: time.Now(),
	}
}
