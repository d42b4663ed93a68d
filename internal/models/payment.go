package models

import (
	"gorm.io/gorm"
)

// PendingPayment freezes the session fields at the moment a checkout session
// was created. It lives until the payment webhook consumes it (exactly once)
// or the expiry sweep reaps it. At most one record exists per sender; a new
// checkout supersedes a prior unfulfilled one.
type PendingPayment struct {
	gorm.Model
	PaymentRef      string `json:"payment_ref" gorm:"uniqueIndex"`
	SenderNumber    string `json:"sender_number" gorm:"index"`
	RecipientNumber string `json:"recipient_number"`
	CertificateID   int    `json:"certificate_id"`
	RecipientName   string `json:"recipient_name"`
	CustomMessage   string `json:"custom_message"`
}
