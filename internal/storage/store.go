package storage

import (
	"sync"
	"time"

	"github.com/ecert-oman/ecert-backend/internal/models"
)

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations. Sessions are keyed by
// the sender's normalized phone number; pending payments by the checkout
// session reference.
type Store interface {
	// Session operations. GetSession returns (nil, nil) when no session
	// exists - first contact is not an error.
	GetSession(senderNumber string) (*models.Session, error)
	SaveSession(session *models.Session) error
	DeleteSession(senderNumber string) error
	// SweepIdleSessions removes sessions whose LastActivityAt is older
	// than maxIdle and returns how many were removed.
	SweepIdleSessions(maxIdle time.Duration) (int, error)

	// Pending payment operations. SavePendingPayment supersedes any
	// existing record for the same sender. ConsumePendingPayment is an
	// atomic check-and-delete: it returns (nil, nil) when the reference
	// is unknown or already consumed, and no two callers can both
	// receive the same record.
	SavePendingPayment(payment *models.PendingPayment) error
	ConsumePendingPayment(paymentRef string) (*models.PendingPayment, error)
	SweepExpiredPayments(maxAge time.Duration) (int, error)
}
