package storage

import (
	"sync"
	"time"

	"github.com/ecert-oman/ecert-backend/internal/models"
)

// MemoryStore holds all data in memory for development and tests
type MemoryStore struct {
	sessions map[string]*models.Session
	payments map[string]*models.PendingPayment

	// Mutexes for thread safety
	sessionMu sync.RWMutex
	paymentMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		payments: make(map[string]*models.PendingPayment),
	}
}

// Session operations

func (m *MemoryStore) GetSession(senderNumber string) (*models.Session, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[senderNumber]
	if !exists {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *MemoryStore) SaveSession(session *models.Session) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	copied := *session
	copied.UpdatedAt = time.Now()
	m.sessions[session.SenderNumber] = &copied
	return nil
}

func (m *MemoryStore) DeleteSession(senderNumber string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, senderNumber)
	return nil
}

func (m *MemoryStore) SweepIdleSessions(maxIdle time.Duration) (int, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for sender, session := range m.sessions {
		if session.LastActivityAt.Before(cutoff) {
			delete(m.sessions, sender)
			removed++
		}
	}
	return removed, nil
}

// Pending payment operations

func (m *MemoryStore) SavePendingPayment(payment *models.PendingPayment) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	// A new checkout supersedes any unfulfilled one for the same sender
	for ref, existing := range m.payments {
		if existing.SenderNumber == payment.SenderNumber {
			delete(m.payments, ref)
		}
	}

	copied := *payment
	copied.CreatedAt = time.Now()
	m.payments[payment.PaymentRef] = &copied
	return nil
}

func (m *MemoryStore) ConsumePendingPayment(paymentRef string) (*models.PendingPayment, error) {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	payment, exists := m.payments[paymentRef]
	if !exists {
		return nil, nil
	}
	delete(m.payments, paymentRef)
	return payment, nil
}

func (m *MemoryStore) SweepExpiredPayments(maxAge time.Duration) (int, error) {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for ref, payment := range m.payments {
		if payment.CreatedAt.Before(cutoff) {
			delete(m.payments, ref)
			removed++
		}
	}
	return removed, nil
}
