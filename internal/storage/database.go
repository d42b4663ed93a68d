package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecert-oman/ecert-backend/internal/models"
)

// DatabaseStore implements Store backed by PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Session operations

func (d *DatabaseStore) GetSession(senderNumber string) (*models.Session, error) {
	var session models.Session
	err := d.db.Where("sender_number = ?", senderNumber).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %v", err)
	}
	return &session, nil
}

func (d *DatabaseStore) SaveSession(session *models.Session) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sender_number"}},
		UpdateAll: true,
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}

func (d *DatabaseStore) DeleteSession(senderNumber string) error {
	return d.db.Where("sender_number = ?", senderNumber).
		Delete(&models.Session{}).Error
}

func (d *DatabaseStore) SweepIdleSessions(maxIdle time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxIdle)
	res := d.db.Where("last_activity_at < ?", cutoff).Delete(&models.Session{})
	return int(res.RowsAffected), res.Error
}

// Pending payment operations

func (d *DatabaseStore) SavePendingPayment(payment *models.PendingPayment) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		// A new checkout supersedes any unfulfilled one for the same sender
		if err := tx.Where("sender_number = ?", payment.SenderNumber).
			Delete(&models.PendingPayment{}).Error; err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

func (d *DatabaseStore) ConsumePendingPayment(paymentRef string) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	found := false

	err := d.db.Transaction(func(tx *gorm.DB) error {
		// Row lock so two concurrent webhook retries cannot both
		// observe the record before one deletes it
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_ref = ?", paymentRef).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return tx.Delete(&payment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume pending payment: %v", err)
	}
	if !found {
		return nil, nil
	}
	return &payment, nil
}

func (d *DatabaseStore) SweepExpiredPayments(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	res := d.db.Where("created_at < ?", cutoff).Delete(&models.PendingPayment{})
	return int(res.RowsAffected), res.Error
}
