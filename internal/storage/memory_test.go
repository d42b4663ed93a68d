package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecert-oman/ecert-backend/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore()

	session, err := store.GetSession("96892123456")
	require.NoError(t, err)
	assert.Nil(t, session, "absent session should be (nil, nil)")

	session = models.NewSession("96892123456")
	session.Step = models.StepAskRecipientName
	session.SelectedCertificate = 3
	require.NoError(t, store.SaveSession(session))

	loaded, err := store.GetSession("96892123456")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, models.StepAskRecipientName, loaded.Step)
	assert.Equal(t, 3, loaded.SelectedCertificate)

	// The store owns its copy: mutating the loaded session must not leak
	// back without a save
	loaded.Step = models.StepConfirmSend
	again, err := store.GetSession("96892123456")
	require.NoError(t, err)
	assert.Equal(t, models.StepAskRecipientName, again.Step)

	require.NoError(t, store.DeleteSession("96892123456"))
	gone, err := store.GetSession("96892123456")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSweepIdleSessions(t *testing.T) {
	store := NewMemoryStore()

	idle := models.NewSession("96811111111")
	idle.LastActivityAt = time.Now().Add(-10 * time.Minute)
	require.NoError(t, store.SaveSession(idle))

	active := models.NewSession("96822222222")
	require.NoError(t, store.SaveSession(active))

	removed, err := store.SweepIdleSessions(5 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	gone, _ := store.GetSession("96811111111")
	assert.Nil(t, gone)
	kept, _ := store.GetSession("96822222222")
	assert.NotNil(t, kept)
}

func TestPendingPaymentSupersede(t *testing.T) {
	store := NewMemoryStore()

	first := &models.PendingPayment{
		PaymentRef:   "cs_first",
		SenderNumber: "96892123456",
	}
	require.NoError(t, store.SavePendingPayment(first))

	// A new checkout for the same sender replaces the old record
	second := &models.PendingPayment{
		PaymentRef:   "cs_second",
		SenderNumber: "96892123456",
	}
	require.NoError(t, store.SavePendingPayment(second))

	old, err := store.ConsumePendingPayment("cs_first")
	require.NoError(t, err)
	assert.Nil(t, old, "superseded record must be gone")

	current, err := store.ConsumePendingPayment("cs_second")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "96892123456", current.SenderNumber)
}

func TestConsumePendingPaymentOnce(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SavePendingPayment(&models.PendingPayment{
		PaymentRef:      "cs_test",
		SenderNumber:    "96892123456",
		RecipientNumber: "966501234567",
		CertificateID:   2,
		RecipientName:   "Ahmed",
	}))

	payment, err := store.ConsumePendingPayment("cs_test")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, 2, payment.CertificateID)

	replay, err := store.ConsumePendingPayment("cs_test")
	require.NoError(t, err)
	assert.Nil(t, replay, "second consume must be a no-op")
}

func TestConsumePendingPaymentConcurrent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SavePendingPayment(&models.PendingPayment{
		PaymentRef:   "cs_race",
		SenderNumber: "96892123456",
	}))

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan *models.PendingPayment, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payment, err := store.ConsumePendingPayment("cs_race")
			assert.NoError(t, err)
			results <- payment
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for payment := range results {
		if payment != nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one consumer may win")
}

func TestSweepExpiredPayments(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SavePendingPayment(&models.PendingPayment{
			PaymentRef:   fmt.Sprintf("cs_%d", i),
			SenderNumber: fmt.Sprintf("9689212345%d", i),
		}))
	}

	// Fresh records survive the sweep
	removed, err := store.SweepExpiredPayments(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = store.SweepExpiredPayments(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}
