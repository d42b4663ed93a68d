package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecert-oman/ecert-backend/internal/models"
)

func completePaidFlow(t *testing.T, env *testEnv) {
	t.Helper()
	env.send(t, "hello")
	env.send(t, "2")
	env.send(t, "Ahmed")
	env.send(t, testRecipient)
	env.send(t, "نعم")
	require.Equal(t, models.StepAwaitPayment, env.session(t).Step)
}

func TestFulfillDeliversExactlyOnce(t *testing.T) {
	env := newTestEnv(t, false)
	completePaidFlow(t, env)

	require.NoError(t, env.payments.Fulfill("cs_test_123"))

	require.Len(t, env.messenger.Certs, 1)
	cert := env.messenger.Certs[0]
	assert.Equal(t, testRecipient, cert.To)
	assert.Equal(t, "Ahmed", cert.Text)
	assert.Contains(t, cert.ImageURL, "malgof_egqihg")

	// Sender got the thank-you confirmation
	assert.Contains(t, env.messenger.lastText(), "Ahmed")

	// Session is closed out by fulfillment
	assert.Nil(t, env.session(t))

	// Replaying the same notification is a no-op
	certsBefore := len(env.messenger.Certs)
	textsBefore := len(env.messenger.Texts)
	require.NoError(t, env.payments.Fulfill("cs_test_123"))
	assert.Equal(t, certsBefore, len(env.messenger.Certs))
	assert.Equal(t, textsBefore, len(env.messenger.Texts))
}

func TestFulfillUnknownReferenceIsNoOp(t *testing.T) {
	env := newTestEnv(t, false)

	require.NoError(t, env.payments.Fulfill("cs_never_created"))
	assert.Empty(t, env.messenger.Certs)
	assert.Empty(t, env.messenger.Texts)
}

func TestFulfillSendsCustomMessage(t *testing.T) {
	env := newTestEnv(t, true)
	env.send(t, "hello")
	env.send(t, "2")
	env.send(t, "Ahmed")
	env.send(t, testRecipient)
	env.send(t, "كل عام وأنت بخير")
	env.send(t, "نعم")
	require.Equal(t, models.StepAwaitPayment, env.session(t).Step)

	require.NoError(t, env.payments.Fulfill("cs_test_123"))

	require.Len(t, env.messenger.Certs, 1)
	found := false
	for _, msg := range env.messenger.Texts {
		if msg.To == testRecipient && msg.Text == "كل عام وأنت بخير" {
			found = true
		}
	}
	assert.True(t, found, "custom message should reach the recipient")
}

func TestCreateCheckoutRejectsFreeCertificate(t *testing.T) {
	env := newTestEnv(t, false)

	session := models.NewSession(testSender)
	session.SelectedCertificate = 1
	session.RecipientNumber = testRecipient
	session.RecipientName = "Ahmed"

	_, err := env.payments.CreateCheckout(session)
	assert.Error(t, err)
	assert.Equal(t, 0, env.checkout.calls)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.payments.VerifyWebhook([]byte(`{"type":"checkout.session.completed"}`), "t=1,v1=garbage")
	assert.Error(t, err)

	_, err = env.payments.VerifyWebhook([]byte(`{}`), "")
	assert.Error(t, err)
}
