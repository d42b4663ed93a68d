package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAuditLogAppendsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.xlsx")
	audit := NewAuditLog(path)

	audit.Record("96892123456", "Ahmed", "966501234567", 1)
	audit.Record("96892123456", "Salim", "96892123457", 5)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(auditSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two deliveries")

	assert.Equal(t, "Sender", rows[0][1])
	assert.Equal(t, "Ahmed", rows[1][2])
	assert.Equal(t, "5", rows[2][4])
}

func TestAuditLogDisabled(t *testing.T) {
	audit := NewAuditLog("")
	// Must be a safe no-op
	audit.Record("96892123456", "Ahmed", "966501234567", 1)

	var nilAudit *AuditLog
	nilAudit.Record("96892123456", "Ahmed", "966501234567", 1)
}

func TestLoadRecipients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipients.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"Name", "PhoneNumber"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row1 := []interface{}{"Ahmed", "96892123456"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row1))
	row2 := []interface{}{"Salim", ""}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &row2))
	row3 := []interface{}{"Noor", "966501234567"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &row3))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	recipients, err := LoadRecipients(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"96892123456", "966501234567"}, recipients)
}

func TestLoadRecipientsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipients.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"Name"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := LoadRecipients(path)
	assert.Error(t, err)
}

func TestSendBroadcast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipients.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"PhoneNumber"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{"96892123456"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	messenger := &fakeMessenger{}
	broadcast := NewBroadcastService(messenger)

	sent, err := broadcast.SendBroadcast("promo2", path)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, messenger.Templates, 1)
	assert.Equal(t, "promo2", messenger.Templates[0].Template)
	assert.Equal(t, "96892123456", messenger.Templates[0].To)
}
