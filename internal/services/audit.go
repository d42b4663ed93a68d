package services

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const auditSheet = "Deliveries"

// AuditLog appends one row per delivered certificate to an XLSX workbook:
// timestamp, sender, recipient name, recipient number, certificate id.
// Best-effort bookkeeping; failures are logged and never block delivery.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

// NewAuditLog creates an append-only delivery ledger at path. An empty path
// disables auditing.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Record appends a delivery row. Safe to call on a nil or disabled log.
func (a *AuditLog) Record(sender, recipientName, recipientNumber string, certificateID int) {
	if a == nil || a.path == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.append(sender, recipientName, recipientNumber, certificateID); err != nil {
		log.Printf("Failed to write audit row: %v", err)
	}
}

func (a *AuditLog) append(sender, recipientName, recipientNumber string, certificateID int) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(auditSheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	row := []interface{}{
		time.Now().Format(time.RFC3339),
		sender,
		recipientName,
		recipientNumber,
		certificateID,
	}
	if err := f.SetSheetRow(auditSheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	return f.SaveAs(a.path)
}

func (a *AuditLog) open() (*excelize.File, error) {
	if _, err := os.Stat(a.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		index, err := f.NewSheet(auditSheet)
		if err != nil {
			return nil, err
		}
		f.SetActiveSheet(index)
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
		header := []interface{}{"Timestamp", "Sender", "RecipientName", "RecipientNumber", "CertificateID"}
		if err := f.SetSheetRow(auditSheet, "A1", &header); err != nil {
			return nil, err
		}
		return f, nil
	}
	return excelize.OpenFile(a.path)
}
