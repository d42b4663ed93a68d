package services

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
)

// BroadcastService sends a template message to every recipient listed in an
// XLSX sheet with a PhoneNumber column.
type BroadcastService struct {
	messenger Messenger
}

// NewBroadcastService creates a broadcast service
func NewBroadcastService(messenger Messenger) *BroadcastService {
	return &BroadcastService{messenger: messenger}
}

// LoadRecipients reads phone numbers from the PhoneNumber column of the first
// sheet in the workbook at path.
func LoadRecipients(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	phoneCol := -1
	for i, name := range rows[0] {
		if name == "PhoneNumber" {
			phoneCol = i
			break
		}
	}
	if phoneCol < 0 {
		return nil, fmt.Errorf("no PhoneNumber column in %s", path)
	}

	var recipients []string
	for _, row := range rows[1:] {
		if phoneCol < len(row) && row[phoneCol] != "" {
			recipients = append(recipients, row[phoneCol])
		}
	}
	return recipients, nil
}

// SendBroadcast sends templateName to every recipient in the workbook and
// returns how many sends succeeded. Individual failures are logged, not fatal.
func (b *BroadcastService) SendBroadcast(templateName, path string) (int, error) {
	recipients, err := LoadRecipients(path)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, fmt.Errorf("no recipients found in %s", path)
	}

	log.Printf("Sending %s broadcast to %d recipients...", templateName, len(recipients))

	sent := 0
	for _, recipient := range recipients {
		if err := b.messenger.SendTemplate(recipient, templateName); err != nil {
			log.Printf("❌ Broadcast to %s failed: %v", recipient, err)
			continue
		}
		sent++
	}

	log.Printf("Broadcast complete: %d/%d sent", sent, len(recipients))
	return sent, nil
}
