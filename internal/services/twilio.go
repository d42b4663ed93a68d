package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioMessenger implements Messenger over Twilio's WhatsApp channel, for
// deployments that route through Twilio instead of the Meta Cloud API.
// Template names are mapped to Twilio content SIDs.
type TwilioMessenger struct {
	client      *twilio.RestClient
	from        string // Format: "whatsapp:+14155238886"
	contentSIDs map[string]string
}

// NewTwilioMessenger creates a Twilio-backed messenger from the environment.
func NewTwilioMessenger(contentSIDs map[string]string) (*TwilioMessenger, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioMessenger{
		client:      client,
		from:        from,
		contentSIDs: contentSIDs,
	}, nil
}

// SendText sends a WhatsApp text message via Twilio
func (t *TwilioMessenger) SendText(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return nil
}

// SendTemplate sends the content template mapped to templateName
func (t *TwilioMessenger) SendTemplate(to, templateName string) error {
	contentSID, ok := t.contentSIDs[templateName]
	if !ok {
		return fmt.Errorf("no Twilio content SID configured for template %q", templateName)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
	params.SetContentSid(contentSID)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp template: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp template sent! SID: %s, Template: %s", *resp.Sid, templateName)
	return nil
}

// SendCertificateImage sends the certificate as a media message with the
// recipient's name as caption variable on the gift content template.
func (t *TwilioMessenger) SendCertificateImage(to, imageURL, recipientName string) error {
	contentSID, ok := t.contentSIDs["gift"]
	if !ok {
		// Fall back to a plain media message
		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(t.from)
		params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
		params.SetBody(recipientName)
		params.SetMediaUrl([]string{imageURL})

		_, err := t.client.Api.CreateMessage(params)
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:+%s", to))
	params.SetContentSid(contentSID)

	variables, err := json.Marshal(map[string]string{
		"1": imageURL,
		"2": recipientName,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal content variables: %w", err)
	}
	params.SetContentVariables(string(variables))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send certificate template: %w", err)
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
	}

	log.Printf("Certificate sent to %s, SID: %s", to, *resp.Sid)
	return nil
}
