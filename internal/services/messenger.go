package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Messenger sends outbound WhatsApp messages. Sends are fire-and-forget from
// the engine's perspective: failures are logged by the caller, never retried
// here, and never roll back a state transition.
type Messenger interface {
	SendText(to, body string) error
	SendTemplate(to, templateName string) error
	SendCertificateImage(to, imageURL, recipientName string) error
}

// MetaMessenger talks to the Meta WhatsApp Cloud API (Graph API).
type MetaMessenger struct {
	apiURL       string
	apiToken     string
	languageCode string
	giftTemplate string
	client       *http.Client
}

// NewMetaMessenger creates a Cloud API messenger.
func NewMetaMessenger(apiURL, apiToken, languageCode, giftTemplate string) (*MetaMessenger, error) {
	if apiURL == "" || apiToken == "" {
		return nil, fmt.Errorf("missing WhatsApp API credentials in environment variables")
	}
	return &MetaMessenger{
		apiURL:       apiURL,
		apiToken:     apiToken,
		languageCode: languageCode,
		giftTemplate: giftTemplate,
		client:       &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type metaTextPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type metaTemplatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         metaTemplate `json:"template"`
}

type metaTemplate struct {
	Name     string `json:"name"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
	Components []metaComponent `json:"components,omitempty"`
}

type metaComponent struct {
	Type       string          `json:"type"`
	Parameters []metaParameter `json:"parameters"`
}

type metaParameter struct {
	Type  string     `json:"type"`
	Text  string     `json:"text,omitempty"`
	Image *metaImage `json:"image,omitempty"`
}

type metaImage struct {
	Link string `json:"link"`
}

// SendText sends a plain text message.
func (m *MetaMessenger) SendText(to, body string) error {
	payload := metaTextPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body
	return m.post(payload)
}

// SendTemplate sends a pre-approved template with no parameters.
func (m *MetaMessenger) SendTemplate(to, templateName string) error {
	payload := metaTemplatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
	}
	payload.Template.Name = templateName
	payload.Template.Language.Code = m.languageCode
	return m.post(payload)
}

// SendCertificateImage sends the certificate template with the generated
// image as header and the recipient's name in the body.
func (m *MetaMessenger) SendCertificateImage(to, imageURL, recipientName string) error {
	payload := metaTemplatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
	}
	payload.Template.Name = m.giftTemplate
	payload.Template.Language.Code = m.languageCode
	payload.Template.Components = []metaComponent{
		{
			Type: "header",
			Parameters: []metaParameter{
				{Type: "image", Image: &metaImage{Link: imageURL}},
			},
		},
		{
			Type: "body",
			Parameters: []metaParameter{
				{Type: "text", Text: recipientName},
			},
		},
	}
	return m.post(payload)
}

func (m *MetaMessenger) post(payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("❌ WhatsApp API error %d: %s", resp.StatusCode, respBody)
		return fmt.Errorf("whatsapp API returned %s", resp.Status)
	}
	return nil
}
