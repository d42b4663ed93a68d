package services

import (
	"fmt"
	"net/url"
	"strings"
)

// CloudinaryService builds certificate image URLs with the recipient's name
// overlaid on the template asset. Pure URL construction, no network call.
type CloudinaryService struct {
	cloudName string
}

// NewCloudinaryService creates a URL builder for the given cloud.
func NewCloudinaryService(cloudName string) *CloudinaryService {
	return &CloudinaryService{cloudName: cloudName}
}

// BuildCertificateURL returns the delivery URL for publicID with overlayText
// rendered centered in Arial 80, nudged 10px up.
func (c *CloudinaryService) BuildCertificateURL(publicID, overlayText string) string {
	overlay := fmt.Sprintf("l_text:Arial_80:%s,g_center,y_-10", escapeOverlayText(overlayText))
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s",
		c.cloudName, overlay, publicID)
}

// escapeOverlayText percent-encodes the overlay so commas and slashes cannot
// break out of the transformation component.
func escapeOverlayText(text string) string {
	escaped := url.PathEscape(text)
	escaped = strings.ReplaceAll(escaped, ",", "%2C")
	return escaped
}
