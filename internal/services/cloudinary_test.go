package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCertificateURL(t *testing.T) {
	media := NewCloudinaryService("demo")

	url := media.BuildCertificateURL("bestfriend_aamfqh", "Ahmed")
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/l_text:Arial_80:Ahmed,g_center,y_-10/bestfriend_aamfqh",
		url)
}

func TestBuildCertificateURLEscapesOverlay(t *testing.T) {
	media := NewCloudinaryService("demo")

	url := media.BuildCertificateURL("gift_x", "Ahmed Ali")
	assert.Contains(t, url, "l_text:Arial_80:Ahmed%20Ali,")

	// Commas and slashes must not break out of the transformation
	url = media.BuildCertificateURL("gift_x", "a,b/c")
	assert.Contains(t, url, "a%2Cb%2Fc")
}
