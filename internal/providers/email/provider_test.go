package email

import (
	"context"
	"strings"
	"testing"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig_WithoutSMTPFailsToSend(t *testing.T) {
	provider := NewFromConfig(config.Config{})

	err := provider.Send(context.Background(),
		[]string{"asiakas@example.fi"}, "Lasku 104", "<p>liitteenä lasku</p>",
		Attachment{Filename: "lasku-104.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewFromConfig_WithSMTPHost(t *testing.T) {
	provider := NewFromConfig(config.Config{SMTPHost: "smtp.example.fi", SMTPPort: 587})
	_, ok := provider.(*SMTPProvider)
	assert.True(t, ok)
}

func TestBuildMessage_WithAttachment(t *testing.T) {
	msg, err := buildMessage("laskutus@example.fi", []string{"asiakas@example.fi"},
		"Lasku 104", "<p>Hei</p>",
		[]Attachment{{Filename: "lasku-104.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}})
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "multipart/mixed")
	assert.Contains(t, body, `filename="lasku-104.pdf"`)
	assert.Contains(t, body, "application/pdf")
	assert.Contains(t, body, "Content-Transfer-Encoding: base64")
	assert.Contains(t, body, "<p>Hei</p>")
}

func TestBuildMessage_WithoutAttachment(t *testing.T) {
	msg, err := buildMessage("laskutus@example.fi", []string{"asiakas@example.fi"},
		"Tervetuloa", "<p>Hei</p>", nil)
	require.NoError(t, err)

	body := string(msg)
	assert.False(t, strings.Contains(body, "multipart/mixed"))
	assert.Contains(t, body, "text/html")
	assert.Contains(t, body, "<p>Hei</p>")
}
