package utils

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_SendContact(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{
		Host:     "smtp.example.com",
		Username: "shop",
		Password: "pw",
		From:     "shop@silkstitch.com",
		To:       "hello@silkstitch.com",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		assert.NotNil(t, a)
		return nil
	}

	err := mailer.SendContact(context.Background(), ContactEmail{
		Name:    "Mina <script>",
		Email:   "mina@example.com\r\nBcc: spam@example.com",
		Subject: "Sizing\nquestion",
		Message: "Does the blazer run large?",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@silkstitch.com", gotFrom)
	assert.Equal(t, []string{"hello@silkstitch.com"}, gotTo)
	headers, body, found := strings.Cut(gotMsg, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "Subject: [Contact] Sizing question\r\n")
	assert.Contains(t, headers, "Reply-To: mina@example.com  Bcc: spam@example.com\r\n")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.NotContains(t, body, "\r\nBcc:")
	assert.NotContains(t, body, "\nBcc:")
	assert.Contains(t, gotMsg, "Does the blazer run large?")
	assert.Contains(t, gotMsg, "Mina &lt;script&gt;")
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "h", Port: "25", From: "a@b.c", To: "d@e.f"})
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := mailer.SendContact(context.Background(), ContactEmail{Subject: "x"})
	assert.ErrorContains(t, err, "failed to send email")
}

func TestSMTPConfig_Enabled(t *testing.T) {
	assert.False(t, SMTPConfig{}.Enabled())
	assert.True(t, SMTPConfig{Host: "h", From: "a", To: "b"}.Enabled())
}
