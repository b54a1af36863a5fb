package mailadapter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jgivc/backupnotify/internal/config"
	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func testMessage() *entity.Message {
	return &entity.Message{
		From:    "backup@example.com",
		To:      "ops@example.com",
		Subject: "Backups out of date on backup01",
		Text:    "---Outdated backups on backup01---\n",
		HTML:    "<h3>Outdated backups on backup01</h3>\n",
		Headers: map[string]string{
			"X-Backupnotify-Run":         "7d444840-9dc0-11d1-b245-5ffdce74fad2",
			"X-Backupnotify-Fingerprint": "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3",
		},
	}
}

func TestBuildMessage(t *testing.T) {
	m, err := BuildMessage(testMessage())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	require.Contains(t, raw, "Subject: Backups out of date on backup01")
	require.Contains(t, raw, "<backup@example.com>")
	require.Contains(t, raw, "<ops@example.com>")
	require.Contains(t, raw, "X-Backupnotify-Run: 7d444840-9dc0-11d1-b245-5ffdce74fad2")
	require.Contains(t, raw, "X-Backupnotify-Fingerprint: a94a8fe5ccb19ba61c4c0873d391e987982fbbd3")
	require.Contains(t, raw, "multipart/alternative")

	plain := strings.Index(raw, "Content-Type: text/plain")
	html := strings.Index(raw, "Content-Type: text/html")
	require.NotEqual(t, -1, plain)
	require.NotEqual(t, -1, html)
	require.Less(t, plain, html, "text part goes first")
}

func TestBuildMessageInvalidAddress(t *testing.T) {
	msg := testMessage()
	msg.To = "not an address"

	_, err := BuildMessage(msg)
	require.Error(t, err)

	msg = testMessage()
	msg.From = ""

	_, err = BuildMessage(msg)
	require.Error(t, err)
}

func TestTLSPolicy(t *testing.T) {
	require.Equal(t, mail.NoTLS, tlsPolicy(config.TLSNone))
	require.Equal(t, mail.TLSOpportunistic, tlsPolicy(config.TLSOpportunistic))
	require.Equal(t, mail.TLSMandatory, tlsPolicy(config.TLSMandatory))
}

func TestSendUnreachable(t *testing.T) {
	adapter := NewMailAdapter(config.SMTPConfig{
		Host: "127.0.0.1",
		Port: 1,
		TLS:  config.TLSNone,
	}, testutil.DiscardLogger())

	err := adapter.Send(context.Background(), testMessage())
	require.Error(t, err)
}
