// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rosterproj/roster-mcp/internal/config"
)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.org",
		Port:     465,
		Username: "roster@example.org",
		To:       []string{"ops@example.org", "chief@example.org"},
	}
}

func TestSMTPNotifier_Message(t *testing.T) {
	n := NewSMTPNotifier(smtpConfig())
	msg := string(n.message("Duty schedule update failed", "line one\nline two", time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)))

	assert.True(t, strings.HasPrefix(msg, "From: roster@example.org\r\n"))
	assert.Contains(t, msg, "To: ops@example.org, chief@example.org\r\n")
	assert.Contains(t, msg, "Subject: Duty schedule update failed\r\n")
	assert.Contains(t, msg, "\r\n\r\nline one\r\nline two\r\n")
}

func TestSMTPNotifier_Notify(t *testing.T) {
	n := NewSMTPNotifier(smtpConfig())
	var gotAddr string
	n.send = func(_ context.Context, addr string, _ []byte) error {
		gotAddr = addr
		return nil
	}
	require.NoError(t, n.Notify(context.Background(), "s", "b"))
	assert.Equal(t, "smtp.example.org:465", gotAddr)

	n.send = func(context.Context, string, []byte) error { return errors.New("connection refused") }
	err := n.Notify(context.Background(), "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	n := NewLogNotifier(zap.New(core))
	require.NoError(t, n.Notify(context.Background(), "Duty schedule update failed", "boom"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Duty schedule update failed", entries[0].Message)
	assert.Equal(t, "boom", entries[0].ContextMap()["body"])
}

func TestFromConfig(t *testing.T) {
	_, isLog := FromConfig(config.NotifyConfig{}, nil).(*LogNotifier)
	assert.True(t, isLog)

	_, isSMTP := FromConfig(config.NotifyConfig{SMTP: smtpConfig()}, nil).(*SMTPNotifier)
	assert.True(t, isSMTP)
}
