// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer_test

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/mailer"
)

/*
TestLogSender writes the message to the log and never fails.
*/
func TestLogSender(t *testing.T) {
	var buffer bytes.Buffer
	sender := mailer.NewLogSender(slog.New(slog.NewJSONHandler(&buffer, nil)))

	require.NoError(t, sender.Send(context.Background(), "reader@example.com", "Your code", "abc123"))

	assert.Contains(t, buffer.String(), `"msg":"mail_logged"`)
	assert.Contains(t, buffer.String(), `"to":"reader@example.com"`)
	assert.Contains(t, buffer.String(), `"body":"abc123"`)
}

/*
TestSMTPSender_Unreachable surfaces a dial failure as an error.
*/
func TestSMTPSender_Unreachable(t *testing.T) {
	// Reserve a free port, then release it so nothing is listening there
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	sender, err := mailer.NewSMTPSender(mailer.SMTPOptions{
		Host:    "127.0.0.1",
		Port:    port,
		From:    "noreply@critiq.app",
		Timeout: time.Second,
	})
	require.NoError(t, err)

	err = sender.Send(context.Background(), "reader@example.com", "Your code", "abc123")
	assert.ErrorContains(t, err, "smtp delivery failed")
}

/*
TestSMTPSender_InvalidRecipient fails before any connection is attempted.
*/
func TestSMTPSender_InvalidRecipient(t *testing.T) {
	sender, err := mailer.NewSMTPSender(mailer.SMTPOptions{Host: "127.0.0.1", Port: 25, From: "noreply@critiq.app"})
	require.NoError(t, err)

	err = sender.Send(context.Background(), "not an address", "Your code", "abc123")
	assert.ErrorContains(t, err, "invalid recipient")
}
