// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers plain-text transactional mail.

Two [Sender] implementations exist:

  - [SMTPSender]: go-mail client talking to a relay (production).
  - [LogSender]: writes the message to the structured log (local development).

Delivery is synchronous. A returned error means the message was not accepted
by the relay and the caller must report the failure.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP

// SMTPOptions configures [NewSMTPSender].
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender sends through an SMTP relay, upgrading to TLS when offered.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender builds the client. No connection is opened until [SMTPSender.Send].
func NewSMTPSender(options SMTPOptions) (*SMTPSender, error) {
	clientOptions := []mail.Option{
		mail.WithPort(options.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if options.Timeout > 0 {
		clientOptions = append(clientOptions, mail.WithTimeout(options.Timeout))
	}
	if options.Username != "" {
		clientOptions = append(clientOptions,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(options.Username),
			mail.WithPassword(options.Password),
		)
	}

	client, err := mail.NewClient(options.Host, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid smtp settings: %w", err)
	}

	return &SMTPSender{client: client, from: options.From}, nil
}

// Send dials the relay, delivers the message and closes the connection.
func (sender *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewMsg()
	if err := message.From(sender.from); err != nil {
		return fmt.Errorf("mailer: invalid sender address: %w", err)
	}
	if err := message.To(to); err != nil {
		return fmt.Errorf("mailer: invalid recipient address: %w", err)
	}
	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, body)

	if err := sender.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mailer: smtp delivery failed: %w", err)
	}
	return nil
}

// # Development

// LogSender logs every message instead of sending it.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a [LogSender] writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send never fails.
func (sender *LogSender) Send(ctx context.Context, to, subject, body string) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
