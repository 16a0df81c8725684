// Package mail holds the in-process stand-in for the external mail
// transport. Real delivery (SMTP, provider API) is a collaborator outside
// this repository; LogMailer keeps the contract observable in development.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/learnly/course-platform/internal/core/ports"
)

// LogMailer writes every message to the structured log instead of sending it.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, mail ports.Mail) error {
	m.log.Info().
		Str("to", mail.To).
		Str("subject", mail.Subject).
		Msg("mail delivered (log transport)")
	return nil
}
