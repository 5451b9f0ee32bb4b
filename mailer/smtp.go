package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Notifier dispatches named notifications, mirroring the collaborator
// contract's notify(request, name, **kwargs) hook (spec.md §6).
type Notifier interface {
	Notify(ctx context.Context, name string, args map[string]string) error
}

// Template renders a named notification into a subject/body pair. Callers
// register one per notification name (e.g. "forgot_password").
type Template func(args map[string]string) Message

// SMTP sends notifications over net/smtp. When Debug is set it logs the
// rendered message's name, recipient and subject instead of dialing out,
// matching the DEBUG_NOTIFICATIONS
// configuration key (spec.md §6).
type SMTP struct {
	Server string
	Port   int
	Sender string
	Auth   smtp.Auth

	Debug  bool
	Logger *zap.Logger

	templates map[string]Template
}

// NewSMTP builds an SMTP notifier for the given server/port/sender. auth may
// be nil for unauthenticated relays (e.g. local mailhog/mailcatcher setups).
func NewSMTP(server string, port int, sender string, auth smtp.Auth, logger *zap.Logger) *SMTP {
	return &SMTP{
		Server:    server,
		Port:      port,
		Sender:    sender,
		Auth:      auth,
		Logger:    logger,
		templates: make(map[string]Template),
	}
}

// Register binds a Template to a notification name. Registering the same
// name twice replaces the previous template.
func (s *SMTP) Register(name string, tmpl Template) {
	s.templates[name] = tmpl
}

// Notify renders the template for name and sends it to args["to"]. An
// unregistered name is a no-op: unrecognized notifications are dropped
// rather than failing the request that triggered them, since notification
// delivery is best-effort relative to the storage transaction that
// produced it (spec.md §5's suspension-point note on external notifications).
func (s *SMTP) Notify(ctx context.Context, name string, args map[string]string) error {
	tmpl, ok := s.templates[name]
	if !ok {
		return nil
	}
	msg := tmpl(args)
	if msg.To == "" {
		msg.To = args["to"]
	}

	body, err := msg.Build(s.Sender)
	if err != nil {
		return err
	}

	if s.Debug {
		if s.Logger != nil {
			s.Logger.Info("debug notification suppressed",
				zap.String("name", name),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
			)
		}
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.Server, s.Port)
	if err := smtp.SendMail(addr, s.Auth, s.Sender, []string{msg.To}, body); err != nil {
		return fmt.Errorf("mailer: send %q to %s: %w", name, msg.To, err)
	}
	return nil
}
