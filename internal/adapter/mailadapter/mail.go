package mailadapter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jgivc/backupnotify/internal/config"
	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/wneessen/go-mail"
)

const (
	senderName = "mail"
)

type mailAdapter struct {
	cfg config.SMTPConfig
	log *slog.Logger
}

func NewMailAdapter(cfg config.SMTPConfig, log *slog.Logger) *mailAdapter {
	return &mailAdapter{
		cfg: cfg,
		log: log.With(slog.String("item", "MailAdapter"), slog.String("smtp_host", cfg.Host)),
	}
}

func (a *mailAdapter) Name() string {
	return senderName
}

// Send delivers msg through the configured SMTP server. Nothing is retried.
func (a *mailAdapter) Send(ctx context.Context, msg *entity.Message) error {
	m, err := BuildMessage(msg)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return fmt.Errorf("cannot create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		a.log.Error("Cannot send mail", slog.String("to", msg.To), slog.Any("error", err))

		return fmt.Errorf("cannot send mail: %w", err)
	}

	a.log.Info("Mail sent", slog.String("to", msg.To), slog.String("subject", msg.Subject))

	return nil
}

func (a *mailAdapter) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(a.cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(a.cfg.TLS)),
	}

	if a.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(a.cfg.Username),
			mail.WithPassword(a.cfg.Password),
		)
	}

	return mail.NewClient(a.cfg.Host, opts...)
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case config.TLSMandatory:
		return mail.TLSMandatory
	case config.TLSOpportunistic:
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}

// BuildMessage turns msg into a multipart/alternative mail with the plain
// text part first.
func BuildMessage(msg *entity.Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("cannot set sender %q: %w", msg.From, err)
	}

	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("cannot set recipient %q: %w", msg.To, err)
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()

	// Stable header order.
	names := make([]string, 0, len(msg.Headers))
	for name := range msg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m.SetGenHeader(mail.Header(name), msg.Headers[name])
	}

	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	return m, nil
}
