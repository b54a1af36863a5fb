package slackadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jgivc/backupnotify/internal/config"
	"github.com/jgivc/backupnotify/internal/entity"
)

const (
	senderName = "slack"

	defaultUsername  = "BackupsBot"
	defaultIconEmoji = ":card_file_box:"

	requestTimeout = 10 * time.Second
)

type webhook struct {
	Channel   string `json:"channel,omitempty"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	IconEmoji string `json:"icon_emoji"`
}

type slackAdapter struct {
	cfg    config.SlackConfig
	client *http.Client
	log    *slog.Logger
}

func NewSlackAdapter(cfg config.SlackConfig, log *slog.Logger) *slackAdapter {
	if cfg.Username == "" {
		cfg.Username = defaultUsername
	}

	if cfg.IconEmoji == "" {
		cfg.IconEmoji = defaultIconEmoji
	}

	return &slackAdapter{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
		log:    log.With(slog.String("item", "SlackAdapter")),
	}
}

func (a *slackAdapter) Name() string {
	return senderName
}

// Send posts the subject and the plain text report to the incoming webhook.
func (a *slackAdapter) Send(ctx context.Context, msg *entity.Message) error {
	payload, err := json.Marshal(&webhook{
		Channel:   a.cfg.Channel,
		Username:  a.cfg.Username,
		Text:      fmt.Sprintf("*%s*\n```\n%s```", msg.Subject, msg.Text),
		IconEmoji: a.cfg.IconEmoji,
	})
	if err != nil {
		return fmt.Errorf("cannot marshal webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("cannot create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Error("Cannot post webhook", slog.Any("error", err))

		return fmt.Errorf("cannot post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	a.log.Info("Webhook posted", slog.String("channel", a.cfg.Channel))

	return nil
}
