package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgivc/backupnotify/internal/entity"
)

const (
	serviceName = "notify"
)

type Sender interface {
	Name() string
	Send(ctx context.Context, msg *entity.Message) error
}

type NotifyService struct {
	senders []Sender
	log     *slog.Logger
}

func NewNotifyService(log *slog.Logger, senders ...Sender) *NotifyService {
	return &NotifyService{
		senders: senders,
		log:     log.With(slog.String("service", serviceName)),
	}
}

// Notify hands msg to every sender in order and stops at the first failure.
func (s *NotifyService) Notify(ctx context.Context, msg *entity.Message) error {
	for _, sender := range s.senders {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := sender.Send(ctx, msg); err != nil {
			s.log.Error("Cannot notify", slog.String("sender", sender.Name()), slog.Any("error", err))

			return fmt.Errorf("cannot notify via %s: %w", sender.Name(), err)
		}

		s.log.Debug("Notified", slog.String("sender", sender.Name()))
	}

	return nil
}
