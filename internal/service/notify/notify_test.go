package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/testutil"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name string
	err  error
	sent []*entity.Message
}

func (s *fakeSender) Name() string {
	return s.name
}

func (s *fakeSender) Send(_ context.Context, msg *entity.Message) error {
	if s.err != nil {
		return s.err
	}

	s.sent = append(s.sent, msg)

	return nil
}

func TestNotify(t *testing.T) {
	mail := &fakeSender{name: "mail"}
	slack := &fakeSender{name: "slack"}
	srv := NewNotifyService(testutil.DiscardLogger(), mail, slack)

	msg := &entity.Message{Subject: "Backups out of date"}
	require.NoError(t, srv.Notify(context.Background(), msg))

	require.Equal(t, []*entity.Message{msg}, mail.sent)
	require.Equal(t, []*entity.Message{msg}, slack.sent)
}

func TestNotifyStopsOnFirstError(t *testing.T) {
	errRefused := errors.New("connection refused")

	mail := &fakeSender{name: "mail", err: errRefused}
	slack := &fakeSender{name: "slack"}
	srv := NewNotifyService(testutil.DiscardLogger(), mail, slack)

	err := srv.Notify(context.Background(), &entity.Message{})
	require.ErrorIs(t, err, errRefused)
	require.ErrorContains(t, err, "mail")
	require.Empty(t, slack.sent)
}

func TestNotifyCancelled(t *testing.T) {
	mail := &fakeSender{name: "mail"}
	srv := NewNotifyService(testutil.DiscardLogger(), mail)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, srv.Notify(ctx, &entity.Message{}), context.Canceled)
	require.Empty(t, mail.sent)
}
