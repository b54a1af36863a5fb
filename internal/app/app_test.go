package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jgivc/backupnotify/internal/common"
	"github.com/jgivc/backupnotify/internal/config"
	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []*entity.Message
}

func (s *fakeSender) Name() string {
	return "fake"
}

func (s *fakeSender) Send(_ context.Context, msg *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, msg)

	return s.err
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sent)
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Scan.Dir = "/backups"
	cfg.Mail.To = "ops@example.com"

	return cfg
}

func testFS(t *testing.T, now time.Time) afero.Fs {
	return testutil.MakeFS(t, []string{"/backups/C"},
		&testutil.TestFile{Path: "/backups/A/a.tar", Content: "a", ModTime: now},
		&testutil.TestFile{Path: "/backups/B/b.tar", Content: "b", ModTime: now.Add(-10 * day)},
	)
}

func newTestApp(t *testing.T, cfg *config.Config, fs afero.Fs, sender *fakeSender) *App {
	t.Helper()

	a, err := New(cfg,
		WithFS(fs),
		WithClock(testutil.FixedClock()),
		WithLogger(testutil.DiscardLogger()),
		WithSenders(sender),
	)
	require.NoError(t, err)

	return a
}

func TestRun(t *testing.T) {
	now := testutil.FixedClock().Now()
	sender := &fakeSender{}

	cfg := testConfig()
	cfg.Mail.Hostname = "backup01"

	text, html, err := newTestApp(t, cfg, testFS(t, now), sender).Run(context.Background())
	require.NoError(t, err)

	require.Contains(t, text, "---Outdated backups on backup01---")
	require.Contains(t, text, "Last updated never: C")
	require.Contains(t, text, "Last updated 10 days ago: B")
	require.Contains(t, text, "<empty directory>")
	require.NotContains(t, text, "---A---")
	require.Contains(t, html, "&lt;empty directory&gt;")

	require.Zero(t, sender.count(), "run does not send")
}

func TestNotify(t *testing.T) {
	now := testutil.FixedClock().Now()

	testCases := []struct {
		name            string
		hostname        string
		note            string
		expectedSubject string
	}{
		{
			name:            "Default subject",
			expectedSubject: config.DefaultSubject,
		},
		{
			name:            "Subject with hostname",
			hostname:        "backup01",
			expectedSubject: "Backups out of date on backup01",
		},
		{
			name:            "Subject from note",
			hostname:        "backup01",
			note:            "---\nsubject: NAS backups are late\n---\nCall the storage team.\n",
			expectedSubject: "NAS backups are late",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := testFS(t, now)

			cfg := testConfig()
			cfg.Mail.Hostname = tc.hostname
			if tc.note != "" {
				cfg.Report.NoteFile = "/etc/backupnotify/note.md"
				require.NoError(t, afero.WriteFile(fs, cfg.Report.NoteFile, []byte(tc.note), 0o644))
			}

			sender := &fakeSender{}
			require.NoError(t, newTestApp(t, cfg, fs, sender).Notify(context.Background()))

			require.Equal(t, 1, sender.count())
			msg := sender.sent[0]
			require.Equal(t, tc.expectedSubject, msg.Subject)
			require.Equal(t, config.DefaultFrom, msg.From)
			require.Equal(t, "ops@example.com", msg.To)
			require.NotEmpty(t, msg.Headers[HeaderRun])
			require.Len(t, msg.Headers[HeaderFingerprint], 40)

			if tc.note != "" {
				require.Contains(t, msg.Text, "Call the storage team.")
				require.Contains(t, msg.HTML, "<p>Call the storage team.</p>")
			}
		})
	}
}

func TestNotifyNothingOutdated(t *testing.T) {
	now := testutil.FixedClock().Now()
	fs := testutil.MakeFS(t, nil, &testutil.TestFile{Path: "/backups/A/a.tar", ModTime: now})

	sender := &fakeSender{}
	require.NoError(t, newTestApp(t, testConfig(), fs, sender).Notify(context.Background()))
	require.Equal(t, 1, sender.count(), "an empty report is still sent")
	require.Equal(t, config.DefaultSubject, sender.sent[0].Subject)
	require.Contains(t, sender.sent[0].Text, "---Outdated backups---")
	require.NotContains(t, sender.sent[0].Text, "Last updated")

	cfg := testConfig()
	cfg.Mail.SkipWhenEmpty = true

	skipped := &fakeSender{}
	require.NoError(t, newTestApp(t, cfg, fs, skipped).Notify(context.Background()))
	require.Zero(t, skipped.count())
}

func TestNotifyErrors(t *testing.T) {
	now := testutil.FixedClock().Now()
	errRefused := errors.New("connection refused")

	err := newTestApp(t, testConfig(), testFS(t, now), &fakeSender{err: errRefused}).Notify(context.Background())
	require.ErrorIs(t, err, errRefused)

	err = newTestApp(t, testConfig(), testutil.MakeFS(t, nil), &fakeSender{}).Notify(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidScanRoot)

	cfg := testConfig()
	cfg.Report.NoteFile = "/etc/backupnotify/missing.md"
	err = newTestApp(t, cfg, testFS(t, now), &fakeSender{}).Notify(context.Background())
	require.Error(t, err)
}

func TestNewErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Scan.Policy = "ctime"

	_, err := New(cfg, WithFS(afero.NewMemMapFs()), WithLogger(testutil.DiscardLogger()))
	require.ErrorIs(t, err, common.ErrUnknownPolicy)

	cfg = testConfig()
	cfg.Report.TextTemplate = "/missing.txt"

	_, err = New(cfg, WithFS(afero.NewMemMapFs()), WithLogger(testutil.DiscardLogger()))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewLogger(config.LogLevelError, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Error("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	_, err = NewLogger("verbose", &buf)
	require.ErrorIs(t, err, common.ErrUnknownLogLevel)
}

func TestSchedule(t *testing.T) {
	now := testutil.FixedClock().Now()
	sender := &fakeSender{err: errors.New("connection refused")}
	a := newTestApp(t, testConfig(), testFS(t, now), sender)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Schedule(ctx, "@every 1s")
	}()

	// Failing ticks keep the schedule running.
	require.Eventually(t, func() bool {
		return sender.count() >= 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("schedule did not stop")
	}
}

func TestScheduleInvalid(t *testing.T) {
	a := newTestApp(t, testConfig(), afero.NewMemMapFs(), &fakeSender{})

	err := a.Schedule(context.Background(), "not a cron")
	require.Error(t, err)
}
