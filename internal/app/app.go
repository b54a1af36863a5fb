package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/backupnotify/internal/adapter/fsadapter"
	"github.com/jgivc/backupnotify/internal/adapter/mailadapter"
	"github.com/jgivc/backupnotify/internal/adapter/mdadapter"
	"github.com/jgivc/backupnotify/internal/adapter/slackadapter"
	"github.com/jgivc/backupnotify/internal/adapter/tpladapter"
	"github.com/jgivc/backupnotify/internal/common"
	"github.com/jgivc/backupnotify/internal/config"
	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/service/check"
	"github.com/jgivc/backupnotify/internal/service/notify"
	"github.com/jgivc/backupnotify/internal/storage/backup"
	"github.com/jgivc/backupnotify/internal/util"
	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"
)

const (
	HeaderRun         = "X-Backupnotify-Run"
	HeaderFingerprint = "X-Backupnotify-Fingerprint"
)

type Renderer interface {
	Render(report *entity.Report) (string, string, error)
}

type NoteLoader interface {
	Load(fileName string) (*entity.Note, error)
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

type App struct {
	cfg *config.Config

	fs      afero.Fs
	clock   check.Clock
	senders []notify.Sender

	checker  *check.CheckService
	renderer Renderer
	notes    NoteLoader
	notifier *notify.NotifyService

	log *slog.Logger
}

type Option func(*App)

func WithFS(fs afero.Fs) Option {
	return func(a *App) {
		a.fs = fs
	}
}

func WithClock(clock check.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithSenders replaces the senders built from the config.
func WithSenders(senders ...notify.Sender) Option {
	return func(a *App) {
		a.senders = senders
	}
}

// NewLogger builds the text logger used by the command line.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownLogLevel, level)
	}

	return slog.New(slog.NewTextHandler(w, lo)), nil
}

// New wires every component for cfg. It neither scans nor sends anything.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:   cfg,
		fs:    afero.NewOsFs(),
		clock: systemClock{},
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		log, err := NewLogger(cfg.LogLevel, os.Stderr)
		if err != nil {
			return nil, err
		}

		a.log = log
	}

	policy, err := fsadapter.NewPolicy(cfg.Scan.Policy, cfg.Scan.DateLayout)
	if err != nil {
		return nil, err
	}

	fsa := fsadapter.NewFSAdapterWithFS(a.fs, policy, a.log)
	store := backup.NewBackupStorage(fsa, cfg.Scan.Dir, a.log)
	a.checker = check.NewCheckService(store, a.clock, cfg.Scan.Threshold(), a.log)

	a.renderer, err = tpladapter.NewTplAdapter(a.fs, cfg.Report.TextTemplate, cfg.Report.HTMLTemplate)
	if err != nil {
		return nil, err
	}

	if cfg.Report.NoteFile != "" {
		a.notes = mdadapter.NewNoteAdapter(a.fs, a.log)
	}

	if a.senders == nil {
		a.senders = append(a.senders, mailadapter.NewMailAdapter(cfg.SMTP, a.log))

		if cfg.Slack.Enabled() {
			a.senders = append(a.senders, slackadapter.NewSlackAdapter(cfg.Slack, a.log))
		}
	}

	a.notifier = notify.NewNotifyService(a.log, a.senders...)

	return a, nil
}

// Run scans, aggregates and renders the report without sending it.
func (a *App) Run(ctx context.Context) (string, string, error) {
	_, text, html, err := a.run(ctx, a.log.With(slog.String("run_id", uuid.NewString())))

	return text, html, err
}

// Notify runs the check and sends the report, also when nothing is
// outdated unless mail.skip_when_empty is set.
func (a *App) Notify(ctx context.Context) error {
	runID := uuid.NewString()
	log := a.log.With(slog.String("run_id", runID))

	report, text, html, err := a.run(ctx, log)
	if err != nil {
		return err
	}

	if report.IsEmpty() && a.cfg.Mail.SkipWhenEmpty {
		log.Info("All backups are up to date")

		return nil
	}

	msg := &entity.Message{
		From:    a.cfg.Mail.From,
		To:      a.cfg.Mail.To,
		Subject: a.subject(report),
		Text:    text,
		HTML:    html,
		Headers: map[string]string{
			HeaderRun:         runID,
			HeaderFingerprint: util.Fingerprint(text),
		},
	}

	if err := a.notifier.Notify(ctx, msg); err != nil {
		return err
	}

	log.Info("Report sent", slog.Int("outdated", len(report.Directories)), slog.String("to", msg.To))

	return nil
}

// Schedule calls Notify on every tick of the standard cron expression spec
// until ctx is done. A failed tick is logged and does not stop the schedule.
func (a *App) Schedule(ctx context.Context, spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := a.Notify(ctx); err != nil {
			a.log.Error("Scheduled run failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("cannot schedule: %w", err)
	}

	a.log.Info("Start schedule", slog.String("cron", spec))
	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	a.log.Info("Schedule stopped")

	return nil
}

func (a *App) run(ctx context.Context, log *slog.Logger) (*entity.Report, string, string, error) {
	report, err := a.checker.Check(ctx)
	if err != nil {
		return nil, "", "", err
	}

	report.Hostname = a.cfg.Mail.Hostname

	if a.notes != nil {
		note, err := a.notes.Load(a.cfg.Report.NoteFile)
		if err != nil {
			return nil, "", "", err
		}

		report.Note = note
	}

	text, html, err := a.renderer.Render(report)
	if err != nil {
		return nil, "", "", fmt.Errorf("cannot render report: %w", err)
	}

	log.Debug("Report rendered", slog.Int("outdated", len(report.Directories)), slog.Int("groups", len(report.AgeGroups)))

	return report, text, html, nil
}

func (a *App) subject(report *entity.Report) string {
	if report.Note != nil && report.Note.Subject != "" {
		return report.Note.Subject
	}

	if report.Hostname != "" {
		return fmt.Sprintf("%s on %s", a.cfg.Mail.Subject, report.Hostname)
	}

	return a.cfg.Mail.Subject
}
