package config

import (
	"fmt"
	"time"

	"github.com/jgivc/backupnotify/internal/common"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	PolicyMTime    = "mtime"
	PolicyFilename = "filename"

	TLSNone          = "none"
	TLSOpportunistic = "opportunistic"
	TLSMandatory     = "mandatory"

	DefaultAgeDays    = 1
	DefaultFrom       = "test@example.com"
	DefaultSubject    = "Backups out of date"
	DefaultDateLayout = "02-01-2006" // day-month-year, kept as the existing backups name their files
	DefaultSMTPHost   = "localhost"
	DefaultSMTPPort   = 25

	day = 24 * time.Hour
)

type ScanConfig struct {
	Dir        string `yaml:"dir" toml:"dir"`
	AgeDays    int    `yaml:"age_days" toml:"age_days"`
	Policy     string `yaml:"policy" toml:"policy"`           // "mtime" or "filename"
	DateLayout string `yaml:"date_layout" toml:"date_layout"` // only used with the filename policy
}

// Threshold is the age after which a backup directory is reported.
func (c *ScanConfig) Threshold() time.Duration {
	return time.Duration(c.AgeDays) * day
}

type MailConfig struct {
	From          string `yaml:"from" toml:"from"`
	To            string `yaml:"to" toml:"to"`
	Subject       string `yaml:"subject" toml:"subject"`
	Hostname      string `yaml:"hostname" toml:"hostname"`
	SkipWhenEmpty bool   `yaml:"skip_when_empty" toml:"skip_when_empty"` // no mail when nothing is outdated
}

type SMTPConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
	TLS      string `yaml:"tls" toml:"tls"` // "none", "opportunistic", "mandatory"
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" toml:"webhook_url"`
	Channel    string `yaml:"channel" toml:"channel"`
	Username   string `yaml:"username" toml:"username"`
	IconEmoji  string `yaml:"icon_emoji" toml:"icon_emoji"`
}

func (c *SlackConfig) Enabled() bool {
	return c.WebhookURL != ""
}

type ReportConfig struct {
	TextTemplate string `yaml:"text_template" toml:"text_template"`
	HTMLTemplate string `yaml:"html_template" toml:"html_template"`
	NoteFile     string `yaml:"note_file" toml:"note_file"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron" toml:"cron"`
}

type Config struct {
	LogLevel string         `yaml:"log_level" toml:"log_level"`
	Scan     ScanConfig     `yaml:"scan" toml:"scan"`
	Mail     MailConfig     `yaml:"mail" toml:"mail"`
	SMTP     SMTPConfig     `yaml:"smtp" toml:"smtp"`
	Slack    SlackConfig    `yaml:"slack" toml:"slack"`
	Report   ReportConfig   `yaml:"report" toml:"report"`
	Schedule ScheduleConfig `yaml:"schedule" toml:"schedule"`
}

// NewConfig returns a config holding every default. Unlike SetDefaults it
// also sets scan.age_days, where zero is a valid value.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Scan.AgeDays = DefaultAgeDays
	cfg.SetDefaults()

	return cfg
}

// SetDefaults fills every empty field that has a default.
func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = LogLevelError
	}

	if c.Scan.Policy == "" {
		c.Scan.Policy = PolicyMTime
	}

	if c.Scan.DateLayout == "" {
		c.Scan.DateLayout = DefaultDateLayout
	}

	if c.Mail.From == "" {
		c.Mail.From = DefaultFrom
	}

	if c.Mail.Subject == "" {
		c.Mail.Subject = DefaultSubject
	}

	if c.SMTP.Host == "" {
		c.SMTP.Host = DefaultSMTPHost
	}

	if c.SMTP.Port == 0 {
		c.SMTP.Port = DefaultSMTPPort
	}

	if c.SMTP.TLS == "" {
		c.SMTP.TLS = TLSNone
	}
}

func (c *Config) Validate() error {
	if c.Scan.Dir == "" {
		return common.ErrScanDirRequired
	}

	if c.Scan.AgeDays < 0 {
		return fmt.Errorf("%w: %d", common.ErrInvalidAge, c.Scan.AgeDays)
	}

	switch c.Scan.Policy {
	case PolicyMTime, PolicyFilename:
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownPolicy, c.Scan.Policy)
	}

	if c.Mail.To == "" {
		return common.ErrRecipientRequired
	}

	if c.Mail.From == "" {
		return common.ErrSenderRequired
	}

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownLogLevel, c.LogLevel)
	}

	switch c.SMTP.TLS {
	case TLSNone, TLSOpportunistic, TLSMandatory:
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknownTLSPolicy, c.SMTP.TLS)
	}

	return nil
}
