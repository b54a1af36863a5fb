package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/backupnotify/internal/app"
	"github.com/jgivc/backupnotify/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the optional config file and lets command line flags
// override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(config.EnvFileName); err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	cfg := config.NewConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(afero.NewOsFs(), path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	// Flags override the file only when given.
	if flags.Changed("dir") {
		cfg.Scan.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("age") {
		cfg.Scan.AgeDays, _ = flags.GetInt("age")
	}
	if flags.Changed("policy") {
		cfg.Scan.Policy, _ = flags.GetString("policy")
	}
	if flags.Changed("to") {
		cfg.Mail.To, _ = flags.GetString("to")
	}
	if flags.Changed("from") {
		cfg.Mail.From, _ = flags.GetString("from")
	}
	if flags.Changed("hostname") {
		cfg.Mail.Hostname, _ = flags.GetString("hostname")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app.App, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, cfg, nil
}

var rootCmd = &cobra.Command{
	Use:          "backupnotify",
	Short:        "Mail a report of backup directories that are out of date",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(cmd)
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			text, _, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), text)

			return nil
		}

		return a.Notify(cmd.Context())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Send the report on a cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := newApp(cmd)
		if err != nil {
			return err
		}

		spec := cfg.Schedule.Cron
		if cmd.Flags().Changed("cron") {
			spec, _ = cmd.Flags().GetString("cron")
		}

		if spec == "" {
			return fmt.Errorf("a cron expression is required")
		}

		return a.Schedule(cmd.Context(), spec)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

// addFlags declares the flags shared by every command on cmd.
func addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML or TOML config file")
	flags.StringP("dir", "d", "", "The directory to scan for backups")
	flags.IntP("age", "a", config.DefaultAgeDays, "Alert when no backups newer than X days are present")
	flags.StringP("to", "t", "", "The email address to send reports to")
	flags.StringP("from", "f", config.DefaultFrom, "The email address to send reports from")
	flags.String("hostname", "", "Host name shown in the report heading and subject")
	flags.String("policy", config.PolicyMTime, "How entry timestamps are read: mtime or filename")
	flags.String("log-level", config.LogLevelError, "Log level: debug, info, warn or error")
}

func init() {
	addFlags(rootCmd)

	rootCmd.Flags().Bool("dry-run", false, "Print the text report instead of sending it")

	scheduleCmd.Flags().String("cron", "", "Standard five field cron expression")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
}
