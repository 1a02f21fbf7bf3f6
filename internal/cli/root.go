package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/0xPuncker/cronmail/internal/config"
	"github.com/0xPuncker/cronmail/internal/crontab"
	"github.com/0xPuncker/cronmail/internal/notifications"
	"github.com/0xPuncker/cronmail/internal/prompt"
	"github.com/0xPuncker/cronmail/internal/validate"
	"github.com/0xPuncker/cronmail/pkg/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	successMessage = "Cronfile create successfully"
	failureMessage = "Hmm... looks like something failed, please try again"

	schedulePrompt = "Frequency of the cronjob (* * * * *): "
	emailPrompt    = "Recipient email (test@example.com): "
	filePrompt     = "File to attach to the email (/var/root): "
	confirmPrompt  = "This replaces your current crontab, do you want to continue? (Y/N) "

	previewRuns = 3
)

// App carries what the commands need from the outside world.
type App struct {
	Logger *logrus.Logger
	// Runner overrides the scheduler command runner; nil runs the real command.
	Runner crontab.Runner
	Now    func() time.Time
}

func NewApp(logger *logrus.Logger) *App {
	return &App{
		Logger: logger,
		Now:    time.Now,
	}
}

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cronmail",
		Short: "Install a cron job that mails a file on a schedule",
		Long: `Install a crontab entry that emails a file as an attachment on every trigger.
Values not given as flags, or given but invalid, are asked for interactively.

Installing replaces the current user's crontab.

Example:
  cronmail --freq "0 8 * * 1" --email ops@example.com --file /var/log/report.txt`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInstall(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("freq", "", "How often the cronjob runs (5 fields)")
	flags.String("email", "", "Address to send an email to")
	flags.String("file", "", "Location of a file to attach to an email")
	flags.StringP("config", "c", "", "Path to a JSON or YAML config file")
	flags.Bool("strict", false, "Reject schedules whose fields are out of range")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	root.Flags().Bool("dry-run", false, "Write and discard the task file without installing it")
	root.Flags().Bool("confirm", false, "Ask before replacing the current crontab")

	root.AddCommand(newRenderCommand(app))

	return root
}

func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("strict") {
		cfg.StrictSchedule, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("confirm") {
		cfg.Confirm, _ = cmd.Flags().GetBool("confirm")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	parsed, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	a.Logger.SetLevel(parsed)

	return cfg, nil
}

func jobFromFlags(cmd *cobra.Command, defaults types.Job) types.Job {
	schedule, _ := cmd.Flags().GetString("freq")
	email, _ := cmd.Flags().GetString("email")
	file, _ := cmd.Flags().GetString("file")
	return types.Job{Schedule: schedule, Email: email, File: file}.Merge(defaults)
}

func (a *App) runInstall(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	validators := validate.Default(cfg.StrictSchedule)
	job := jobFromFlags(cmd, cfg.Defaults)
	p := prompt.New(cmd.InOrStdin(), out)

	schedule, err := p.Acquire(schedulePrompt, job.Schedule, validators.Schedule)
	if err != nil {
		return err
	}
	email, err := p.Acquire(emailPrompt, job.Email, validators.Email)
	if err != nil {
		return err
	}
	file, err := p.Acquire(filePrompt, job.File, validators.File)
	if err != nil {
		return err
	}

	def, err := crontab.NewTaskDefinition(schedule, email, file, validators)
	if err != nil {
		// The file was valid a moment ago but is gone now.
		a.Logger.Errorf("Task rejected: %v", err)
		fmt.Fprintln(out, failureMessage)
		return nil
	}

	if cfg.Confirm && !dryRun {
		ok, err := p.Confirm(confirmPrompt)
		if err != nil {
			return err
		}
		if !ok {
			a.Logger.Info("Installation cancelled")
			return nil
		}
	}

	installer := crontab.NewInstaller(a.Logger, crontab.Options{
		Command: cfg.CrontabCommand,
		TempDir: cfg.TempDir,
		Subject: cfg.Mail.Subject,
		Body:    cfg.Mail.Body,
		DryRun:  dryRun,
		Runner:  a.Runner,
	})
	result := installer.Install(def)

	if result.Installed {
		fmt.Fprintln(out, successMessage)
	} else {
		fmt.Fprintln(out, failureMessage)
	}

	var nextRuns []time.Time
	if result.Installed && !dryRun {
		nextRuns = a.previewRuns(def.Schedule)
	}
	a.notifier(cfg).NotifyInstall(def, result, nextRuns)

	return nil
}

func (a *App) previewRuns(schedule string) []time.Time {
	runs, err := validate.NextRuns(schedule, a.Now(), previewRuns)
	if err != nil {
		a.Logger.Debugf("No run preview for %q: %v", schedule, err)
		return nil
	}
	for _, run := range runs {
		a.Logger.WithField("schedule", schedule).Infof("Next run at %s", run.Format(time.RFC3339))
	}
	return runs
}

func (a *App) notifier(cfg *config.Config) *notifications.NotificationService {
	if cfg.SlackWebhookURL == "" {
		return nil
	}
	slack, err := notifications.NewSlackService(a.Logger, cfg.SlackWebhookURL)
	if err != nil {
		a.Logger.Warnf("Failed to initialize Slack service: %v", err)
		return nil
	}
	return notifications.NewNotificationService(slack, a.Logger)
}

func newRenderCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the crontab line without installing it",
		Long: `Validate --freq, --email and --file and print the crontab line that would be
installed. Nothing is prompted for and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			job := jobFromFlags(cmd, cfg.Defaults)

			def, err := crontab.NewTaskDefinition(job.Schedule, job.Email, job.File, validate.Default(cfg.StrictSchedule))
			if err != nil {
				return err
			}
			def.Subject = cfg.Mail.Subject
			def.Body = cfg.Mail.Body

			_, err = io.WriteString(cmd.OutOrStdout(), def.Render()+"\n")
			return err
		},
	}
}
