package notifications

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/0xPuncker/cronmail/internal/crontab"
	"github.com/0xPuncker/cronmail/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type NotificationService struct {
	slackService *SlackService
	logger       *logrus.Logger
}

// NewNotificationService returns a service that silently does nothing when slack is nil.
func NewNotificationService(slackService *SlackService, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		slackService: slackService,
		logger:       logger,
	}
}

// NotifyInstall reports an install attempt. Delivery errors are logged, never returned,
// so a broken webhook cannot change the outcome of an install.
func (s *NotificationService) NotifyInstall(def crontab.TaskDefinition, result crontab.Result, nextRuns []time.Time) {
	if s == nil || s.slackService == nil {
		return
	}

	message := s.formatInstallNotification(def, result, nextRuns, time.Now())
	if err := s.slackService.SendSlackMessage(message); err != nil {
		s.logger.Warnf("Failed to send Slack notification: %v", err)
	}
}

func (s *NotificationService) formatInstallNotification(def crontab.TaskDefinition, result crontab.Result, nextRuns []time.Time, now time.Time) *SlackMessage {
	status := "installed"
	color := "good"
	icon := "✅"
	if !result.Installed {
		status = "failed"
		color = "danger"
		icon = "❌"
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	fields := []Field{
		{
			Title: "Schedule",
			Value: def.Schedule,
			Short: true,
		},
		{
			Title: "Recipient",
			Value: def.Email,
			Short: true,
		},
		{
			Title: "Attachment",
			Value: def.File,
			Short: false,
		},
	}

	if len(nextRuns) > 0 {
		runs := make([]string, len(nextRuns))
		for i, run := range nextRuns {
			runs[i] = fmt.Sprintf("%s (in %s)", run.Format(time.RFC1123), utils.FormatDuration(run.Sub(now)))
		}
		fields = append(fields, Field{
			Title: "Next Runs",
			Value: strings.Join(runs, "\n"),
			Short: false,
		})
	}

	if result.Err != nil {
		fields = append(fields, Field{
			Title: "Error",
			Value: result.Err.Error(),
			Short: false,
		})
	}

	return &SlackMessage{
		Text: fmt.Sprintf("%s Cron Job %s", icon, cases.Title(language.English).String(status)),
		Attachments: []Attachment{
			{
				Color:  color,
				Text:   result.Line,
				Fields: fields,
				Footer: fmt.Sprintf("Host: %s", host),
				Ts:     now.Unix(),
			},
		},
	}
}
