package notifications

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0xPuncker/cronmail/internal/crontab"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewSlackServiceRequiresWebhook(t *testing.T) {
	_, err := NewSlackService(quietLogger(), "")
	assert.Error(t, err)
}

func TestNotifyInstallPostsMessage(t *testing.T) {
	received := make(chan SlackMessage, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg SlackMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	slack, err := NewSlackService(quietLogger(), server.URL)
	require.NoError(t, err)
	service := NewNotificationService(slack, quietLogger())

	def := crontab.TaskDefinition{Schedule: "0 9 * * 1", Email: "a@b.com", File: "/srv/report.pdf"}
	result := crontab.Result{Installed: true, Line: def.Render()}
	next := []time.Time{time.Now().Add(2 * time.Hour)}

	service.NotifyInstall(def, result, next)

	msg := <-received
	assert.Equal(t, "✅ Cron Job Installed", msg.Text)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "good", msg.Attachments[0].Color)
	assert.Equal(t, def.Render(), msg.Attachments[0].Text)
	assert.Len(t, msg.Attachments[0].Fields, 4)
}

func TestFormatFailedInstall(t *testing.T) {
	service := NewNotificationService(nil, quietLogger())
	def := crontab.TaskDefinition{Schedule: "* * * * *", Email: "a@b.com", File: "/tmp/x"}
	result := crontab.Result{Line: def.Render(), Err: errors.New("crontab reported: bad minute")}

	msg := service.formatInstallNotification(def, result, nil, time.Now())
	assert.Equal(t, "❌ Cron Job Failed", msg.Text)
	assert.Equal(t, "danger", msg.Attachments[0].Color)

	last := msg.Attachments[0].Fields[len(msg.Attachments[0].Fields)-1]
	assert.Equal(t, "Error", last.Title)
	assert.Equal(t, "crontab reported: bad minute", last.Value)
}

func TestNotifyInstallSwallowsDeliveryErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	slack, err := NewSlackService(quietLogger(), server.URL)
	require.NoError(t, err)

	err = slack.SendSlackMessage(&SlackMessage{Text: "hello"})
	assert.Error(t, err)

	assert.NotPanics(t, func() {
		NewNotificationService(slack, quietLogger()).NotifyInstall(crontab.TaskDefinition{}, crontab.Result{}, nil)
	})
}

func TestNotifyInstallWithoutSlack(t *testing.T) {
	var service *NotificationService
	assert.NotPanics(t, func() {
		service.NotifyInstall(crontab.TaskDefinition{}, crontab.Result{}, nil)
	})
	assert.NotPanics(t, func() {
		NewNotificationService(nil, quietLogger()).NotifyInstall(crontab.TaskDefinition{}, crontab.Result{}, nil)
	})
}
