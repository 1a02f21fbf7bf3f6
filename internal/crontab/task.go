package crontab

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/0xPuncker/cronmail/internal/validate"
)

const (
	DefaultSubject = "Cron Job"
	DefaultBody    = "Here is a requested file"
)

// TaskDefinition is one crontab line mailing File to Email on Schedule.
type TaskDefinition struct {
	Schedule string
	Email    string
	File     string
	Subject  string
	Body     string
}

// NewTaskDefinition builds a definition only if every input passes its validator.
func NewTaskDefinition(schedule, email, file string, validators validate.Set) (TaskDefinition, error) {
	checks := []struct {
		value string
		v     validate.Validator
	}{
		{schedule, validators.Schedule},
		{email, validators.Email},
		{file, validators.File},
	}
	for _, c := range checks {
		if !c.v.Check(c.value) {
			return TaskDefinition{}, fmt.Errorf("%s: %q", c.v.InvalidMessage(), c.value)
		}
	}

	return TaskDefinition{
		Schedule: schedule,
		Email:    email,
		File:     file,
	}, nil
}

// Render returns the crontab line. Empty Subject or Body fall back to the defaults.
func (d TaskDefinition) Render() string {
	subject := d.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	body := d.Body
	if body == "" {
		body = DefaultBody
	}
	schedule := strings.Join(strings.Fields(d.Schedule), " ")
	return fmt.Sprintf(`%s echo "%s" | mail -s "%s" -a %s %s`,
		schedule, escapeCron(body), escapeCron(subject), escapeCron(shellQuote(d.File)), d.Email)
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./+:@,=-]+$`)

// shellQuote leaves plain paths untouched and single-quotes anything else.
func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// escapeCron keeps cron from turning % into a newline and drops raw line breaks,
// which would end the crontab entry.
func escapeCron(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.ReplaceAll(s, "%", `\%`)
}
