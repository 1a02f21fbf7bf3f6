package validate

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9.-]+$`)

// standardParser accepts the classic five crontab fields plus named months and weekdays.
var standardParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validator pairs a predicate with the name used when reporting a rejected value.
type Validator struct {
	Name  string
	Check func(string) bool
}

// InvalidMessage returns the line shown when Check rejects a value.
func (v Validator) InvalidMessage() string {
	return "Invalid " + cases.Title(language.English).String(v.Name)
}

// ValidateSchedule reports whether s has exactly five whitespace-separated fields.
// Field contents are not inspected.
func ValidateSchedule(s string) bool {
	return len(strings.Fields(s)) == 5
}

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateFile reports whether a regular file exists at path right now.
func ValidateFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ParseSchedule parses a five-field expression with range checking.
func ParseSchedule(s string) (cron.Schedule, error) {
	if !ValidateSchedule(s) {
		return nil, fmt.Errorf("expected 5 fields, found %d", len(strings.Fields(s)))
	}
	fields := strings.Fields(s)
	fields[4] = normalizeWeekday(fields[4])
	schedule, err := standardParser.Parse(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", s, err)
	}
	return schedule, nil
}

// normalizeWeekday rewrites crontab's Sunday-as-7 into the 0-6 range the parser
// accepts, e.g. "7" becomes "0" and "5-7" becomes "5-6,0".
func normalizeWeekday(field string) string {
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		rng, step := part, ""
		if i := strings.Index(part, "/"); i >= 0 {
			rng, step = part[:i], part[i:]
		}

		switch {
		case rng == "7":
			out = append(out, "0"+step)
		case strings.HasSuffix(rng, "-7"):
			lo := strings.TrimSuffix(rng, "-7")
			if lo == "7" {
				out = append(out, "0")
				continue
			}
			out = append(out, lo+"-6"+step)
			if sundayInRange(lo, step) {
				out = append(out, "0")
			}
		default:
			out = append(out, part)
		}
	}
	return strings.Join(out, ",")
}

// sundayInRange reports whether the stepped range lo-7 lands on 7.
func sundayInRange(lo, step string) bool {
	if step == "" {
		return true
	}
	start, err := strconv.Atoi(lo)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(step, "/"))
	if err != nil || n <= 0 {
		return false
	}
	return (7-start)%n == 0
}

// ValidateScheduleStrict is ValidateSchedule plus field range checks.
func ValidateScheduleStrict(s string) bool {
	_, err := ParseSchedule(s)
	return err == nil
}

// NextRuns returns the next n activation times of s after from.
func NextRuns(s string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := ParseSchedule(s)
	if err != nil {
		return nil, err
	}

	runs := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = schedule.Next(next)
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}
	return runs, nil
}

// Set holds the three validators used to accept a task's inputs.
type Set struct {
	Schedule Validator
	Email    Validator
	File     Validator
}

// Default returns the validators for frequency, email address and file location.
// With strict set, schedules must also parse as a standard crontab expression.
func Default(strict bool) Set {
	schedule := ValidateSchedule
	if strict {
		schedule = ValidateScheduleStrict
	}
	return Set{
		Schedule: Validator{Name: "frequency", Check: schedule},
		Email:    Validator{Name: "email address", Check: ValidateEmail},
		File:     Validator{Name: "file location", Check: ValidateFile},
	}
}
