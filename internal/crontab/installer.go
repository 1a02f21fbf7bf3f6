package crontab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultCommand = "crontab"
	tempPattern    = ".temp-cron-*"
)

// Runner runs an external command and returns whatever it wrote to stderr.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) (string, error) {
	var stderr bytes.Buffer

	cmd := exec.Command(name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

type Options struct {
	// Command is the scheduler install command; the temp file path is appended.
	Command string
	TempDir string
	Subject string
	Body    string
	DryRun  bool
	Runner  Runner
}

type Installer struct {
	logger  *logrus.Logger
	runner  Runner
	command []string
	tempDir string
	subject string
	body    string
	dryRun  bool
}

// Result describes one install attempt. TempPath no longer exists once returned.
type Result struct {
	Installed bool
	Line      string
	TempPath  string
	Stderr    string
	Err       error
}

func NewInstaller(logger *logrus.Logger, opts Options) *Installer {
	command := strings.Fields(opts.Command)
	if len(command) == 0 {
		command = []string{DefaultCommand}
	}

	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	return &Installer{
		logger:  logger,
		runner:  runner,
		command: command,
		tempDir: opts.TempDir,
		subject: opts.Subject,
		body:    opts.Body,
		dryRun:  opts.DryRun,
	}
}

// GenerateAndInstall renders the task line for the given inputs, installs it and
// reports whether the scheduler accepted it. Inputs are not validated here.
func (i *Installer) GenerateAndInstall(schedule, email, file string) bool {
	return i.Install(TaskDefinition{
		Schedule: schedule,
		Email:    email,
		File:     file,
	}).Installed
}

// Install writes def to a fresh temp file, hands it to the scheduler command and
// removes the file whatever the outcome.
func (i *Installer) Install(def TaskDefinition) Result {
	if def.Subject == "" {
		def.Subject = i.subject
	}
	if def.Body == "" {
		def.Body = i.body
	}

	result := Result{Line: def.Render()}

	path, err := i.writeTemp(result.Line)
	result.TempPath = path
	if path != "" {
		defer i.removeTemp(path)
	}
	if err != nil {
		result.Err = err
		i.logger.WithFields(logrus.Fields{
			"temp_dir": i.tempDir,
			"error":    err.Error(),
		}).Error("Failed to write task definition")
		return result
	}

	fields := logrus.Fields{
		"schedule":  def.Schedule,
		"email":     def.Email,
		"file":      def.File,
		"temp_file": path,
	}

	if i.dryRun {
		i.logger.WithFields(fields).Infof("Dry run, not installing: %s", result.Line)
		result.Installed = true
		return result
	}

	args := append(append([]string{}, i.command[1:]...), path)
	stderr, err := i.runner.Run(i.command[0], args...)
	result.Stderr = stderr
	if err != nil {
		result.Err = fmt.Errorf("%s failed: %w", i.command[0], err)
	} else if strings.TrimSpace(stderr) != "" {
		result.Err = fmt.Errorf("%s reported: %s", i.command[0], strings.TrimSpace(stderr))
	}

	if result.Err != nil {
		fields["error"] = result.Err.Error()
		i.logger.WithFields(fields).Error("Task installation failed")
		return result
	}

	result.Installed = true
	i.logger.WithFields(fields).Info("Task installed")
	return result
}

func (i *Installer) writeTemp(line string) (string, error) {
	dir := i.tempDir
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return path, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, nil
}

func (i *Installer) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		i.logger.Warnf("Failed to remove temp file %s: %v", path, err)
	}
}
