package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/0xPuncker/cronmail/internal/crontab"
	"github.com/0xPuncker/cronmail/pkg/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	CrontabCommand  string     `json:"crontab_command" yaml:"crontab_command"`
	TempDir         string     `json:"temp_dir" yaml:"temp_dir"`
	StrictSchedule  bool       `json:"strict_schedule" yaml:"strict_schedule"`
	Confirm         bool       `json:"confirm" yaml:"confirm"`
	LogLevel        string     `json:"log_level" yaml:"log_level"`
	SlackWebhookURL string     `json:"slack_webhook_url" yaml:"slack_webhook_url"`
	Mail            MailConfig `json:"mail" yaml:"mail"`
	Defaults        types.Job  `json:"defaults" yaml:"defaults"`
}

type MailConfig struct {
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body" yaml:"body"`
}

// Load reads a JSON or YAML config file, chosen by extension. When path is empty or
// the file does not exist, configuration comes from the environment instead.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return FromEnv(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// LoadDotEnv loads .env, falling back to .env.local. Missing files are not an error.
func LoadDotEnv() bool {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			return false
		}
	}
	return true
}

func FromEnv() *Config {
	config := &Config{
		CrontabCommand:  getEnv("CRONTAB_COMMAND", crontab.DefaultCommand),
		TempDir:         getEnv("CRONMAIL_TEMP_DIR", "."),
		StrictSchedule:  getEnvBool("CRONMAIL_STRICT", false),
		Confirm:         getEnvBool("CRONMAIL_CONFIRM", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		Mail: MailConfig{
			Subject: getEnv("CRONMAIL_SUBJECT", crontab.DefaultSubject),
			Body:    getEnv("CRONMAIL_BODY", crontab.DefaultBody),
		},
	}
	config.applyDefaults()
	return config
}

func DefaultConfig() *Config {
	return &Config{
		CrontabCommand: crontab.DefaultCommand,
		TempDir:        ".",
		LogLevel:       "info",
		Mail: MailConfig{
			Subject: crontab.DefaultSubject,
			Body:    crontab.DefaultBody,
		},
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.CrontabCommand) == "" {
		c.CrontabCommand = defaults.CrontabCommand
	}
	if c.TempDir == "" {
		c.TempDir = defaults.TempDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Mail.Subject == "" {
		c.Mail.Subject = defaults.Mail.Subject
	}
	if c.Mail.Body == "" {
		c.Mail.Body = defaults.Mail.Body
	}
	// The webhook is a secret; let the environment supply it when the file does not.
	if c.SlackWebhookURL == "" {
		c.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
