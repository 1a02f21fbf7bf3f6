package main

import (
	"os"
	"strings"

	"github.com/0xPuncker/cronmail/internal/cli"
	"github.com/0xPuncker/cronmail/internal/config"
	"github.com/dimiro1/banner"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "Cron Mail" "" 0 }}
{{ .AnsiColor.BrightBlue }}Mail a file on a schedule{{ .AnsiReset }}
`

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       false,
		TimestampFormat:        "2006-01-02T15:04:05-07:00",
		DisableLevelTruncation: false,
		PadLevelText:           false,
	})

	if !config.LoadDotEnv() {
		logger.Debug("No .env or .env.local file found. Using environment variables.")
	}

	// Prompts and the result line own stdout; keep the banner off pipes.
	interactive := isatty.IsTerminal(os.Stderr.Fd())
	banner.Init(colorable.NewColorableStderr(), interactive, interactive, strings.NewReader(bannerText))

	if err := cli.NewRootCommand(cli.NewApp(logger)).Execute(); err != nil {
		os.Exit(1)
	}
}
