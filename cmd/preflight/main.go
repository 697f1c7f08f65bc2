// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/adousti/vigil/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	_ = godotenv.Load()
	cfg := config.FromEnv()

	targets, err := config.LoadTargets(cfg.TargetsFile)
	if err != nil {
		fail(fmt.Sprintf("targets file %q: %v", cfg.TargetsFile, err))
	}
	ok(fmt.Sprintf("targets file %q parses (%d targets)", cfg.TargetsFile, len(targets)))

	critical := 0
	for _, t := range targets {
		if t.Critical {
			critical++
		}
	}
	if critical == 0 {
		warn("no target is marked critical; alert subjects will carry no priority hint")
	}

	emailOK := cfg.SMTPHost != "" && cfg.SMTPFrom != "" && len(cfg.Recipients) > 0
	slackOK := cfg.SlackWebhook != ""
	switch {
	case emailOK && slackOK:
		ok("email and slack channels configured")
	case emailOK:
		ok("email channel configured")
	case slackOK:
		ok("slack channel configured")
	default:
		warn("no notification channel configured; the monitor will run silent")
	}
	if emailOK && cfg.SMTPPassword == "" {
		warn("SMTP_PASSWORD empty; sending without auth")
	}

	if strings.TrimSpace(cfg.Addr) == "" {
		fail("ADDR is empty")
	}
	ok(fmt.Sprintf("API will bind %s", cfg.Addr))

	if len(cfg.APIKeys) == 0 {
		warn("API_KEYS empty (status API will be open)")
	}

	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty (snapshots to file only)")
	}

	ok("preflight passed")
}
