package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir      string // logs directory
	TargetsFile string // YAML target registry
	StatusFile  string // JSON snapshot written each cycle
	DatabaseURL string // optional; empty means file+memory snapshot stores only

	CheckInterval time.Duration // time between cycles
	ErrorBackoff  time.Duration // sleep after a failed cycle before retrying
	Concurrency   int           // max simultaneous probes within a cycle

	FailureThreshold int           // consecutive failures before an alert
	AlertCooldown    time.Duration // minimum gap between two alerts per target
	AlertOnRecovery  bool          // send a notice when a down target recovers

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPPassword string
	Recipients   []string

	SlackWebhook string

	APIKeys     []string // empty disables API auth (local dev)
	PublicRPM   int
	PublicBurst int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	targetsFile := os.Getenv("TARGETS_FILE")
	if targetsFile == "" {
		targetsFile = "targets.yaml"
	}

	statusFile := os.Getenv("STATUS_FILE")
	if statusFile == "" {
		statusFile = "status.json"
	}

	return Config{
		Addr:        addr,
		LogDir:      logDir,
		TargetsFile: targetsFile,
		StatusFile:  statusFile,
		DatabaseURL: os.Getenv("DATABASE_URL"),

		CheckInterval: envDuration("CHECK_INTERVAL_S", 300) * time.Second,
		ErrorBackoff:  envDuration("ERROR_BACKOFF_S", 60) * time.Second,
		Concurrency:   envInt("MAX_CONCURRENT_CHECKS", 10),

		FailureThreshold: envInt("FAILURE_THRESHOLD", 3),
		AlertCooldown:    envDuration("ALERT_COOLDOWN_S", 3600) * time.Second,
		AlertOnRecovery:  envBool("ALERT_ON_RECOVERY", true),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		Recipients:   envList("ALERT_RECIPIENTS"),

		SlackWebhook: os.Getenv("SLACK_WEBHOOK"),

		APIKeys:     envList("API_KEYS"),
		PublicRPM:   envInt("PUBLIC_RPM", 120),
		PublicBurst: envInt("PUBLIC_BURST", 60),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// envDuration reads a whole-second count; caller multiplies by time.Second.
func envDuration(key string, def int) time.Duration {
	return time.Duration(envInt(key, def))
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
