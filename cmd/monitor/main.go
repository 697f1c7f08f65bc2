package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/config"
	"github.com/adousti/vigil/internal/httpapi"
	"github.com/adousti/vigil/internal/logging"
	"github.com/adousti/vigil/internal/notify"
	"github.com/adousti/vigil/internal/probe"
	"github.com/adousti/vigil/internal/repo"
	filestore "github.com/adousti/vigil/internal/repo/file"
	"github.com/adousti/vigil/internal/repo/memory"
	"github.com/adousti/vigil/internal/repo/postgres"
	"github.com/adousti/vigil/internal/scheduler"
	"github.com/adousti/vigil/internal/track"
)

func main() {
	_ = godotenv.Load() // best-effort; real deployments set the env directly

	cfg := config.FromEnv()

	targets, err := config.LoadTargets(cfg.TargetsFile)
	if err != nil {
		log.Fatalf("targets: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Notification channels. An unconfigured channel is a warning, not an error.
	var notifiers notify.Multi
	if email := notify.NewEmail(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword, cfg.Recipients); email != nil {
		notifiers = append(notifiers, email)
	} else {
		logger.Warn("email_disabled", zap.String("reason", "SMTP_HOST/SMTP_FROM/ALERT_RECIPIENTS not fully set"))
	}
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		notifiers = append(notifiers, slack)
	} else {
		logger.Warn("slack_disabled", zap.String("reason", "SLACK_WEBHOOK not set"))
	}

	// Snapshot stores: memory backs the API, file is the durable artifact,
	// postgres is opt-in.
	mem := memory.New()
	stores := repo.Multi{mem, filestore.New(cfg.StatusFile)}
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pg.Close()
		stores = append(stores, pg)
	}

	tracker := track.New(logger, notifiers, targets, track.Config{
		FailureThreshold: cfg.FailureThreshold,
		Cooldown:         cfg.AlertCooldown,
		AlertOnRecovery:  cfg.AlertOnRecovery,
	})
	tracker.DNSClass = func(rawURL string) string { return probe.ClassifyURL(rawURL).Class }

	monitor := scheduler.NewMonitor(
		logger,
		targets,
		probe.NewHTTPChecker(logger),
		tracker,
		stores,
		cfg.CheckInterval,
		cfg.ErrorBackoff,
		cfg.Concurrency,
	)

	api := httpapi.NewServer(logger, targets, mem)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.APIKeys, cfg.PublicRPM, cfg.PublicBurst),
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api_error", zap.Error(err))
		}
	}()

	logger.Info("monitor_start",
		zap.Int("targets", len(targets)),
		zap.Duration("interval", cfg.CheckInterval),
		zap.Int("failure_threshold", cfg.FailureThreshold),
		zap.Duration("cooldown", cfg.AlertCooldown),
	)

	monitor.Run(ctx) // blocks until SIGINT/SIGTERM

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
