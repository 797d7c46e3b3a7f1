package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/factionops/scopebot/internal/adapters/http/api"
	"github.com/factionops/scopebot/internal/adapters/notify"
	"github.com/factionops/scopebot/internal/adapters/sheets"
	"github.com/factionops/scopebot/internal/adapters/torn"
	"github.com/factionops/scopebot/internal/app"
	"github.com/factionops/scopebot/internal/config"
	"github.com/factionops/scopebot/internal/ratelimit"
	"github.com/factionops/scopebot/pkg/logger"
	"github.com/factionops/scopebot/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if cfg.TornAPIKey == "" {
		log.Warn(ctx, "torn_api_key is empty; game API calls will be rejected upstream")
	}

	limiter := ratelimit.New(ratelimit.WithMaxCalls(cfg.APIMaxCallsPerMinute))
	tornClient := torn.New(cfg.TornAPIKey,
		torn.WithBaseURL(cfg.TornAPIBase),
		torn.WithLimiter(limiter),
	)
	sheetsClient := sheets.New(cfg.SheetsAPIKey, cfg.SpreadsheetID,
		sheets.WithBaseURL(cfg.SheetsAPIBase),
	)

	opts := []app.Option{
		app.WithLogger(log),
		app.WithFactionSource(tornClient),
		app.WithRowSource(sheetsClient),
		app.WithCellWriter(sheetsClient),
		app.WithPollInterval(time.Duration(cfg.PollIntervalSeconds) * time.Second),
		app.WithReportCharLimit(cfg.ReportCharLimit),
		app.WithTabs(cfg.CPRTab, cfg.RequirementsTab, cfg.DelinquentsTab),
		app.WithChannelID(cfg.ChannelID),
		app.WithBalanceCache(cfg.BalanceCacheSize, time.Duration(cfg.BalanceCacheTTLSeconds)*time.Second),
	}
	if cfg.WebhookURL != "" {
		opts = append(opts, app.WithNotifier(notify.NewWebhook(cfg.WebhookURL)))
	} else {
		log.Warn(ctx, "webhook_url is empty; eligibility results will not be delivered")
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "HTTP server shutdown failed", logger.Error(err))
	}
}
