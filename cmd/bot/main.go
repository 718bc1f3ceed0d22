package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"btcEthDCA/internal/config"
	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/finance"
	"btcEthDCA/internal/logging"
	"btcEthDCA/internal/metrics"
	"btcEthDCA/internal/report"
	"btcEthDCA/internal/scheduler"
	"btcEthDCA/internal/server"
	"btcEthDCA/internal/telegram"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config: load failed")
	}
	logging.Setup(cfg.LogLevel, os.Getenv("LOG_PRETTY") != "")
	if err := cfg.ValidateBot(); err != nil {
		log.Fatal().Err(err).Msg("config: invalid")
	}

	reg := metrics.New()
	runner := &report.Runner{
		Provider: finance.NewYahooProvider(
			finance.WithProxy(cfg.Yahoo.Proxy),
			finance.WithRateLimit(cfg.Yahoo.RequestInterval, 1),
			finance.WithMetrics(reg),
		),
		Metrics: reg,
		Chart:   finance.ChartOptions{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
		Cache:   finance.NewChartCache(cfg.CacheTTL),
	}
	defaults := report.Request{
		AssetA: cfg.Simulation.AssetA,
		AssetB: cfg.Simulation.AssetB,
		Years:  cfg.Simulation.Years,
		Params: dca.Params{MonthlyBudget: cfg.Simulation.MonthlyBudget, SupplyRatio: cfg.Simulation.SupplyRatio},
	}

	tg, err := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.WebhookPublicURL, runner, defaults)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram: init failed")
	}
	log.Info().Str("component", "telegram").Str("webhook", cfg.Telegram.WebhookPublicURL).Msg("telegram: bot initialized")

	if cfg.Report.Cron != "" {
		sched, err := scheduler.New(cfg.Report.Cron, cfg.Report.ChatID, tg.Handlers(), defaults)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler: init failed")
		}
		sched.Start()
		defer sched.Stop()
		log.Info().Str("component", "scheduler").Str("cron", cfg.Report.Cron).Int64("chat_id", cfg.Report.ChatID).Msg("scheduler: report scheduled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := server.NewHTTPMux(tg.WebhookHandler, reg.Handler())
	addr := ":" + cfg.Port
	log.Info().Str("component", "http").Str("addr", addr).Msg("http: listening")
	if err := server.ListenAndServe(ctx, addr, mux); err != nil {
		log.Error().Err(err).Str("component", "http").Msg("http: server error")
		os.Exit(1)
	}
}
