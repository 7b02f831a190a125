package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"TrendScanner/internal/collector"
	"TrendScanner/internal/config"
	"TrendScanner/internal/logger"
	"TrendScanner/internal/notifier"
	"TrendScanner/internal/reconciler"
	"TrendScanner/internal/recorder"
	"TrendScanner/internal/scanner"
	"TrendScanner/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	once := flag.Bool("once", false, "run a single scan and exit")
	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	log.Info("TrendScanner starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info("data source selected", zap.String("source", fetcher.Name()))

	sc := scanner.NewScanner(fetcher, log,
		scanner.WithDelay(cfg.Scan.Delay),
		scanner.WithHistoryDays(cfg.Scan.HistoryDays),
	)
	rc := reconciler.NewFileReconciler(cfg.Files.FullResult, cfg.Files.DeltaResult, log)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	runner := scheduler.NewRunner(cfg.Files.Universe, sc, rc, rec, tn, log)

	// Cancelled on SIGINT/SIGTERM; an in-flight scan stops without persisting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := runner.RunOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("scan interrupted by user")
				return 130
			}
			log.Error("scan failed", zap.Error(err))
			return 1
		}
		log.Info("scan and save completed")
		return 0
	}

	sched := scheduler.NewScheduler(ctx, runner, log)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Error("register cron task", zap.Error(err))
		return 1
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing scan now")
		sched.StartNow()
	}

	log.Info("TrendScanner is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info("shutdown signal received, stopping")
	sched.Stop()
	log.Info("TrendScanner stopped")
	return 0
}
