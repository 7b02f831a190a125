package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"TrendScanner/internal/collector"
	"TrendScanner/internal/config"
	"TrendScanner/internal/logger"
	"TrendScanner/internal/universe"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	minCap, err := decimal.NewFromString(cfg.Universe.MinMarketCap)
	if err != nil {
		log.Error("invalid universe.min_market_cap", zap.String("value", cfg.Universe.MinMarketCap), zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	b := universe.NewBuilder(yahoo.Client, yahoo, log)
	b.MinMarketCap = minCap
	b.Delay = cfg.Universe.Delay
	b.ErrorDelay = cfg.Universe.ErrorDelay

	start := time.Now()
	res, err := b.Build(ctx, cfg.Universe.NasdaqURL, cfg.Universe.OtherURL)
	if err != nil {
		log.Error("build universe failed", zap.Error(err))
		return 1
	}

	if err := universe.SaveTickers(cfg.Files.Universe, res.Retained); err != nil {
		log.Error("save tickers failed", zap.String("path", cfg.Files.Universe), zap.Error(err))
		return 1
	}
	if err := universe.SaveTickers(cfg.Files.ErrorTickers, res.Errors); err != nil {
		log.Error("save error tickers failed", zap.String("path", cfg.Files.ErrorTickers), zap.Error(err))
		return 1
	}

	log.Info("universe saved",
		zap.String("path", cfg.Files.Universe),
		zap.Int("final", len(res.Retained)),
		zap.Int("errors", len(res.Errors)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return 0
}
