package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/dyk-notifier/internal/app"
	"github.com/Adda-Baaj/dyk-notifier/internal/config"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dyknotifier failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("dyknotifier", pflag.ContinueOnError)
	flags.Bool("dry-run", false, "log notices instead of writing them")
	flags.String("tracking-mode", config.TrackingModeTemplates, "how nominations are read from the tracking page (templates|html)")
	flags.Int("batch-size", 50, "titles per API query (1-50)")
	flags.String("publishers-file", "", "YAML/JSON file declaring notification event publishers")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("dyknotifier starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBot(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize bot", "error", err)
		return err
	}

	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("bot run: %w", err)
	}

	return nil
}
