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
		fmt.Fprintf(os.Stderr, "dyknotify failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("dyknotify", pflag.ContinueOnError)
	flags.String("input", "-", `JSON {"contributor": "nomination"} file, or "-" for one line of stdin`)
	flags.Bool("confirm", false, "ask before every edit; answering n stops")
	flags.Int("resume-count", 0, "starting value of the notified counter")
	flags.Bool("dry-run", false, "log notices instead of writing them")
	flags.String("publishers-file", "", "YAML/JSON file declaring notification event publishers")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags, config.NotifyOnlyDefaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if input := flags.Lookup("input"); input.Changed {
		cfg.InputFile = input.Value.String()
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("dyknotify starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manual, err := app.NewManual(ctx, cfg, os.Stdin, os.Stdout, log)
	if err != nil {
		logger.ErrorObj("failed to initialize notifier", "error", err)
		return err
	}

	if err := manual.Run(ctx); err != nil {
		return fmt.Errorf("notify run: %w", err)
	}

	return nil
}
