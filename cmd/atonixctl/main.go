package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atonixcorp/atonix-go/internal/app"
	"github.com/atonixcorp/atonix-go/internal/cli"
	"github.com/atonixcorp/atonix-go/internal/config"
	"github.com/atonixcorp/atonix-go/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrHelp) {
			fmt.Fprint(os.Stdout, cli.Usage())
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", cli.ProgramName, err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.ParseArgs(argv)
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w\n\n%s", err, cli.Usage())
	}

	cfg, err := config.Load(args.Global)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	log.DebugObj("atonixctl starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, args.Command, log, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx, args)
}
