package main

import (
	"context"
	"errors"
	"os"

	"github.com/hako/durafmt"
	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	gsheet "ledger/internal/sheets/google"
	"ledger/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := config.Load()
	if err := cfg.ValidateWorker(); err != nil {
		cli.Fatal(err)
	}

	logger, err := cli.SetupLogger(cfg, applog.ComponentWorker)
	if err != nil {
		cli.Fatal(err)
	}
	logger.Info("Starting ledger-worker", applog.FieldBackend, cfg.DataBackend)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker stopped with error", applog.NewFields().WithOperation(applog.OpShutdown).WithError(err).ToSlice()...)
		stop()
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	// The worker only reads the ledger, so events are not republished.
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer res.Cleanup()

	mirror, err := gsheet.NewClient(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return err
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	w := worker.NewMirrorWorker(res.Store, mirror)

	// Catch up on anything written while the worker was down.
	if err := w.SyncAll(ctx); err != nil {
		logger.Error("Startup sync failed", applog.NewFields().WithOperation(applog.OpStartup).WithError(err).ToSlice()...)
	}

	logger.Info("Mirroring ledger",
		applog.FieldSheet, cfg.GoogleSheetName,
		"resync_every", durafmt.Parse(cfg.SyncInterval).String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerEvents(gctx, w.HandleLedgerEvent)
	})
	g.Go(func() error {
		return w.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
