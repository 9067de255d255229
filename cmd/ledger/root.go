package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/menu"
	"ledger/internal/services"
)

// app carries the global flags and the ledger opened for the running command.
type app struct {
	ledgerFile  string
	backendName string

	svc     *services.LedgerService
	cleanup backend.CleanupFunc
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledger",
		Short: "Personal income and expense ledger",
		Long: "Records dated income and expense entries in a local ledger file.\n" +
			"Run without a subcommand for the interactive menu.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.open(cmd) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return menu.New(a.svc, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.ledgerFile, "file", "f", "", "Ledger file for the json backend (overrides LEDGER_FILE).")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "", fmt.Sprintf("Record store backend %v (overrides LEDGER_BACKEND).", config.Backends))

	root.AddCommand(
		newBalanceCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newSearchCmd(a),
	)
	return root
}

// open loads configuration, applies flag overrides and wires the backend.
func (a *app) open(cmd *cobra.Command) error {
	cli.LoadEnvFile()

	cfg := config.Load()
	if a.ledgerFile != "" {
		cfg.LedgerFile = a.ledgerFile
	}
	if a.backendName != "" {
		cfg.DataBackend = a.backendName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg, applog.ComponentApp)
	if err != nil {
		return err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return err
	}

	a.svc = res.Service
	a.cleanup = res.Cleanup
	cmd.SetContext(applog.NewContext(cmd.Context(), logger.WithComponent(applog.ComponentMenu)))
	slog.DebugContext(cmd.Context(), "Ledger opened",
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldPath, cfg.LedgerFile)
	return nil
}

func (a *app) close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	return err
}
