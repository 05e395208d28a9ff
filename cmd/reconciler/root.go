package main

import (
	"github.com/spf13/cobra"

	"order-reconciliation/internal/config"
	"order-reconciliation/internal/gateway"
	"order-reconciliation/internal/logging"
	"order-reconciliation/internal/usecase"
)

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "reconciler",
		Short: "Reconcile a sales order against its purchase orders",
		Long: `reconciler reads a sales order spreadsheet and one or more purchase order
spreadsheets, matches their line items by item code and reports matched items,
items missing from the purchase orders, quantity mismatches and extra purchases,
together with the gross profit of the matched lines.

Unresolved items can be paired by hand with the map command, or through the
HTTP API started by serve.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: config.yaml in $HOME/.reconciler or .)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newRunCmd(a), newMapCmd(a), newServeCmd(a), newVersionCmd())
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return nil
}

// useCase wires the file gateway into the reconciliation use case.
func (a *app) useCase() *usecase.ReconciliationUseCase {
	return usecase.NewReconciliationUseCase(gateway.NewFileRepository(), a.log)
}
