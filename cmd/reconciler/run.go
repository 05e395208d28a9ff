package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/gateway"
	"order-reconciliation/internal/usecase"
)

// orderFlags are the input flags shared by run and map.
type orderFlags struct {
	sales    string
	purchase []string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sales, "sales", "", "sales order file (.xlsx, .xlsm or .csv)")
	cmd.Flags().StringSliceVar(&f.purchase, "purchase", nil, "purchase order files, comma separated or repeated")
	_ = cmd.MarkFlagRequired("sales")
	_ = cmd.MarkFlagRequired("purchase")
}

func (f *orderFlags) files() (usecase.OrderFile, []usecase.OrderFile) {
	purchaseFiles := make([]usecase.OrderFile, 0, len(f.purchase))
	for _, path := range f.purchase {
		purchaseFiles = append(purchaseFiles, usecase.NewOrderFile(path))
	}
	return usecase.NewOrderFile(f.sales), purchaseFiles
}

func newRunCmd(a *app) *cobra.Command {
	var (
		orders orderFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile order files and print the report",
		Example: `  reconciler run --sales SO-1001.xlsx --purchase PO-A.xlsx,PO-B.xlsx
  reconciler run --sales so.csv --purchase po.csv --format csv --output report.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := reportFor(a, cmd, orders)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Output.Format
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return gateway.WriteReport(w, report, nil, format)
			})
		},
	}

	orders.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml or csv (default from output.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	return cmd
}

// writeOutput sends render to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// reportFor is the report a mapping run starts from.
func reportFor(a *app, cmd *cobra.Command, orders orderFlags) (*domain.ReconciliationReport, error) {
	salesFile, purchaseFiles := orders.files()
	report, err := a.useCase().Reconcile(cmd.Context(), salesFile, purchaseFiles)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}
	return report, nil
}
