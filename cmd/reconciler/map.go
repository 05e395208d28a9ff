package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/gateway"
	"order-reconciliation/internal/logging"
	"order-reconciliation/internal/usecase"
)

func newMapCmd(a *app) *cobra.Command {
	var (
		orders        orderFlags
		salesCodes    []string
		purchaseCodes []string
		existing      string
		format        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Manually pair unresolved sales and purchase items",
		Long: `map reconciles the order files, then pairs every selected sales item with
every selected purchase item. Only missing, mismatched and extra items that are
not already mapped can be selected, and the selected quantities must balance
exactly on both sides.

Mappings from an earlier run can be loaded with --existing: either a YAML or
JSON list of mappings, or a report written by run or map.`,
		Example: `  reconciler map --sales SO.xlsx --purchase PO.xlsx --sales-codes X1,X2 --purchase-codes Y1
  reconciler map --sales SO.xlsx --purchase PO.xlsx --sales-codes Z --purchase-codes W --existing mapped.yaml -f yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := reportFor(a, cmd, orders)
			if err != nil {
				return err
			}

			var prior []domain.ManualMapping
			if existing != "" {
				if prior, err = readMappings(existing); err != nil {
					return err
				}
			}

			mapper := usecase.NewManualMapper(*report, prior...)
			created, err := mapper.CreateMappings(salesCodes, purchaseCodes)
			if err != nil {
				return err
			}
			a.log.Info("Manual mappings created",
				logging.F(logging.FieldCount, len(created)),
				logging.F("gross_profit", mapper.GrossProfit()))

			if format == "" {
				format = a.cfg.Output.Format
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return gateway.WriteReport(w, report, mapper.Mappings(), format)
			})
		},
	}

	orders.register(cmd)
	cmd.Flags().StringSliceVar(&salesCodes, "sales-codes", nil, "sales item codes to map")
	cmd.Flags().StringSliceVar(&purchaseCodes, "purchase-codes", nil, "purchase item codes to map")
	cmd.Flags().StringVar(&existing, "existing", "", "file with mappings made earlier")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml or csv (default from output.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("sales-codes")
	_ = cmd.MarkFlagRequired("purchase-codes")
	return cmd
}

// readMappings loads mappings from a bare list or from the manualMappings key
// of a saved report. JSON input parses as YAML.
func readMappings(path string) ([]domain.ManualMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read mappings: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse mappings in %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	var mappings []domain.ManualMapping
	if root.Kind == yaml.MappingNode {
		var saved struct {
			ManualMappings []domain.ManualMapping `yaml:"manualMappings"`
		}
		err = root.Decode(&saved)
		mappings = saved.ManualMappings
	} else {
		err = root.Decode(&mappings)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse mappings in %s: %w", path, err)
	}
	return mappings, nil
}
