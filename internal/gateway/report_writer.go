package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"order-reconciliation/internal/domain"
)

// Output formats understood by WriteReport.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Section labels in CSV output.
const (
	SectionMatched  = "matched"
	SectionManual   = "manual"
	SectionMissing  = "missing"
	SectionMismatch = "mismatch"
	SectionExtra    = "extra"
)

// ReportRow is one line of the flattened CSV export. Columns that do not apply
// to a section are left empty.
type ReportRow struct {
	Section          string `csv:"section"`
	SalesItemCode    string `csv:"salesItemCode"`
	PurchaseItemCode string `csv:"purchaseItemCode"`
	SalesQuantity    string `csv:"salesQuantity"`
	PurchaseQuantity string `csv:"purchaseQuantity"`
	SalesPrice       string `csv:"salesPrice"`
	PurchasePrice    string `csv:"purchasePrice"`
	Difference       string `csv:"difference"`
	Profit           string `csv:"profit"`
	Status           string `csv:"status"`
}

// WriteReport renders report in format. Manual mappings are appended to the
// CSV output and, for JSON and YAML, written under "manualMappings".
func WriteReport(w io.Writer, report *domain.ReconciliationReport, mappings []domain.ManualMapping, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(withMappings(report, mappings))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(withMappings(report, mappings)); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return WriteReportCSV(w, report.Reconciliation, mappings)
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or csv)", format)
	}
}

type reportWithMappings struct {
	domain.ReconciliationReport `yaml:",inline"`
	ManualMappings              []domain.ManualMapping `json:"manualMappings,omitempty" yaml:"manualMappings,omitempty"`
}

func withMappings(report *domain.ReconciliationReport, mappings []domain.ManualMapping) reportWithMappings {
	return reportWithMappings{ReconciliationReport: *report, ManualMappings: mappings}
}

// WriteReportCSV flattens every section of result, then mappings, into CSV.
func WriteReportCSV(w io.Writer, result domain.ReconciliationResult, mappings []domain.ManualMapping) error {
	return gocsv.Marshal(ReportRows(result, mappings), w)
}

// ReportRows flattens result in section order: matched, manual, missing,
// mismatch, extra.
func ReportRows(result domain.ReconciliationResult, mappings []domain.ManualMapping) []ReportRow {
	rows := make([]ReportRow, 0, len(result.Matched)+len(mappings)+len(result.MissingInPurchase)+
		len(result.QuantityMismatches)+len(result.ExtraInPurchase))

	for _, m := range result.Matched {
		rows = append(rows, ReportRow{
			Section:          SectionMatched,
			SalesItemCode:    m.SalesItemCode,
			PurchaseItemCode: m.PurchaseItemCode,
			SalesQuantity:    number(m.SalesQuantity),
			PurchaseQuantity: number(m.PurchaseQuantity),
			SalesPrice:       number(m.SalesPrice),
			PurchasePrice:    number(m.PurchasePrice),
			Profit:           number(m.Profit),
			Status:           m.Status,
		})
	}
	for _, m := range mappings {
		rows = append(rows, ReportRow{
			Section:          SectionManual,
			SalesItemCode:    m.SalesItemCode,
			PurchaseItemCode: m.PurchaseItemCode,
			SalesQuantity:    number(m.SalesQuantity),
			PurchaseQuantity: number(m.PurchaseQuantity),
			SalesPrice:       number(m.SalesPrice),
			PurchasePrice:    number(m.PurchasePrice),
			Profit:           number(m.Profit),
			Status:           m.Status,
		})
	}
	for _, m := range result.MissingInPurchase {
		rows = append(rows, ReportRow{
			Section:       SectionMissing,
			SalesItemCode: m.ItemCode,
			SalesQuantity: number(m.SalesQuantity),
			Status:        m.Status,
		})
	}
	for _, m := range result.QuantityMismatches {
		rows = append(rows, ReportRow{
			Section:          SectionMismatch,
			SalesItemCode:    m.SalesItemCode,
			PurchaseItemCode: m.PurchaseItemCode,
			SalesQuantity:    number(m.SalesQuantity),
			PurchaseQuantity: number(m.PurchaseQuantity),
			Difference:       number(m.Difference),
			Status:           m.Status,
		})
	}
	for _, m := range result.ExtraInPurchase {
		rows = append(rows, ReportRow{
			Section:          SectionExtra,
			PurchaseItemCode: m.ItemCode,
			PurchaseQuantity: number(m.PurchaseQuantity),
			Status:           m.Status,
		})
	}
	return rows
}

func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}
