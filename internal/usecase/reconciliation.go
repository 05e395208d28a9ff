package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/logging"
)

// OrderFile names an order sheet. Path is where the bytes live; Name is what
// the user called the file and is echoed back in the report.
type OrderFile struct {
	Name string
	Path string
}

// NewOrderFile uses the base name of path as the display name.
func NewOrderFile(path string) OrderFile {
	return OrderFile{Name: filepath.Base(path), Path: path}
}

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo SpreadsheetRepository
	log  logging.Logger
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(repo SpreadsheetRepository, log logging.Logger) *ReconciliationUseCase {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ReconciliationUseCase{repo: repo, log: log}
}

// Reconcile reads the sales order and every purchase order, extracts their
// line items and reconciles them. Purchase lines from all files are pooled in
// file order. Any failing file fails the whole run.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, salesFile OrderFile, purchaseFiles []OrderFile) (*domain.ReconciliationReport, error) {
	if salesFile.Path == "" || len(purchaseFiles) == 0 {
		return nil, &domain.ParseError{
			Reason: "Both Sales Order and at least one Purchase Order file are required",
			Err:    domain.ErrMissingFile,
		}
	}

	// Step 1: Data Ingestion
	salesItems, err := uc.extractFile(ctx, salesFile, domain.SalesLayout)
	if err != nil {
		return nil, fmt.Errorf("could not read sales order: %w", err)
	}

	extracted := domain.ExtractedData{
		SalesOrder:     domain.ExtractedFile{FileName: salesFile.Name, Items: salesItems},
		PurchaseOrders: make([]domain.ExtractedFile, 0, len(purchaseFiles)),
	}
	for _, pf := range purchaseFiles {
		items, err := uc.extractFile(ctx, pf, domain.PurchaseLayout)
		if err != nil {
			return nil, fmt.Errorf("could not read purchase order: %w", err)
		}
		extracted.PurchaseOrders = append(extracted.PurchaseOrders, domain.ExtractedFile{FileName: pf.Name, Items: items})
	}

	// Step 2: Classification
	result := Reconcile(extracted.SalesItems(), extracted.PurchaseItems())

	uc.log.Info("Reconciliation complete",
		logging.F("matched", result.Summary.MatchedItems),
		logging.F("missing", result.Summary.MissingItems),
		logging.F("mismatched", result.Summary.QuantityMismatches),
		logging.F("extra", result.Summary.ExtraItems),
		logging.F("gross_profit", result.Summary.GrossProfit))

	return &domain.ReconciliationReport{
		Success:        true,
		Reconciliation: result,
		ExtractedData:  extracted,
	}, nil
}

func (uc *ReconciliationUseCase) extractFile(ctx context.Context, file OrderFile, layout domain.Layout) ([]domain.LineItem, error) {
	log := uc.log.WithFields(logging.F(logging.FieldFile, file.Path), logging.F(logging.FieldSide, layout.Side))

	sheet, err := uc.repo.ReadRows(ctx, file.Path)
	if err != nil {
		var pErr *domain.ParseError
		if errors.As(err, &pErr) && file.Name != "" {
			named := *pErr
			named.File = file.Name
			return nil, &named
		}
		return nil, err
	}

	items := ExtractAll(sheet.Rows, layout, func(rowNumber int, reason SkipReason) {
		log.Debug("Skipping row", logging.F(logging.FieldRow, rowNumber), logging.F(logging.FieldReason, string(reason)))
	})
	log.Debug("Extracted line items", logging.F(logging.FieldCount, len(items)))
	return items, nil
}
