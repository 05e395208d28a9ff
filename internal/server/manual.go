package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/usecase"
)

type manualReconcileRequest struct {
	SalesItemCode    string  `json:"salesItemCode"`
	PurchaseItemCode string  `json:"purchaseItemCode"`
	SalesQuantity    float64 `json:"salesQuantity"`
	PurchaseQuantity float64 `json:"purchaseQuantity"`
	SalesPrice       float64 `json:"salesPrice"`
	PurchasePrice    float64 `json:"purchasePrice"`
}

type manualReconcileResponse struct {
	Success       bool                 `json:"success"`
	ManualMapping domain.ManualMapping `json:"manualMapping"`
	Message       string               `json:"message"`
}

// handleManualReconcile records a single pair as sent by the client. Missing
// numbers count as 0.
func (s *Server) handleManualReconcile(w http.ResponseWriter, r *http.Request) {
	var req manualReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SalesItemCode == "" || req.PurchaseItemCode == "" {
		writeError(w, http.StatusBadRequest, "Both sales and purchase item codes are required")
		return
	}

	writeJSON(w, http.StatusOK, manualReconcileResponse{
		Success: true,
		ManualMapping: usecase.NewManualMapping(req.SalesItemCode, req.PurchaseItemCode,
			req.SalesQuantity, req.PurchaseQuantity, req.SalesPrice, req.PurchasePrice),
		Message: "Items manually reconciled successfully",
	})
}

// selectionRequest carries the extracted lines of a previous reconciliation,
// the mappings already made against it and the current selection.
type selectionRequest struct {
	ExtractedData     domain.ExtractedData   `json:"extractedData"`
	ExistingMappings  []domain.ManualMapping `json:"existingMappings"`
	SalesItemCodes    []string               `json:"salesItemCodes"`
	PurchaseItemCodes []string               `json:"purchaseItemCodes"`
}

func (req selectionRequest) mapper() *usecase.ManualMapper {
	data := req.ExtractedData
	report := domain.ReconciliationReport{
		Success:        true,
		Reconciliation: usecase.Reconcile(data.SalesItems(), data.PurchaseItems()),
		ExtractedData:  data,
	}
	return usecase.NewManualMapper(report, req.ExistingMappings...)
}

type bulkResponse struct {
	Success     bool                   `json:"success"`
	Mappings    []domain.ManualMapping `json:"mappings"`
	Balance     domain.BalanceCheck    `json:"balance"`
	GrossProfit float64                `json:"grossProfit"`
}

func (s *Server) handleValidateBalance(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, req.mapper().ValidateBalance(req.SalesItemCodes, req.PurchaseItemCodes))
}

// handleBulkManualReconcile validates a many-to-many selection and returns
// every sales/purchase pair, or the validation error with the totals.
func (s *Server) handleBulkManualReconcile(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mapper := req.mapper()
	balance := mapper.ValidateBalance(req.SalesItemCodes, req.PurchaseItemCodes)
	created, err := mapper.CreateMappings(req.SalesItemCodes, req.PurchaseItemCodes)
	if err != nil {
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Balance: &balance})
		return
	}

	writeJSON(w, http.StatusOK, bulkResponse{
		Success:     true,
		Mappings:    created,
		Balance:     balance,
		GrossProfit: mapper.GrossProfit(),
	})
}
