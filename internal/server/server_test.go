package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/gateway"
	"order-reconciliation/internal/server"
	"order-reconciliation/internal/usecase"
)

type upload struct {
	field    string
	filename string
	content  string
}

// orderCSV renders a CSV order file whose table follows layout. Each line is
// code, quantity, price.
func orderCSV(layout domain.Layout, lines ...[3]string) string {
	var b strings.Builder
	b.WriteString("Order\n")
	blank := strings.Repeat(",", 14) + "\n"
	for i := 0; i < layout.StartRowIndex; i++ {
		b.WriteString(blank)
	}
	for _, line := range lines {
		row := make([]string, 15)
		row[layout.ItemCodeColumn] = line[0]
		row[layout.QuantityColumn] = line[1]
		row[layout.PriceColumn] = line[2]
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return b.String()
}

func multipartRequest(t *testing.T, uploads ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := mw.CreateFormFile(u.field, u.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, v interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newServer(t *testing.T, reconciler server.Reconciler) (*server.Server, string) {
	t.Helper()
	dir := t.TempDir()
	if reconciler == nil {
		reconciler = usecase.NewReconciliationUseCase(gateway.NewFileRepository(), nil)
	}
	return server.New(reconciler, server.Options{
		UploadDir:        dir,
		MaxPurchaseFiles: 2,
		MaxUploadBytes:   1 << 20,
	}, nil), dir
}

type failingReconciler struct{ err error }

func (f failingReconciler) Reconcile(context.Context, usecase.OrderFile, []usecase.OrderFile) (*domain.ReconciliationReport, error) {
	return nil, f.err
}

func TestServer_Health(t *testing.T) {
	srv, _ := newServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Reconciliation API is running"}`, rec.Body.String())
}

func TestServer_Reconcile(t *testing.T) {
	srv, dir := newServer(t, nil)

	req := multipartRequest(t,
		upload{"salesOrder", "SO-1001.csv", orderCSV(domain.SalesLayout,
			[3]string{"A", "10", "5"},
			[3]string{"B", "3", "2"},
		)},
		upload{"purchaseOrders", "PO-A.csv", orderCSV(domain.PurchaseLayout,
			[3]string{"A", "10", "3"},
			[3]string{"Total", "10", ""},
		)},
		upload{"purchaseOrders", "PO-B.csv", orderCSV(domain.PurchaseLayout,
			[3]string{"C", "1", "1"},
		)},
	)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report domain.ReconciliationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, domain.Summary{
		TotalSalesItems:    2,
		TotalPurchaseItems: 2,
		MatchedItems:       1,
		MissingItems:       1,
		ExtraItems:         1,
		GrossProfit:        20,
	}, report.Reconciliation.Summary)
	assert.Equal(t, "SO-1001.csv", report.ExtractedData.SalesOrder.FileName)
	require.Len(t, report.ExtractedData.PurchaseOrders, 2)
	assert.Equal(t, "PO-B.csv", report.ExtractedData.PurchaseOrders[1].FileName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads should be removed after the request")
}

func TestServer_ReconcileRejectsBadUploads(t *testing.T) {
	sales := upload{"salesOrder", "SO.csv", orderCSV(domain.SalesLayout, [3]string{"A", "1", "1"})}
	purchase := upload{"purchaseOrders", "PO.csv", orderCSV(domain.PurchaseLayout, [3]string{"A", "1", "1"})}

	tests := []struct {
		name     string
		uploads  []upload
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing purchase orders",
			uploads:  []upload{sales},
			wantCode: http.StatusBadRequest,
			wantErr:  "Both Sales Order and at least one Purchase Order file are required",
		},
		{
			name:     "missing sales order",
			uploads:  []upload{purchase},
			wantCode: http.StatusBadRequest,
			wantErr:  "Both Sales Order and at least one Purchase Order file are required",
		},
		{
			name:     "too many purchase orders",
			uploads:  []upload{sales, purchase, purchase, purchase},
			wantCode: http.StatusBadRequest,
			wantErr:  "At most 2 Purchase Order files are allowed",
		},
		{
			name:     "not a spreadsheet",
			uploads:  []upload{sales, {"purchaseOrders", "notes.txt", "hello"}},
			wantCode: http.StatusBadRequest,
			wantErr:  "Only Excel files are allowed!",
		},
		{
			name:     "header only",
			uploads:  []upload{sales, {"purchaseOrders", "PO.csv", "Order\n"}},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "error parsing spreadsheet PO.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, dir := newServer(t, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, multipartRequest(t, tt.uploads...))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.wantErr)
			assert.NotContains(t, resp.Error, dir)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestServer_ReconcileInternalError(t *testing.T) {
	srv, _ := newServer(t, failingReconciler{err: errors.New("disk on fire")})
	req := multipartRequest(t,
		upload{"salesOrder", "SO.xlsx", "x"},
		upload{"purchaseOrders", "PO.xlsx", "y"},
	)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"disk on fire"}`, rec.Body.String())
}

func TestServer_ManualReconcile(t *testing.T) {
	srv, _ := newServer(t, nil)

	t.Run("records the pair", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile", map[string]interface{}{
			"salesItemCode":    "X",
			"purchaseItemCode": "Y",
			"salesQuantity":    5,
			"purchaseQuantity": 5,
			"salesPrice":       10,
			"purchasePrice":    6,
		}))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success       bool                 `json:"success"`
			ManualMapping domain.ManualMapping `json:"manualMapping"`
			Message       string               `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Items manually reconciled successfully", resp.Message)
		assert.Equal(t, 20.0, resp.ManualMapping.Profit)
		assert.Equal(t, domain.StatusManuallyMatched, resp.ManualMapping.Status)
	})

	t.Run("requires both codes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile", map[string]interface{}{
			"salesItemCode": "X",
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Both sales and purchase item codes are required"}`, rec.Body.String())
	})
}

func extractedData(purchaseQty float64) domain.ExtractedData {
	return domain.ExtractedData{
		SalesOrder: domain.ExtractedFile{FileName: "SO.xlsx", Items: []domain.LineItem{
			{ItemCode: "M", Quantity: 2, Price: 4, RowNumber: 17, Side: domain.SideSales},
			{ItemCode: "X", Quantity: 5, Price: 10, RowNumber: 18, Side: domain.SideSales},
		}},
		PurchaseOrders: []domain.ExtractedFile{{FileName: "PO.xlsx", Items: []domain.LineItem{
			{ItemCode: "M", Quantity: 2, Price: 1, RowNumber: 16, Side: domain.SidePurchase},
			{ItemCode: "Y", Quantity: purchaseQty, Price: 6, RowNumber: 17, Side: domain.SidePurchase},
		}}},
	}
}

func TestServer_BulkManualReconcile(t *testing.T) {
	srv, _ := newServer(t, nil)

	t.Run("balanced selection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile/bulk", map[string]interface{}{
			"extractedData":     extractedData(5),
			"salesItemCodes":    []string{"X"},
			"purchaseItemCodes": []string{"Y"},
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Success     bool                   `json:"success"`
			Mappings    []domain.ManualMapping `json:"mappings"`
			Balance     domain.BalanceCheck    `json:"balance"`
			GrossProfit float64                `json:"grossProfit"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Mappings, 1)
		assert.Equal(t, "X", resp.Mappings[0].SalesItemCode)
		assert.Equal(t, "Y", resp.Mappings[0].PurchaseItemCode)
		assert.Equal(t, domain.BalanceCheck{IsValid: true, TotalSalesQty: 5, TotalPurchaseQty: 5}, resp.Balance)
		// matched M contributes 6, the mapping 20
		assert.Equal(t, 26.0, resp.GrossProfit)
	})

	t.Run("unbalanced selection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile/bulk", map[string]interface{}{
			"extractedData":     extractedData(4),
			"salesItemCodes":    []string{"X"},
			"purchaseItemCodes": []string{"Y"},
		}))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error   string              `json:"error"`
			Balance domain.BalanceCheck `json:"balance"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "Quantities must match exactly")
		assert.Equal(t, domain.BalanceCheck{TotalSalesQty: 5, TotalPurchaseQty: 4}, resp.Balance)
	})

	t.Run("already mapped codes are not candidates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile/bulk", map[string]interface{}{
			"extractedData": extractedData(5),
			"existingMappings": []domain.ManualMapping{
				usecase.NewManualMapping("X", "Y", 5, 5, 10, 6),
			},
			"salesItemCodes":    []string{"X"},
			"purchaseItemCodes": []string{"Y"},
		}))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServer_ValidateBalance(t *testing.T) {
	srv, _ := newServer(t, nil)

	for _, qty := range []float64{5, 4} {
		t.Run(fmt.Sprintf("purchase quantity %g", qty), func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, jsonRequest(t, "/api/manual-reconcile/validate", map[string]interface{}{
				"extractedData":     extractedData(qty),
				"salesItemCodes":    []string{"X"},
				"purchaseItemCodes": []string{"Y"},
			}))
			require.Equal(t, http.StatusOK, rec.Code)

			var balance domain.BalanceCheck
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
			assert.Equal(t, qty == 5, balance.IsValid)
			assert.Equal(t, 5.0, balance.TotalSalesQty)
			assert.Equal(t, qty, balance.TotalPurchaseQty)
		})
	}
}

func TestServer_InvalidJSON(t *testing.T) {
	srv, _ := newServer(t, nil)
	for _, path := range []string{"/api/manual-reconcile", "/api/manual-reconcile/validate", "/api/manual-reconcile/bulk"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{"))
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
