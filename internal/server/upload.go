package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"order-reconciliation/internal/logging"
	"order-reconciliation/internal/usecase"
)

const (
	fieldSalesOrder     = "salesOrder"
	fieldPurchaseOrders = "purchaseOrders"
)

var spreadsheetMIMETypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
	"text/csv":                 true,
}

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

func isSpreadsheet(fh *multipart.FileHeader) bool {
	if spreadsheetExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return true
	}
	return spreadsheetMIMETypes[fh.Header.Get("Content-Type")]
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	salesHeaders := r.MultipartForm.File[fieldSalesOrder]
	purchaseHeaders := r.MultipartForm.File[fieldPurchaseOrders]
	if len(salesHeaders) == 0 || len(purchaseHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "Both Sales Order and at least one Purchase Order file are required")
		return
	}
	if len(salesHeaders) > 1 {
		writeError(w, http.StatusBadRequest, "Only one Sales Order file is allowed")
		return
	}
	if len(purchaseHeaders) > s.opts.MaxPurchaseFiles {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d Purchase Order files are allowed", s.opts.MaxPurchaseFiles))
		return
	}
	for _, fh := range append(salesHeaders, purchaseHeaders...) {
		if !isSpreadsheet(fh) {
			writeError(w, http.StatusBadRequest, "Only Excel files are allowed!")
			return
		}
	}

	var stored []string
	defer func() {
		for _, path := range stored {
			if err := os.Remove(path); err != nil {
				s.log.WithError(err).Warn("Error deleting file", logging.F(logging.FieldFile, path))
			}
		}
	}()

	salesFile, err := s.store(fieldSalesOrder, salesHeaders[0])
	if err != nil {
		s.log.WithError(err).Error("Failed to store upload")
		writeError(w, http.StatusInternalServerError, "An error occurred during reconciliation")
		return
	}
	stored = append(stored, salesFile.Path)

	purchaseFiles := make([]usecase.OrderFile, 0, len(purchaseHeaders))
	for _, fh := range purchaseHeaders {
		pf, err := s.store(fieldPurchaseOrders, fh)
		if err != nil {
			s.log.WithError(err).Error("Failed to store upload")
			writeError(w, http.StatusInternalServerError, "An error occurred during reconciliation")
			return
		}
		stored = append(stored, pf.Path)
		purchaseFiles = append(purchaseFiles, pf)
	}

	report, err := s.reconciler.Reconcile(r.Context(), salesFile, purchaseFiles)
	if err != nil {
		s.log.WithError(err).Error("Reconciliation error")
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// store copies an uploaded file to the upload directory under a unique name
// that keeps the original extension, so the decoder can be chosen by it.
func (s *Server) store(field string, fh *multipart.FileHeader) (usecase.OrderFile, error) {
	src, err := fh.Open()
	if err != nil {
		return usecase.OrderFile{}, err
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s%s", field, uuid.New().String(), strings.ToLower(filepath.Ext(fh.Filename)))
	path := filepath.Join(s.opts.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return usecase.OrderFile{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return usecase.OrderFile{}, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return usecase.OrderFile{}, err
	}
	return usecase.OrderFile{Name: fh.Filename, Path: path}, nil
}
