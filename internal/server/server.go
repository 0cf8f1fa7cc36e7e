// Package server exposes the calculation engine over a small JSON API:
// upload a portfolio document, receive the aggregated statement with its
// derived views.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dunphycap/crecast/internal/config"
	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/statement"
	"github.com/dunphycap/crecast/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	rates         loan.RateProvider
}

// NewHandler constructs the HTTP handler that serves the statement API. The
// rate provider backs floating-rate loans in uploaded documents and may be
// nil.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, rates loan.RateProvider) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, rates: rates}

	mux := http.NewServeMux()

	// Statement API endpoint (document upload)
	mux.HandleFunc("/api/statement", h.handleStatement)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Liveness endpoint
	mux.HandleFunc("/healthz", h.handleHealth)

	return mux
}

type statementResponse struct {
	Portfolio string         `json:"portfolio"`
	Columns   []string       `json:"columns"`
	Rows      []statementRow `json:"rows"`
	Cash      []cashRow      `json:"cash"`
	DSCR      []dscrRow      `json:"dscr"`
	Warnings  []string       `json:"warnings,omitempty"`
	Duration  string         `json:"duration"`
}

type statementRow struct {
	Date   string    `json:"date"`
	Values []float64 `json:"values"`
}

type cashRow struct {
	Date          string  `json:"date"`
	BeginningCash float64 `json:"beginningCash"`
	NetCashFlow   float64 `json:"netCashFlow"`
	EndingCash    float64 `json:"endingCash"`
}

// dscrRow carries the ratio as a string so that infinite and undefined
// months survive JSON encoding instead of failing it.
type dscrRow struct {
	Date  string `json:"date"`
	Ratio string `json:"ratio"`
}

func (h *handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read document: %v", err))
		return
	}

	conf, err := config.ParseConfiguration(buf.Bytes())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading document, %v", err))
		return
	}

	warnings := conf.ValidateConfiguration()

	pf, err := conf.BuildPortfolio(h.logger, h.rates)
	if err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	aggregate, err := pf.Aggregate("", "")
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to aggregate portfolio: %v", err))
		return
	}
	cash, err := pf.MonthlyCash("", "")
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute monthly cash: %v", err))
		return
	}
	dscr, err := pf.MonthlyDSCR("", "")
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute DSCR: %v", err))
		return
	}

	response := statementResponse{
		Portfolio: pf.Name,
		Columns:   aggregate.Columns(),
		Warnings:  warnings,
		Duration:  time.Since(start).String(),
	}
	for _, date := range aggregate.Dates() {
		values := make([]float64, 0, len(response.Columns))
		for _, column := range response.Columns {
			values = append(values, aggregate.Get(date, column))
		}
		response.Rows = append(response.Rows, statementRow{Date: date, Values: values})

		response.Cash = append(response.Cash, cashRow{
			Date:          date,
			BeginningCash: cash.Get(date, statement.ColBeginningCash),
			NetCashFlow:   cash.Get(date, statement.ColNetCashFlow),
			EndingCash:    cash.Get(date, statement.ColEndingCash),
		})
		response.DSCR = append(response.DSCR, dscrRow{
			Date:  date,
			Ratio: fmt.Sprintf("%g", dscr[date]),
		})
	}

	h.logger.Info("served statement",
		zap.String("op", "server.handleStatement"),
		zap.String("portfolio", pf.Name),
		zap.Int("months", len(response.Rows)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondError(w http.ResponseWriter, status int, message string) {
	h.logger.Warn("request failed",
		zap.String("op", "server.respondError"),
		zap.Int("status", status),
		zap.String("message", message),
	)
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
