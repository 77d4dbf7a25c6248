package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/finance"
)

const (
	defaultTenureYears  = 20
	defaultPredictYears = 5
)

// ToolsHandler serves the EMI calculator and price predictor
type ToolsHandler struct {
	logger *zap.Logger
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{logger: logger}
}

type emiResponse struct {
	Success bool    `json:"success"`
	Loan    float64 `json:"loan"`
	Rate    float64 `json:"rate"`
	Years   int     `json:"years"`
	EMI     float64 `json:"emi"`
}

type banksResponse struct {
	Success   bool               `json:"success"`
	Banks     []finance.BankRate `json:"banks"`
	LoanRatio float64            `json:"default_loan_ratio"`
}

type predictResponse struct {
	Success bool `json:"success"`
	finance.Prediction
}

// HandleEMI handles GET /api/tools/emi?loan=&rate=&years=
func (h *ToolsHandler) HandleEMI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loan, err := strconv.ParseFloat(q.Get("loan"), 64)
	if err != nil || !finance.ValidAmount(loan) {
		respondWithError(w, http.StatusBadRequest, "loan must be a positive amount")
		return
	}
	rate := finance.BankRates[0].Rate
	if s := q.Get("rate"); s != "" {
		rate, err = strconv.ParseFloat(s, 64)
		if err != nil || !finance.ValidRate(rate) {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("rate must be between 0 and %g", finance.MaxRatePct))
			return
		}
	}
	years := defaultTenureYears
	if s := q.Get("years"); s != "" {
		years, err = strconv.Atoi(s)
		if err != nil || years < 1 || years > finance.MaxTenureYears {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("years must be between 1 and %d", finance.MaxTenureYears))
			return
		}
	}

	respondWithJSON(w, h.logger, http.StatusOK, emiResponse{
		Success: true,
		Loan:    loan,
		Rate:    rate,
		Years:   years,
		EMI:     finance.EMI(loan, rate, years),
	})
}

// HandleBanks handles GET /api/tools/banks
func (h *ToolsHandler) HandleBanks(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, h.logger, http.StatusOK, banksResponse{
		Success:   true,
		Banks:     finance.BankRates,
		LoanRatio: finance.DefaultLoanRatio,
	})
}

// HandlePredict handles GET /api/tools/predict?price=&city=&type=&years=
func (h *ToolsHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, err := strconv.ParseFloat(q.Get("price"), 64)
	if err != nil || !finance.ValidAmount(price) {
		respondWithError(w, http.StatusBadRequest, "price must be a positive amount")
		return
	}
	years := defaultPredictYears
	if s := q.Get("years"); s != "" {
		if years, err = strconv.Atoi(s); err != nil {
			respondWithError(w, http.StatusBadRequest, "years must be an integer")
			return
		}
	}

	respondWithJSON(w, h.logger, http.StatusOK, predictResponse{
		Success:    true,
		Prediction: finance.Predict(price, q.Get("city"), q.Get("type"), years),
	})
}
