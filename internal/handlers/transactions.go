package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/models"
	"github.com/webfinancas/api/internal/services"
	pkghttp "github.com/webfinancas/api/pkg/http"
)

// dateLayout is the wire format for transaction dates.
const dateLayout = "2006-01-02"

// LedgerService defines the transaction operations exposed over HTTP.
type LedgerService interface {
	Create(ctx context.Context, ownerID int64, in services.TransactionInput) (*models.Transaction, error)
	Update(ctx context.Context, ownerID, id int64, in services.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, ownerID, id int64) error
	List(ctx context.Context, ownerID int64, opts services.ListOptions) (*models.TransactionPage, error)
	SummaryAllTime(ctx context.Context, ownerID int64) (*services.FinancialSummary, error)
	SummaryByPeriod(ctx context.Context, ownerID int64, from, to *time.Time) (*services.FinancialSummary, error)
	SpendingByCategory(ctx context.Context, ownerID int64, from, to *time.Time) ([]*models.CategorySpending, error)
}

// TransactionHandler handles ledger HTTP requests
type TransactionHandler struct {
	service LedgerService
}

func NewTransactionHandler(service LedgerService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type TransactionRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Kind        string  `json:"kind" validate:"required,oneof=income expense"`
	Date        string  `json:"date" validate:"required"`
	Category    string  `json:"category" validate:"required"`
}

type TransactionResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Kind        string  `json:"kind"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

type TransactionPageResponse struct {
	Items       []*TransactionResponse `json:"items"`
	CurrentPage int                    `json:"currentPage"`
	TotalPages  int                    `json:"totalPages"`
	TotalItems  int                    `json:"totalItems"`
}

type SummaryResponse struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
	SavingsRate  float64 `json:"savingsRate"`
}

type CategorySpendingResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

func transactionModelToResponse(t *models.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Date:        t.Date.Format(dateLayout),
		Category:    t.Category,
	}
}

func summaryToResponse(s *services.FinancialSummary) *SummaryResponse {
	return &SummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance,
		SavingsRate:  s.SavingsRate,
	}
}

// parseDateParam returns nil for an absent or malformed date parameter.
func parseDateParam(r *http.Request, name string) *time.Time {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// parseIntParam returns def for an absent or non-numeric parameter.
func parseIntParam(r *http.Request, name string, def int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func (h *TransactionHandler) requestInput(req TransactionRequest) (services.TransactionInput, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return services.TransactionInput{}, err
	}
	return services.TransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Date:        date,
		Category:    req.Category,
	}, nil
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	input, err := h.requestInput(req)
	if err != nil {
		pkghttp.WriteBadRequest(w, "date must be in YYYY-MM-DD format")
		return
	}

	transaction, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "all fields are required and amount must be greater than zero")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, transactionModelToResponse(transaction))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	opts := services.ListOptions{
		Page:     parseIntParam(r, "page", services.DefaultPage),
		Limit:    parseIntParam(r, "limit", services.DefaultLimit),
		Kind:     r.URL.Query().Get("kind"),
		Category: r.URL.Query().Get("category"),
		DateFrom: parseDateParam(r, "startDate"),
		DateTo:   parseDateParam(r, "endDate"),
	}

	page, err := h.service.List(r.Context(), userID, opts)
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	items := make([]*TransactionResponse, len(page.Items))
	for i, t := range page.Items {
		items[i] = transactionModelToResponse(t)
	}

	pkghttp.WriteJSON(w, http.StatusOK, TransactionPageResponse{
		Items:       items,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
	})
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid transaction id")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	input, err := h.requestInput(req)
	if err != nil {
		pkghttp.WriteBadRequest(w, "date must be in YYYY-MM-DD format")
		return
	}

	transaction, err := h.service.Update(r.Context(), userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "all fields are required and amount must be greater than zero")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "transaction not found")
		default:
			pkghttp.WriteInternalError(w, "internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, transactionModelToResponse(transaction))
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid transaction id")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "transaction not found")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted successfully"})
}

func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	summary, err := h.service.SummaryAllTime(r.Context(), userID)
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, summaryToResponse(summary))
}

func (h *TransactionHandler) SummaryByPeriod(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	from := parseDateParam(r, "startDate")
	to := parseDateParam(r, "endDate")

	summary, err := h.service.SummaryByPeriod(r.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "startDate and endDate are required")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, summaryToResponse(summary))
}

// SpendingByCategory serves both the period and the all-time variants; the
// all-time route simply carries no date parameters.
func (h *TransactionHandler) SpendingByCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	from := parseDateParam(r, "startDate")
	to := parseDateParam(r, "endDate")

	spending, err := h.service.SpendingByCategory(r.Context(), userID, from, to)
	if err != nil {
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	response := make([]*CategorySpendingResponse, len(spending))
	for i, cs := range spending {
		response[i] = &CategorySpendingResponse{Category: cs.Category, Total: cs.Total}
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}
