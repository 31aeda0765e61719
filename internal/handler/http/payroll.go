package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Runs
	GenerateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	FinalizeRun(w http.ResponseWriter, r *http.Request)

	// Transactions
	ListTransactions(w http.ResponseWriter, r *http.Request)
	GetTransaction(w http.ResponseWriter, r *http.Request)
	FinalizeTransaction(w http.ResponseWriter, r *http.Request)
	OverrideTds(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) GenerateRun(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}
	userID, ok := requireClaim(w, r, "user_id")
	if !ok {
		return
	}

	var req payroll.GenerateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GenerateRun(r.Context(), companyID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run generated", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) FinalizeRun(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}
	userID, ok := requireClaim(w, r, "user_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.FinalizeRun(r.Context(), id, companyID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run finalized", result)
}

// ========== TRANSACTIONS ==========

func (h *payrollHandlerImpl) ListTransactions(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	filter := payroll.TransactionFilter{}
	q := r.URL.Query()

	if month := q.Get("period_month"); month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			response.BadRequest(w, "period_month must be a number", nil)
			return
		}
		filter.PeriodMonth = &m
	}
	if year := q.Get("period_year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			response.BadRequest(w, "period_year must be a number", nil)
			return
		}
		filter.PeriodYear = &y
	}
	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if employeeID := q.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if page := q.Get("page"); page != "" {
		filter.Page, _ = strconv.Atoi(page)
	}
	if limit := q.Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	result, total, err := h.payrollService.ListTransactions(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) GetTransaction(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.payrollService.GetTransaction(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) FinalizeTransaction(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}
	userID, ok := requireClaim(w, r, "user_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.payrollService.FinalizeTransaction(r.Context(), id, companyID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll transaction finalized", result)
}

func (h *payrollHandlerImpl) OverrideTds(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req payroll.TdsOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.TransactionID = chi.URLParam(r, "id")
	if req.TransactionID == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.payrollService.ApplyTdsOverride(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "TDS override applied", result)
}
