package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	CreateComponent(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)
	UpdateComponent(w http.ResponseWriter, r *http.Request)
	CreateStructure(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) CreateComponent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req salary.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateComponent(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary component created", result)
}

func (h *salaryHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.salaryService.ListComponents(r.Context(), companyID, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req salary.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.ID == "" {
		response.BadRequest(w, "Component ID is required", nil)
		return
	}

	if err := h.salaryService.UpdateComponent(r.Context(), companyID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component updated", nil)
}

func (h *salaryHandlerImpl) CreateStructure(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req salary.CreateStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateStructure(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created", result)
}
