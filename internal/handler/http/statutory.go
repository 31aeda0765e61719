package http

import (
	"encoding/json"
	"net/http"

	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

type StatutoryHandler interface {
	GetPfConfig(w http.ResponseWriter, r *http.Request)
	UpdatePfConfig(w http.ResponseWriter, r *http.Request)
	GetEsiConfig(w http.ResponseWriter, r *http.Request)
	UpdateEsiConfig(w http.ResponseWriter, r *http.Request)
	CreatePtSlab(w http.ResponseWriter, r *http.Request)
	ListPtSlabs(w http.ResponseWriter, r *http.Request)
	GetTaxSchedule(w http.ResponseWriter, r *http.Request)
	UpsertTaxSchedule(w http.ResponseWriter, r *http.Request)
}

type statutoryHandlerImpl struct {
	statutoryService statutory.StatutoryService
}

func NewStatutoryHandler(statutoryService statutory.StatutoryService) StatutoryHandler {
	return &statutoryHandlerImpl{statutoryService: statutoryService}
}

func (h *statutoryHandlerImpl) GetPfConfig(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	result, err := h.statutoryService.GetPfConfig(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) UpdatePfConfig(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req statutory.UpdatePfConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.UpdatePfConfig(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "PF configuration updated", result)
}

func (h *statutoryHandlerImpl) GetEsiConfig(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	result, err := h.statutoryService.GetEsiConfig(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) UpdateEsiConfig(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req statutory.UpdateEsiConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.UpdateEsiConfig(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "ESI configuration updated", result)
}

// PT slabs are state-level, not company-level, so no company scoping here.

func (h *statutoryHandlerImpl) CreatePtSlab(w http.ResponseWriter, r *http.Request) {
	var req statutory.CreatePtSlabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.CreatePtSlab(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Professional tax slab created", result)
}

func (h *statutoryHandlerImpl) ListPtSlabs(w http.ResponseWriter, r *http.Request) {
	stateCode := r.URL.Query().Get("state_code")
	if stateCode == "" {
		response.BadRequest(w, "state_code is required", nil)
		return
	}
	onDate := r.URL.Query().Get("on_date")

	result, err := h.statutoryService.ListPtSlabs(r.Context(), stateCode, onDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Regime schedules are statutory data shared across tenants, same as PT slabs.

func (h *statutoryHandlerImpl) GetTaxSchedule(w http.ResponseWriter, r *http.Request) {
	financialYear := r.URL.Query().Get("financial_year")
	regime := r.URL.Query().Get("regime")

	result, err := h.statutoryService.GetRegimeSchedule(r.Context(), financialYear, regime)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *statutoryHandlerImpl) UpsertTaxSchedule(w http.ResponseWriter, r *http.Request) {
	var req tax.UpsertScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.statutoryService.UpsertRegimeSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax schedule saved", result)
}
