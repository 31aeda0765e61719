package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

type RuleHandler interface {
	// Rules
	CreateRule(w http.ResponseWriter, r *http.Request)
	GetRule(w http.ResponseWriter, r *http.Request)
	ListRules(w http.ResponseWriter, r *http.Request)
	UpdateRule(w http.ResponseWriter, r *http.Request)
	DeactivateRule(w http.ResponseWriter, r *http.Request)
	DryRun(w http.ResponseWriter, r *http.Request)

	// Formula variables
	CreateVariable(w http.ResponseWriter, r *http.Request)
	ListVariables(w http.ResponseWriter, r *http.Request)
}

type ruleHandlerImpl struct {
	ruleService rule.RuleService
}

func NewRuleHandler(ruleService rule.RuleService) RuleHandler {
	return &ruleHandlerImpl{ruleService: ruleService}
}

// ========== RULES ==========

func (h *ruleHandlerImpl) CreateRule(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req rule.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ruleService.CreateRule(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Calculation rule created", result)
}

func (h *ruleHandlerImpl) GetRule(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	result, err := h.ruleService.GetRuleByID(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ruleHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.ruleService.ListRules(r.Context(), companyID, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ruleHandlerImpl) UpdateRule(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req rule.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.ID == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	result, err := h.ruleService.UpdateRule(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calculation rule updated", result)
}

func (h *ruleHandlerImpl) DeactivateRule(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rule ID is required", nil)
		return
	}

	if err := h.ruleService.DeactivateRule(r.Context(), id, companyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calculation rule deactivated", nil)
}

func (h *ruleHandlerImpl) DryRun(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req rule.DryRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ruleService.DryRun(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== FORMULA VARIABLES ==========

func (h *ruleHandlerImpl) CreateVariable(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req rule.CreateVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ruleService.CreateVariable(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Formula variable created", result)
}

func (h *ruleHandlerImpl) ListVariables(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	result, err := h.ruleService.ListVariables(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
