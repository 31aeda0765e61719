package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/handler/http/response"
)

type DeclarationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type declarationHandlerImpl struct {
	declarationService declaration.DeclarationService
}

func NewDeclarationHandler(declarationService declaration.DeclarationService) DeclarationHandler {
	return &declarationHandlerImpl{declarationService: declarationService}
}

func (h *declarationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}
	employeeID, ok := requireClaim(w, r, "employee_id")
	if !ok {
		return
	}

	var req declaration.CreateDeclarationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.declarationService.Create(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tax declaration created", result)
}

func (h *declarationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Declaration ID is required", nil)
		return
	}

	result, err := h.declarationService.GetByID(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *declarationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	var req declaration.UpdateDeclarationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	if req.ID == "" {
		response.BadRequest(w, "Declaration ID is required", nil)
		return
	}

	result, err := h.declarationService.Update(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax declaration updated", result)
}

func (h *declarationHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}
	userID, ok := requireClaim(w, r, "user_id")
	if !ok {
		return
	}

	var req declaration.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.Actor = userID
	if req.ID == "" {
		response.BadRequest(w, "Declaration ID is required", nil)
		return
	}

	result, err := h.declarationService.Transition(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Declaration "+req.Action+" applied", result)
}

func (h *declarationHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	companyID, ok := requireClaim(w, r, "company_id")
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Declaration ID is required", nil)
		return
	}

	result, err := h.declarationService.History(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
