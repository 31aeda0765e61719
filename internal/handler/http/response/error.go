package response

import (
	"errors"
	"net/http"

	"github.com/paysutra/payroll-backend-go/internal/domain/auth"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrCompanyIDRequired):
		Unauthorized(w, err.Error())

	// Rule domain errors
	case errors.Is(err, rule.ErrRuleNotFound):
		NotFound(w, "Calculation rule not found")
	case errors.Is(err, rule.ErrVariableNotFound):
		NotFound(w, "Formula variable not found")
	case errors.Is(err, rule.ErrOverlappingRule):
		Conflict(w, err.Error())
	case errors.Is(err, rule.ErrRuleInFinalizedTx):
		Conflict(w, err.Error())
	case errors.Is(err, rule.ErrInvalidFormula),
		errors.Is(err, rule.ErrUnknownVariable),
		errors.Is(err, rule.ErrCyclicDependency),
		errors.Is(err, rule.ErrDivisionByZero),
		errors.Is(err, rule.ErrNoMatchingBand):
		BadRequest(w, err.Error(), nil)

	// Declaration domain errors
	case errors.Is(err, declaration.ErrDeclarationNotFound):
		NotFound(w, "Tax declaration not found")
	case errors.Is(err, declaration.ErrDeclarationExists):
		Conflict(w, err.Error())
	case errors.Is(err, declaration.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, declaration.ErrDeclarationLocked):
		Conflict(w, err.Error())
	case errors.Is(err, declaration.ErrNotEditable):
		Conflict(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrTransactionNotFound):
		NotFound(w, "Payroll transaction not found")
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrTransactionExists),
		errors.Is(err, payroll.ErrTransactionFinalized),
		errors.Is(err, payroll.ErrOverrideOnFinalized),
		errors.Is(err, payroll.ErrRunNotFinalizable),
		errors.Is(err, payroll.ErrConcurrentFinalize),
		errors.Is(err, payroll.ErrLineTotalMismatch):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNoEmployeesInRun):
		BadRequest(w, err.Error(), nil)

	// Salary and attendance errors
	case errors.Is(err, salary.ErrComponentNotFound):
		NotFound(w, "Salary component not found")
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "No salary structure effective for the period")
	case errors.Is(err, salary.ErrComponentCodeExists):
		Conflict(w, "Salary component code already exists")
	case errors.Is(err, salary.ErrZeroWorkingDays),
		errors.Is(err, salary.ErrNegativeAttendance),
		errors.Is(err, salary.ErrPresentExceedsWorked):
		BadRequest(w, err.Error(), nil)

	// Statutory configuration errors
	case errors.Is(err, statutory.ErrNoSlabForState):
		NotFound(w, "No professional tax slab for state and date")
	case errors.Is(err, statutory.ErrInvalidRate),
		errors.Is(err, statutory.ErrRestrictedPfNoOptIn):
		BadRequest(w, err.Error(), nil)

	// Tax computation errors
	case errors.Is(err, tax.ErrScheduleNotFound):
		NotFound(w, "No tax schedule for regime and financial year")
	case errors.Is(err, tax.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, tax.ErrRoundingReconciliation):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
