package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	// SetEsiEligibility persists the half-year eligibility flag decided at
	// the April/October contribution period start.
	SetEsiEligibility(ctx context.Context, id string, companyID string, eligible bool) error
}
