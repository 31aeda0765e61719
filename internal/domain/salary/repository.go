package salary

import (
	"context"
	"time"
)

// SalaryRepository defines data access for components, structures and
// attendance. companyID scoping everywhere, as with every repository here.
type SalaryRepository interface {
	CreateComponent(ctx context.Context, c SalaryComponent) (SalaryComponent, error)
	GetComponentByCode(ctx context.Context, code string, companyID string) (SalaryComponent, error)
	ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]SalaryComponent, error)
	UpdateComponent(ctx context.Context, companyID string, req UpdateComponentRequest) error

	CreateStructure(ctx context.Context, s SalaryStructure) (SalaryStructure, error)
	// GetActiveStructure returns the structure effective for the employee on
	// the given date.
	GetActiveStructure(ctx context.Context, employeeID string, companyID string, on time.Time) (SalaryStructure, error)

	// GetComponentAmounts returns the employee's active component amounts for
	// a pay period, component metadata attached.
	GetComponentAmounts(ctx context.Context, employeeID string, companyID string, periodStart time.Time) ([]ComponentAmount, error)

	// GetAttendance aggregates the employee's attendance for the period.
	GetAttendance(ctx context.Context, employeeID string, companyID string, month, year int) (Attendance, error)
}
