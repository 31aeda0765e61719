package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/employee"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, user_id, company_id, employee_code, full_name, pan, work_state_code,
	hire_date, resignation_date, employment_type, employment_status,
	pf_restricted_opt_in, esi_eligible_at_half_year_start,
	created_at, updated_at, deleted_at
`

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`
	return scanEmployee(q.QueryRow(ctx, query, id, companyID))
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = 'active' AND deleted_at IS NULL
		ORDER BY employee_code ASC
	`
	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// SetEsiEligibility implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetEsiEligibility(ctx context.Context, id string, companyID string, eligible bool) error {
	q := GetQuerier(ctx, e.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE employees
		SET esi_eligible_at_half_year_start = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`, id, companyID, eligible)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.PAN, &emp.WorkStateCode,
		&emp.HireDate, &emp.ResignationDate, &emp.EmploymentType, &emp.EmploymentStatus,
		&emp.PfRestrictedOptIn, &emp.EsiEligibleAtHalfYearStart,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}
