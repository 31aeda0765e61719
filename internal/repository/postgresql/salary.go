package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const componentColumns = `
	id, company_id, code, name, is_pf_wage, is_esi_wage, is_taxable, is_pt_wage,
	apply_proration, proration_basis, display_order, is_active, created_at, updated_at
`

// CreateComponent implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) CreateComponent(ctx context.Context, c salary.SalaryComponent) (salary.SalaryComponent, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO salary_components (
			id, company_id, code, name, is_pf_wage, is_esi_wage, is_taxable, is_pt_wage,
			apply_proration, proration_basis, display_order, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		c.ID, c.CompanyID, c.Code, c.Name, c.IsPfWage, c.IsEsiWage, c.IsTaxable, c.IsPtWage,
		c.ApplyProration, c.ProrationBasis, c.DisplayOrder, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return salary.SalaryComponent{}, err
	}
	return c, nil
}

// GetComponentByCode implements salary.SalaryRepository. Company components
// shadow global ones with the same code.
func (s *salaryRepositoryImpl) GetComponentByCode(ctx context.Context, code string, companyID string) (salary.SalaryComponent, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + componentColumns + `
		FROM salary_components
		WHERE code = $1 AND (company_id = $2 OR company_id IS NULL)
		ORDER BY company_id NULLS LAST
		LIMIT 1
	`
	return scanComponent(q.QueryRow(ctx, query, code, companyID))
}

// ListComponents implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]salary.SalaryComponent, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + componentColumns + `
		FROM salary_components
		WHERE company_id = $1 OR company_id IS NULL
	`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY display_order ASC, code ASC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []salary.SalaryComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComponent(row pgx.Row) (salary.SalaryComponent, error) {
	var c salary.SalaryComponent
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.IsPfWage, &c.IsEsiWage, &c.IsTaxable, &c.IsPtWage,
		&c.ApplyProration, &c.ProrationBasis, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return salary.SalaryComponent{}, err
	}
	return c, nil
}

// UpdateComponent implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) UpdateComponent(ctx context.Context, companyID string, req salary.UpdateComponentRequest) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE salary_components
		SET name = COALESCE($3, name),
		    is_pf_wage = COALESCE($4, is_pf_wage),
		    is_esi_wage = COALESCE($5, is_esi_wage),
		    is_taxable = COALESCE($6, is_taxable),
		    is_pt_wage = COALESCE($7, is_pt_wage),
		    apply_proration = COALESCE($8, apply_proration),
		    proration_basis = COALESCE($9, proration_basis),
		    is_active = COALESCE($10, is_active),
		    updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`
	commandTag, err := q.Exec(ctx, query,
		req.ID, companyID, req.Name, req.IsPfWage, req.IsEsiWage, req.IsTaxable,
		req.IsPtWage, req.ApplyProration, req.ProrationBasis, req.IsActive,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateStructure implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) CreateStructure(ctx context.Context, st salary.SalaryStructure) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO salary_structures (
			id, employee_id, company_id, annual_ctc, monthly_basic, monthly_hra,
			monthly_da, monthly_allowances, monthly_lta, monthly_bonus,
			employer_pf, employer_esi, gratuity, effective_from, effective_to,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		st.ID, st.EmployeeID, st.CompanyID, st.AnnualCTC, st.MonthlyBasic, st.MonthlyHRA,
		st.MonthlyDA, st.MonthlyAllowances, st.MonthlyLTA, st.MonthlyBonus,
		st.EmployerPF, st.EmployerESI, st.Gratuity, st.EffectiveFrom, st.EffectiveTo,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	return st, nil
}

// GetActiveStructure implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) GetActiveStructure(ctx context.Context, employeeID string, companyID string, on time.Time) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, company_id, annual_ctc, monthly_basic, monthly_hra,
		       monthly_da, monthly_allowances, monthly_lta, monthly_bonus,
		       employer_pf, employer_esi, gratuity, effective_from, effective_to,
		       created_at, updated_at
		FROM salary_structures
		WHERE employee_id = $1 AND company_id = $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`
	var st salary.SalaryStructure
	err := q.QueryRow(ctx, query, employeeID, companyID, on).Scan(
		&st.ID, &st.EmployeeID, &st.CompanyID, &st.AnnualCTC, &st.MonthlyBasic, &st.MonthlyHRA,
		&st.MonthlyDA, &st.MonthlyAllowances, &st.MonthlyLTA, &st.MonthlyBonus,
		&st.EmployerPF, &st.EmployerESI, &st.Gratuity, &st.EffectiveFrom, &st.EffectiveTo,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	return st, nil
}

// GetComponentAmounts implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) GetComponentAmounts(ctx context.Context, employeeID string, companyID string, periodStart time.Time) ([]salary.ComponentAmount, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT sc.id, sc.company_id, sc.code, sc.name, sc.is_pf_wage, sc.is_esi_wage,
		       sc.is_taxable, sc.is_pt_wage, sc.apply_proration, sc.proration_basis,
		       sc.display_order, sc.is_active, sc.created_at, sc.updated_at,
		       eca.amount
		FROM employee_component_amounts eca
		JOIN salary_components sc ON sc.id = eca.component_id
		WHERE eca.employee_id = $1 AND eca.company_id = $2
		  AND eca.effective_from <= $3
		  AND (eca.effective_to IS NULL OR eca.effective_to >= $3)
		  AND sc.is_active = true
		ORDER BY sc.display_order ASC
	`
	rows, err := q.Query(ctx, query, employeeID, companyID, periodStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []salary.ComponentAmount
	for rows.Next() {
		var ca salary.ComponentAmount
		err := rows.Scan(
			&ca.Component.ID, &ca.Component.CompanyID, &ca.Component.Code, &ca.Component.Name,
			&ca.Component.IsPfWage, &ca.Component.IsEsiWage, &ca.Component.IsTaxable, &ca.Component.IsPtWage,
			&ca.Component.ApplyProration, &ca.Component.ProrationBasis,
			&ca.Component.DisplayOrder, &ca.Component.IsActive,
			&ca.Component.CreatedAt, &ca.Component.UpdatedAt,
			&ca.Amount,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

// GetAttendance implements salary.SalaryRepository.
func (s *salaryRepositoryImpl) GetAttendance(ctx context.Context, employeeID string, companyID string, month, year int) (salary.Attendance, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT working_days, present_days, lop_days, calendar_days
		FROM attendance_summaries
		WHERE employee_id = $1 AND company_id = $2 AND period_month = $3 AND period_year = $4
	`
	var att salary.Attendance
	err := q.QueryRow(ctx, query, employeeID, companyID, month, year).Scan(
		&att.WorkingDays, &att.PresentDays, &att.LOPDays, &att.CalendarDays,
	)
	if err != nil {
		return salary.Attendance{}, err
	}
	return att, nil
}
