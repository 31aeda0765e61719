package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// CreateRun implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payroll_runs (id, company_id, period_month, period_year, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		run.ID, run.CompanyID, run.PeriodMonth, run.PeriodYear, run.Status, run.CreatedBy,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return payroll.Run{}, err
	}
	return run, nil
}

// GetRunByID implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string, companyID string) (payroll.Run, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, company_id, period_month, period_year, status, created_by, created_at, updated_at
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`
	var run payroll.Run
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&run.ID, &run.CompanyID, &run.PeriodMonth, &run.PeriodYear, &run.Status,
		&run.CreatedBy, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return payroll.Run{}, err
	}
	return run, nil
}

// UpdateRunStatus implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) UpdateRunStatus(ctx context.Context, id string, companyID string, status payroll.RunStatus) error {
	q := GetQuerier(ctx, p.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE payroll_runs SET status = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, id, companyID, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

const transactionColumns = `
	id, run_id, employee_id, company_id, period_month, period_year,
	working_days, present_days, lop_days, wage_bases,
	gross_earnings, total_deductions, employer_contributions, net_payable,
	pf_breakdown, esi_breakdown, pt_breakdown,
	computed_tds, tds_override, status, version,
	finalized_at, finalized_by, created_at, updated_at
`

// CreateTransaction implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) CreateTransaction(ctx context.Context, t payroll.Transaction) (payroll.Transaction, error) {
	q := GetQuerier(ctx, p.db)

	basesJSON, pfJSON, esiJSON, ptJSON, overrideJSON, err := marshalTransactionJSON(t)
	if err != nil {
		return payroll.Transaction{}, err
	}

	query := `
		INSERT INTO payroll_transactions (
			id, run_id, employee_id, company_id, period_month, period_year,
			working_days, present_days, lop_days, wage_bases,
			gross_earnings, total_deductions, employer_contributions, net_payable,
			pf_breakdown, esi_breakdown, pt_breakdown,
			computed_tds, tds_override, status, version,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		t.ID, t.RunID, t.EmployeeID, t.CompanyID, t.PeriodMonth, t.PeriodYear,
		t.WorkingDays, t.PresentDays, t.LOPDays, basesJSON,
		t.GrossEarnings, t.TotalDeductions, t.EmployerContributions, t.NetPayable,
		pfJSON, esiJSON, ptJSON,
		t.ComputedTds, overrideJSON, t.Status, t.Version,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return payroll.Transaction{}, err
	}
	return t, nil
}

// GetTransactionByID implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetTransactionByID(ctx context.Context, id string, companyID string) (payroll.Transaction, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM payroll_transactions
		WHERE id = $1 AND company_id = $2
	`
	return scanTransaction(q.QueryRow(ctx, query, id, companyID))
}

// GetTransactionByEmployeePeriod implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) GetTransactionByEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (payroll.Transaction, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM payroll_transactions
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND company_id = $4
	`
	return scanTransaction(q.QueryRow(ctx, query, employeeID, month, year, companyID))
}

// ListTransactions implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ListTransactions(ctx context.Context, companyID string, filter payroll.TransactionFilter) ([]payroll.Transaction, int64, error) {
	q := GetQuerier(ctx, p.db)

	where := ` WHERE company_id = $1`
	args := []any{companyID}
	arg := 2
	if filter.PeriodMonth != nil {
		where += fmt.Sprintf(" AND period_month = $%d", arg)
		args = append(args, *filter.PeriodMonth)
		arg++
	}
	if filter.PeriodYear != nil {
		where += fmt.Sprintf(" AND period_year = $%d", arg)
		args = append(args, *filter.PeriodYear)
		arg++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, *filter.Status)
		arg++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND employee_id = $%d", arg)
		args = append(args, *filter.EmployeeID)
		arg++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + transactionColumns + ` FROM payroll_transactions` + where +
		fmt.Sprintf(" ORDER BY period_year DESC, period_month DESC, employee_id ASC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []payroll.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// ListTransactionsByRun implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ListTransactionsByRun(ctx context.Context, runID string, companyID string) ([]payroll.Transaction, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM payroll_transactions
		WHERE run_id = $1 AND company_id = $2
		ORDER BY employee_id ASC
	`
	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FinalizeTransaction implements payroll.PayrollRepository. The version
// predicate makes concurrent finalizes lose cleanly instead of double
// finalizing.
func (p *payrollRepositoryImpl) FinalizeTransaction(ctx context.Context, id string, companyID string, version int, finalizedBy string) (payroll.Transaction, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payroll_transactions
		SET status = $4, version = version + 1, finalized_at = NOW(), finalized_by = $5, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND version = $3 AND status != $4
	`
	commandTag, err := q.Exec(ctx, query, id, companyID, version, payroll.TransactionStatusFinalized, finalizedBy)
	if err != nil {
		return payroll.Transaction{}, err
	}
	if commandTag.RowsAffected() != 1 {
		return payroll.Transaction{}, payroll.ErrConcurrentFinalize
	}
	return p.GetTransactionByID(ctx, id, companyID)
}

// SetTdsOverride implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) SetTdsOverride(ctx context.Context, id string, companyID string, override payroll.TdsOverrideRequest) error {
	q := GetQuerier(ctx, p.db)

	overrideJSON, err := json.Marshal(map[string]any{"amount": override.Amount, "reason": override.Reason})
	if err != nil {
		return fmt.Errorf("marshal tds override: %w", err)
	}

	commandTag, err := q.Exec(ctx, `
		UPDATE payroll_transactions
		SET tds_override = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, id, companyID, overrideJSON)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

// SumFinalizedTds implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) SumFinalizedTds(ctx context.Context, employeeID string, companyID string, fromPeriod, toPeriod int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT COALESCE(SUM(
			CASE WHEN tds_override IS NOT NULL
			     THEN (tds_override->>'amount')::numeric
			     ELSE computed_tds
			END), 0)
		FROM payroll_transactions
		WHERE employee_id = $1 AND company_id = $2 AND status = 'finalized'
		  AND period_year * 100 + period_month BETWEEN $3 AND $4
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, companyID, fromPeriod, toPeriod).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// AppendLines implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) AppendLines(ctx context.Context, transactionID string, lines []payroll.CalculationLine) error {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO calculation_lines (
			id, transaction_id, line_type, rule_code, base_amount, rate,
			computed_amount, config_version, config_snapshot, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	for _, l := range lines {
		var snapshot []byte
		if l.ConfigSnapshot != nil {
			snapshot = []byte(l.ConfigSnapshot)
		}
		_, err := q.Exec(ctx, query,
			l.ID, transactionID, l.LineType, l.RuleCode, l.BaseAmount, l.Rate,
			l.ComputedAmount, l.ConfigVersion, snapshot,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListLines implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ListLines(ctx context.Context, transactionID string, companyID string) ([]payroll.CalculationLine, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT l.id, l.transaction_id, l.line_type, l.rule_code, l.base_amount, l.rate,
		       l.computed_amount, l.config_version, l.config_snapshot, l.created_at
		FROM calculation_lines l
		JOIN payroll_transactions t ON t.id = l.transaction_id
		WHERE l.transaction_id = $1 AND t.company_id = $2
		ORDER BY l.created_at ASC, l.rule_code ASC
	`
	rows, err := q.Query(ctx, query, transactionID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.CalculationLine
	for rows.Next() {
		var l payroll.CalculationLine
		var snapshot []byte
		err := rows.Scan(
			&l.ID, &l.TransactionID, &l.LineType, &l.RuleCode, &l.BaseAmount, &l.Rate,
			&l.ComputedAmount, &l.ConfigVersion, &snapshot, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		l.ConfigSnapshot = json.RawMessage(snapshot)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListActiveEmployeeIDs implements payroll.PayrollRepository.
func (p *payrollRepositoryImpl) ListActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id FROM employees
		WHERE company_id = $1 AND employment_status = 'active' AND deleted_at IS NULL
		ORDER BY employee_code ASC
	`
	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func marshalTransactionJSON(t payroll.Transaction) (bases, pf, esi, pt, override []byte, err error) {
	if bases, err = json.Marshal(t.WageBases); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal wage bases: %w", err)
	}
	if t.Pf != nil {
		if pf, err = json.Marshal(t.Pf); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("marshal pf breakdown: %w", err)
		}
	}
	if t.Esi != nil {
		if esi, err = json.Marshal(t.Esi); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("marshal esi breakdown: %w", err)
		}
	}
	if t.Pt != nil {
		if pt, err = json.Marshal(t.Pt); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("marshal pt breakdown: %w", err)
		}
	}
	if t.TdsOverride != nil {
		if override, err = json.Marshal(t.TdsOverride); err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("marshal tds override: %w", err)
		}
	}
	return bases, pf, esi, pt, override, nil
}

func scanTransaction(row pgx.Row) (payroll.Transaction, error) {
	var t payroll.Transaction
	var basesJSON, pfJSON, esiJSON, ptJSON, overrideJSON []byte

	err := row.Scan(
		&t.ID, &t.RunID, &t.EmployeeID, &t.CompanyID, &t.PeriodMonth, &t.PeriodYear,
		&t.WorkingDays, &t.PresentDays, &t.LOPDays, &basesJSON,
		&t.GrossEarnings, &t.TotalDeductions, &t.EmployerContributions, &t.NetPayable,
		&pfJSON, &esiJSON, &ptJSON,
		&t.ComputedTds, &overrideJSON, &t.Status, &t.Version,
		&t.FinalizedAt, &t.FinalizedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return payroll.Transaction{}, err
	}

	if basesJSON != nil {
		if err := json.Unmarshal(basesJSON, &t.WageBases); err != nil {
			return payroll.Transaction{}, fmt.Errorf("unmarshal wage bases: %w", err)
		}
	}
	if err := unmarshalInto(pfJSON, &t.Pf); err != nil {
		return payroll.Transaction{}, err
	}
	if err := unmarshalInto(esiJSON, &t.Esi); err != nil {
		return payroll.Transaction{}, err
	}
	if err := unmarshalInto(ptJSON, &t.Pt); err != nil {
		return payroll.Transaction{}, err
	}
	if err := unmarshalInto(overrideJSON, &t.TdsOverride); err != nil {
		return payroll.Transaction{}, err
	}
	return t, nil
}

func unmarshalInto[T any](data []byte, dst **T) error {
	if data == nil {
		return nil
	}
	*dst = new(T)
	return json.Unmarshal(data, *dst)
}
