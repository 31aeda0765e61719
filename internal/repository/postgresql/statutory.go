package postgresql

import (
	"context"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type statutoryRepositoryImpl struct {
	db *database.DB
}

func NewStatutoryRepository(db *database.DB) statutory.StatutoryRepository {
	return &statutoryRepositoryImpl{db: db}
}

// GetPfConfig implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) GetPfConfig(ctx context.Context, companyID string) (statutory.PfConfig, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, company_id, mode, wage_ceiling, employee_rate, employer_rate,
		       pension_rate, admin_charge_rate, edli_charge_rate, include_special_allowance,
		       created_at, updated_at
		FROM pf_configs
		WHERE company_id = $1
	`
	var cfg statutory.PfConfig
	err := q.QueryRow(ctx, query, companyID).Scan(
		&cfg.ID, &cfg.CompanyID, &cfg.Mode, &cfg.WageCeiling, &cfg.EmployeeRate, &cfg.EmployerRate,
		&cfg.PensionRate, &cfg.AdminChargeRate, &cfg.EdliChargeRate, &cfg.IncludeSpecialAllowance,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return statutory.PfConfig{}, err
	}
	return cfg, nil
}

// UpsertPfConfig implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) UpsertPfConfig(ctx context.Context, cfg statutory.PfConfig) (statutory.PfConfig, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO pf_configs (
			id, company_id, mode, wage_ceiling, employee_rate, employer_rate,
			pension_rate, admin_charge_rate, edli_charge_rate, include_special_allowance,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (company_id) DO UPDATE
		SET mode = EXCLUDED.mode,
		    wage_ceiling = EXCLUDED.wage_ceiling,
		    employee_rate = EXCLUDED.employee_rate,
		    employer_rate = EXCLUDED.employer_rate,
		    pension_rate = EXCLUDED.pension_rate,
		    admin_charge_rate = EXCLUDED.admin_charge_rate,
		    edli_charge_rate = EXCLUDED.edli_charge_rate,
		    include_special_allowance = EXCLUDED.include_special_allowance,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		cfg.ID, cfg.CompanyID, cfg.Mode, cfg.WageCeiling, cfg.EmployeeRate, cfg.EmployerRate,
		cfg.PensionRate, cfg.AdminChargeRate, cfg.EdliChargeRate, cfg.IncludeSpecialAllowance,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return statutory.PfConfig{}, err
	}
	return cfg, nil
}

// GetEsiConfig implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) GetEsiConfig(ctx context.Context, companyID string) (statutory.EsiConfig, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, company_id, wage_ceiling, employee_rate, employer_rate, created_at, updated_at
		FROM esi_configs
		WHERE company_id = $1
	`
	var cfg statutory.EsiConfig
	err := q.QueryRow(ctx, query, companyID).Scan(
		&cfg.ID, &cfg.CompanyID, &cfg.WageCeiling, &cfg.EmployeeRate, &cfg.EmployerRate,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return statutory.EsiConfig{}, err
	}
	return cfg, nil
}

// UpsertEsiConfig implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) UpsertEsiConfig(ctx context.Context, cfg statutory.EsiConfig) (statutory.EsiConfig, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO esi_configs (id, company_id, wage_ceiling, employee_rate, employer_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (company_id) DO UPDATE
		SET wage_ceiling = EXCLUDED.wage_ceiling,
		    employee_rate = EXCLUDED.employee_rate,
		    employer_rate = EXCLUDED.employer_rate,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		cfg.ID, cfg.CompanyID, cfg.WageCeiling, cfg.EmployeeRate, cfg.EmployerRate,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return statutory.EsiConfig{}, err
	}
	return cfg, nil
}

// ListPtSlabs implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) ListPtSlabs(ctx context.Context, stateCode string, on time.Time) ([]statutory.PtSlab, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, state_code, min_monthly, max_monthly, amount, february_amount,
		       effective_from, effective_to
		FROM pt_slabs
		WHERE state_code = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY min_monthly ASC
	`
	rows, err := q.Query(ctx, query, stateCode, on)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []statutory.PtSlab
	for rows.Next() {
		var slab statutory.PtSlab
		err := rows.Scan(
			&slab.ID, &slab.StateCode, &slab.MinMonthly, &slab.MaxMonthly, &slab.Amount,
			&slab.FebruaryAmount, &slab.EffectiveFrom, &slab.EffectiveTo,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, slab)
	}
	return out, rows.Err()
}

// CreatePtSlab implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) CreatePtSlab(ctx context.Context, slab statutory.PtSlab) (statutory.PtSlab, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO pt_slabs (id, state_code, min_monthly, max_monthly, amount, february_amount, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.Exec(ctx, query,
		slab.ID, slab.StateCode, slab.MinMonthly, slab.MaxMonthly, slab.Amount,
		slab.FebruaryAmount, slab.EffectiveFrom, slab.EffectiveTo,
	)
	if err != nil {
		return statutory.PtSlab{}, err
	}
	return slab, nil
}

// ListNoPtStates implements statutory.StatutoryRepository.
func (s *statutoryRepositoryImpl) ListNoPtStates(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `SELECT state_code FROM no_pt_states ORDER BY state_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, rows.Err()
}
