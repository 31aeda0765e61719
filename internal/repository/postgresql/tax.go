package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type taxRepositoryImpl struct {
	db *database.DB
}

func NewTaxRepository(db *database.DB) tax.TaxRepository {
	return &taxRepositoryImpl{db: db}
}

// GetSchedule implements tax.TaxRepository. Slabs and surcharge bands are
// stored as JSON; a yearly Finance Act change is a row update, not a deploy.
func (t *taxRepositoryImpl) GetSchedule(ctx context.Context, financialYear string, regime declaration.Regime) (tax.RegimeSchedule, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		SELECT id, financial_year, regime, slabs, standard_deduction,
		       rebate_threshold, rebate_cap, surcharge_bands, cess_rate,
		       created_at, updated_at
		FROM regime_schedules
		WHERE financial_year = $1 AND regime = $2
	`
	var s tax.RegimeSchedule
	var slabsJSON, bandsJSON []byte

	err := q.QueryRow(ctx, query, financialYear, regime).Scan(
		&s.ID, &s.FinancialYear, &s.Regime, &slabsJSON, &s.StandardDeduction,
		&s.RebateThreshold, &s.RebateCap, &bandsJSON, &s.CessRate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return tax.RegimeSchedule{}, err
	}
	if err := json.Unmarshal(slabsJSON, &s.Slabs); err != nil {
		return tax.RegimeSchedule{}, fmt.Errorf("unmarshal slabs: %w", err)
	}
	if bandsJSON != nil {
		if err := json.Unmarshal(bandsJSON, &s.SurchargeBands); err != nil {
			return tax.RegimeSchedule{}, fmt.Errorf("unmarshal surcharge bands: %w", err)
		}
	}
	return s, nil
}

// UpsertSchedule implements tax.TaxRepository.
func (t *taxRepositoryImpl) UpsertSchedule(ctx context.Context, s tax.RegimeSchedule) (tax.RegimeSchedule, error) {
	q := GetQuerier(ctx, t.db)

	slabsJSON, err := json.Marshal(s.Slabs)
	if err != nil {
		return tax.RegimeSchedule{}, fmt.Errorf("marshal slabs: %w", err)
	}
	bandsJSON, err := json.Marshal(s.SurchargeBands)
	if err != nil {
		return tax.RegimeSchedule{}, fmt.Errorf("marshal surcharge bands: %w", err)
	}

	query := `
		INSERT INTO regime_schedules (
			id, financial_year, regime, slabs, standard_deduction,
			rebate_threshold, rebate_cap, surcharge_bands, cess_rate,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (financial_year, regime) DO UPDATE
		SET slabs = EXCLUDED.slabs,
		    standard_deduction = EXCLUDED.standard_deduction,
		    rebate_threshold = EXCLUDED.rebate_threshold,
		    rebate_cap = EXCLUDED.rebate_cap,
		    surcharge_bands = EXCLUDED.surcharge_bands,
		    cess_rate = EXCLUDED.cess_rate,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		s.ID, s.FinancialYear, s.Regime, slabsJSON, s.StandardDeduction,
		s.RebateThreshold, s.RebateCap, bandsJSON, s.CessRate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return tax.RegimeSchedule{}, err
	}
	return s, nil
}
