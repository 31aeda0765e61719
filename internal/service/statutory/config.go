package statutory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
)

// ConfigServiceImpl manages the company PF/ESI configuration, the PT slab
// tables and the income-tax regime schedules. A company without stored
// configuration reads the statutory defaults; the first update persists them.
type ConfigServiceImpl struct {
	statutory.StatutoryRepository
	taxRepo tax.TaxRepository
}

func NewStatutoryService(repo statutory.StatutoryRepository, taxRepo tax.TaxRepository) statutory.StatutoryService {
	return &ConfigServiceImpl{StatutoryRepository: repo, taxRepo: taxRepo}
}

func (s *ConfigServiceImpl) GetPfConfig(ctx context.Context, companyID string) (statutory.PfConfig, error) {
	cfg, err := s.StatutoryRepository.GetPfConfig(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fixtures.DefaultPfConfig(companyID), nil
		}
		return statutory.PfConfig{}, fmt.Errorf("failed to get pf config: %w", err)
	}
	return cfg, nil
}

func (s *ConfigServiceImpl) UpdatePfConfig(ctx context.Context, companyID string, req statutory.UpdatePfConfigRequest) (statutory.PfConfig, error) {
	if err := req.Validate(); err != nil {
		return statutory.PfConfig{}, err
	}

	cfg, err := s.GetPfConfig(ctx, companyID)
	if err != nil {
		return statutory.PfConfig{}, err
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if req.Mode != nil {
		cfg.Mode = statutory.PfMode(*req.Mode)
	}
	if req.WageCeiling != nil {
		cfg.WageCeiling = *req.WageCeiling
	}
	if req.EmployeeRate != nil {
		cfg.EmployeeRate = *req.EmployeeRate
	}
	if req.EmployerRate != nil {
		cfg.EmployerRate = *req.EmployerRate
	}
	if req.PensionRate != nil {
		cfg.PensionRate = *req.PensionRate
	}
	if req.AdminChargeRate != nil {
		cfg.AdminChargeRate = *req.AdminChargeRate
	}
	if req.EdliChargeRate != nil {
		cfg.EdliChargeRate = *req.EdliChargeRate
	}
	if req.IncludeSpecialAllowance != nil {
		cfg.IncludeSpecialAllowance = *req.IncludeSpecialAllowance
	}
	// Pension is carved out of the employer share, so it can never exceed it.
	if cfg.PensionRate.GreaterThan(cfg.EmployerRate) {
		return statutory.PfConfig{}, fmt.Errorf("%w: pension rate above employer rate", statutory.ErrInvalidRate)
	}

	updated, err := s.StatutoryRepository.UpsertPfConfig(ctx, cfg)
	if err != nil {
		return statutory.PfConfig{}, fmt.Errorf("failed to upsert pf config: %w", err)
	}
	return updated, nil
}

func (s *ConfigServiceImpl) GetEsiConfig(ctx context.Context, companyID string) (statutory.EsiConfig, error) {
	cfg, err := s.StatutoryRepository.GetEsiConfig(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fixtures.DefaultEsiConfig(companyID), nil
		}
		return statutory.EsiConfig{}, fmt.Errorf("failed to get esi config: %w", err)
	}
	return cfg, nil
}

func (s *ConfigServiceImpl) UpdateEsiConfig(ctx context.Context, companyID string, req statutory.UpdateEsiConfigRequest) (statutory.EsiConfig, error) {
	if err := req.Validate(); err != nil {
		return statutory.EsiConfig{}, err
	}

	cfg, err := s.GetEsiConfig(ctx, companyID)
	if err != nil {
		return statutory.EsiConfig{}, err
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if req.WageCeiling != nil {
		cfg.WageCeiling = *req.WageCeiling
	}
	if req.EmployeeRate != nil {
		cfg.EmployeeRate = *req.EmployeeRate
	}
	if req.EmployerRate != nil {
		cfg.EmployerRate = *req.EmployerRate
	}

	updated, err := s.StatutoryRepository.UpsertEsiConfig(ctx, cfg)
	if err != nil {
		return statutory.EsiConfig{}, fmt.Errorf("failed to upsert esi config: %w", err)
	}
	return updated, nil
}

func (s *ConfigServiceImpl) CreatePtSlab(ctx context.Context, req statutory.CreatePtSlabRequest) (statutory.PtSlab, error) {
	if err := req.Validate(); err != nil {
		return statutory.PtSlab{}, err
	}

	from, _ := validator.IsValidDate(req.EffectiveFrom)
	slab := statutory.PtSlab{
		ID:             uuid.New().String(),
		StateCode:      req.StateCode,
		MinMonthly:     req.MinMonthly,
		MaxMonthly:     req.MaxMonthly,
		Amount:         req.Amount,
		FebruaryAmount: req.FebruaryAmount,
		EffectiveFrom:  from,
	}
	if req.EffectiveTo != nil {
		if to, ok := validator.IsValidDate(*req.EffectiveTo); ok {
			slab.EffectiveTo = &to
		}
	}

	created, err := s.StatutoryRepository.CreatePtSlab(ctx, slab)
	if err != nil {
		return statutory.PtSlab{}, fmt.Errorf("failed to create pt slab: %w", err)
	}
	return created, nil
}

func (s *ConfigServiceImpl) ListPtSlabs(ctx context.Context, stateCode string, onDate string) ([]statutory.PtSlab, error) {
	on := time.Now()
	if onDate != "" {
		parsed, ok := validator.IsValidDate(onDate)
		if !ok {
			return nil, validator.ValidationErrors{{Field: "on", Message: "must be a valid date (YYYY-MM-DD)"}}
		}
		on = parsed
	}
	slabs, err := s.StatutoryRepository.ListPtSlabs(ctx, stateCode, on)
	if err != nil {
		return nil, fmt.Errorf("failed to list pt slabs: %w", err)
	}
	return slabs, nil
}

func (s *ConfigServiceImpl) GetRegimeSchedule(ctx context.Context, financialYear string, regime string) (tax.RegimeSchedule, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidFinancialYear(financialYear) {
		errs = append(errs, validator.ValidationError{Field: "financial_year", Message: "must look like 2024-25"})
	}
	reg := declaration.Regime(regime)
	if reg != declaration.RegimeNew && reg != declaration.RegimeOld {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: "must be new or old"})
	}
	if len(errs) > 0 {
		return tax.RegimeSchedule{}, errs
	}

	schedule, err := s.taxRepo.GetSchedule(ctx, financialYear, reg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, tax.ErrScheduleNotFound) {
			return fixtures.DefaultRegimeSchedule(financialYear, reg), nil
		}
		return tax.RegimeSchedule{}, fmt.Errorf("failed to get regime schedule: %w", err)
	}
	return schedule, nil
}

func (s *ConfigServiceImpl) UpsertRegimeSchedule(ctx context.Context, req tax.UpsertScheduleRequest) (tax.RegimeSchedule, error) {
	if err := req.Validate(); err != nil {
		return tax.RegimeSchedule{}, err
	}

	schedule := tax.RegimeSchedule{
		ID:                uuid.New().String(),
		FinancialYear:     req.FinancialYear,
		Regime:            declaration.Regime(req.Regime),
		Slabs:             req.Slabs,
		StandardDeduction: req.StandardDeduction,
		RebateThreshold:   req.RebateThreshold,
		RebateCap:         req.RebateCap,
		SurchargeBands:    req.SurchargeBands,
		CessRate:          req.CessRate,
	}
	updated, err := s.taxRepo.UpsertSchedule(ctx, schedule)
	if err != nil {
		return tax.RegimeSchedule{}, fmt.Errorf("failed to upsert regime schedule: %w", err)
	}
	return updated, nil
}
