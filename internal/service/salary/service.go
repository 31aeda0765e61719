package salary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
)

type SalaryServiceImpl struct {
	salary.SalaryRepository
}

func NewSalaryService(repo salary.SalaryRepository) salary.SalaryService {
	return &SalaryServiceImpl{SalaryRepository: repo}
}

func (s *SalaryServiceImpl) CreateComponent(ctx context.Context, companyID string, req salary.CreateComponentRequest) (salary.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ComponentResponse{}, err
	}

	if _, err := s.SalaryRepository.GetComponentByCode(ctx, req.Code, companyID); err == nil {
		return salary.ComponentResponse{}, salary.ErrComponentCodeExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return salary.ComponentResponse{}, fmt.Errorf("failed to check component code: %w", err)
	}

	c := salary.SalaryComponent{
		ID:             uuid.New().String(),
		CompanyID:      &companyID,
		Code:           req.Code,
		Name:           req.Name,
		IsPfWage:       req.IsPfWage,
		IsEsiWage:      req.IsEsiWage,
		IsTaxable:      req.IsTaxable,
		IsPtWage:       req.IsPtWage,
		ApplyProration: req.ApplyProration,
		ProrationBasis: salary.ProrationBasis(req.ProrationBasis),
		DisplayOrder:   req.DisplayOrder,
		IsActive:       true,
	}
	created, err := s.SalaryRepository.CreateComponent(ctx, c)
	if err != nil {
		return salary.ComponentResponse{}, fmt.Errorf("failed to create component: %w", err)
	}
	return toComponentResponse(created), nil
}

func (s *SalaryServiceImpl) ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]salary.ComponentResponse, error) {
	all, err := s.SalaryRepository.ListComponents(ctx, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	out := make([]salary.ComponentResponse, 0, len(all))
	for _, c := range all {
		out = append(out, toComponentResponse(c))
	}
	return out, nil
}

func (s *SalaryServiceImpl) UpdateComponent(ctx context.Context, companyID string, req salary.UpdateComponentRequest) error {
	if err := s.SalaryRepository.UpdateComponent(ctx, companyID, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.ErrComponentNotFound
		}
		return fmt.Errorf("failed to update component: %w", err)
	}
	return nil
}

func (s *SalaryServiceImpl) CreateStructure(ctx context.Context, companyID string, req salary.CreateStructureRequest) (salary.SalaryStructure, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryStructure{}, err
	}

	from, _ := validator.IsValidDate(req.EffectiveFrom)
	st := salary.SalaryStructure{
		ID:                uuid.New().String(),
		EmployeeID:        req.EmployeeID,
		CompanyID:         companyID,
		AnnualCTC:         req.AnnualCTC,
		MonthlyBasic:      req.MonthlyBasic,
		MonthlyHRA:        req.MonthlyHRA,
		MonthlyDA:         req.MonthlyDA,
		MonthlyAllowances: req.MonthlyAllowances,
		MonthlyLTA:        req.MonthlyLTA,
		MonthlyBonus:      req.MonthlyBonus,
		EmployerPF:        req.EmployerPF,
		EmployerESI:       req.EmployerESI,
		Gratuity:          req.Gratuity,
		EffectiveFrom:     from,
	}
	created, err := s.SalaryRepository.CreateStructure(ctx, st)
	if err != nil {
		return salary.SalaryStructure{}, fmt.Errorf("failed to create structure: %w", err)
	}
	return created, nil
}

func toComponentResponse(c salary.SalaryComponent) salary.ComponentResponse {
	return salary.ComponentResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		Code:           c.Code,
		Name:           c.Name,
		IsPfWage:       c.IsPfWage,
		IsEsiWage:      c.IsEsiWage,
		IsTaxable:      c.IsTaxable,
		IsPtWage:       c.IsPtWage,
		ApplyProration: c.ApplyProration,
		ProrationBasis: string(c.ProrationBasis),
		IsActive:       c.IsActive,
	}
}
