package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/paysutra/payroll-backend-go/internal/repository/postgresql"
	"github.com/paysutra/payroll-backend-go/internal/service/ruleengine"
)

type RuleServiceImpl struct {
	db *database.DB
	rule.RuleRepository
	engine *ruleengine.Engine
}

func NewRuleService(db *database.DB, repo rule.RuleRepository, engine *ruleengine.Engine) rule.RuleService {
	return &RuleServiceImpl{db: db, RuleRepository: repo, engine: engine}
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, companyID string, req rule.CreateRuleRequest) (rule.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.RuleResponse{}, err
	}
	candidate, err := req.ToRule(companyID)
	if err != nil {
		return rule.RuleResponse{}, err
	}
	candidate.ID = uuid.New().String()

	var created rule.CalculationRule
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.RuleRepository.ListRules(txCtx, companyID, true)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}
		if err := checkOverlap(candidate, existing); err != nil {
			return err
		}
		if err := s.checkDependencies(txCtx, companyID, candidate, existing); err != nil {
			return err
		}

		created, err = s.RuleRepository.CreateRule(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("failed to create rule: %w", err)
		}
		return nil
	})
	if err != nil {
		return rule.RuleResponse{}, err
	}
	return toRuleResponse(created), nil
}

func (s *RuleServiceImpl) GetRuleByID(ctx context.Context, id string, companyID string) (rule.RuleResponse, error) {
	r, err := s.RuleRepository.GetRuleByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.RuleResponse{}, rule.ErrRuleNotFound
		}
		return rule.RuleResponse{}, fmt.Errorf("failed to get rule: %w", err)
	}
	return toRuleResponse(r), nil
}

func (s *RuleServiceImpl) ListRules(ctx context.Context, companyID string, activeOnly bool) ([]rule.RuleResponse, error) {
	all, err := s.RuleRepository.ListRules(ctx, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	out := make([]rule.RuleResponse, 0, len(all))
	for _, r := range all {
		out = append(out, toRuleResponse(r))
	}
	return out, nil
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, companyID string, req rule.UpdateRuleRequest) (rule.RuleResponse, error) {
	var updated rule.CalculationRule
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		current, err := s.RuleRepository.GetRuleByID(txCtx, req.ID, companyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return rule.ErrRuleNotFound
			}
			return fmt.Errorf("failed to get rule: %w", err)
		}

		next := applyRuleUpdate(current, req)
		if err := next.ValidateFormula(); err != nil {
			return err
		}

		existing, err := s.RuleRepository.ListRules(txCtx, companyID, true)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}
		others := existing[:0:0]
		for _, r := range existing {
			if r.ID != next.ID {
				others = append(others, r)
			}
		}
		if err := checkOverlap(next, others); err != nil {
			return err
		}
		if err := s.checkDependencies(txCtx, companyID, next, others); err != nil {
			return err
		}

		updated, err = s.RuleRepository.UpdateRule(txCtx, companyID, req)
		if err != nil {
			return fmt.Errorf("failed to update rule: %w", err)
		}
		return nil
	})
	if err != nil {
		return rule.RuleResponse{}, err
	}
	return toRuleResponse(updated), nil
}

// DeactivateRule retires a rule that never reached a finalized ledger. A rule
// whose component code appears on finalized calculation lines must be
// end-dated via UpdateRule instead, so past periods keep resolving it.
func (s *RuleServiceImpl) DeactivateRule(ctx context.Context, id string, companyID string) error {
	r, err := s.RuleRepository.GetRuleByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.ErrRuleNotFound
		}
		return fmt.Errorf("failed to get rule: %w", err)
	}

	used, err := s.RuleRepository.ComponentInFinalizedTransactions(ctx, r.ComponentCode, companyID)
	if err != nil {
		return fmt.Errorf("failed to check finalized usage: %w", err)
	}
	if used {
		return fmt.Errorf("%w: %s", rule.ErrRuleInFinalizedTx, r.ComponentCode)
	}

	if err := s.RuleRepository.DeactivateRule(ctx, id, companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.ErrRuleNotFound
		}
		return fmt.Errorf("failed to deactivate rule: %w", err)
	}
	return nil
}

func (s *RuleServiceImpl) DryRun(ctx context.Context, companyID string, req rule.DryRunRequest) (rule.DryRunResult, error) {
	if err := req.Validate(); err != nil {
		return rule.DryRunResult{}, err
	}
	candidate, err := req.Rule.ToRule(companyID)
	if err != nil {
		return rule.DryRunResult{}, err
	}
	payDate, _ := validator.IsValidDate(req.PayDate)

	rc := rule.NewContext()
	for name, v := range req.Numbers {
		rc.SetNumber(name, v)
	}
	for name, v := range req.Strings {
		rc.Set(name, rule.StringValue(v))
	}
	for name, v := range req.Flags {
		rc.Set(name, rule.BoolValue(v))
	}

	return s.engine.DryRun(candidate, payDate, rc)
}

func (s *RuleServiceImpl) CreateVariable(ctx context.Context, companyID string, req rule.CreateVariableRequest) (rule.VariableResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.VariableResponse{}, err
	}
	v := rule.FormulaVariable{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      req.Name,
		Type:      rule.VariableType(req.Type),
		Source:    rule.VariableSource(req.Source),
		Default:   req.Default,
	}
	created, err := s.RuleRepository.CreateVariable(ctx, v)
	if err != nil {
		return rule.VariableResponse{}, fmt.Errorf("failed to create variable: %w", err)
	}
	return toVariableResponse(created), nil
}

func (s *RuleServiceImpl) ListVariables(ctx context.Context, companyID string) ([]rule.VariableResponse, error) {
	all, err := s.RuleRepository.ListVariables(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	out := make([]rule.VariableResponse, 0, len(all))
	for _, v := range all {
		out = append(out, toVariableResponse(v))
	}
	return out, nil
}

// checkDependencies validates that every variable the rule's formula reads is
// either a registered variable or another rule's component code evaluated at
// a lower priority.
func (s *RuleServiceImpl) checkDependencies(ctx context.Context, companyID string, candidate rule.CalculationRule, others []rule.CalculationRule) error {
	vars, err := s.RuleRepository.ListVariables(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to list variables: %w", err)
	}
	known := make([]string, 0, len(vars))
	for _, v := range vars {
		known = append(known, v.Name)
	}
	return s.engine.CheckDependencies(append(others, candidate), known)
}

// checkOverlap enforces at most one active rule per component code covering
// any given pay date.
func checkOverlap(candidate rule.CalculationRule, existing []rule.CalculationRule) error {
	for _, r := range existing {
		if !r.IsActive || r.ComponentCode != candidate.ComponentCode {
			continue
		}
		if rangesOverlap(candidate.EffectiveFrom, candidate.EffectiveTo, r.EffectiveFrom, r.EffectiveTo) {
			return fmt.Errorf("%w: %s clashes with rule %s", rule.ErrOverlappingRule, candidate.ComponentCode, r.ID)
		}
	}
	return nil
}

func rangesOverlap(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	if aTo != nil && aTo.Before(bFrom) {
		return false
	}
	if bTo != nil && bTo.Before(aFrom) {
		return false
	}
	return true
}

func applyRuleUpdate(r rule.CalculationRule, req rule.UpdateRuleRequest) rule.CalculationRule {
	if req.Formula != nil {
		r.Formula = *req.Formula
	}
	if req.Priority != nil {
		r.Priority = *req.Priority
	}
	if req.EffectiveTo != nil {
		if to, ok := validator.IsValidDate(*req.EffectiveTo); ok {
			r.EffectiveTo = &to
		}
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if req.IsTaxable != nil {
		r.IsTaxable = *req.IsTaxable
	}
	if req.AffectsPfWage != nil {
		r.AffectsPfWage = *req.AffectsPfWage
	}
	if req.AffectsEsiWage != nil {
		r.AffectsEsiWage = *req.AffectsEsiWage
	}
	if req.StopOnFirstMatch != nil {
		r.StopOnFirstMatch = *req.StopOnFirstMatch
	}
	if req.Conditions != nil {
		r.Conditions = r.Conditions[:0]
		for _, c := range req.Conditions {
			r.Conditions = append(r.Conditions, rule.Condition{
				Group:    c.Group,
				Field:    c.Field,
				Operator: rule.Operator(c.Operator),
				Value:    c.Value,
			})
		}
	}
	r.Version++
	return r
}

func toRuleResponse(r rule.CalculationRule) rule.RuleResponse {
	resp := rule.RuleResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		ComponentCode:    r.ComponentCode,
		ComponentType:    string(r.ComponentType),
		RuleType:         string(r.RuleType),
		Formula:          r.Formula,
		Priority:         r.Priority,
		EffectiveFrom:    r.EffectiveFrom.Format("2006-01-02"),
		IsActive:         r.IsActive,
		IsTaxable:        r.IsTaxable,
		AffectsPfWage:    r.AffectsPfWage,
		AffectsEsiWage:   r.AffectsEsiWage,
		StopOnFirstMatch: r.StopOnFirstMatch,
		Version:          r.Version,
	}
	if r.EffectiveTo != nil {
		to := r.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &to
	}
	for _, c := range r.Conditions {
		resp.Conditions = append(resp.Conditions, rule.ConditionRequest{
			Group:    c.Group,
			Field:    c.Field,
			Operator: string(c.Operator),
			Value:    c.Value,
		})
	}
	return resp
}

func toVariableResponse(v rule.FormulaVariable) rule.VariableResponse {
	return rule.VariableResponse{
		ID:      v.ID,
		Name:    v.Name,
		Type:    string(v.Type),
		Source:  string(v.Source),
		Default: v.Default,
	}
}
