package rules

import (
	"context"
	"testing"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, v string) time.Time {
	d, err := time.Parse("2006-01-02", v)
	require.NoError(t, err)
	return d
}

func dayPtr(t *testing.T, v string) *time.Time {
	d := day(t, v)
	return &d
}

func activeRule(t *testing.T, id, code, from string, to *time.Time) rule.CalculationRule {
	return rule.CalculationRule{
		ID:            id,
		CompanyID:     "company-1",
		ComponentCode: code,
		RuleType:      rule.RuleTypeFlat,
		EffectiveFrom: day(t, from),
		EffectiveTo:   to,
		IsActive:      true,
	}
}

// stubRuleRepo overrides only what DeactivateRule touches; any other call
// panics through the nil embedded interface.
type stubRuleRepo struct {
	rule.RuleRepository
	rule        rule.CalculationRule
	usedInFinal bool
	deactivated bool
}

func (s *stubRuleRepo) GetRuleByID(context.Context, string, string) (rule.CalculationRule, error) {
	return s.rule, nil
}

func (s *stubRuleRepo) ComponentInFinalizedTransactions(context.Context, string, string) (bool, error) {
	return s.usedInFinal, nil
}

func (s *stubRuleRepo) DeactivateRule(context.Context, string, string) error {
	s.deactivated = true
	return nil
}

func TestDeactivateRuleRefusedAfterFinalizedUsage(t *testing.T) {
	repo := &stubRuleRepo{rule: activeRule(t, "r-1", "SPECIAL_ALLOWANCE", "2024-04-01", nil), usedInFinal: true}
	s := &RuleServiceImpl{RuleRepository: repo}

	err := s.DeactivateRule(context.Background(), "r-1", "company-1")

	assert.ErrorIs(t, err, rule.ErrRuleInFinalizedTx)
	assert.False(t, repo.deactivated)
}

func TestDeactivateRuleUnusedRule(t *testing.T) {
	repo := &stubRuleRepo{rule: activeRule(t, "r-1", "SPECIAL_ALLOWANCE", "2024-04-01", nil)}
	s := &RuleServiceImpl{RuleRepository: repo}

	require.NoError(t, s.DeactivateRule(context.Background(), "r-1", "company-1"))
	assert.True(t, repo.deactivated)
}

func TestRangesOverlap(t *testing.T) {
	// Closed ranges that do not touch.
	assert.False(t, rangesOverlap(
		day(t, "2024-01-01"), dayPtr(t, "2024-03-31"),
		day(t, "2024-04-01"), nil,
	))
	assert.False(t, rangesOverlap(
		day(t, "2024-04-01"), nil,
		day(t, "2024-01-01"), dayPtr(t, "2024-03-31"),
	))

	// Two open-ended ranges always overlap.
	assert.True(t, rangesOverlap(day(t, "2024-01-01"), nil, day(t, "2025-01-01"), nil))

	// Single shared day counts as overlap.
	assert.True(t, rangesOverlap(
		day(t, "2024-01-01"), dayPtr(t, "2024-06-30"),
		day(t, "2024-06-30"), nil,
	))

	// Fully nested range.
	assert.True(t, rangesOverlap(
		day(t, "2024-02-01"), dayPtr(t, "2024-03-01"),
		day(t, "2024-01-01"), dayPtr(t, "2024-12-31"),
	))
}

func TestCheckOverlap(t *testing.T) {
	existing := []rule.CalculationRule{
		activeRule(t, "r-1", "HRA", "2024-04-01", nil),
		activeRule(t, "r-2", "BONUS", "2024-04-01", dayPtr(t, "2024-12-31")),
	}

	// Same code, open-ended both ways: rejected.
	err := checkOverlap(activeRule(t, "r-new", "HRA", "2025-01-01", nil), existing)
	assert.ErrorIs(t, err, rule.ErrOverlappingRule)

	// Same code but starting after the existing closed range ends: fine.
	err = checkOverlap(activeRule(t, "r-new", "BONUS", "2025-01-01", nil), existing)
	assert.NoError(t, err)

	// Different code never clashes.
	err = checkOverlap(activeRule(t, "r-new", "SPECIAL", "2024-04-01", nil), existing)
	assert.NoError(t, err)
}

func TestCheckOverlapIgnoresInactive(t *testing.T) {
	retired := activeRule(t, "r-1", "HRA", "2024-04-01", nil)
	retired.IsActive = false

	err := checkOverlap(activeRule(t, "r-new", "HRA", "2024-04-01", nil), []rule.CalculationRule{retired})
	assert.NoError(t, err)
}

func TestApplyRuleUpdateBumpsVersion(t *testing.T) {
	r := activeRule(t, "r-1", "HRA", "2024-04-01", nil)
	r.Version = 3
	rate := decimal.NewFromInt(50)

	priority := 15
	stop := true
	next := applyRuleUpdate(r, rule.UpdateRuleRequest{
		ID:               "r-1",
		Formula:          &rule.FormulaConfig{BaseVariable: "BASIC", Rate: &rate},
		Priority:         &priority,
		StopOnFirstMatch: &stop,
	})

	assert.Equal(t, 4, next.Version)
	assert.Equal(t, 15, next.Priority)
	assert.True(t, next.StopOnFirstMatch)
	assert.Equal(t, "BASIC", next.Formula.BaseVariable)

	// Fields the request leaves nil are untouched.
	assert.True(t, next.IsActive)
	assert.Equal(t, r.EffectiveFrom, next.EffectiveFrom)
}

func TestApplyRuleUpdateClosesEffectiveRange(t *testing.T) {
	r := activeRule(t, "r-1", "HRA", "2024-04-01", nil)

	to := "2025-03-31"
	next := applyRuleUpdate(r, rule.UpdateRuleRequest{ID: "r-1", EffectiveTo: &to})

	require.NotNil(t, next.EffectiveTo)
	assert.Equal(t, "2025-03-31", next.EffectiveTo.Format("2006-01-02"))
}

func TestApplyRuleUpdateReplacesConditions(t *testing.T) {
	r := activeRule(t, "r-1", "HRA", "2024-04-01", nil)
	r.Conditions = []rule.Condition{{Group: 0, Field: "STATE", Operator: rule.OperatorEquals, Value: rule.ConditionValue{Str: "MH"}}}

	next := applyRuleUpdate(r, rule.UpdateRuleRequest{
		ID: "r-1",
		Conditions: []rule.ConditionRequest{
			{Group: 0, Field: "STATE", Operator: "in", Value: rule.ConditionValue{List: []string{"MH", "KA"}}},
			{Group: 1, Field: "EMPLOYMENT_TYPE", Operator: "equals", Value: rule.ConditionValue{Str: "contract"}},
		},
	})

	require.Len(t, next.Conditions, 2)
	assert.Equal(t, rule.OperatorIn, next.Conditions[0].Operator)
	assert.Equal(t, []string{"MH", "KA"}, next.Conditions[0].Value.List)
}
