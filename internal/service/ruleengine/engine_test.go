package ruleengine

import (
	"testing"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payDate = time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

func dec(t *testing.T, v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, v string) *decimal.Decimal {
	d := dec(t, v)
	return &d
}

func baseRule(code string, priority int) rule.CalculationRule {
	return rule.CalculationRule{
		ID:            "rule-" + code,
		CompanyID:     "company-1",
		ComponentCode: code,
		ComponentType: rule.ComponentTypeEarning,
		Priority:      priority,
		EffectiveFrom: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
		Version:       1,
	}
}

func flatRule(t *testing.T, code string, priority int, amount string) rule.CalculationRule {
	r := baseRule(code, priority)
	r.RuleType = rule.RuleTypeFlat
	r.Formula = rule.FormulaConfig{Amount: decPtr(t, amount)}
	return r
}

func percentageRule(t *testing.T, code string, priority int, baseVar, rate string) rule.CalculationRule {
	r := baseRule(code, priority)
	r.RuleType = rule.RuleTypePercentage
	r.Formula = rule.FormulaConfig{BaseVariable: baseVar, Rate: decPtr(t, rate)}
	return r
}

func TestEvaluatePercentageRule(t *testing.T) {
	e := NewEngine()
	rc := rule.NewContext().SetNumber("BASIC", dec(t, "30000"))

	lines, err := e.Evaluate([]rule.CalculationRule{
		percentageRule(t, "HRA", 10, "BASIC", "40"),
	}, payDate, rc)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "HRA", lines[0].RuleCode)
	assert.Equal(t, "30000", lines[0].BaseAmount.String())
	assert.Equal(t, "40", lines[0].Rate.String())
	assert.Equal(t, "12000", lines[0].ComputedAmount.String())
	assert.NotEmpty(t, lines[0].ConfigSnapshot)
}

func TestEvaluatePublishesOutputsToLaterRules(t *testing.T) {
	e := NewEngine()
	rc := rule.NewContext().SetNumber("BASIC", dec(t, "30000"))

	// SPECIAL at priority 20 references HRA, computed at priority 10.
	rules := []rule.CalculationRule{
		percentageRule(t, "SPECIAL", 20, "HRA", "50"),
		percentageRule(t, "HRA", 10, "BASIC", "40"),
	}

	lines, err := e.Evaluate(rules, payDate, rc)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "HRA", lines[0].RuleCode)
	assert.Equal(t, "SPECIAL", lines[1].RuleCode)
	assert.Equal(t, "6000", lines[1].ComputedAmount.String())
}

func TestEvaluateAccumulatesSameComponent(t *testing.T) {
	e := NewEngine()
	rc := rule.NewContext()

	// Two matching rules for one component accumulate by default; the
	// published value is the running total.
	rules := []rule.CalculationRule{
		flatRule(t, "BONUS", 10, "1000"),
		flatRule(t, "BONUS", 20, "500"),
		percentageRule(t, "TOPUP", 30, "BONUS", "10"),
	}

	lines, err := e.Evaluate(rules, payDate, rc)
	require.NoError(t, err)

	require.Len(t, lines, 3)
	assert.Equal(t, "150", lines[2].ComputedAmount.String())
}

func TestEvaluateStopOnFirstMatch(t *testing.T) {
	e := NewEngine()
	rc := rule.NewContext()

	first := flatRule(t, "BONUS", 10, "1000")
	first.StopOnFirstMatch = true
	rules := []rule.CalculationRule{
		first,
		flatRule(t, "BONUS", 20, "500"),
	}

	lines, err := e.Evaluate(rules, payDate, rc)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "1000", lines[0].ComputedAmount.String())
}

func TestEvaluateSkipsInactiveAndOutOfRange(t *testing.T) {
	e := NewEngine()
	rc := rule.NewContext()

	inactive := flatRule(t, "A", 10, "100")
	inactive.IsActive = false

	expired := flatRule(t, "B", 20, "100")
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	expired.EffectiveTo = &to

	future := flatRule(t, "C", 30, "100")
	future.EffectiveFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	lines, err := e.Evaluate([]rule.CalculationRule{inactive, expired, future}, payDate, rc)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestEvaluateSlabRule(t *testing.T) {
	e := NewEngine()

	r := baseRule("PT", 10)
	r.ComponentType = rule.ComponentTypeDeduction
	r.RuleType = rule.RuleTypeSlab
	r.Formula = rule.FormulaConfig{
		BaseVariable: "GROSS",
		Bands: []rule.SlabBand{
			{Min: dec(t, "0"), Max: decPtr(t, "10000"), Amount: dec(t, "0")},
			{Min: dec(t, "10000.01"), Max: nil, Amount: dec(t, "200")},
		},
	}

	rc := rule.NewContext().SetNumber("GROSS", dec(t, "25000"))
	lines, err := e.Evaluate([]rule.CalculationRule{r}, payDate, rc)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "200", lines[0].ComputedAmount.String())

	rc = rule.NewContext().SetNumber("GROSS", dec(t, "-5"))
	_, err = e.Evaluate([]rule.CalculationRule{r}, payDate, rc)
	assert.ErrorIs(t, err, rule.ErrNoMatchingBand)
}

func TestEvaluateConditionGroups(t *testing.T) {
	e := NewEngine()

	r := flatRule(t, "SHIFT_ALLOWANCE", 10, "800")
	r.Conditions = []rule.Condition{
		// group 0: metro staff earning at least 20,000
		{Group: 0, Field: "STATE", Operator: rule.OperatorIn, Value: rule.ConditionValue{List: []string{"MH", "KA"}}},
		{Group: 0, Field: "GROSS", Operator: rule.OperatorGte, Value: rule.ConditionValue{Num: decPtr(t, "20000")}},
		// group 1: contractors always get it
		{Group: 1, Field: "EMPLOYMENT_TYPE", Operator: rule.OperatorEquals, Value: rule.ConditionValue{Str: "contract"}},
	}

	cases := []struct {
		name    string
		state   string
		gross   string
		empType string
		matched bool
	}{
		{"both group-0 conditions hold", "MH", "25000", "permanent", true},
		{"wrong state, group 1 rescues", "DL", "25000", "contract", true},
		{"gross too low and not contract", "MH", "15000", "permanent", false},
		{"no group satisfied", "DL", "15000", "permanent", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rc := rule.NewContext().
				SetNumber("GROSS", dec(t, tc.gross)).
				Set("STATE", rule.StringValue(tc.state)).
				Set("EMPLOYMENT_TYPE", rule.StringValue(tc.empType))

			lines, err := e.Evaluate([]rule.CalculationRule{r}, payDate, rc)
			require.NoError(t, err)
			if tc.matched {
				assert.Len(t, lines, 1)
			} else {
				assert.Empty(t, lines)
			}
		})
	}
}

func TestEvaluateAbsentConditionFieldNeverMatches(t *testing.T) {
	e := NewEngine()

	r := flatRule(t, "A", 10, "100")
	r.Conditions = []rule.Condition{
		{Group: 0, Field: "MISSING", Operator: rule.OperatorEquals, Value: rule.ConditionValue{Str: "x"}},
	}

	lines, err := e.Evaluate([]rule.CalculationRule{r}, payDate, rule.NewContext())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCheckDependencies(t *testing.T) {
	e := NewEngine()
	known := []string{"BASIC", "GROSS"}

	t.Run("resolves earlier rule output", func(t *testing.T) {
		rules := []rule.CalculationRule{
			percentageRule(t, "HRA", 10, "BASIC", "40"),
			percentageRule(t, "SPECIAL", 20, "HRA", "50"),
		}
		assert.NoError(t, e.CheckDependencies(rules, known))
	})

	t.Run("unknown variable", func(t *testing.T) {
		rules := []rule.CalculationRule{
			percentageRule(t, "HRA", 10, "NOPE", "40"),
		}
		assert.ErrorIs(t, e.CheckDependencies(rules, known), rule.ErrUnknownVariable)
	})

	t.Run("forward reference", func(t *testing.T) {
		rules := []rule.CalculationRule{
			percentageRule(t, "HRA", 10, "SPECIAL", "40"),
			percentageRule(t, "SPECIAL", 20, "BASIC", "50"),
		}
		assert.ErrorIs(t, e.CheckDependencies(rules, known), rule.ErrCyclicDependency)
	})

	t.Run("self reference", func(t *testing.T) {
		rules := []rule.CalculationRule{
			percentageRule(t, "HRA", 10, "HRA", "40"),
		}
		assert.ErrorIs(t, e.CheckDependencies(rules, known), rule.ErrCyclicDependency)
	})

	t.Run("constants count as known", func(t *testing.T) {
		r := baseRule("GRATUITY", 10)
		r.RuleType = rule.RuleTypeFormula
		r.Formula = rule.FormulaConfig{
			Constants: map[string]decimal.Decimal{"FACTOR": dec(t, "4.81")},
			Expr: &rule.Expr{
				Kind: rule.ExprBinary, Op: rule.OpMul,
				Left:  &rule.Expr{Kind: rule.ExprVariable, Name: "BASIC"},
				Right: &rule.Expr{Kind: rule.ExprVariable, Name: "FACTOR"},
			},
		}
		assert.NoError(t, e.CheckDependencies([]rule.CalculationRule{r}, known))
	})
}

func TestDryRun(t *testing.T) {
	e := NewEngine()

	r := percentageRule(t, "HRA", 10, "BASIC", "40")
	rc := rule.NewContext().SetNumber("BASIC", dec(t, "30000"))

	result, err := e.DryRun(r, payDate, rc)
	require.NoError(t, err)
	assert.True(t, result.Matched)
	require.NotNil(t, result.Line)
	assert.Equal(t, "12000", result.Line.ComputedAmount.String())

	// Outside the effective window the rule simply does not match.
	result, err = e.DryRun(r, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rc)
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Nil(t, result.Line)
}
