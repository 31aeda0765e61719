package ruleengine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Engine matches a company's ordered rule set against an employee/period
// context and evaluates each matched rule's formula. Stateless; a rule
// snapshot may be shared across goroutines, the context must not be.
type Engine struct {
}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs every rule active on payDate, priority ascending, against
// the context. Each computed line's cumulative amount is published into the
// context under its component code so later rules can reference it.
func (e *Engine) Evaluate(rules []rule.CalculationRule, payDate time.Time, rc *rule.Context) ([]rule.EvaluatedLine, error) {
	ordered := activeByPriority(rules, payDate)

	var lines []rule.EvaluatedLine
	stopped := map[string]bool{}
	totals := map[string]decimal.Decimal{}

	for _, r := range ordered {
		if stopped[r.ComponentCode] {
			continue
		}
		matched, err := matchesConditions(r, rc)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		line, _, err := e.evaluateRule(r, rc, false)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ComponentCode, err)
		}
		lines = append(lines, line)

		total := totals[r.ComponentCode].Add(line.ComputedAmount)
		totals[r.ComponentCode] = total
		rc.SetNumber(r.ComponentCode, total)

		if r.StopOnFirstMatch {
			stopped[r.ComponentCode] = true
		}
	}

	return lines, nil
}

// DryRun evaluates a single draft rule against sample values and returns the
// computed line plus a step trace. Nothing is persisted.
func (e *Engine) DryRun(r rule.CalculationRule, payDate time.Time, rc *rule.Context) (rule.DryRunResult, error) {
	if err := r.ValidateFormula(); err != nil {
		return rule.DryRunResult{}, err
	}
	if !r.ActiveOn(payDate) {
		return rule.DryRunResult{Matched: false}, nil
	}
	matched, err := matchesConditions(r, rc)
	if err != nil {
		return rule.DryRunResult{}, err
	}
	if !matched {
		return rule.DryRunResult{Matched: false}, nil
	}

	line, trace, err := e.evaluateRule(r, rc, true)
	if err != nil {
		return rule.DryRunResult{}, err
	}
	return rule.DryRunResult{Matched: true, Line: &line, Trace: trace}, nil
}

// CheckDependencies verifies, before a rule set is published, that every
// formula identifier resolves to a declared variable or to the output of a
// rule that evaluates earlier. A self reference or a reference to a
// later-priority rule's output is a configuration error, caught here so it
// never surfaces mid-run.
func (e *Engine) CheckDependencies(rules []rule.CalculationRule, knownVariables []string) error {
	known := map[string]bool{}
	for _, name := range knownVariables {
		known[name] = true
	}

	priorityByCode := map[string]int{}
	for _, r := range rules {
		if p, ok := priorityByCode[r.ComponentCode]; !ok || r.Priority < p {
			priorityByCode[r.ComponentCode] = r.Priority
		}
	}

	for _, r := range rules {
		for name := range r.Formula.Constants {
			known[name] = true
		}
		for _, ref := range r.ReferencedVariables() {
			if known[ref] {
				continue
			}
			p, isRuleOutput := priorityByCode[ref]
			if !isRuleOutput {
				return fmt.Errorf("%w: %s (rule %s)", rule.ErrUnknownVariable, ref, r.ComponentCode)
			}
			if ref == r.ComponentCode || p >= r.Priority {
				return fmt.Errorf("%w: %s -> %s", rule.ErrCyclicDependency, r.ComponentCode, ref)
			}
		}
	}
	return nil
}

func (e *Engine) evaluateRule(r rule.CalculationRule, rc *rule.Context, keepTrace bool) (rule.EvaluatedLine, []rule.TraceStep, error) {
	// Constants are layered onto a clone so they cannot leak to later rules.
	scope := rc
	if len(r.Formula.Constants) > 0 {
		scope = rc.Clone()
		for name, value := range r.Formula.Constants {
			scope.SetNumber(name, value)
		}
	}

	ev := newEvaluator(scope, keepTrace)

	var base, rate, computed decimal.Decimal
	switch r.RuleType {
	case rule.RuleTypeFlat:
		computed = *r.Formula.Amount

	case rule.RuleTypePercentage:
		v, ok := scope.Lookup(r.Formula.BaseVariable)
		if !ok {
			return rule.EvaluatedLine{}, nil, fmt.Errorf("%w: %s", rule.ErrUnknownVariable, r.Formula.BaseVariable)
		}
		base = v.Num
		rate = *r.Formula.Rate
		computed = money.Percent(base, rate)

	case rule.RuleTypeSlab:
		v, ok := scope.Lookup(r.Formula.BaseVariable)
		if !ok {
			return rule.EvaluatedLine{}, nil, fmt.Errorf("%w: %s", rule.ErrUnknownVariable, r.Formula.BaseVariable)
		}
		base = v.Num
		matchedBand := false
		for _, band := range r.Formula.Bands {
			if band.Contains(base) {
				computed = band.Amount
				matchedBand = true
				break
			}
		}
		if !matchedBand {
			return rule.EvaluatedLine{}, nil, fmt.Errorf("%w: %s", rule.ErrNoMatchingBand, base.String())
		}

	case rule.RuleTypeFormula:
		v, err := ev.eval(r.Formula.Expr)
		if err != nil {
			return rule.EvaluatedLine{}, nil, err
		}
		computed = v.Num
	}

	snapshot, err := json.Marshal(ruleSnapshot{
		RuleID:        r.ID,
		ComponentCode: r.ComponentCode,
		ComponentType: r.ComponentType,
		RuleType:      r.RuleType,
		Formula:       r.Formula,
		Priority:      r.Priority,
		Version:       r.Version,
	})
	if err != nil {
		return rule.EvaluatedLine{}, nil, fmt.Errorf("snapshot rule config: %w", err)
	}

	return rule.EvaluatedLine{
		RuleID:         r.ID,
		RuleCode:       r.ComponentCode,
		ComponentType:  r.ComponentType,
		BaseAmount:     money.Round(base),
		Rate:           rate,
		ComputedAmount: money.Round(computed),
		IsTaxable:      r.IsTaxable,
		AffectsPfWage:  r.AffectsPfWage,
		AffectsEsiWage: r.AffectsEsiWage,
		ConfigVersion:  r.Version,
		ConfigSnapshot: snapshot,
	}, ev.trace, nil
}

// ruleSnapshot is the verbatim configuration copied onto every ledger line.
type ruleSnapshot struct {
	RuleID        string             `json:"rule_id"`
	ComponentCode string             `json:"component_code"`
	ComponentType rule.ComponentType `json:"component_type"`
	RuleType      rule.RuleType      `json:"rule_type"`
	Formula       rule.FormulaConfig `json:"formula"`
	Priority      int                `json:"priority"`
	Version       int                `json:"version"`
}

func activeByPriority(rules []rule.CalculationRule, payDate time.Time) []rule.CalculationRule {
	var active []rule.CalculationRule
	for _, r := range rules {
		if r.ActiveOn(payDate) {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})
	return active
}

// matchesConditions evaluates the rule's condition groups: conditions in a
// group are AND-ed, groups are OR-ed. Zero conditions always match.
func matchesConditions(r rule.CalculationRule, rc *rule.Context) (bool, error) {
	if len(r.Conditions) == 0 {
		return true, nil
	}

	groups := map[int][]rule.Condition{}
	for _, c := range r.Conditions {
		groups[c.Group] = append(groups[c.Group], c)
	}

	for _, conds := range groups {
		all := true
		for _, c := range conds {
			ok, err := matchCondition(c, rc)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func matchCondition(c rule.Condition, rc *rule.Context) (bool, error) {
	v, ok := rc.Lookup(c.Field)
	if !ok {
		// An absent field never matches; it is not an evaluation error.
		return false, nil
	}

	switch c.Operator {
	case rule.OperatorEquals:
		if c.Value.Num != nil {
			return v.Num.Equal(*c.Value.Num), nil
		}
		return v.Str == c.Value.Str, nil
	case rule.OperatorIn:
		for _, item := range c.Value.List {
			if v.Str == item {
				return true, nil
			}
		}
		return false, nil
	case rule.OperatorGte:
		if c.Value.Num == nil {
			return false, nil
		}
		return v.Num.GreaterThanOrEqual(*c.Value.Num), nil
	case rule.OperatorLte:
		if c.Value.Num == nil {
			return false, nil
		}
		return v.Num.LessThanOrEqual(*c.Value.Num), nil
	case rule.OperatorContains:
		return strings.Contains(v.Str, c.Value.Str), nil
	case rule.OperatorBetween:
		if c.Value.Low == nil || c.Value.High == nil {
			return false, nil
		}
		return v.Num.GreaterThanOrEqual(*c.Value.Low) && v.Num.LessThanOrEqual(*c.Value.High), nil
	}
	return false, fmt.Errorf("unknown condition operator %q", c.Operator)
}
