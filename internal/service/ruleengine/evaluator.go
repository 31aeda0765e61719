package ruleengine

import (
	"fmt"
	"strings"

	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/shopspring/decimal"
)

// evaluator walks a validated formula tree against a variable context. It
// optionally records a step trace for dry runs. One evaluator per rule
// evaluation; never shared.
type evaluator struct {
	ctx   *rule.Context
	trace []rule.TraceStep
	keep  bool // record trace steps
}

func newEvaluator(ctx *rule.Context, keepTrace bool) *evaluator {
	return &evaluator{ctx: ctx, keep: keepTrace}
}

func (ev *evaluator) eval(e *rule.Expr) (rule.Value, error) {
	v, err := ev.evalNode(e)
	if err != nil {
		return rule.Value{}, err
	}
	ev.record(e, v)
	return v, nil
}

func (ev *evaluator) evalNode(e *rule.Expr) (rule.Value, error) {
	switch e.Kind {
	case rule.ExprLiteral:
		return rule.NumberValue(*e.Value), nil

	case rule.ExprVariable:
		v, ok := ev.ctx.Lookup(e.Name)
		if !ok {
			return rule.Value{}, fmt.Errorf("%w: %s", rule.ErrUnknownVariable, e.Name)
		}
		return v, nil

	case rule.ExprBinary:
		return ev.evalBinary(e)

	case rule.ExprConditional:
		cond, err := ev.eval(e.If)
		if err != nil {
			return rule.Value{}, err
		}
		if truthy(cond) {
			return ev.eval(e.Then)
		}
		return ev.eval(e.Else)

	case rule.ExprSlab:
		of, err := ev.eval(e.Of)
		if err != nil {
			return rule.Value{}, err
		}
		for _, band := range e.Bands {
			if band.Contains(of.Num) {
				return rule.NumberValue(band.Amount), nil
			}
		}
		return rule.Value{}, fmt.Errorf("%w: %s", rule.ErrNoMatchingBand, of.Num.String())
	}
	// Unreachable for validated trees.
	return rule.Value{}, fmt.Errorf("%w: kind %q", rule.ErrInvalidFormula, e.Kind)
}

func (ev *evaluator) evalBinary(e *rule.Expr) (rule.Value, error) {
	left, err := ev.eval(e.Left)
	if err != nil {
		return rule.Value{}, err
	}

	// Short-circuit the logical operators.
	switch e.Op {
	case rule.OpAnd:
		if !truthy(left) {
			return rule.BoolValue(false), nil
		}
		right, err := ev.eval(e.Right)
		if err != nil {
			return rule.Value{}, err
		}
		return rule.BoolValue(truthy(right)), nil
	case rule.OpOr:
		if truthy(left) {
			return rule.BoolValue(true), nil
		}
		right, err := ev.eval(e.Right)
		if err != nil {
			return rule.Value{}, err
		}
		return rule.BoolValue(truthy(right)), nil
	}

	right, err := ev.eval(e.Right)
	if err != nil {
		return rule.Value{}, err
	}

	switch e.Op {
	case rule.OpAdd:
		return rule.NumberValue(left.Num.Add(right.Num)), nil
	case rule.OpSub:
		return rule.NumberValue(left.Num.Sub(right.Num)), nil
	case rule.OpMul:
		return rule.NumberValue(left.Num.Mul(right.Num)), nil
	case rule.OpDiv:
		if right.Num.IsZero() {
			return rule.Value{}, rule.ErrDivisionByZero
		}
		return rule.NumberValue(left.Num.Div(right.Num)), nil
	case rule.OpMin:
		if left.Num.LessThan(right.Num) {
			return left, nil
		}
		return right, nil
	case rule.OpMax:
		if left.Num.GreaterThan(right.Num) {
			return left, nil
		}
		return right, nil
	case rule.OpEq:
		return rule.BoolValue(compare(left, right) == 0), nil
	case rule.OpNeq:
		return rule.BoolValue(compare(left, right) != 0), nil
	case rule.OpGt:
		return rule.BoolValue(compare(left, right) > 0), nil
	case rule.OpGte:
		return rule.BoolValue(compare(left, right) >= 0), nil
	case rule.OpLt:
		return rule.BoolValue(compare(left, right) < 0), nil
	case rule.OpLte:
		return rule.BoolValue(compare(left, right) <= 0), nil
	}
	// Unreachable for validated trees.
	return rule.Value{}, fmt.Errorf("%w: operator %q", rule.ErrInvalidFormula, e.Op)
}

func (ev *evaluator) record(e *rule.Expr, v rule.Value) {
	if !ev.keep {
		return
	}
	num := v.Num
	if v.Kind == rule.ValueKindBool {
		num = decimal.Zero
		if v.Bool {
			num = decimal.NewFromInt(1)
		}
	}
	ev.trace = append(ev.trace, rule.TraceStep{Expression: exprString(e), Value: num})
}

func truthy(v rule.Value) bool {
	switch v.Kind {
	case rule.ValueKindBool:
		return v.Bool
	case rule.ValueKindNumber:
		return !v.Num.IsZero()
	case rule.ValueKindString:
		return v.Str != ""
	}
	return false
}

func compare(a, b rule.Value) int {
	if a.Kind == rule.ValueKindString && b.Kind == rule.ValueKindString {
		return strings.Compare(a.Str, b.Str)
	}
	if a.Kind == rule.ValueKindDate && b.Kind == rule.ValueKindDate {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	}
	return a.Num.Cmp(b.Num)
}

// exprString renders a node for dry-run traces.
func exprString(e *rule.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case rule.ExprLiteral:
		return e.Value.String()
	case rule.ExprVariable:
		return e.Name
	case rule.ExprBinary:
		return "(" + exprString(e.Left) + " " + e.Op + " " + exprString(e.Right) + ")"
	case rule.ExprConditional:
		return "if " + exprString(e.If) + " then " + exprString(e.Then) + " else " + exprString(e.Else)
	case rule.ExprSlab:
		return "slab(" + exprString(e.Of) + ")"
	}
	return string(e.Kind)
}
