package ruleengine

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(t *testing.T, v string) *rule.Expr {
	return &rule.Expr{Kind: rule.ExprLiteral, Value: decPtr(t, v)}
}

func ref(name string) *rule.Expr {
	return &rule.Expr{Kind: rule.ExprVariable, Name: name}
}

func bin(op string, left, right *rule.Expr) *rule.Expr {
	return &rule.Expr{Kind: rule.ExprBinary, Op: op, Left: left, Right: right}
}

func TestEvalArithmetic(t *testing.T) {
	rc := rule.NewContext().SetNumber("BASIC", dec(t, "30000"))
	ev := newEvaluator(rc, false)

	// BASIC * 12 / 100 + 50
	expr := bin(rule.OpAdd,
		bin(rule.OpDiv, bin(rule.OpMul, ref("BASIC"), lit(t, "12")), lit(t, "100")),
		lit(t, "50"),
	)

	v, err := ev.eval(expr)
	require.NoError(t, err)
	assert.Equal(t, "3650", v.Num.String())
}

func TestEvalMinMax(t *testing.T) {
	rc := rule.NewContext().SetNumber("PF_WAGE", dec(t, "30000"))
	ev := newEvaluator(rc, false)

	// min(PF_WAGE, 15000) is the idiomatic ceiling clamp
	v, err := ev.eval(bin(rule.OpMin, ref("PF_WAGE"), lit(t, "15000")))
	require.NoError(t, err)
	assert.Equal(t, "15000", v.Num.String())

	v, err = ev.eval(bin(rule.OpMax, ref("PF_WAGE"), lit(t, "15000")))
	require.NoError(t, err)
	assert.Equal(t, "30000", v.Num.String())
}

func TestEvalConditional(t *testing.T) {
	expr := &rule.Expr{
		Kind: rule.ExprConditional,
		If:   bin(rule.OpGte, ref("GROSS"), lit(t, "20000")),
		Then: lit(t, "800"),
		Else: lit(t, "0"),
	}

	rc := rule.NewContext().SetNumber("GROSS", dec(t, "25000"))
	v, err := newEvaluator(rc, false).eval(expr)
	require.NoError(t, err)
	assert.Equal(t, "800", v.Num.String())

	rc = rule.NewContext().SetNumber("GROSS", dec(t, "15000"))
	v, err = newEvaluator(rc, false).eval(expr)
	require.NoError(t, err)
	assert.Equal(t, "0", v.Num.String())
}

func TestEvalSlabNode(t *testing.T) {
	expr := &rule.Expr{
		Kind: rule.ExprSlab,
		Of:   ref("GROSS"),
		Bands: []rule.SlabBand{
			{Min: dec(t, "0"), Max: decPtr(t, "10000"), Amount: dec(t, "0")},
			{Min: dec(t, "10000.01"), Max: nil, Amount: dec(t, "200")},
		},
	}

	rc := rule.NewContext().SetNumber("GROSS", dec(t, "18000"))
	v, err := newEvaluator(rc, false).eval(expr)
	require.NoError(t, err)
	assert.Equal(t, "200", v.Num.String())
}

func TestEvalDivisionByZero(t *testing.T) {
	rc := rule.NewContext().SetNumber("DAYS", dec(t, "0"))
	ev := newEvaluator(rc, false)

	_, err := ev.eval(bin(rule.OpDiv, lit(t, "1000"), ref("DAYS")))
	assert.ErrorIs(t, err, rule.ErrDivisionByZero)
}

func TestEvalUnknownVariable(t *testing.T) {
	ev := newEvaluator(rule.NewContext(), false)

	_, err := ev.eval(ref("NOPE"))
	assert.ErrorIs(t, err, rule.ErrUnknownVariable)
}

func TestEvalShortCircuit(t *testing.T) {
	// The right side would fail on lookup; && must not reach it.
	rc := rule.NewContext().Set("IS_CONTRACT", rule.BoolValue(false))
	ev := newEvaluator(rc, false)

	v, err := ev.eval(bin(rule.OpAnd, ref("IS_CONTRACT"), ref("NOPE")))
	require.NoError(t, err)
	assert.False(t, v.Bool)

	rc = rule.NewContext().Set("IS_CONTRACT", rule.BoolValue(true))
	v, err = newEvaluator(rc, false).eval(bin(rule.OpOr, ref("IS_CONTRACT"), ref("NOPE")))
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

func TestEvalTraceRecording(t *testing.T) {
	rc := rule.NewContext().SetNumber("BASIC", dec(t, "30000"))
	ev := newEvaluator(rc, true)

	_, err := ev.eval(bin(rule.OpMul, ref("BASIC"), lit(t, "2")))
	require.NoError(t, err)
	assert.NotEmpty(t, ev.trace)

	// Without the flag, no trace accumulates.
	ev = newEvaluator(rc, false)
	_, err = ev.eval(bin(rule.OpMul, ref("BASIC"), lit(t, "2")))
	require.NoError(t, err)
	assert.Empty(t, ev.trace)
}
