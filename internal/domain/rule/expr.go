package rule

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExprKind enum. The formula language is a closed tagged union: malformed
// trees are rejected when the rule is saved, never during a payroll run.
type ExprKind string

const (
	ExprLiteral     ExprKind = "literal"
	ExprVariable    ExprKind = "variable"
	ExprBinary      ExprKind = "binary"
	ExprConditional ExprKind = "conditional"
	ExprSlab        ExprKind = "slab"
)

// Arithmetic and comparison operators allowed in a binary node. There are no
// side effects and no loops; evaluation always terminates in one walk.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpMin = "min"
	OpMax = "max"
	OpEq  = "=="
	OpNeq = "!="
	OpGt  = ">"
	OpGte = ">="
	OpLt  = "<"
	OpLte = "<="
	OpAnd = "&&"
	OpOr  = "||"
)

// Expr is one node of a formula tree.
type Expr struct {
	Kind ExprKind `json:"kind"`

	// literal
	Value *decimal.Decimal `json:"value,omitempty"`

	// variable
	Name string `json:"name,omitempty"`

	// binary
	Op    string `json:"op,omitempty"`
	Left  *Expr  `json:"left,omitempty"`
	Right *Expr  `json:"right,omitempty"`

	// conditional
	If   *Expr `json:"if,omitempty"`
	Then *Expr `json:"then,omitempty"`
	Else *Expr `json:"else,omitempty"`

	// slab
	Of    *Expr      `json:"of,omitempty"`
	Bands []SlabBand `json:"bands,omitempty"`
}

var binaryOps = map[string]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true,
	OpMin: true, OpMax: true,
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpAnd: true, OpOr: true,
}

// maxExprDepth bounds formula nesting so a save-time validation also bounds
// evaluation steps.
const maxExprDepth = 32

// Validate checks the tree is well formed: every node has exactly the children
// its kind requires, operators come from the closed set, slab bands are
// ordered and non-overlapping.
func (e *Expr) Validate() error {
	return e.validate(0)
}

func (e *Expr) validate(depth int) error {
	if e == nil {
		return fmt.Errorf("%w: nil expression node", ErrInvalidFormula)
	}
	if depth > maxExprDepth {
		return fmt.Errorf("%w: expression nested deeper than %d", ErrInvalidFormula, maxExprDepth)
	}

	switch e.Kind {
	case ExprLiteral:
		if e.Value == nil {
			return fmt.Errorf("%w: literal without value", ErrInvalidFormula)
		}
	case ExprVariable:
		if e.Name == "" {
			return fmt.Errorf("%w: variable reference without name", ErrInvalidFormula)
		}
	case ExprBinary:
		if !binaryOps[e.Op] {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidFormula, e.Op)
		}
		if err := e.Left.validate(depth + 1); err != nil {
			return err
		}
		if err := e.Right.validate(depth + 1); err != nil {
			return err
		}
	case ExprConditional:
		if err := e.If.validate(depth + 1); err != nil {
			return err
		}
		if err := e.Then.validate(depth + 1); err != nil {
			return err
		}
		if err := e.Else.validate(depth + 1); err != nil {
			return err
		}
	case ExprSlab:
		if err := e.Of.validate(depth + 1); err != nil {
			return err
		}
		if len(e.Bands) == 0 {
			return fmt.Errorf("%w: slab lookup without bands", ErrInvalidFormula)
		}
		if err := validateBands(e.Bands); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown node kind %q", ErrInvalidFormula, e.Kind)
	}
	return nil
}

func validateBands(bands []SlabBand) error {
	for i, b := range bands {
		if b.Max != nil && b.Max.LessThan(b.Min) {
			return fmt.Errorf("%w: band %d has max below min", ErrInvalidFormula, i)
		}
		if i > 0 {
			prev := bands[i-1]
			if prev.Max == nil {
				return fmt.Errorf("%w: band %d follows an open-ended band", ErrInvalidFormula, i)
			}
			if b.Min.LessThanOrEqual(*prev.Max) {
				return fmt.Errorf("%w: band %d overlaps band %d", ErrInvalidFormula, i, i-1)
			}
		}
	}
	return nil
}

// Variables returns every identifier referenced anywhere in the tree.
func (e *Expr) Variables() []string {
	seen := map[string]bool{}
	var names []string
	e.collectVariables(seen, &names)
	return names
}

func (e *Expr) collectVariables(seen map[string]bool, names *[]string) {
	if e == nil {
		return
	}
	if e.Kind == ExprVariable && !seen[e.Name] {
		seen[e.Name] = true
		*names = append(*names, e.Name)
	}
	for _, child := range []*Expr{e.Left, e.Right, e.If, e.Then, e.Else, e.Of} {
		child.collectVariables(seen, names)
	}
}

// ReferencedVariables returns every identifier a rule's formula config can
// resolve at evaluation time, across all rule types.
func (r CalculationRule) ReferencedVariables() []string {
	switch r.RuleType {
	case RuleTypePercentage, RuleTypeSlab:
		if r.Formula.BaseVariable == "" {
			return nil
		}
		return []string{r.Formula.BaseVariable}
	case RuleTypeFormula:
		if r.Formula.Expr == nil {
			return nil
		}
		return r.Formula.Expr.Variables()
	}
	return nil
}

// ValidateFormula checks the formula config against the rule type.
func (r CalculationRule) ValidateFormula() error {
	switch r.RuleType {
	case RuleTypeFlat:
		if r.Formula.Amount == nil {
			return fmt.Errorf("%w: flat rule requires an amount", ErrInvalidFormula)
		}
	case RuleTypePercentage:
		if r.Formula.BaseVariable == "" {
			return fmt.Errorf("%w: percentage rule requires a base variable", ErrInvalidFormula)
		}
		if r.Formula.Rate == nil {
			return fmt.Errorf("%w: percentage rule requires a rate", ErrInvalidFormula)
		}
	case RuleTypeSlab:
		if r.Formula.BaseVariable == "" {
			return fmt.Errorf("%w: slab rule requires a base variable", ErrInvalidFormula)
		}
		if len(r.Formula.Bands) == 0 {
			return fmt.Errorf("%w: slab rule requires bands", ErrInvalidFormula)
		}
		if err := validateBands(r.Formula.Bands); err != nil {
			return err
		}
	case RuleTypeFormula:
		if r.Formula.Expr == nil {
			return fmt.Errorf("%w: formula rule requires an expression", ErrInvalidFormula)
		}
		if err := r.Formula.Expr.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidFormula, r.RuleType)
	}
	return nil
}
