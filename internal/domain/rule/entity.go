package rule

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning              ComponentType = "earning"
	ComponentTypeDeduction            ComponentType = "deduction"
	ComponentTypeEmployerContribution ComponentType = "employer_contribution"
)

// RuleType enum
type RuleType string

const (
	RuleTypeFlat       RuleType = "flat"
	RuleTypePercentage RuleType = "percentage"
	RuleTypeFormula    RuleType = "formula"
	RuleTypeSlab       RuleType = "slab"
)

// CalculationRule - Company-scoped payroll calculation rule.
// At most one active rule per (company, component code) may cover a given pay
// date; overlapping effective ranges for the same code are rejected at save time.
type CalculationRule struct {
	ID               string
	CompanyID        string
	ComponentCode    string
	ComponentType    ComponentType
	RuleType         RuleType
	Formula          FormulaConfig
	Priority         int // lower evaluates first
	EffectiveFrom    time.Time
	EffectiveTo      *time.Time
	IsActive         bool
	IsTaxable        bool
	AffectsPfWage    bool
	AffectsEsiWage   bool
	StopOnFirstMatch bool // single-valued component: first matching rule wins
	Version          int  // bumped on every edit; snapshotted onto ledger lines
	Conditions       []Condition
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ActiveOn reports whether the rule may apply on the given pay date.
func (r CalculationRule) ActiveOn(payDate time.Time) bool {
	if !r.IsActive {
		return false
	}
	if payDate.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && payDate.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// FormulaConfig is the structured calculation payload of a rule. Which fields
// are meaningful depends on RuleType:
//
//	flat:       Amount
//	percentage: BaseVariable, Rate
//	slab:       BaseVariable, Bands
//	formula:    Expr (Constants available as extra identifiers)
type FormulaConfig struct {
	Amount       *decimal.Decimal           `json:"amount,omitempty"`
	BaseVariable string                     `json:"base_variable,omitempty"`
	Rate         *decimal.Decimal           `json:"rate,omitempty"`
	Bands        []SlabBand                 `json:"bands,omitempty"`
	Expr         *Expr                      `json:"expr,omitempty"`
	Constants    map[string]decimal.Decimal `json:"constants,omitempty"`
}

// SlabBand is one bracket of a slab table. Max nil means open-ended.
type SlabBand struct {
	Min    decimal.Decimal  `json:"min"`
	Max    *decimal.Decimal `json:"max,omitempty"`
	Amount decimal.Decimal  `json:"amount"`
}

// Contains reports whether v falls inside the band.
func (b SlabBand) Contains(v decimal.Decimal) bool {
	if v.LessThan(b.Min) {
		return false
	}
	if b.Max != nil && v.GreaterThan(*b.Max) {
		return false
	}
	return true
}

// Operator enum for rule conditions
type Operator string

const (
	OperatorEquals   Operator = "equals"
	OperatorIn       Operator = "in"
	OperatorGte      Operator = "gte"
	OperatorLte      Operator = "lte"
	OperatorContains Operator = "contains"
	OperatorBetween  Operator = "between"
)

// Condition - one predicate of a rule. Conditions sharing a Group are AND-ed;
// groups are OR-ed. A rule with zero conditions always matches.
type Condition struct {
	ID       string
	RuleID   string
	Group    int
	Field    string
	Operator Operator
	Value    ConditionValue
}

// ConditionValue carries the operand for a condition; the populated field
// depends on the operator (Str/Num for equals & ordering, List for in/contains,
// Low/High for between).
type ConditionValue struct {
	Str  string           `json:"str,omitempty"`
	Num  *decimal.Decimal `json:"num,omitempty"`
	List []string         `json:"list,omitempty"`
	Low  *decimal.Decimal `json:"low,omitempty"`
	High *decimal.Decimal `json:"high,omitempty"`
}

// VariableType enum
type VariableType string

const (
	VariableTypeDecimal VariableType = "decimal"
	VariableTypeInteger VariableType = "integer"
	VariableTypeBoolean VariableType = "boolean"
	VariableTypeDate    VariableType = "date"
)

// VariableSource enum
type VariableSource string

const (
	VariableSourceEmployeeProfile VariableSource = "employee_profile"
	VariableSourceSalaryStructure VariableSource = "salary_structure"
	VariableSourceAttendance      VariableSource = "attendance"
	VariableSourceSystemConstant  VariableSource = "system_constant"
)

// FormulaVariable - a named identifier resolvable inside formulas.
type FormulaVariable struct {
	ID        string
	CompanyID string
	Name      string
	Type      VariableType
	Source    VariableSource
	Default   *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
