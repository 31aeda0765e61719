package rule

import (
	"context"
	"time"
)

// RuleRepository defines data access for calculation rules and formula
// variables. All methods take companyID to prevent cross-company data access.
type RuleRepository interface {
	CreateRule(ctx context.Context, r CalculationRule) (CalculationRule, error)
	GetRuleByID(ctx context.Context, id string, companyID string) (CalculationRule, error)
	ListRules(ctx context.Context, companyID string, activeOnly bool) ([]CalculationRule, error)
	// ListActiveRules returns the rules effective on payDate, conditions
	// attached, ordered by priority ascending.
	ListActiveRules(ctx context.Context, companyID string, payDate time.Time) ([]CalculationRule, error)
	UpdateRule(ctx context.Context, companyID string, req UpdateRuleRequest) (CalculationRule, error)
	DeactivateRule(ctx context.Context, id string, companyID string) error
	// ComponentInFinalizedTransactions reports whether the component code
	// appears on calculation lines of any finalized transaction.
	ComponentInFinalizedTransactions(ctx context.Context, componentCode string, companyID string) (bool, error)

	CreateVariable(ctx context.Context, v FormulaVariable) (FormulaVariable, error)
	ListVariables(ctx context.Context, companyID string) ([]FormulaVariable, error)
}
