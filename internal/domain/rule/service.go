package rule

import "context"

type RuleService interface {
	CreateRule(ctx context.Context, companyID string, req CreateRuleRequest) (RuleResponse, error)
	GetRuleByID(ctx context.Context, id string, companyID string) (RuleResponse, error)
	ListRules(ctx context.Context, companyID string, activeOnly bool) ([]RuleResponse, error)
	UpdateRule(ctx context.Context, companyID string, req UpdateRuleRequest) (RuleResponse, error)
	DeactivateRule(ctx context.Context, id string, companyID string) error
	// DryRun evaluates a draft rule against caller-supplied sample values
	// without persisting anything.
	DryRun(ctx context.Context, companyID string, req DryRunRequest) (DryRunResult, error)

	CreateVariable(ctx context.Context, companyID string, req CreateVariableRequest) (VariableResponse, error)
	ListVariables(ctx context.Context, companyID string) ([]VariableResponse, error)
}
