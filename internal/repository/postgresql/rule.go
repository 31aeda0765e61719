package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type ruleRepositoryImpl struct {
	db *database.DB
}

func NewRuleRepository(db *database.DB) rule.RuleRepository {
	return &ruleRepositoryImpl{db: db}
}

const ruleColumns = `
	id, company_id, component_code, component_type, rule_type, formula,
	priority, effective_from, effective_to, is_active, is_taxable,
	affects_pf_wage, affects_esi_wage, stop_on_first_match, version,
	created_at, updated_at
`

// Create implements rule.RuleRepository.
func (r *ruleRepositoryImpl) CreateRule(ctx context.Context, cr rule.CalculationRule) (rule.CalculationRule, error) {
	q := GetQuerier(ctx, r.db)

	formulaJSON, err := json.Marshal(cr.Formula)
	if err != nil {
		return rule.CalculationRule{}, fmt.Errorf("marshal formula: %w", err)
	}

	query := `
		INSERT INTO calculation_rules (
			id, company_id, component_code, component_type, rule_type, formula,
			priority, effective_from, effective_to, is_active, is_taxable,
			affects_pf_wage, affects_esi_wage, stop_on_first_match, version,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		cr.ID, cr.CompanyID, cr.ComponentCode, cr.ComponentType, cr.RuleType, formulaJSON,
		cr.Priority, cr.EffectiveFrom, cr.EffectiveTo, cr.IsActive, cr.IsTaxable,
		cr.AffectsPfWage, cr.AffectsEsiWage, cr.StopOnFirstMatch, cr.Version,
	).Scan(&cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		return rule.CalculationRule{}, err
	}

	for i := range cr.Conditions {
		cr.Conditions[i].ID = uuid.New().String()
		cr.Conditions[i].RuleID = cr.ID
		if err := r.insertCondition(ctx, cr.Conditions[i]); err != nil {
			return rule.CalculationRule{}, err
		}
	}
	return cr, nil
}

func (r *ruleRepositoryImpl) insertCondition(ctx context.Context, c rule.Condition) error {
	q := GetQuerier(ctx, r.db)

	valueJSON, err := json.Marshal(c.Value)
	if err != nil {
		return fmt.Errorf("marshal condition value: %w", err)
	}
	query := `
		INSERT INTO rule_conditions (id, rule_id, condition_group, field, operator, value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = q.Exec(ctx, query, c.ID, c.RuleID, c.Group, c.Field, c.Operator, valueJSON)
	return err
}

// GetRuleByID implements rule.RuleRepository.
func (r *ruleRepositoryImpl) GetRuleByID(ctx context.Context, id string, companyID string) (rule.CalculationRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ruleColumns + `
		FROM calculation_rules
		WHERE id = $1 AND company_id = $2
	`
	cr, err := scanRule(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		return rule.CalculationRule{}, err
	}
	if err := r.attachConditions(ctx, &cr); err != nil {
		return rule.CalculationRule{}, err
	}
	return cr, nil
}

// ListRules implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ListRules(ctx context.Context, companyID string, activeOnly bool) ([]rule.CalculationRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ruleColumns + `
		FROM calculation_rules
		WHERE company_id = $1
	`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY priority ASC, component_code ASC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRules(ctx, rows)
}

// ListActiveRules implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ListActiveRules(ctx context.Context, companyID string, payDate time.Time) ([]rule.CalculationRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + ruleColumns + `
		FROM calculation_rules
		WHERE company_id = $1
		  AND is_active = true
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY priority ASC
	`
	rows, err := q.Query(ctx, query, companyID, payDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRules(ctx, rows)
}

func (r *ruleRepositoryImpl) collectRules(ctx context.Context, rows pgx.Rows) ([]rule.CalculationRule, error) {
	var out []rule.CalculationRule
	for rows.Next() {
		cr, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachConditions(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanRule(row pgx.Row) (rule.CalculationRule, error) {
	var cr rule.CalculationRule
	var formulaJSON []byte

	err := row.Scan(
		&cr.ID, &cr.CompanyID, &cr.ComponentCode, &cr.ComponentType, &cr.RuleType, &formulaJSON,
		&cr.Priority, &cr.EffectiveFrom, &cr.EffectiveTo, &cr.IsActive, &cr.IsTaxable,
		&cr.AffectsPfWage, &cr.AffectsEsiWage, &cr.StopOnFirstMatch, &cr.Version,
		&cr.CreatedAt, &cr.UpdatedAt,
	)
	if err != nil {
		return rule.CalculationRule{}, err
	}
	if formulaJSON != nil {
		if err := json.Unmarshal(formulaJSON, &cr.Formula); err != nil {
			return rule.CalculationRule{}, fmt.Errorf("unmarshal formula: %w", err)
		}
	}
	return cr, nil
}

func (r *ruleRepositoryImpl) attachConditions(ctx context.Context, cr *rule.CalculationRule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, rule_id, condition_group, field, operator, value
		FROM rule_conditions
		WHERE rule_id = $1
		ORDER BY condition_group ASC, field ASC
	`
	rows, err := q.Query(ctx, query, cr.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c rule.Condition
		var valueJSON []byte
		if err := rows.Scan(&c.ID, &c.RuleID, &c.Group, &c.Field, &c.Operator, &valueJSON); err != nil {
			return err
		}
		if valueJSON != nil {
			if err := json.Unmarshal(valueJSON, &c.Value); err != nil {
				return fmt.Errorf("unmarshal condition value: %w", err)
			}
		}
		cr.Conditions = append(cr.Conditions, c)
	}
	return rows.Err()
}

// UpdateRule implements rule.RuleRepository. The version column increments on
// every edit; ledger lines snapshot the version they were computed with.
func (r *ruleRepositoryImpl) UpdateRule(ctx context.Context, companyID string, req rule.UpdateRuleRequest) (rule.CalculationRule, error) {
	q := GetQuerier(ctx, r.db)

	current, err := r.GetRuleByID(ctx, req.ID, companyID)
	if err != nil {
		return rule.CalculationRule{}, err
	}

	if req.Formula != nil {
		current.Formula = *req.Formula
	}
	if req.Priority != nil {
		current.Priority = *req.Priority
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if req.IsTaxable != nil {
		current.IsTaxable = *req.IsTaxable
	}
	if req.AffectsPfWage != nil {
		current.AffectsPfWage = *req.AffectsPfWage
	}
	if req.AffectsEsiWage != nil {
		current.AffectsEsiWage = *req.AffectsEsiWage
	}
	if req.StopOnFirstMatch != nil {
		current.StopOnFirstMatch = *req.StopOnFirstMatch
	}
	if req.EffectiveTo != nil {
		to, err := time.Parse("2006-01-02", *req.EffectiveTo)
		if err != nil {
			return rule.CalculationRule{}, fmt.Errorf("parse effective_to: %w", err)
		}
		current.EffectiveTo = &to
	}
	current.Version++

	formulaJSON, err := json.Marshal(current.Formula)
	if err != nil {
		return rule.CalculationRule{}, fmt.Errorf("marshal formula: %w", err)
	}

	query := `
		UPDATE calculation_rules
		SET formula = $3, priority = $4, effective_to = $5, is_active = $6,
		    is_taxable = $7, affects_pf_wage = $8, affects_esi_wage = $9,
		    stop_on_first_match = $10, version = $11, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING updated_at
	`
	err = q.QueryRow(ctx, query,
		current.ID, companyID, formulaJSON, current.Priority, current.EffectiveTo,
		current.IsActive, current.IsTaxable, current.AffectsPfWage, current.AffectsEsiWage,
		current.StopOnFirstMatch, current.Version,
	).Scan(&current.UpdatedAt)
	if err != nil {
		return rule.CalculationRule{}, err
	}

	if req.Conditions != nil {
		if _, err := q.Exec(ctx, `DELETE FROM rule_conditions WHERE rule_id = $1`, current.ID); err != nil {
			return rule.CalculationRule{}, err
		}
		current.Conditions = current.Conditions[:0]
		for _, cond := range req.Conditions {
			c := rule.Condition{
				ID:       uuid.New().String(),
				RuleID:   current.ID,
				Group:    cond.Group,
				Field:    cond.Field,
				Operator: rule.Operator(cond.Operator),
				Value:    cond.Value,
			}
			if err := r.insertCondition(ctx, c); err != nil {
				return rule.CalculationRule{}, err
			}
			current.Conditions = append(current.Conditions, c)
		}
	}
	return current, nil
}

// DeactivateRule implements rule.RuleRepository.
func (r *ruleRepositoryImpl) DeactivateRule(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE calculation_rules
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return pgx.ErrNoRows
	}
	return nil
}

// ComponentInFinalizedTransactions implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ComponentInFinalizedTransactions(ctx context.Context, componentCode string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM calculation_lines l
			JOIN payroll_transactions t ON t.id = l.transaction_id
			WHERE l.rule_code = $1 AND t.company_id = $2 AND t.status = 'finalized'
		)
	`
	var used bool
	if err := q.QueryRow(ctx, query, componentCode, companyID).Scan(&used); err != nil {
		return false, err
	}
	return used, nil
}

// CreateVariable implements rule.RuleRepository.
func (r *ruleRepositoryImpl) CreateVariable(ctx context.Context, v rule.FormulaVariable) (rule.FormulaVariable, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO formula_variables (id, company_id, name, type, source, default_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query, v.ID, v.CompanyID, v.Name, v.Type, v.Source, v.Default).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return rule.FormulaVariable{}, err
	}
	return v, nil
}

// ListVariables implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ListVariables(ctx context.Context, companyID string) ([]rule.FormulaVariable, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, type, source, default_value, created_at, updated_at
		FROM formula_variables
		WHERE company_id = $1
		ORDER BY name ASC
	`
	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rule.FormulaVariable
	for rows.Next() {
		var v rule.FormulaVariable
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.Type, &v.Source, &v.Default, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
