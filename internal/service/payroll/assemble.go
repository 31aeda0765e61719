package payroll

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// Line codes for the statutory components the engine itself produces.
const (
	linePfEmployee  = "PF_EMPLOYEE"
	linePfPension   = "PF_PENSION"
	linePfEpf       = "PF_EPF"
	linePfAdmin     = "PF_ADMIN"
	linePfEdli      = "PF_EDLI"
	lineEsiEmployee = "ESI_EMPLOYEE"
	lineEsiEmployer = "ESI_EMPLOYER"
	linePt          = "PT"
	lineTds         = "TDS"
)

// assembleTransaction turns the pipeline outputs into a draft transaction
// whose totals are derived from its lines, never set independently.
func assembleTransaction(
	runID, companyID, employeeID string,
	month, year int,
	att salary.Attendance,
	bases salary.WageBases,
	ruleLines []rule.EvaluatedLine,
	pfB statutory.PfBreakdown,
	esiB statutory.EsiBreakdown,
	ptB statutory.PtBreakdown,
	tdsCalc tax.Calculation,
	cfg runConfig,
) (payroll.Transaction, error) {
	trx := payroll.Transaction{
		ID:          uuid.New().String(),
		RunID:       runID,
		EmployeeID:  employeeID,
		CompanyID:   companyID,
		PeriodMonth: month,
		PeriodYear:  year,
		WorkingDays: att.WorkingDays,
		PresentDays: att.PresentDays,
		LOPDays:     att.LOPDays,
		WageBases:   bases,
		Pf:          &pfB,
		Esi:         &esiB,
		Pt:          &ptB,
		ComputedTds: tdsCalc.MonthlyTds,
		Status:      payroll.TransactionStatusDraft,
		Version:     1,
	}

	for _, l := range ruleLines {
		trx.Lines = append(trx.Lines, payroll.CalculationLine{
			ID:             uuid.New().String(),
			TransactionID:  trx.ID,
			LineType:       payroll.LineType(l.ComponentType),
			RuleCode:       l.RuleCode,
			BaseAmount:     l.BaseAmount,
			Rate:           l.Rate,
			ComputedAmount: l.ComputedAmount,
			ConfigVersion:  l.ConfigVersion,
			ConfigSnapshot: l.ConfigSnapshot,
		})
	}

	statLines, err := statutoryLines(trx.ID, pfB, esiB, ptB, tdsCalc, cfg)
	if err != nil {
		return payroll.Transaction{}, err
	}
	trx.Lines = append(trx.Lines, statLines...)

	// The base component amounts are one implicit earning line per gross; the
	// engine lines on top of them are already included in the folded bases.
	// GrossEarnings therefore comes from the wage bases, and the earning lines
	// record how the engine-computed part arose.
	trx.GrossEarnings = bases.GrossWage
	trx.Lines = append([]payroll.CalculationLine{baseEarningLine(trx.ID, bases, ruleLines)}, trx.Lines...)

	trx.TotalDeductions = trx.SumLines(payroll.LineTypeDeduction)
	trx.EmployerContributions = trx.SumLines(payroll.LineTypeEmployerContribution)
	trx.NetPayable = trx.GrossEarnings.Sub(trx.TotalDeductions)
	return trx, nil
}

// baseEarningLine records the prorated salary components as a single earning
// line, the gross minus what the rule engine added.
func baseEarningLine(transactionID string, bases salary.WageBases, ruleLines []rule.EvaluatedLine) payroll.CalculationLine {
	engineEarnings := decimal.Zero
	for _, l := range ruleLines {
		if l.ComponentType == rule.ComponentTypeEarning {
			engineEarnings = engineEarnings.Add(l.ComputedAmount)
		}
	}
	return payroll.CalculationLine{
		ID:             uuid.New().String(),
		TransactionID:  transactionID,
		LineType:       payroll.LineTypeEarning,
		RuleCode:       "SALARY_COMPONENTS",
		BaseAmount:     bases.GrossWage.Sub(engineEarnings),
		ComputedAmount: bases.GrossWage.Sub(engineEarnings),
	}
}

func statutoryLines(transactionID string, pfB statutory.PfBreakdown, esiB statutory.EsiBreakdown, ptB statutory.PtBreakdown, tdsCalc tax.Calculation, cfg runConfig) ([]payroll.CalculationLine, error) {
	pfSnapshot, err := json.Marshal(cfg.pfCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot pf config: %w", err)
	}
	esiSnapshot, err := json.Marshal(cfg.esiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot esi config: %w", err)
	}
	tdsSnapshot, err := json.Marshal(tdsCalc)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot tds calculation: %w", err)
	}

	line := func(lt payroll.LineType, code string, base, rate, amount decimal.Decimal, snapshot json.RawMessage) payroll.CalculationLine {
		return payroll.CalculationLine{
			ID:             uuid.New().String(),
			TransactionID:  transactionID,
			LineType:       lt,
			RuleCode:       code,
			BaseAmount:     base,
			Rate:           rate,
			ComputedAmount: amount,
			ConfigSnapshot: snapshot,
		}
	}

	var lines []payroll.CalculationLine
	if pfB.EmployeeContribution.IsPositive() {
		lines = append(lines,
			line(payroll.LineTypeDeduction, linePfEmployee, pfB.WageBase, cfg.pfCfg.EmployeeRate, pfB.EmployeeContribution, pfSnapshot),
			line(payroll.LineTypeEmployerContribution, linePfPension, pfB.WageBase, cfg.pfCfg.PensionRate, pfB.EmployerPension, pfSnapshot),
			line(payroll.LineTypeEmployerContribution, linePfEpf, pfB.WageBase, cfg.pfCfg.EmployerRate.Sub(cfg.pfCfg.PensionRate), pfB.EmployerEPF, pfSnapshot),
			line(payroll.LineTypeEmployerContribution, linePfAdmin, pfB.WageBase, cfg.pfCfg.AdminChargeRate, pfB.AdminCharges, pfSnapshot),
			line(payroll.LineTypeEmployerContribution, linePfEdli, pfB.WageBase, cfg.pfCfg.EdliChargeRate, pfB.EdliCharges, pfSnapshot),
		)
	}
	if esiB.Applicable {
		lines = append(lines,
			line(payroll.LineTypeDeduction, lineEsiEmployee, esiB.WageBase, cfg.esiCfg.EmployeeRate, esiB.EmployeeContribution, esiSnapshot),
			line(payroll.LineTypeEmployerContribution, lineEsiEmployer, esiB.WageBase, cfg.esiCfg.EmployerRate, esiB.EmployerContribution, esiSnapshot),
		)
	}
	if ptB.Amount.IsPositive() {
		lines = append(lines, line(payroll.LineTypeDeduction, linePt, ptB.Amount, decimal.Zero, ptB.Amount, nil))
	}
	if tdsCalc.MonthlyTds.IsPositive() {
		lines = append(lines, line(payroll.LineTypeDeduction, lineTds, tdsCalc.TaxableIncome, decimal.Zero, tdsCalc.MonthlyTds, tdsSnapshot))
	}
	return lines, nil
}

func toRunResponse(run payroll.Run, transactions []payroll.Transaction, failures []payroll.EmployeeFailure) payroll.RunResponse {
	resp := payroll.RunResponse{
		ID:          run.ID,
		PeriodMonth: run.PeriodMonth,
		PeriodYear:  run.PeriodYear,
		Status:      string(run.Status),
		Failures:    failures,
	}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t, false))
	}
	return resp
}

// toTransactionResponse presents override-adjusted deduction and net totals;
// stored totals always stay on the computed-TDS basis.
func toTransactionResponse(t payroll.Transaction, withLines bool) payroll.TransactionResponse {
	overrideDelta := t.EffectiveTds().Sub(t.ComputedTds)
	resp := payroll.TransactionResponse{
		ID:                    t.ID,
		RunID:                 t.RunID,
		EmployeeID:            t.EmployeeID,
		PeriodMonth:           t.PeriodMonth,
		PeriodYear:            t.PeriodYear,
		WorkingDays:           t.WorkingDays,
		PresentDays:           t.PresentDays,
		LOPDays:               t.LOPDays,
		WageBases:             t.WageBases,
		GrossEarnings:         t.GrossEarnings,
		TotalDeductions:       t.TotalDeductions.Add(overrideDelta),
		EmployerContributions: t.EmployerContributions,
		NetPayable:            t.NetPayable.Sub(overrideDelta),
		Pf:                    t.Pf,
		Esi:                   t.Esi,
		Pt:                    t.Pt,
		ComputedTds:           t.ComputedTds,
		TdsOverride:           t.TdsOverride,
		Status:                string(t.Status),
	}
	if withLines {
		for _, l := range t.Lines {
			resp.Lines = append(resp.Lines, payroll.LineResponse{
				ID:             l.ID,
				LineType:       string(l.LineType),
				RuleCode:       l.RuleCode,
				BaseAmount:     l.BaseAmount,
				Rate:           l.Rate,
				ComputedAmount: l.ComputedAmount,
				ConfigVersion:  l.ConfigVersion,
			})
		}
	}
	return resp
}
