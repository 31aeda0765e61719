package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/employee"
	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/paysutra/payroll-backend-go/internal/repository/postgresql"
	"github.com/paysutra/payroll-backend-go/internal/service/ruleengine"
	statutorysvc "github.com/paysutra/payroll-backend-go/internal/service/statutory"
	taxsvc "github.com/paysutra/payroll-backend-go/internal/service/tax"
	"github.com/paysutra/payroll-backend-go/internal/service/wagebase"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentEmployees caps the per-run calculation fan-out.
const maxConcurrentEmployees = 8

type PayrollServiceImpl struct {
	db *database.DB
	payroll.PayrollRepository

	employeeRepo    employee.EmployeeRepository
	salaryRepo      salary.SalaryRepository
	ruleRepo        rule.RuleRepository
	statutoryRepo   statutory.StatutoryRepository
	taxRepo         tax.TaxRepository
	declarationRepo declaration.DeclarationRepository

	resolver *wagebase.Resolver
	engine   *ruleengine.Engine
	pf       *statutorysvc.PfCalculator
	esi      *statutorysvc.EsiCalculator
	pt       *statutorysvc.PtCalculator
	tds      *taxsvc.Calculator

	logger *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	ruleRepo rule.RuleRepository,
	statutoryRepo statutory.StatutoryRepository,
	taxRepo tax.TaxRepository,
	declarationRepo declaration.DeclarationRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:                db,
		PayrollRepository: payrollRepo,
		employeeRepo:      employeeRepo,
		salaryRepo:        salaryRepo,
		ruleRepo:          ruleRepo,
		statutoryRepo:     statutoryRepo,
		taxRepo:           taxRepo,
		declarationRepo:   declarationRepo,
		resolver:          wagebase.NewResolver(),
		engine:            ruleengine.NewEngine(),
		pf:                statutorysvc.NewPfCalculator(),
		esi:               statutorysvc.NewEsiCalculator(),
		pt:                statutorysvc.NewPtCalculator(),
		tds:               taxsvc.NewCalculator(),
		logger:            logger,
	}
}

// runConfig is the company-level configuration loaded once per run and
// shared by every per-employee goroutine. Read-only after construction.
type runConfig struct {
	payDate    time.Time
	pfCfg      statutory.PfConfig
	esiCfg     statutory.EsiConfig
	noPtStates []string
	caps       tax.DeductionCaps
	rules      []rule.CalculationRule
	variables  []rule.FormulaVariable
}

func (s *PayrollServiceImpl) GenerateRun(ctx context.Context, companyID string, createdBy string, req payroll.GenerateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		var err error
		employeeIDs, err = s.PayrollRepository.ListActiveEmployeeIDs(ctx, companyID)
		if err != nil {
			return payroll.RunResponse{}, fmt.Errorf("failed to list active employees: %w", err)
		}
	}
	if len(employeeIDs) == 0 {
		return payroll.RunResponse{}, payroll.ErrNoEmployeesInRun
	}

	cfg, err := s.loadRunConfig(ctx, companyID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.PayrollRepository.CreateRun(ctx, payroll.Run{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Status:      payroll.RunStatusDraft,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	var (
		mu           sync.Mutex
		transactions []payroll.Transaction
		failures     []payroll.EmployeeFailure
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmployees)
	for _, employeeID := range employeeIDs {
		employeeID := employeeID
		g.Go(func() error {
			trx, err := s.calculateAndStore(gCtx, companyID, run.ID, employeeID, req.PeriodMonth, req.PeriodYear, cfg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, payroll.EmployeeFailure{EmployeeID: employeeID, Reason: err.Error()})
				s.logger.Warn("payroll calculation failed",
					slog.String("run_id", run.ID),
					slog.String("employee_id", employeeID),
					slog.String("reason", err.Error()))
				return nil // one employee's failure never aborts the batch
			}
			transactions = append(transactions, trx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.RunResponse{}, err
	}

	sort.Slice(transactions, func(i, j int) bool { return transactions[i].EmployeeID < transactions[j].EmployeeID })

	status := payroll.RunStatusCompleted
	if len(failures) > 0 {
		status = payroll.RunStatusPartiallyFailed
	}
	if err := s.PayrollRepository.UpdateRunStatus(ctx, run.ID, companyID, status); err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to update run status: %w", err)
	}
	run.Status = status

	s.logger.Info("payroll run generated",
		slog.String("run_id", run.ID),
		slog.Int("period_month", req.PeriodMonth),
		slog.Int("period_year", req.PeriodYear),
		slog.Int("calculated", len(transactions)),
		slog.Int("failed", len(failures)))

	return toRunResponse(run, transactions, failures), nil
}

func (s *PayrollServiceImpl) loadRunConfig(ctx context.Context, companyID string, month, year int) (runConfig, error) {
	payDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)

	pfCfg, err := s.statutoryRepo.GetPfConfig(ctx, companyID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return runConfig{}, fmt.Errorf("failed to load pf config: %w", err)
		}
		pfCfg = fixtures.DefaultPfConfig(companyID)
	}
	esiCfg, err := s.statutoryRepo.GetEsiConfig(ctx, companyID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return runConfig{}, fmt.Errorf("failed to load esi config: %w", err)
		}
		esiCfg = fixtures.DefaultEsiConfig(companyID)
	}
	noPt, err := s.statutoryRepo.ListNoPtStates(ctx)
	if err != nil {
		return runConfig{}, fmt.Errorf("failed to load no-pt states: %w", err)
	}
	rules, err := s.ruleRepo.ListActiveRules(ctx, companyID, payDate)
	if err != nil {
		return runConfig{}, fmt.Errorf("failed to load active rules: %w", err)
	}
	variables, err := s.ruleRepo.ListVariables(ctx, companyID)
	if err != nil {
		return runConfig{}, fmt.Errorf("failed to load formula variables: %w", err)
	}

	return runConfig{
		payDate:    payDate,
		pfCfg:      pfCfg,
		esiCfg:     esiCfg,
		noPtStates: noPt,
		caps:       fixtures.DefaultDeductionCaps(),
		rules:      rules,
		variables:  variables,
	}, nil
}

// calculateAndStore runs the full pipeline for one employee and persists the
// draft transaction with its lines atomically.
func (s *PayrollServiceImpl) calculateAndStore(ctx context.Context, companyID, runID, employeeID string, month, year int, cfg runConfig) (payroll.Transaction, error) {
	trx, err := s.calculateEmployee(ctx, companyID, runID, employeeID, month, year, cfg)
	if err != nil {
		return payroll.Transaction{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if _, err := s.PayrollRepository.CreateTransaction(txCtx, trx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		if err := s.PayrollRepository.AppendLines(txCtx, trx.ID, trx.Lines); err != nil {
			return fmt.Errorf("failed to append calculation lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Transaction{}, err
	}
	return trx, nil
}

func (s *PayrollServiceImpl) calculateEmployee(ctx context.Context, companyID, runID, employeeID string, month, year int, cfg runConfig) (payroll.Transaction, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Transaction{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Transaction{}, fmt.Errorf("failed to get employee: %w", err)
	}

	existing, err := s.PayrollRepository.GetTransactionByEmployeePeriod(ctx, employeeID, month, year, companyID)
	if err == nil {
		if existing.Status == payroll.TransactionStatusFinalized {
			return payroll.Transaction{}, payroll.ErrTransactionFinalized
		}
		return payroll.Transaction{}, payroll.ErrTransactionExists
	}
	if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, payroll.ErrTransactionNotFound) {
		return payroll.Transaction{}, fmt.Errorf("failed to check existing transaction: %w", err)
	}

	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	att, err := s.salaryRepo.GetAttendance(ctx, employeeID, companyID, month, year)
	if err != nil {
		return payroll.Transaction{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	components, err := s.salaryRepo.GetComponentAmounts(ctx, employeeID, companyID, periodStart)
	if err != nil {
		return payroll.Transaction{}, fmt.Errorf("failed to get component amounts: %w", err)
	}

	bases, err := s.resolver.Resolve(components, att)
	if err != nil {
		return payroll.Transaction{}, err
	}
	if cfg.pfCfg.IncludeSpecialAllowance {
		bases = s.resolver.AddSpecialAllowanceToPf(bases, components, att)
	}

	rc, err := s.buildContext(components, att, emp, cfg)
	if err != nil {
		return payroll.Transaction{}, err
	}
	ruleLines, err := s.engine.Evaluate(cfg.rules, cfg.payDate, rc)
	if err != nil {
		return payroll.Transaction{}, err
	}
	for _, l := range ruleLines {
		if l.ComponentType == rule.ComponentTypeEarning {
			bases = s.resolver.AddComputedEarning(bases, l.ComputedAmount, l.AffectsPfWage, l.AffectsEsiWage, l.IsTaxable)
		}
	}

	pfB, err := s.pf.Calculate(statutorysvc.PfInput{PfWage: bases.PfWage, RestrictedOptIn: emp.PfRestrictedOptIn}, cfg.pfCfg)
	if err != nil {
		return payroll.Transaction{}, err
	}
	esiEligible, changed := s.esiEligibilityFor(month, emp.EsiEligibleAtHalfYearStart, bases.GrossWage, cfg.esiCfg)
	if changed {
		if err := s.employeeRepo.SetEsiEligibility(ctx, emp.ID, companyID, esiEligible); err != nil {
			return payroll.Transaction{}, fmt.Errorf("failed to update esi eligibility: %w", err)
		}
	}
	esiB := s.esi.Calculate(statutorysvc.EsiInput{EsiWage: bases.EsiWage, EligibleAtHalfYearStart: esiEligible}, cfg.esiCfg)

	ptSlabs, err := s.statutoryRepo.ListPtSlabs(ctx, emp.WorkStateCode, cfg.payDate)
	if err != nil {
		return payroll.Transaction{}, fmt.Errorf("failed to load pt slabs: %w", err)
	}
	ptB, err := s.pt.Calculate(emp.WorkStateCode, bases.PtWage, ptSlabs, cfg.noPtStates, cfg.payDate)
	if err != nil {
		return payroll.Transaction{}, err
	}

	tdsCalc, err := s.computeTds(ctx, companyID, employeeID, bases, month, year, cfg)
	if err != nil {
		return payroll.Transaction{}, err
	}

	return assembleTransaction(runID, companyID, emp.ID, month, year, att, bases, ruleLines, pfB, esiB, ptB, tdsCalc, cfg)
}

// esiEligibilityFor returns the half-year eligibility flag to apply for the
// period. April and October open a new contribution half-year, so the flag is
// re-evaluated against that month's gross; every other month reuses the stored
// flag. The second return reports whether the stored flag needs updating.
func (s *PayrollServiceImpl) esiEligibilityFor(month int, stored bool, gross decimal.Decimal, cfg statutory.EsiConfig) (eligible, changed bool) {
	if month != 4 && month != 10 {
		return stored, false
	}
	eligible = s.esi.EligibleAtStart(gross, cfg)
	return eligible, eligible != stored
}

// buildContext seeds the evaluation context with the employee's prorated
// component amounts, attendance figures, profile fields and every registered
// variable's default.
func (s *PayrollServiceImpl) buildContext(components []salary.ComponentAmount, att salary.Attendance, emp employee.Employee, cfg runConfig) (*rule.Context, error) {
	prorated, err := s.resolver.ProratedAmounts(components, att)
	if err != nil {
		return nil, err
	}

	rc := rule.NewContext()
	for _, v := range cfg.variables {
		if v.Default != nil {
			rc.SetNumber(v.Name, *v.Default)
		}
	}
	for code, amount := range prorated {
		rc.SetNumber(code, amount)
	}
	rc.SetNumber("WORKING_DAYS", decimal.NewFromInt(int64(att.WorkingDays)))
	rc.SetNumber("PRESENT_DAYS", decimal.NewFromInt(int64(att.PresentDays)))
	rc.SetNumber("LOP_DAYS", decimal.NewFromInt(int64(att.LOPDays)))
	rc.Set("STATE", rule.StringValue(emp.WorkStateCode))
	rc.Set("EMPLOYMENT_TYPE", rule.StringValue(string(emp.EmploymentType)))
	rc.Set("HIRE_DATE", rule.DateValue(emp.HireDate))
	rc.Set("PAY_DATE", rule.DateValue(cfg.payDate))
	return rc, nil
}

func (s *PayrollServiceImpl) computeTds(ctx context.Context, companyID, employeeID string, bases salary.WageBases, month, year int, cfg runConfig) (tax.Calculation, error) {
	fy := validator.FinancialYearOf(cfg.payDate)
	periodIndex, fyStartYear := fiscalPeriod(month, year)

	structure, err := s.salaryRepo.GetActiveStructure(ctx, employeeID, companyID, cfg.payDate)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return tax.Calculation{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	var decl *declaration.Declaration
	if d, err := s.declarationRepo.GetOpenForYear(ctx, employeeID, companyID, fy); err == nil {
		decl = &d
	} else if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, declaration.ErrDeclarationNotFound) {
		return tax.Calculation{}, fmt.Errorf("failed to get declaration: %w", err)
	}

	regime := declaration.RegimeNew
	if decl != nil {
		regime = decl.Regime
	}
	schedule, err := s.taxRepo.GetSchedule(ctx, fy, regime)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, tax.ErrScheduleNotFound) {
			return tax.Calculation{}, fmt.Errorf("failed to get regime schedule: %w", err)
		}
		schedule = fixtures.DefaultRegimeSchedule(fy, regime)
	}

	withheld := decimal.Zero
	if periodIndex > 0 {
		prevMonth := month - 1
		prevYear := year
		if prevMonth == 0 {
			prevMonth = 12
			prevYear--
		}
		withheld, err = s.PayrollRepository.SumFinalizedTds(ctx, employeeID, companyID, fyStartYear*100+4, prevYear*100+prevMonth)
		if err != nil {
			return tax.Calculation{}, fmt.Errorf("failed to sum withheld tds: %w", err)
		}
	}

	twelve := decimal.NewFromInt(12)
	in := tax.Input{
		FinancialYear:      fy,
		PeriodIndex:        periodIndex,
		AnnualGross:        bases.TaxableWage.Mul(twelve),
		AnnualBasic:        structure.MonthlyBasic.Mul(twelve),
		AnnualHraReceived:  structure.MonthlyHRA.Mul(twelve),
		Declaration:        decl,
		Schedule:           schedule,
		Caps:               cfg.caps,
		TdsAlreadyWithheld: withheld,
	}
	if decl != nil && decl.PreviousEmployer != nil {
		in.PreviousEmployerIncome = decl.PreviousEmployer.Income
		in.PreviousEmployerTDS = decl.PreviousEmployer.TDS
	}
	return s.tds.Calculate(in)
}

// fiscalPeriod maps a calendar period to the fiscal period index (April = 0)
// and the fiscal year's starting calendar year.
func fiscalPeriod(month, year int) (int, int) {
	if month >= 4 {
		return month - 4, year
	}
	return month + 8, year - 1
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string, companyID string) (payroll.RunResponse, error) {
	run, err := s.PayrollRepository.GetRunByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.RunResponse{}, payroll.ErrRunNotFound
		}
		return payroll.RunResponse{}, fmt.Errorf("failed to get run: %w", err)
	}
	transactions, err := s.PayrollRepository.ListTransactionsByRun(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to list run transactions: %w", err)
	}
	return toRunResponse(run, transactions, nil), nil
}

func (s *PayrollServiceImpl) GetTransaction(ctx context.Context, id string, companyID string) (payroll.TransactionResponse, error) {
	trx, err := s.getWithLines(ctx, id, companyID)
	if err != nil {
		return payroll.TransactionResponse{}, err
	}
	return toTransactionResponse(trx, true), nil
}

func (s *PayrollServiceImpl) ListTransactions(ctx context.Context, companyID string, filter payroll.TransactionFilter) ([]payroll.TransactionResponse, int64, error) {
	transactions, total, err := s.PayrollRepository.ListTransactions(ctx, companyID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	out := make([]payroll.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t, false))
	}
	return out, total, nil
}

func (s *PayrollServiceImpl) FinalizeTransaction(ctx context.Context, id string, companyID string, finalizedBy string) (payroll.TransactionResponse, error) {
	var finalized payroll.Transaction
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		trx, err := s.getWithLines(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if trx.Status == payroll.TransactionStatusFinalized {
			finalized = trx // idempotent
			return nil
		}
		if err := checkLineTotals(trx); err != nil {
			return err
		}

		finalized, err = s.PayrollRepository.FinalizeTransaction(txCtx, id, companyID, trx.Version, finalizedBy)
		if err != nil {
			return err
		}
		finalized.Lines = trx.Lines
		return nil
	})
	if err != nil {
		return payroll.TransactionResponse{}, err
	}
	return toTransactionResponse(finalized, true), nil
}

func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, id string, companyID string, finalizedBy string) (payroll.RunResponse, error) {
	run, err := s.PayrollRepository.GetRunByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.RunResponse{}, payroll.ErrRunNotFound
		}
		return payroll.RunResponse{}, fmt.Errorf("failed to get run: %w", err)
	}
	if run.Status == payroll.RunStatusPartiallyFailed {
		return payroll.RunResponse{}, payroll.ErrRunNotFinalizable
	}

	transactions, err := s.PayrollRepository.ListTransactionsByRun(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to list run transactions: %w", err)
	}

	finalized := make([]payroll.Transaction, 0, len(transactions))
	for _, t := range transactions {
		resp, err := s.FinalizeTransaction(ctx, t.ID, companyID, finalizedBy)
		if err != nil {
			return payroll.RunResponse{}, fmt.Errorf("failed to finalize transaction %s: %w", t.ID, err)
		}
		t.Status = payroll.TransactionStatus(resp.Status)
		finalized = append(finalized, t)
	}

	if err := s.PayrollRepository.UpdateRunStatus(ctx, id, companyID, payroll.RunStatusFinalized); err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to update run status: %w", err)
	}
	run.Status = payroll.RunStatusFinalized
	return toRunResponse(run, finalized, nil), nil
}

func (s *PayrollServiceImpl) ApplyTdsOverride(ctx context.Context, companyID string, req payroll.TdsOverrideRequest) (payroll.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TransactionResponse{}, err
	}

	var updated payroll.Transaction
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		trx, err := s.getWithLines(txCtx, req.TransactionID, companyID)
		if err != nil {
			return err
		}
		if trx.Status == payroll.TransactionStatusFinalized {
			return payroll.ErrOverrideOnFinalized
		}

		if err := s.PayrollRepository.SetTdsOverride(txCtx, req.TransactionID, companyID, req); err != nil {
			return fmt.Errorf("failed to set tds override: %w", err)
		}
		trx.TdsOverride = &tax.Override{Amount: req.Amount, Reason: req.Reason}
		updated = trx
		return nil
	})
	if err != nil {
		return payroll.TransactionResponse{}, err
	}
	return toTransactionResponse(updated, true), nil
}

func (s *PayrollServiceImpl) getWithLines(ctx context.Context, id string, companyID string) (payroll.Transaction, error) {
	trx, err := s.PayrollRepository.GetTransactionByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Transaction{}, payroll.ErrTransactionNotFound
		}
		return payroll.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	lines, err := s.PayrollRepository.ListLines(ctx, id, companyID)
	if err != nil {
		return payroll.Transaction{}, fmt.Errorf("failed to list calculation lines: %w", err)
	}
	trx.Lines = lines
	return trx, nil
}

// checkLineTotals verifies the stored totals against the line sums before a
// transaction may finalize. Stored totals and the TDS line both carry the
// computed value; an override only changes what the response layer presents.
func checkLineTotals(t payroll.Transaction) error {
	earnings := t.SumLines(payroll.LineTypeEarning)
	deductions := t.SumLines(payroll.LineTypeDeduction)
	employer := t.SumLines(payroll.LineTypeEmployerContribution)

	if !earnings.Equal(t.GrossEarnings) || !deductions.Equal(t.TotalDeductions) || !employer.Equal(t.EmployerContributions) {
		return fmt.Errorf("%w: earnings %s/%s deductions %s/%s employer %s/%s",
			payroll.ErrLineTotalMismatch,
			earnings, t.GrossEarnings, deductions, t.TotalDeductions, employer, t.EmployerContributions)
	}
	if !t.NetPayable.Equal(t.GrossEarnings.Sub(t.TotalDeductions)) {
		return fmt.Errorf("%w: net %s is not gross %s minus deductions %s",
			payroll.ErrLineTotalMismatch, t.NetPayable, t.GrossEarnings, t.TotalDeductions)
	}
	return nil
}
