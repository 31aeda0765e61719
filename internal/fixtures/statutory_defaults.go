package fixtures

import (
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic("fixtures: bad decimal literal " + v)
	}
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

// ==========================================
// PF / ESI COMPANY DEFAULTS
// ==========================================

// DefaultPfConfig returns the EPFO statutory defaults a new company starts
// with: 12%/12% on a 15,000 ceiling, 8.33% pension carved out of the
// employer share, 0.5% admin and 0.5% EDLI charges.
func DefaultPfConfig(companyID string) statutory.PfConfig {
	return statutory.PfConfig{
		CompanyID:       companyID,
		Mode:            statutory.PfModeCeilingBased,
		WageCeiling:     dec("15000"),
		EmployeeRate:    dec("12"),
		EmployerRate:    dec("12"),
		PensionRate:     dec("8.33"),
		AdminChargeRate: dec("0.5"),
		EdliChargeRate:  dec("0.5"),
	}
}

// DefaultEsiConfig returns the ESIC statutory defaults: 0.75% employee and
// 3.25% employer on a 21,000 gross ceiling.
func DefaultEsiConfig(companyID string) statutory.EsiConfig {
	return statutory.EsiConfig{
		CompanyID:    companyID,
		WageCeiling:  dec("21000"),
		EmployeeRate: dec("0.75"),
		EmployerRate: dec("3.25"),
	}
}

// NoPtStates lists states and union territories that do not levy
// professional tax.
func NoPtStates() []string {
	return []string{"DL", "HR", "UP", "UK", "RJ", "JK", "AN", "CH", "DN", "LD"}
}

// DefaultPtSlabs returns the Maharashtra and Karnataka slab tables, the two
// most common cases, usable as seed data. MH levies 300 in February instead
// of 200 so the annual total reaches 2,500.
func DefaultPtSlabs(effectiveFrom time.Time) []statutory.PtSlab {
	return []statutory.PtSlab{
		{StateCode: "MH", MinMonthly: dec("0"), MaxMonthly: decPtr("7500"), Amount: dec("0"), EffectiveFrom: effectiveFrom},
		{StateCode: "MH", MinMonthly: dec("7500.01"), MaxMonthly: decPtr("10000"), Amount: dec("175"), EffectiveFrom: effectiveFrom},
		{StateCode: "MH", MinMonthly: dec("10000.01"), MaxMonthly: nil, Amount: dec("200"), FebruaryAmount: decPtr("300"), EffectiveFrom: effectiveFrom},
		{StateCode: "KA", MinMonthly: dec("0"), MaxMonthly: decPtr("24999.99"), Amount: dec("0"), EffectiveFrom: effectiveFrom},
		{StateCode: "KA", MinMonthly: dec("25000"), MaxMonthly: nil, Amount: dec("200"), EffectiveFrom: effectiveFrom},
	}
}

// ==========================================
// INCOME TAX DEFAULTS
// ==========================================

// DefaultDeductionCaps returns the Chapter VI-A and house-property caps for
// old-regime deductions.
func DefaultDeductionCaps() tax.DeductionCaps {
	return tax.DeductionCaps{
		Section80C:          dec("150000"),
		Section80CCD1B:      dec("50000"),
		Section80DSelf:      dec("25000"),
		Section80DSelfSr:    dec("50000"),
		Section80DParents:   dec("25000"),
		Section80DParentsSr: dec("50000"),
		Section24:           dec("200000"),
		Section80TTA:        dec("10000"),
	}
}

// DefaultRegimeSchedule returns the slab table for a regime in a financial
// year. Surcharge bands are ordered descending so the first band the income
// clears is the one applied.
func DefaultRegimeSchedule(financialYear string, regime declaration.Regime) tax.RegimeSchedule {
	if regime == declaration.RegimeOld {
		return tax.RegimeSchedule{
			FinancialYear: financialYear,
			Regime:        declaration.RegimeOld,
			Slabs: []tax.Slab{
				{Min: dec("0"), Max: decPtr("250000"), Rate: dec("0")},
				{Min: dec("250000"), Max: decPtr("500000"), Rate: dec("5")},
				{Min: dec("500000"), Max: decPtr("1000000"), Rate: dec("20")},
				{Min: dec("1000000"), Max: nil, Rate: dec("30")},
			},
			StandardDeduction: dec("50000"),
			RebateThreshold:   dec("500000"),
			RebateCap:         dec("12500"),
			SurchargeBands:    defaultSurchargeBands(),
			CessRate:          dec("4"),
		}
	}
	return tax.RegimeSchedule{
		FinancialYear: financialYear,
		Regime:        declaration.RegimeNew,
		Slabs: []tax.Slab{
			{Min: dec("0"), Max: decPtr("300000"), Rate: dec("0")},
			{Min: dec("300000"), Max: decPtr("700000"), Rate: dec("5")},
			{Min: dec("700000"), Max: decPtr("1000000"), Rate: dec("10")},
			{Min: dec("1000000"), Max: decPtr("1200000"), Rate: dec("15")},
			{Min: dec("1200000"), Max: decPtr("1500000"), Rate: dec("20")},
			{Min: dec("1500000"), Max: nil, Rate: dec("30")},
		},
		StandardDeduction: dec("75000"),
		RebateThreshold:   dec("700000"),
		RebateCap:         dec("25000"),
		SurchargeBands:    defaultSurchargeBands(),
		CessRate:          dec("4"),
	}
}

func defaultSurchargeBands() []tax.SurchargeBand {
	return []tax.SurchargeBand{
		{Threshold: dec("20000000"), Rate: dec("25")},
		{Threshold: dec("10000000"), Rate: dec("15")},
		{Threshold: dec("5000000"), Rate: dec("10")},
	}
}
