package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrationBasis enum
type ProrationBasis string

const (
	ProrationBasisCalendarDays ProrationBasis = "calendar_days"
	ProrationBasisWorkingDays  ProrationBasis = "working_days"
)

// SalaryComponent - a pay head (Basic, HRA, DA, ...), company- or
// global-scoped. The wage-base flags decide which statutory bases the
// component feeds.
type SalaryComponent struct {
	ID             string
	CompanyID      *string // nil = global
	Code           string
	Name           string
	IsPfWage       bool
	IsEsiWage      bool
	IsTaxable      bool
	IsPtWage       bool
	ApplyProration bool
	ProrationBasis ProrationBasis
	DisplayOrder   int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SalaryStructure - effective-dated annual CTC breakdown for an employee.
type SalaryStructure struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	AnnualCTC         decimal.Decimal
	MonthlyBasic      decimal.Decimal
	MonthlyHRA        decimal.Decimal
	MonthlyDA         decimal.Decimal
	MonthlyAllowances decimal.Decimal
	MonthlyLTA        decimal.Decimal
	MonthlyBonus      decimal.Decimal
	EmployerPF        decimal.Decimal
	EmployerESI       decimal.Decimal
	Gratuity          decimal.Decimal
	EffectiveFrom     time.Time
	EffectiveTo       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ComponentAmount pairs a salary component with its monthly amount for one
// employee and period; the resolver's working unit.
type ComponentAmount struct {
	Component SalaryComponent
	Amount    decimal.Decimal
}

// Attendance for one employee and pay period.
type Attendance struct {
	WorkingDays  int
	PresentDays  int
	LOPDays      int
	CalendarDays int
}

// WageBases - the four statutory wage bases resolved for a pay period.
// Amounts are rounded to 2 decimals at this boundary and nowhere earlier.
type WageBases struct {
	PfWage      decimal.Decimal `json:"pf_wage"`
	EsiWage     decimal.Decimal `json:"esi_wage"`
	TaxableWage decimal.Decimal `json:"taxable_wage"`
	PtWage      decimal.Decimal `json:"pt_wage"`
	GrossWage   decimal.Decimal `json:"gross_wage"`
}
