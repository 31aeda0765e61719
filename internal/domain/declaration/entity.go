package declaration

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Regime enum
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// Status enum: draft → submitted → {verified, rejected};
// rejected → draft (revision) → submitted → …
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
)

// Action enum for lifecycle transitions.
type Action string

const (
	ActionSubmit Action = "submit"
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
	ActionRevise Action = "revise"
	ActionLock   Action = "lock"
)

// Section80C sub-items; the statutory cap applies to the pooled total.
type Section80C struct {
	LifeInsurance     decimal.Decimal `json:"life_insurance"`
	PPF               decimal.Decimal `json:"ppf"`
	ELSS              decimal.Decimal `json:"elss"`
	NSC               decimal.Decimal `json:"nsc"`
	TuitionFees       decimal.Decimal `json:"tuition_fees"`
	HomeLoanPrincipal decimal.Decimal `json:"home_loan_principal"`
	Other             decimal.Decimal `json:"other"`
}

func (s Section80C) Total() decimal.Decimal {
	return s.LifeInsurance.Add(s.PPF).Add(s.ELSS).Add(s.NSC).
		Add(s.TuitionFees).Add(s.HomeLoanPrincipal).Add(s.Other)
}

// Section80D medical insurance premiums; caps rise with the senior flags.
type Section80D struct {
	SelfAndFamily       decimal.Decimal `json:"self_and_family"`
	Parents             decimal.Decimal `json:"parents"`
	SelfSeniorCitizen   bool            `json:"self_senior_citizen"`
	ParentSeniorCitizen bool            `json:"parent_senior_citizen"`
}

// HraDetail - rent evidence for the HRA exemption.
type HraDetail struct {
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	IsMetroCity  bool            `json:"is_metro_city"`
	LandlordName string          `json:"landlord_name,omitempty"`
	LandlordPAN  string          `json:"landlord_pan,omitempty"`
}

// PreviousEmployer income carried in by a mid-year joiner.
type PreviousEmployer struct {
	Income decimal.Decimal `json:"income"`
	TDS    decimal.Decimal `json:"tds"`
	PF     decimal.Decimal `json:"pf"`
	PT     decimal.Decimal `json:"pt"`
}

// Declaration - one employee's tax declaration for a financial year. Only one
// declaration may be in a non-rejected state per (employee, year).
type Declaration struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	FinancialYear string
	Regime        Regime

	Section80C      Section80C
	Section80CCD1B  decimal.Decimal // NPS additional
	Section80D      Section80D
	Section80E      decimal.Decimal // education loan interest
	Section24       decimal.Decimal // home loan interest
	Section80G      decimal.Decimal // donations
	Section80TTA    decimal.Decimal // savings interest
	Hra             *HraDetail
	PreviousEmployer *PreviousEmployer

	Status          Status
	RevisionCount   int
	RejectionReason *string
	RejectedBy      *string
	RejectedAt      *time.Time
	VerifiedBy      *string
	VerifiedAt      *time.Time
	LockedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Locked reports whether the declaration can no longer be mutated.
func (d Declaration) Locked() bool {
	return d.LockedAt != nil
}

// HistoryEntry - immutable log row for every transition.
type HistoryEntry struct {
	ID              string
	DeclarationID   string
	Action          Action
	Actor           string
	FromStatus      Status
	ToStatus        Status
	RejectionReason *string
	Before          json.RawMessage
	After           json.RawMessage
	CreatedAt       time.Time
}
