package employee

import "time"

type Employee struct {
	ID               string
	UserID           *string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	PAN              string
	WorkStateCode    string // two-letter state code; drives PT slab selection
	HireDate         time.Time
	ResignationDate  *time.Time
	EmploymentType   EmploymentType
	EmploymentStatus EmploymentStatus

	// Statutory flags
	PfRestrictedOptIn          bool // employee chose to contribute on the ceiling only
	EsiEligibleAtHalfYearStart bool // gross was within the ESI ceiling at Apr/Oct

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type EmploymentType string

const (
	EmploymentTypePermanent EmploymentType = "permanent"
	EmploymentTypeProbation EmploymentType = "probation"
	EmploymentTypeContract  EmploymentType = "contract"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)
