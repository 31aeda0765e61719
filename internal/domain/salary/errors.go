package salary

import "errors"

var (
	ErrComponentNotFound    = errors.New("salary component not found")
	ErrComponentCodeExists  = errors.New("salary component code already exists")
	ErrStructureNotFound    = errors.New("no salary structure effective for the period")
	ErrZeroWorkingDays      = errors.New("attendance has zero working days")
	ErrNegativeAttendance   = errors.New("attendance days cannot be negative")
	ErrPresentExceedsWorked = errors.New("present days exceed working days")
)
