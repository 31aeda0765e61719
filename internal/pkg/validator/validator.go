package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// PAN: 5 letters, 4 digits, 1 letter (e.g. ABCDE1234F).
var panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

func IsValidPAN(pan string) bool {
	return panRegex.MatchString(strings.ToUpper(pan))
}

// Indian state codes are two uppercase letters (MH, KA, TN, ...).
var stateCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

func IsValidStateCode(code string) bool {
	return stateCodeRegex.MatchString(code)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Financial year labels look like "2024-25"; the engine keys slab tables and
// declarations by them.
var financialYearRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

func IsValidFinancialYear(fy string) bool {
	if !financialYearRegex.MatchString(fy) {
		return false
	}
	start, err := strconv.Atoi(fy[:4])
	if err != nil {
		return false
	}
	end, err := strconv.Atoi(fy[5:])
	if err != nil {
		return false
	}
	return (start+1)%100 == end
}

// FinancialYearOf returns the label of the financial year (April to March)
// containing d.
func FinancialYearOf(d time.Time) string {
	year := d.Year()
	if d.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// Component codes: 2-30 chars, uppercase letters, digits and underscore,
// starting with a letter (BASIC, HRA, SPECIAL_ALLOWANCE, ...).
var componentCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,29}$`)

func IsValidComponentCode(code string) bool {
	return componentCodeRegex.MatchString(code)
}
