package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidPAN(t *testing.T) {
	valid := []string{"ABCDE1234F", "abcde1234f", "ZZZZZ9999Z"}
	invalid := []string{"ABCD1234F", "ABCDE12345", "ABCDE1234FX", "1BCDE1234F", ""}
	for _, pan := range valid {
		if !IsValidPAN(pan) {
			t.Errorf("IsValidPAN(%q) = false, want true", pan)
		}
	}
	for _, pan := range invalid {
		if IsValidPAN(pan) {
			t.Errorf("IsValidPAN(%q) = true, want false", pan)
		}
	}
}

func TestIsValidStateCode(t *testing.T) {
	valid := []string{"MH", "KA", "DL"}
	invalid := []string{"mh", "MHA", "M", "M1", ""}
	for _, code := range valid {
		if !IsValidStateCode(code) {
			t.Errorf("IsValidStateCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidStateCode(code) {
			t.Errorf("IsValidStateCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidFinancialYear(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"2024-25", true},
		{"2004-05", true},
		{"1999-00", true},
		{"2024-26", false}, // end year does not follow start
		{"2024-2025", false},
		{"24-25", false},
		{"", false},
	}
	for _, c := range cases {
		got := IsValidFinancialYear(c.input)
		if got != c.want {
			t.Errorf("IsValidFinancialYear(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestFinancialYearOf(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-04-01", "2024-25"},
		{"2024-07-31", "2024-25"},
		{"2025-03-31", "2024-25"},
		{"2025-04-01", "2025-26"},
		{"2004-06-15", "2004-05"},
	}
	for _, c := range cases {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatalf("parse %q: %v", c.date, err)
		}
		got := FinancialYearOf(d)
		if got != c.want {
			t.Errorf("FinancialYearOf(%s) = %q, want %q", c.date, got, c.want)
		}
	}
}

func TestIsValidComponentCode(t *testing.T) {
	valid := []string{"BASIC", "HRA", "SPECIAL_ALLOWANCE", "DA2"}
	invalid := []string{"basic", "1BASIC", "_HRA", "B", "", "BASIC PAY"}
	for _, code := range valid {
		if !IsValidComponentCode(code) {
			t.Errorf("IsValidComponentCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidComponentCode(code) {
			t.Errorf("IsValidComponentCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-04-01"); !ok {
		t.Error("IsValidDate(2024-04-01) = false, want true")
	}
	for _, s := range []string{"01-04-2024", "2024/04/01", "2024-13-01", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}
