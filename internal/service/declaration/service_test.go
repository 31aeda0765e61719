package declaration

import (
	"testing"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft() declaration.Declaration {
	return declaration.Declaration{
		ID:            "decl-1",
		EmployeeID:    "emp-1",
		CompanyID:     "company-1",
		FinancialYear: "2024-25",
		Regime:        declaration.RegimeOld,
		Status:        declaration.StatusDraft,
	}
}

func strPtr(s string) *string { return &s }

func TestApplyActionHappyPath(t *testing.T) {
	d := draft()

	d, err := applyAction(d, declaration.ActionSubmit, "emp-1", nil)
	require.NoError(t, err)
	assert.Equal(t, declaration.StatusSubmitted, d.Status)

	d, err = applyAction(d, declaration.ActionVerify, "admin-1", nil)
	require.NoError(t, err)
	assert.Equal(t, declaration.StatusVerified, d.Status)
	require.NotNil(t, d.VerifiedBy)
	assert.Equal(t, "admin-1", *d.VerifiedBy)
	assert.NotNil(t, d.VerifiedAt)

	d, err = applyAction(d, declaration.ActionLock, "admin-1", nil)
	require.NoError(t, err)
	assert.True(t, d.Locked())
	assert.Equal(t, declaration.StatusVerified, d.Status)
}

func TestApplyActionRejectAndRevise(t *testing.T) {
	d := draft()
	d.Status = declaration.StatusSubmitted

	d, err := applyAction(d, declaration.ActionReject, "admin-1", strPtr("missing rent receipts"))
	require.NoError(t, err)
	assert.Equal(t, declaration.StatusRejected, d.Status)
	require.NotNil(t, d.RejectionReason)
	assert.Equal(t, "missing rent receipts", *d.RejectionReason)
	require.NotNil(t, d.RejectedBy)
	assert.Equal(t, "admin-1", *d.RejectedBy)

	d, err = applyAction(d, declaration.ActionRevise, "emp-1", nil)
	require.NoError(t, err)
	assert.Equal(t, declaration.StatusDraft, d.Status)
	assert.Equal(t, 1, d.RevisionCount)
	assert.Nil(t, d.RejectionReason)
	assert.Nil(t, d.RejectedBy)
	assert.Nil(t, d.RejectedAt)
}

func TestApplyActionInvalidTransitions(t *testing.T) {
	cases := []struct {
		status declaration.Status
		action declaration.Action
	}{
		{declaration.StatusDraft, declaration.ActionVerify},
		{declaration.StatusDraft, declaration.ActionReject},
		{declaration.StatusDraft, declaration.ActionRevise},
		{declaration.StatusDraft, declaration.ActionLock},
		{declaration.StatusSubmitted, declaration.ActionSubmit},
		{declaration.StatusSubmitted, declaration.ActionLock},
		{declaration.StatusVerified, declaration.ActionSubmit},
		{declaration.StatusVerified, declaration.ActionVerify},
		{declaration.StatusVerified, declaration.ActionReject},
		{declaration.StatusRejected, declaration.ActionSubmit},
		{declaration.StatusRejected, declaration.ActionVerify},
	}
	for _, tc := range cases {
		d := draft()
		d.Status = tc.status
		_, err := applyAction(d, tc.action, "someone", strPtr("x"))
		assert.ErrorIs(t, err, declaration.ErrInvalidTransition,
			"%s on %s must be rejected", tc.action, tc.status)
	}
}

func TestApplyActionLockedBlocksEverything(t *testing.T) {
	now := time.Now()
	for _, action := range []declaration.Action{
		declaration.ActionSubmit,
		declaration.ActionVerify,
		declaration.ActionReject,
		declaration.ActionRevise,
		declaration.ActionLock,
	} {
		d := draft()
		d.Status = declaration.StatusVerified
		d.LockedAt = &now
		_, err := applyAction(d, action, "someone", strPtr("x"))
		assert.ErrorIs(t, err, declaration.ErrDeclarationLocked, "action %s", action)
	}
}

func TestApplyActionRevisionCountAccumulates(t *testing.T) {
	d := draft()
	var err error
	for i := 1; i <= 3; i++ {
		d.Status = declaration.StatusRejected
		d, err = applyAction(d, declaration.ActionRevise, "emp-1", nil)
		require.NoError(t, err)
		assert.Equal(t, i, d.RevisionCount)
	}
}

func TestApplyUpdateMergesOnlyProvidedFields(t *testing.T) {
	d := draft()
	d.Section80E = decimal.NewFromInt(40000)

	ppf := decimal.NewFromInt(120000)
	regime := string(declaration.RegimeNew)
	req := declaration.UpdateDeclarationRequest{
		Regime:     &regime,
		Section80C: &declaration.Section80C{PPF: ppf},
		Hra:        &declaration.HraDetail{MonthlyRent: decimal.NewFromInt(18000), IsMetroCity: true},
	}

	applyUpdate(&d, req)

	assert.Equal(t, declaration.RegimeNew, d.Regime)
	assert.Equal(t, "120000", d.Section80C.PPF.String())
	require.NotNil(t, d.Hra)
	assert.Equal(t, "18000", d.Hra.MonthlyRent.String())
	// untouched field survives
	assert.Equal(t, "40000", d.Section80E.String())
}

func TestHistoryEntrySnapshots(t *testing.T) {
	before := draft()
	after, err := applyAction(before, declaration.ActionSubmit, "emp-1", nil)
	require.NoError(t, err)

	entry, err := historyEntry(before, after, declaration.ActionSubmit, "emp-1", nil)
	require.NoError(t, err)

	assert.Equal(t, declaration.StatusDraft, entry.FromStatus)
	assert.Equal(t, declaration.StatusSubmitted, entry.ToStatus)
	assert.Equal(t, "emp-1", entry.Actor)
	assert.Contains(t, string(entry.Before), `"draft"`)
	assert.Contains(t, string(entry.After), `"submitted"`)
}
