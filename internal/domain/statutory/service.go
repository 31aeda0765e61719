package statutory

import (
	"context"

	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
)

type StatutoryService interface {
	GetPfConfig(ctx context.Context, companyID string) (PfConfig, error)
	UpdatePfConfig(ctx context.Context, companyID string, req UpdatePfConfigRequest) (PfConfig, error)

	GetEsiConfig(ctx context.Context, companyID string) (EsiConfig, error)
	UpdateEsiConfig(ctx context.Context, companyID string, req UpdateEsiConfigRequest) (EsiConfig, error)

	CreatePtSlab(ctx context.Context, req CreatePtSlabRequest) (PtSlab, error)
	ListPtSlabs(ctx context.Context, stateCode string, onDate string) ([]PtSlab, error)

	// Regime schedules are statutory data like PT slabs, shared across tenants.
	GetRegimeSchedule(ctx context.Context, financialYear string, regime string) (tax.RegimeSchedule, error)
	UpsertRegimeSchedule(ctx context.Context, req tax.UpsertScheduleRequest) (tax.RegimeSchedule, error)
}
