package statutory

import (
	"context"
	"time"
)

// StatutoryRepository defines data access for PF/ESI configuration and PT
// slab tables. PT slabs are statutory data shared across companies; the
// no-PT state list is configuration.
type StatutoryRepository interface {
	GetPfConfig(ctx context.Context, companyID string) (PfConfig, error)
	UpsertPfConfig(ctx context.Context, cfg PfConfig) (PfConfig, error)

	GetEsiConfig(ctx context.Context, companyID string) (EsiConfig, error)
	UpsertEsiConfig(ctx context.Context, cfg EsiConfig) (EsiConfig, error)

	// ListPtSlabs returns the slabs for a state effective on the given date,
	// ordered by MinMonthly ascending.
	ListPtSlabs(ctx context.Context, stateCode string, on time.Time) ([]PtSlab, error)
	CreatePtSlab(ctx context.Context, slab PtSlab) (PtSlab, error)

	ListNoPtStates(ctx context.Context) ([]string, error)
}
