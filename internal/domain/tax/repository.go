package tax

import (
	"context"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
)

// TaxRepository defines data access for regime schedules. Schedules are
// statutory data, not company-scoped.
type TaxRepository interface {
	GetSchedule(ctx context.Context, financialYear string, regime declaration.Regime) (RegimeSchedule, error)
	UpsertSchedule(ctx context.Context, s RegimeSchedule) (RegimeSchedule, error)
}
