package payroll

import "context"

type PayrollService interface {
	// GenerateRun calculates every requested employee for the period,
	// collecting per-employee failures instead of aborting the batch.
	GenerateRun(ctx context.Context, companyID string, createdBy string, req GenerateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string, companyID string) (RunResponse, error)

	GetTransaction(ctx context.Context, id string, companyID string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, companyID string, filter TransactionFilter) ([]TransactionResponse, int64, error)

	// FinalizeTransaction verifies line totals against stored totals,
	// then flips status under optimistic concurrency. Finalizing an
	// already finalized transaction is a no-op.
	FinalizeTransaction(ctx context.Context, id string, companyID string, finalizedBy string) (TransactionResponse, error)
	FinalizeRun(ctx context.Context, id string, companyID string, finalizedBy string) (RunResponse, error)

	ApplyTdsOverride(ctx context.Context, companyID string, req TdsOverrideRequest) (TransactionResponse, error)
}
