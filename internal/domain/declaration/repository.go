package declaration

import "context"

// DeclarationRepository defines data access for declarations and their
// immutable history. GetForUpdate takes a row lock so concurrent transitions
// on one declaration are linearized by the database.
type DeclarationRepository interface {
	Create(ctx context.Context, d Declaration) (Declaration, error)
	GetByID(ctx context.Context, id string, companyID string) (Declaration, error)
	GetForUpdate(ctx context.Context, id string, companyID string) (Declaration, error)
	// GetOpenForYear returns the employee's non-rejected declaration for the
	// financial year, if any.
	GetOpenForYear(ctx context.Context, employeeID string, companyID string, financialYear string) (Declaration, error)
	Update(ctx context.Context, d Declaration) (Declaration, error)

	AppendHistory(ctx context.Context, entry HistoryEntry) error
	ListHistory(ctx context.Context, declarationID string, companyID string) ([]HistoryEntry, error)
}
