package declaration

import "context"

type DeclarationService interface {
	Create(ctx context.Context, companyID string, req CreateDeclarationRequest) (DeclarationResponse, error)
	GetByID(ctx context.Context, id string, companyID string) (DeclarationResponse, error)
	Update(ctx context.Context, companyID string, req UpdateDeclarationRequest) (DeclarationResponse, error)
	// Transition runs one lifecycle action under a row lock and appends an
	// immutable history entry in the same transaction.
	Transition(ctx context.Context, companyID string, req TransitionRequest) (DeclarationResponse, error)
	History(ctx context.Context, declarationID string, companyID string) ([]HistoryEntry, error)
}
