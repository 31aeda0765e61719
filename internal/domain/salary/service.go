package salary

import "context"

type SalaryService interface {
	CreateComponent(ctx context.Context, companyID string, req CreateComponentRequest) (ComponentResponse, error)
	ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, companyID string, req UpdateComponentRequest) error

	CreateStructure(ctx context.Context, companyID string, req CreateStructureRequest) (SalaryStructure, error)
}
