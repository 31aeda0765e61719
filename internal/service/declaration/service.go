package declaration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
	"github.com/paysutra/payroll-backend-go/internal/repository/postgresql"
)

type DeclarationServiceImpl struct {
	db *database.DB
	declaration.DeclarationRepository
}

func NewDeclarationService(db *database.DB, repo declaration.DeclarationRepository) declaration.DeclarationService {
	return &DeclarationServiceImpl{db: db, DeclarationRepository: repo}
}

func (s *DeclarationServiceImpl) Create(ctx context.Context, companyID string, req declaration.CreateDeclarationRequest) (declaration.DeclarationResponse, error) {
	if err := req.Validate(); err != nil {
		return declaration.DeclarationResponse{}, err
	}

	_, err := s.DeclarationRepository.GetOpenForYear(ctx, req.EmployeeID, companyID, req.FinancialYear)
	if err == nil {
		return declaration.DeclarationResponse{}, declaration.ErrDeclarationExists
	}
	if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, declaration.ErrDeclarationNotFound) {
		return declaration.DeclarationResponse{}, fmt.Errorf("failed to check open declaration: %w", err)
	}

	d := declaration.Declaration{
		ID:            uuid.New().String(),
		EmployeeID:    req.EmployeeID,
		CompanyID:     companyID,
		FinancialYear: req.FinancialYear,
		Regime:        declaration.Regime(req.Regime),
		Status:        declaration.StatusDraft,
	}

	created, err := s.DeclarationRepository.Create(ctx, d)
	if err != nil {
		return declaration.DeclarationResponse{}, fmt.Errorf("failed to create declaration: %w", err)
	}
	return toResponse(created), nil
}

func (s *DeclarationServiceImpl) GetByID(ctx context.Context, id string, companyID string) (declaration.DeclarationResponse, error) {
	d, err := s.DeclarationRepository.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return declaration.DeclarationResponse{}, declaration.ErrDeclarationNotFound
		}
		return declaration.DeclarationResponse{}, fmt.Errorf("failed to get declaration: %w", err)
	}
	return toResponse(d), nil
}

func (s *DeclarationServiceImpl) Update(ctx context.Context, companyID string, req declaration.UpdateDeclarationRequest) (declaration.DeclarationResponse, error) {
	if err := req.Validate(); err != nil {
		return declaration.DeclarationResponse{}, err
	}

	var updated declaration.Declaration
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		d, err := s.DeclarationRepository.GetForUpdate(txCtx, req.ID, companyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return declaration.ErrDeclarationNotFound
			}
			return fmt.Errorf("failed to lock declaration: %w", err)
		}
		if d.Locked() {
			return declaration.ErrDeclarationLocked
		}
		if d.Status != declaration.StatusDraft {
			return declaration.ErrNotEditable
		}

		applyUpdate(&d, req)
		d.UpdatedAt = time.Now()

		updated, err = s.DeclarationRepository.Update(txCtx, d)
		if err != nil {
			return fmt.Errorf("failed to update declaration: %w", err)
		}
		return nil
	})
	if err != nil {
		return declaration.DeclarationResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *DeclarationServiceImpl) Transition(ctx context.Context, companyID string, req declaration.TransitionRequest) (declaration.DeclarationResponse, error) {
	if err := req.Validate(); err != nil {
		return declaration.DeclarationResponse{}, err
	}

	var after declaration.Declaration
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		before, err := s.DeclarationRepository.GetForUpdate(txCtx, req.ID, companyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return declaration.ErrDeclarationNotFound
			}
			return fmt.Errorf("failed to lock declaration: %w", err)
		}

		next, err := applyAction(before, declaration.Action(req.Action), req.Actor, req.Reason)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now()

		after, err = s.DeclarationRepository.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to update declaration: %w", err)
		}

		entry, err := historyEntry(before, after, declaration.Action(req.Action), req.Actor, req.Reason)
		if err != nil {
			return err
		}
		if err := s.DeclarationRepository.AppendHistory(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append declaration history: %w", err)
		}
		return nil
	})
	if err != nil {
		return declaration.DeclarationResponse{}, err
	}
	return toResponse(after), nil
}

func (s *DeclarationServiceImpl) History(ctx context.Context, declarationID string, companyID string) ([]declaration.HistoryEntry, error) {
	entries, err := s.DeclarationRepository.ListHistory(ctx, declarationID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list declaration history: %w", err)
	}
	return entries, nil
}

// applyAction is the lifecycle state machine. Locked declarations admit no
// action at all; everything else is keyed on (current status, action).
func applyAction(d declaration.Declaration, action declaration.Action, actor string, reason *string) (declaration.Declaration, error) {
	if d.Locked() {
		return declaration.Declaration{}, declaration.ErrDeclarationLocked
	}

	now := time.Now()
	switch {
	case action == declaration.ActionSubmit && d.Status == declaration.StatusDraft:
		d.Status = declaration.StatusSubmitted

	case action == declaration.ActionVerify && d.Status == declaration.StatusSubmitted:
		d.Status = declaration.StatusVerified
		d.VerifiedBy = &actor
		d.VerifiedAt = &now

	case action == declaration.ActionReject && d.Status == declaration.StatusSubmitted:
		d.Status = declaration.StatusRejected
		d.RejectionReason = reason
		d.RejectedBy = &actor
		d.RejectedAt = &now

	case action == declaration.ActionRevise && d.Status == declaration.StatusRejected:
		d.Status = declaration.StatusDraft
		d.RevisionCount++
		d.RejectionReason = nil
		d.RejectedBy = nil
		d.RejectedAt = nil

	case action == declaration.ActionLock && d.Status == declaration.StatusVerified:
		d.LockedAt = &now

	default:
		return declaration.Declaration{}, fmt.Errorf("%w: cannot %s a %s declaration",
			declaration.ErrInvalidTransition, action, d.Status)
	}
	return d, nil
}

func historyEntry(before, after declaration.Declaration, action declaration.Action, actor string, reason *string) (declaration.HistoryEntry, error) {
	beforeJSON, err := json.Marshal(toResponse(before))
	if err != nil {
		return declaration.HistoryEntry{}, fmt.Errorf("failed to snapshot declaration: %w", err)
	}
	afterJSON, err := json.Marshal(toResponse(after))
	if err != nil {
		return declaration.HistoryEntry{}, fmt.Errorf("failed to snapshot declaration: %w", err)
	}
	return declaration.HistoryEntry{
		ID:              uuid.New().String(),
		DeclarationID:   after.ID,
		Action:          action,
		Actor:           actor,
		FromStatus:      before.Status,
		ToStatus:        after.Status,
		RejectionReason: reason,
		Before:          beforeJSON,
		After:           afterJSON,
		CreatedAt:       time.Now(),
	}, nil
}

func applyUpdate(d *declaration.Declaration, req declaration.UpdateDeclarationRequest) {
	if req.Regime != nil {
		d.Regime = declaration.Regime(*req.Regime)
	}
	if req.Section80C != nil {
		d.Section80C = *req.Section80C
	}
	if req.Section80CCD1B != nil {
		d.Section80CCD1B = *req.Section80CCD1B
	}
	if req.Section80D != nil {
		d.Section80D = *req.Section80D
	}
	if req.Section80E != nil {
		d.Section80E = *req.Section80E
	}
	if req.Section24 != nil {
		d.Section24 = *req.Section24
	}
	if req.Section80G != nil {
		d.Section80G = *req.Section80G
	}
	if req.Section80TTA != nil {
		d.Section80TTA = *req.Section80TTA
	}
	if req.Hra != nil {
		d.Hra = req.Hra
	}
	if req.PreviousEmployer != nil {
		d.PreviousEmployer = req.PreviousEmployer
	}
}

func toResponse(d declaration.Declaration) declaration.DeclarationResponse {
	return declaration.DeclarationResponse{
		ID:               d.ID,
		EmployeeID:       d.EmployeeID,
		FinancialYear:    d.FinancialYear,
		Regime:           string(d.Regime),
		Section80C:       d.Section80C,
		Section80CCD1B:   d.Section80CCD1B,
		Section80D:       d.Section80D,
		Section80E:       d.Section80E,
		Section24:        d.Section24,
		Section80G:       d.Section80G,
		Section80TTA:     d.Section80TTA,
		Hra:              d.Hra,
		PreviousEmployer: d.PreviousEmployer,
		Status:           string(d.Status),
		RevisionCount:    d.RevisionCount,
		RejectionReason:  d.RejectionReason,
		Locked:           d.Locked(),
	}
}
