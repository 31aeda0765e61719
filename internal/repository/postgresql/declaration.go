package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/pkg/database"
)

type declarationRepositoryImpl struct {
	db *database.DB
}

func NewDeclarationRepository(db *database.DB) declaration.DeclarationRepository {
	return &declarationRepositoryImpl{db: db}
}

const declarationColumns = `
	id, employee_id, company_id, financial_year, regime,
	section_80c, section_80ccd_1b, section_80d, section_80e, section_24,
	section_80g, section_80tta, hra, previous_employer,
	status, revision_count, rejection_reason, rejected_by, rejected_at,
	verified_by, verified_at, locked_at, created_at, updated_at
`

// Create implements declaration.DeclarationRepository.
func (d *declarationRepositoryImpl) Create(ctx context.Context, dec declaration.Declaration) (declaration.Declaration, error) {
	q := GetQuerier(ctx, d.db)

	sec80c, sec80d, hra, prevEmp, err := marshalDeclarationJSON(dec)
	if err != nil {
		return declaration.Declaration{}, err
	}

	query := `
		INSERT INTO tax_declarations (
			id, employee_id, company_id, financial_year, regime,
			section_80c, section_80ccd_1b, section_80d, section_80e, section_24,
			section_80g, section_80tta, hra, previous_employer,
			status, revision_count, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		dec.ID, dec.EmployeeID, dec.CompanyID, dec.FinancialYear, dec.Regime,
		sec80c, dec.Section80CCD1B, sec80d, dec.Section80E, dec.Section24,
		dec.Section80G, dec.Section80TTA, hra, prevEmp,
		dec.Status, dec.RevisionCount,
	).Scan(&dec.CreatedAt, &dec.UpdatedAt)
	if err != nil {
		return declaration.Declaration{}, err
	}
	return dec, nil
}

// GetByID implements declaration.DeclarationRepository.
func (d *declarationRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (declaration.Declaration, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT ` + declarationColumns + `
		FROM tax_declarations
		WHERE id = $1 AND company_id = $2
	`
	return scanDeclaration(q.QueryRow(ctx, query, id, companyID))
}

// GetForUpdate implements declaration.DeclarationRepository. The row lock
// linearizes concurrent lifecycle transitions.
func (d *declarationRepositoryImpl) GetForUpdate(ctx context.Context, id string, companyID string) (declaration.Declaration, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT ` + declarationColumns + `
		FROM tax_declarations
		WHERE id = $1 AND company_id = $2
		FOR UPDATE
	`
	return scanDeclaration(q.QueryRow(ctx, query, id, companyID))
}

// GetOpenForYear implements declaration.DeclarationRepository.
func (d *declarationRepositoryImpl) GetOpenForYear(ctx context.Context, employeeID string, companyID string, financialYear string) (declaration.Declaration, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT ` + declarationColumns + `
		FROM tax_declarations
		WHERE employee_id = $1 AND company_id = $2 AND financial_year = $3
		  AND status != 'rejected'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanDeclaration(q.QueryRow(ctx, query, employeeID, companyID, financialYear))
}

// Update implements declaration.DeclarationRepository.
func (d *declarationRepositoryImpl) Update(ctx context.Context, dec declaration.Declaration) (declaration.Declaration, error) {
	q := GetQuerier(ctx, d.db)

	sec80c, sec80d, hra, prevEmp, err := marshalDeclarationJSON(dec)
	if err != nil {
		return declaration.Declaration{}, err
	}

	query := `
		UPDATE tax_declarations
		SET regime = $3, section_80c = $4, section_80ccd_1b = $5, section_80d = $6,
		    section_80e = $7, section_24 = $8, section_80g = $9, section_80tta = $10,
		    hra = $11, previous_employer = $12, status = $13, revision_count = $14,
		    rejection_reason = $15, rejected_by = $16, rejected_at = $17,
		    verified_by = $18, verified_at = $19, locked_at = $20, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING updated_at
	`
	err = q.QueryRow(ctx, query,
		dec.ID, dec.CompanyID, dec.Regime, sec80c, dec.Section80CCD1B, sec80d,
		dec.Section80E, dec.Section24, dec.Section80G, dec.Section80TTA,
		hra, prevEmp, dec.Status, dec.RevisionCount,
		dec.RejectionReason, dec.RejectedBy, dec.RejectedAt,
		dec.VerifiedBy, dec.VerifiedAt, dec.LockedAt,
	).Scan(&dec.UpdatedAt)
	if err != nil {
		return declaration.Declaration{}, err
	}
	return dec, nil
}

// AppendHistory implements declaration.DeclarationRepository. History rows
// are insert-only; there is no update or delete path.
func (d *declarationRepositoryImpl) AppendHistory(ctx context.Context, entry declaration.HistoryEntry) error {
	q := GetQuerier(ctx, d.db)

	query := `
		INSERT INTO declaration_history (
			id, declaration_id, action, actor, from_status, to_status,
			rejection_reason, before_snapshot, after_snapshot, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.DeclarationID, entry.Action, entry.Actor,
		entry.FromStatus, entry.ToStatus, entry.RejectionReason,
		[]byte(entry.Before), []byte(entry.After),
	)
	return err
}

// ListHistory implements declaration.DeclarationRepository.
func (d *declarationRepositoryImpl) ListHistory(ctx context.Context, declarationID string, companyID string) ([]declaration.HistoryEntry, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT h.id, h.declaration_id, h.action, h.actor, h.from_status, h.to_status,
		       h.rejection_reason, h.before_snapshot, h.after_snapshot, h.created_at
		FROM declaration_history h
		JOIN tax_declarations t ON t.id = h.declaration_id
		WHERE h.declaration_id = $1 AND t.company_id = $2
		ORDER BY h.created_at ASC
	`
	rows, err := q.Query(ctx, query, declarationID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []declaration.HistoryEntry
	for rows.Next() {
		var e declaration.HistoryEntry
		var before, after []byte
		err := rows.Scan(
			&e.ID, &e.DeclarationID, &e.Action, &e.Actor, &e.FromStatus, &e.ToStatus,
			&e.RejectionReason, &before, &after, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.Before = json.RawMessage(before)
		e.After = json.RawMessage(after)
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalDeclarationJSON(dec declaration.Declaration) (sec80c, sec80d, hra, prevEmp []byte, err error) {
	if sec80c, err = json.Marshal(dec.Section80C); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal section 80c: %w", err)
	}
	if sec80d, err = json.Marshal(dec.Section80D); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal section 80d: %w", err)
	}
	if dec.Hra != nil {
		if hra, err = json.Marshal(dec.Hra); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal hra: %w", err)
		}
	}
	if dec.PreviousEmployer != nil {
		if prevEmp, err = json.Marshal(dec.PreviousEmployer); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal previous employer: %w", err)
		}
	}
	return sec80c, sec80d, hra, prevEmp, nil
}

func scanDeclaration(row pgx.Row) (declaration.Declaration, error) {
	var dec declaration.Declaration
	var sec80c, sec80d, hra, prevEmp []byte

	err := row.Scan(
		&dec.ID, &dec.EmployeeID, &dec.CompanyID, &dec.FinancialYear, &dec.Regime,
		&sec80c, &dec.Section80CCD1B, &sec80d, &dec.Section80E, &dec.Section24,
		&dec.Section80G, &dec.Section80TTA, &hra, &prevEmp,
		&dec.Status, &dec.RevisionCount, &dec.RejectionReason, &dec.RejectedBy, &dec.RejectedAt,
		&dec.VerifiedBy, &dec.VerifiedAt, &dec.LockedAt, &dec.CreatedAt, &dec.UpdatedAt,
	)
	if err != nil {
		return declaration.Declaration{}, err
	}

	if sec80c != nil {
		if err := json.Unmarshal(sec80c, &dec.Section80C); err != nil {
			return declaration.Declaration{}, fmt.Errorf("unmarshal section 80c: %w", err)
		}
	}
	if sec80d != nil {
		if err := json.Unmarshal(sec80d, &dec.Section80D); err != nil {
			return declaration.Declaration{}, fmt.Errorf("unmarshal section 80d: %w", err)
		}
	}
	if hra != nil {
		dec.Hra = &declaration.HraDetail{}
		if err := json.Unmarshal(hra, dec.Hra); err != nil {
			return declaration.Declaration{}, fmt.Errorf("unmarshal hra: %w", err)
		}
	}
	if prevEmp != nil {
		dec.PreviousEmployer = &declaration.PreviousEmployer{}
		if err := json.Unmarshal(prevEmp, dec.PreviousEmployer); err != nil {
			return declaration.Declaration{}, fmt.Errorf("unmarshal previous employer: %w", err)
		}
	}
	return dec, nil
}
