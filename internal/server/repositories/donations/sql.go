package donations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/dbx"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/dialect"
)

const columns = `id, donor_public_key, amount, ngo_id, project_id, donor_lat, donor_lng,
	recipient_lat, recipient_lng, status, evidence_url, chain_create_tx, chain_verify_tx,
	tx_confirmed, created_at`

// SQLRepository implements Repository over database/sql.
type SQLRepository struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// NewSQLRepository constructs a repository bound to db.
func NewSQLRepository(db *sql.DB, d dialect.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDonation(s scanner) (*models.Donation, error) {
	var (
		d                                         models.Donation
		projectID                                 sql.NullInt64
		recipientLat, recipientLng                sql.NullFloat64
		evidenceURL, chainCreateTx, chainVerifyTx sql.NullString
		status                                    string
	)
	err := s.Scan(&d.ID, &d.DonorPublicKey, &d.Amount, &d.NGOID, &projectID, &d.DonorLat, &d.DonorLng,
		&recipientLat, &recipientLng, &status, &evidenceURL, &chainCreateTx, &chainVerifyTx,
		&d.TxConfirmed, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.ProjectID = dialect.Int64Ptr(projectID)
	d.RecipientLat = dialect.Float64Ptr(recipientLat)
	d.RecipientLng = dialect.Float64Ptr(recipientLng)
	d.Status = models.DonationStatus(status)
	d.EvidenceURL = dialect.StringPtr(evidenceURL)
	d.ChainCreateTx = dialect.StringPtr(chainCreateTx)
	d.ChainVerifyTx = dialect.StringPtr(chainVerifyTx)
	return &d, nil
}

// Create inserts d and returns the row as stored.
func (r *SQLRepository) Create(ctx context.Context, d *models.Donation) (*models.Donation, error) {
	query := `INSERT INTO donations (donor_public_key, amount, ngo_id, project_id, donor_lat, donor_lng,
			status, chain_create_tx, tx_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query,
		d.DonorPublicKey, d.Amount, d.NGOID, dialect.Nullable(d.ProjectID), d.DonorLat, d.DonorLng,
		string(d.Status), dialect.Nullable(d.ChainCreateTx), d.TxConfirmed, d.CreatedAt)

	created, err := scanDonation(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// List returns all donations, highest id first.
func (r *SQLRepository) List(ctx context.Context) ([]*models.Donation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM donations ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select donations: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Find returns the donation with the given id or common.ErrorNotFound.
func (r *SQLRepository) Find(ctx context.Context, id int64) (*models.Donation, error) {
	d, err := scanDonation(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM donations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// Update locks the row, checks the status guard and applies the patch in
// one transaction.
func (r *SQLRepository) Update(ctx context.Context, id int64, patch models.DonationPatch) (*models.Donation, error) {
	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return r.Find(ctx, id)
	}

	var updated *models.Donation
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM donations WHERE id = $1`+r.dialect.LockRow, id).Scan(&status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		if patch.UnlessStatus != nil && models.DonationStatus(status) == *patch.UnlessStatus {
			return common.ErrInvalidTransition
		}

		args = append(args, id)
		query := fmt.Sprintf(`UPDATE donations SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), columns)

		updated, err = scanDonation(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// patchAssignments renders the SET list for the non-nil fields of p.
func patchAssignments(p models.DonationPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.RecipientLocation != nil {
		add("recipient_lat", p.RecipientLocation.Lat)
		add("recipient_lng", p.RecipientLocation.Lng)
	}
	if p.EvidenceURL != nil {
		add("evidence_url", *p.EvidenceURL)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.ChainVerifyTx != nil {
		add("chain_verify_tx", *p.ChainVerifyTx)
	} else if p.ClearChainVerifyTx {
		add("chain_verify_tx", nil)
	}
	if p.TxConfirmed != nil {
		add("tx_confirmed", *p.TxConfirmed)
	}
	return sets, args
}
