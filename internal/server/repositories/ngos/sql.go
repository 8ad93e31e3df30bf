package ngos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/dbx"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/dialect"
)

const columns = `id, name, wallet_address, sector, verification_status, created_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNGO(s scanner) (*models.NGO, error) {
	var (
		n      models.NGO
		sector sql.NullString
		status string
	)
	if err := s.Scan(&n.ID, &n.Name, &n.WalletAddress, &sector, &status, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Sector = dialect.StringPtr(sector)
	n.VerificationStatus = models.VerificationStatus(status)
	return &n, nil
}

func (r *SQLRepository) Create(ctx context.Context, n *models.NGO) (*models.NGO, error) {
	query := `INSERT INTO ngos (name, wallet_address, sector, verification_status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + columns

	created, err := scanNGO(r.db.QueryRowContext(ctx, query,
		n.Name, n.WalletAddress, dialect.Nullable(n.Sector), string(n.VerificationStatus), n.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.NGO, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM ngos
		WHERE verification_status IN ($1, $2)
		ORDER BY id DESC`, string(models.NGOPending), string(models.NGOVerified))
	if err != nil {
		return nil, fmt.Errorf("failed to select ngos: %w", err)
	}
	defer rows.Close()

	result := make([]*models.NGO, 0)
	for rows.Next() {
		n, err := scanNGO(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Find(ctx context.Context, id int64) (*models.NGO, error) {
	n, err := scanNGO(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM ngos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) SetVerification(ctx context.Context, id int64, status models.VerificationStatus) (*models.NGO, error) {
	n, err := scanNGO(r.db.QueryRowContext(ctx,
		`UPDATE ngos SET verification_status = $1 WHERE id = $2 RETURNING `+columns, string(status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
