package projects

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

const columns = `id, name, ngo_id, description, latitude, longitude, created_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*models.Project, error) {
	var (
		p           models.Project
		description sql.NullString
		lat, lng    sql.NullFloat64
	)
	if err := s.Scan(&p.ID, &p.Name, &p.NGOID, &description, &lat, &lng, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Description = dialect.StringPtr(description)
	p.Latitude = dialect.Float64Ptr(lat)
	p.Longitude = dialect.Float64Ptr(lng)
	return &p, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query := `INSERT INTO projects (name, ngo_id, description, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns

	created, err := scanProject(r.db.QueryRowContext(ctx, query,
		p.Name, p.NGOID, dialect.Nullable(p.Description),
		dialect.Nullable(p.Latitude), dialect.Nullable(p.Longitude), p.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Find(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
