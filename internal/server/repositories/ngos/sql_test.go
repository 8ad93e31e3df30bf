package ngos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/dmitrijs2005/geoledger/internal/server/repositories/sqltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

func TestSQLCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+ngos`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.NGO{Name: "A"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSQLList_FiltersByStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+ngos\s+WHERE\s+verification_status\s+IN\s+\(\$1,\s*\$2\)\s+ORDER\s+BY\s+id\s+DESC$`).
		WithArgs("pending", "verified").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "wallet_address", "sector", "verification_status", "created_at"}).
			AddRow(int64(2), "B", "GB", nil, "verified", now).
			AddRow(int64(1), "A", "GA", "health", "pending", now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].Sector)
	assert.Equal(t, "health", *list[1].Sector)
}

func TestSQLSetVerification_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+ngos\s+SET\s+verification_status\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs("verified", int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SetVerification(context.Background(), 5, models.NGOVerified)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_CreateListVerify(t *testing.T) {
	repo := NewSQLRepository(sqltest.Open(t))
	ctx := context.Background()
	sector := "water"

	a, err := repo.Create(ctx, &models.NGO{Name: "A", WalletAddress: "GA", Sector: &sector,
		VerificationStatus: models.NGOPending, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &models.NGO{Name: "B", WalletAddress: "GB",
		VerificationStatus: models.NGOPending, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, "water", *a.Sector)

	rejected, err := repo.SetVerification(ctx, b.ID, models.NGORejected)
	require.NoError(t, err)
	assert.Equal(t, models.NGORejected, rejected.VerificationStatus)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	found, err := repo.Find(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", found.Name)

	_, err = repo.Find(ctx, 1000)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
