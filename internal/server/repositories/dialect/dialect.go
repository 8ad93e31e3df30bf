// Package dialect captures the few differences between the SQL engines the
// repositories run on, plus nullable-column helpers shared by them.
package dialect

import "database/sql"

// Dialect describes a SQL engine. All repositories use $N placeholders,
// which both pgx and modernc sqlite accept.
type Dialect struct {
	// Name is the goose dialect name.
	Name string
	// LockRow is appended to a single-row SELECT that precedes an update
	// in the same transaction.
	LockRow string
}

var (
	Postgres = Dialect{Name: "postgres", LockRow: " FOR UPDATE"}
	SQLite   = Dialect{Name: "sqlite3"}
)

// Int64Ptr converts a nullable column into an optional value.
func Int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

// Float64Ptr converts a nullable column into an optional value.
func Float64Ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// StringPtr converts a nullable column into an optional value.
func StringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// Nullable turns an optional value into a driver argument (nil -> NULL).
func Nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
