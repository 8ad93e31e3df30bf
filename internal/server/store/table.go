// Package store provides the process-local record table backing the
// in-memory repositories. It stands in for a database when none is
// configured; contents are lost on restart.
package store

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/geoledger/internal/common"
)

// Table is a concurrency-safe list of T keyed by auto-incrementing int64 ids.
//
// Ids come from a monotonic counter, never from the row count, so an id is
// never handed out twice even if rows were removed. Values are stored and
// returned by copy.
type Table[T any] struct {
	mu     sync.RWMutex
	rows   []T
	nextID int64
	id     func(*T) int64
	setID  func(*T, int64)
}

// NewTable creates an empty table. id and setID read and assign the
// primary key of a row.
func NewTable[T any](id func(*T) int64, setID func(*T, int64)) *Table[T] {
	return &Table[T]{id: id, setID: setID}
}

// Create assigns the next id to v, stores it and returns the stored copy.
func (t *Table[T]) Create(v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.setID(&v, t.nextID)
	t.rows = append(t.rows, v)
	return v
}

// Seed stores v with the id it already carries and moves the counter past
// it. It is meant for loading fixture data into an empty table.
func (t *Table[T]) Seed(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id := t.id(&v); id > t.nextID {
		t.nextID = id
	}
	t.rows = append(t.rows, v)
}

// List returns a sorted copy of the rows that pass keep (nil keeps all).
func (t *Table[T]) List(keep func(*T) bool, cmp func(a, b *T) int) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for i := range t.rows {
		if keep == nil || keep(&t.rows[i]) {
			out = append(out, t.rows[i])
		}
	}
	t.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b T) int { return cmp(&a, &b) })
	return out
}

// Find returns a copy of the row with the given id or common.ErrorNotFound.
func (t *Table[T]) Find(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.index(id); i >= 0 {
		return t.rows[i], nil
	}
	var zero T
	return zero, common.ErrorNotFound
}

// Update runs fn on a copy of the row with the given id and stores the
// result if fn returns nil. The row is left untouched when fn fails.
func (t *Table[T]) Update(id int64, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	i := t.index(id)
	if i < 0 {
		return zero, common.ErrorNotFound
	}

	row := t.rows[i]
	if err := fn(&row); err != nil {
		return zero, err
	}
	t.setID(&row, id)
	t.rows[i] = row
	return row, nil
}

// Len returns the number of stored rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T]) index(id int64) int {
	return slices.IndexFunc(t.rows, func(v T) bool { return t.id(&v) == id })
}

// ByIDDesc orders rows newest first by id.
func ByIDDesc[T any](id func(*T) int64) func(a, b *T) int {
	return func(a, b *T) int {
		switch x, y := id(a), id(b); {
		case x > y:
			return -1
		case x < y:
			return 1
		default:
			return 0
		}
	}
}
