package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func newRowTable() *Table[row] {
	return NewTable(
		func(r *row) int64 { return r.ID },
		func(r *row, id int64) { r.ID = id },
	)
}

func TestTable_CreateAssignsIncreasingIDs(t *testing.T) {
	tbl := newRowTable()

	var last int64
	for i := 0; i < 5; i++ {
		got := tbl.Create(row{ID: 999, Name: "x"})
		assert.Greater(t, got.ID, last, "ids must strictly increase")
		last = got.ID
	}
	assert.Equal(t, int64(5), last)
	assert.Equal(t, 5, tbl.Len())
}

func TestTable_ConcurrentCreateHasUniqueIDs(t *testing.T) {
	tbl := newRowTable()

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- tbl.Create(row{}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestTable_SeedMovesCounter(t *testing.T) {
	tbl := newRowTable()
	tbl.Seed(row{ID: 8, Name: "fixture"})
	tbl.Seed(row{ID: 3, Name: "older"})

	got := tbl.Create(row{Name: "new"})
	assert.Equal(t, int64(9), got.ID)
}

func TestTable_ListSortsAndFilters(t *testing.T) {
	tbl := newRowTable()
	for _, name := range []string{"a", "b", "c", "d"} {
		tbl.Create(row{Name: name})
	}

	byID := ByIDDesc(func(r *row) int64 { return r.ID })
	all := tbl.List(nil, byID)
	require.Len(t, all, 4)
	assert.Equal(t, []int64{4, 3, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})

	odd := tbl.List(func(r *row) bool { return r.ID%2 == 1 }, byID)
	require.Len(t, odd, 2)
	assert.Equal(t, int64(3), odd[0].ID)
	assert.Equal(t, int64(1), odd[1].ID)
}

func TestTable_FindReturnsCopy(t *testing.T) {
	tbl := newRowTable()
	created := tbl.Create(row{Name: "orig"})

	got, err := tbl.Find(created.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := tbl.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", again.Name)
}

func TestTable_FindUnknown(t *testing.T) {
	_, err := newRowTable().Find(42)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTable_Update(t *testing.T) {
	tbl := newRowTable()
	created := tbl.Create(row{Name: "before"})

	updated, err := tbl.Update(created.ID, func(r *row) error {
		r.Name = "after"
		r.ID = 100 // the primary key cannot be reassigned
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, created.ID, updated.ID)
}

func TestTable_UpdateFailureLeavesRow(t *testing.T) {
	tbl := newRowTable()
	created := tbl.Create(row{Name: "keep"})
	boom := errors.New("boom")

	_, err := tbl.Update(created.ID, func(r *row) error {
		r.Name = "lost"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := tbl.Find(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name)
}

func TestTable_UpdateUnknown(t *testing.T) {
	called := false
	_, err := newRowTable().Update(1, func(*row) error { called = true; return nil })
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.False(t, called)
}
