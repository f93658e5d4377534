package repository

import (
	"context"
	"testing"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeDB is a minimal in-memory dbConn used so repository tests exercise
// the query/scan/log shape without a running Postgres instance.
type fakeDB struct {
	execErr  error
	rows     map[string][]byte // keyed by a test-chosen cache key, holds the raw column payload
	rowKey   func(sql string, args []any) string
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if f.rows == nil {
		f.rows = make(map[string][]byte)
	}
	f.rows[f.rowKey(sql, args)] = args[len(args)-1].([]byte)
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	raw, ok := f.rows[f.rowKey(sql, args)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{raw: raw}
}

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if ptr, ok := dest[0].(*[]byte); ok {
		*ptr = r.raw
		return nil
	}
	return nil
}

func TestEvidenceCacheRepositoryRoundTripsFrequency(t *testing.T) {
	db := &fakeDB{rowKey: func(sql string, args []any) string {
		return "freq:1:100:A:G"
	}}
	repo := NewEvidenceCacheRepository(nil, nil)
	repo.db = db

	coord := domain.GenomicCoordinate{Chromosome: 1, Position: 100, Ref: "A", Alt: "G"}
	data := &domain.FrequencyData{PerSource: map[string]float64{"gnomad": 0.01}}

	require.NoError(t, repo.PutFrequency(context.Background(), coord, data))

	got, found, err := repo.GetFrequency(context.Background(), coord)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, data.PerSource, got.PerSource)
}

func TestEvidenceCacheRepositoryMissReturnsNotFoundFalse(t *testing.T) {
	db := &fakeDB{rowKey: func(sql string, args []any) string { return "missing" }}
	repo := NewEvidenceCacheRepository(nil, nil)
	repo.db = db

	coord := domain.GenomicCoordinate{Chromosome: 2, Position: 1, Ref: "A", Alt: "T"}
	_, found, err := repo.GetFrequency(context.Background(), coord)
	require.NoError(t, err)
	require.False(t, found)
}
