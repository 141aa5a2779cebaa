package sequence

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/pkg/platform/sentinel"
)

func TestFormatDisplayID(t *testing.T) {
	assert.Equal(t, "CON-003", FormatDisplayID("CON", 3))
	assert.Equal(t, "ORG-042", FormatDisplayID("ORG", 42))
	assert.Equal(t, "CON-1234", FormatDisplayID("CON", 1234))
}

func TestInMemoryConcurrentNext(t *testing.T) {
	a := NewInMemory()
	ctx := context.Background()

	// Seed a prior value so the run starts from prior+1.
	for range 5 {
		_, err := a.Next(ctx, Consultant)
		require.NoError(t, err)
	}

	const n = 200
	results := make([]int64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := a.Next(ctx, Consultant)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, v := range results {
		assert.Equal(t, int64(6+i), v)
	}

	first, err := a.Next(ctx, Organization)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first, "absent sequences start at 1")
}

func TestPostgresAllocator(t *testing.T) {
	t.Run("returns upserted value", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO counters`).
			WithArgs(Consultant).
			WillReturnRows(sqlmock.NewRows([]string{"sequence_value"}).AddRow(int64(7)))

		v, err := NewPostgres(db).Next(context.Background(), Consultant)
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO counters`).
			WithArgs(Organization).
			WillReturnError(errors.New("connection refused"))

		_, err = NewPostgres(db).Next(context.Background(), Organization)
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

type failingAllocator struct{}

func (failingAllocator) Next(context.Context, string) (int64, error) {
	return 0, sentinel.ErrUnavailable
}

func TestInstrumentedPassesThrough(t *testing.T) {
	a := NewInstrumented(NewInMemory(), nil)
	v, err := a.Next(context.Background(), Consultant)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = NewInstrumented(failingAllocator{}, nil).Next(context.Background(), Consultant)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
