package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/supportdesk/storer"
)

func newMockStorer(t *testing.T) (storer.Storer, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS vector")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS embeddings (")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS embeddings_owner_id_idx ON embeddings (owner_id, seq)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewStorer(
		storer.WithDimension(2),
		storer.WithMaxLimit(20),
		WithDB(db),
	)

	return s, mock
}

func mockRecords() []storer.Record {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	return []storer.Record{
		{Id: "c1", OwnerId: "agent-1", Text: "refunds take five days", Metadata: map[string]any{"chunk_index": 0}, Vector: []float32{1, 0}, CreatedAt: now},
		{Id: "c2", OwnerId: "agent-1", Text: "shipping is free", Metadata: map[string]any{"chunk_index": 1}, Vector: []float32{0, 1}, CreatedAt: now},
	}
}

func TestPostgresStorer(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO embeddings (")

	t.Run("ShouldCreateSchemaOnStart", func(t *testing.T) {
		s, mock := newMockStorer(t)

		assert.Equal(t, 2, s.Dimension())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldCommitEveryRecordInOneTransaction", func(t *testing.T) {
		s, mock := newMockStorer(t)
		recs := mockRecords()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(insert)
		prep.ExpectExec().
			WithArgs("c1", "agent-1", "refunds take five days", sqlmock.AnyArg(), "[1,0]", recs[0].CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs("c2", "agent-1", "shipping is free", sqlmock.AnyArg(), "[0,1]", recs[1].CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		n, err := s.Store(ctx, recs)
		require.NoError(t, err)

		assert.Equal(t, 2, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldRollBackWhenSecondInsertFails", func(t *testing.T) {
		s, mock := newMockStorer(t)

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(insert)
		prep.ExpectExec().WithArgs("c1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WithArgs("c2", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		n, err := s.Store(ctx, mockRecords())
		require.ErrorIs(t, err, storer.ErrStoreWrite)

		assert.Equal(t, 0, n)
		assert.Contains(t, err.Error(), "insert c2")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldRejectInvalidBatchWithoutTouchingDatabase", func(t *testing.T) {
		s, mock := newMockStorer(t)

		recs := mockRecords()
		recs[1].Vector = []float32{1, 0, 0}

		_, err := s.Store(ctx, recs)
		require.ErrorIs(t, err, storer.ErrDimensionMismatch)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldOrderByDistanceThenInsertionSequence", func(t *testing.T) {
		s, mock := newMockStorer(t)
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "owner_id", "text", "metadata", "vector", "distance", "created_at"}).
			AddRow("c1", "agent-1", "refunds take five days", []byte(`{"chunk_index":0,"file_name":"faq.txt"}`), []byte("[1,0]"), 0.0, created).
			AddRow("c2", "agent-1", "shipping is free", []byte(`not json`), []byte("[0,1]"), 1.0, created)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = $1 ORDER BY vector <=> $2, seq LIMIT $3")).
			WithArgs("agent-1", "[1,0]", 5).
			WillReturnRows(rows)

		matches, err := s.Search(ctx, "agent-1", []float32{1, 0}, 5)
		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, "c1", matches[0].Record.Id)
		assert.Equal(t, []float32{1, 0}, matches[0].Record.Vector)
		assert.Equal(t, "faq.txt", matches[0].Record.Metadata["file_name"])
		assert.Equal(t, 0.0, matches[0].Distance)
		assert.Equal(t, created, matches[0].Record.CreatedAt)

		assert.Equal(t, "c2", matches[1].Record.Id)
		assert.Empty(t, matches[1].Record.Metadata)
		assert.Equal(t, 1.0, matches[1].Distance)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldCapLimitAtMaximum", func(t *testing.T) {
		s, mock := newMockStorer(t)

		mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3")).
			WithArgs("agent-1", sqlmock.AnyArg(), 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "text", "metadata", "vector", "distance", "created_at"}))

		matches, err := s.Search(ctx, "agent-1", []float32{1, 0}, 500)
		require.NoError(t, err)

		assert.Empty(t, matches)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldRejectNonPositiveLimit", func(t *testing.T) {
		s, mock := newMockStorer(t)

		_, err := s.Search(ctx, "agent-1", []float32{1, 0}, 0)
		require.ErrorIs(t, err, storer.ErrInvalidLimit)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ShouldWrapQueryFailure", func(t *testing.T) {
		s, mock := newMockStorer(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM embeddings")).
			WillReturnError(errors.New("connection reset"))

		_, err := s.Search(ctx, "agent-1", []float32{1, 0}, 5)
		require.ErrorIs(t, err, storer.ErrStoreQuery)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
