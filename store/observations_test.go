package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qcfilter/dataset"
	"github.com/teranos/qcfilter/errors"
	qctesting "github.com/teranos/qcfilter/internal/testing"
)

var t0 = time.Date(2020, 1, 14, 0, 31, 55, 0, time.UTC)

func sample() *dataset.Observations {
	return dataset.NewSeries(
		dataset.Observation{Time: t0, SV: "G08", Signal: "L1C", Value: 21000000.125},
		dataset.Observation{Time: t0.Add(30 * time.Second), SV: "E24", Signal: "C1C", Value: 23000000.5},
		dataset.Observation{Time: t0, SV: "G09", Signal: "L1C", Value: 22000000.25},
		dataset.Observation{Time: t0.Add(time.Minute), SV: "G08", Signal: "L1C", Value: 21000100},
	)
}

func migrated(db *sql.DB) error { return Migrate(db, nil) }

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := qctesting.CreateTestDB(t, migrated)
	ctx := context.Background()

	n, err := SaveSeries(ctx, db, sample())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	loaded, err := LoadSeries(ctx, db, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, sample().Records(), loaded.Records())
}

func TestLoadSeries_Range(t *testing.T) {
	db := qctesting.CreateTestDB(t, migrated)
	ctx := context.Background()

	_, err := SaveSeries(ctx, db, sample())
	require.NoError(t, err)

	loaded, err := LoadSeries(ctx, db, t0.Add(time.Second), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	loaded, err = LoadSeries(ctx, db, t0, t0.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())

	loaded, err = LoadSeries(ctx, db, time.Time{}, t0.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}

func TestSaveSeries_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n, err := SaveSeries(context.Background(), db, &dataset.Observations{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSeries_RollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	series := dataset.NewSeries(
		dataset.Observation{Time: t0, SV: "G08", Signal: "L1C", Value: 1},
		dataset.Observation{Time: t0.Add(time.Second), SV: "G08", Signal: "L1C", Value: 2},
	)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertObservation))
	prep.ExpectExec().
		WithArgs(t0.UnixNano(), "G08", "L1C", 1.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs(t0.Add(time.Second).UnixNano(), "G08", "L1C", 2.0).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err = SaveSeries(context.Background(), db, series)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert observation")
	assert.NotEmpty(t, errors.GetAllDetails(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSeries_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	series := dataset.NewSeries(dataset.Observation{Time: t0, SV: "G08", Signal: "L1C", Value: 1})

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(insertObservation)).
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("sql: database is closed"))

	_, err = SaveSeries(context.Background(), db, series)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabaseClosed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeries_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := t0
	to := t0.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"epoch_ns", "sv", "signal", "value"}).
		AddRow(t0.UnixNano(), "G08", "L1C", 1.5).
		AddRow(t0.Add(time.Minute).UnixNano(), "E24", "C1C", 2.5)

	mock.ExpectQuery(regexp.QuoteMeta(selectObservations+" WHERE epoch_ns >= ? AND epoch_ns <= ? ORDER BY epoch_ns, id")).
		WithArgs(from.UnixNano(), to.UnixNano()).
		WillReturnRows(rows)

	series, err := LoadSeries(context.Background(), db, from, to)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	first, last, ok := series.Span()
	require.True(t, ok)
	assert.Equal(t, t0, first)
	assert.Equal(t, t0.Add(time.Minute), last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeries_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectObservations + " ORDER BY epoch_ns, id")).
		WillReturnError(errors.New("no such table: observations"))

	_, err = LoadSeries(context.Background(), db, time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query observations")
}
