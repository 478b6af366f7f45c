package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/teranos/qcfilter/dataset"
	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
)

const insertObservation = `INSERT INTO observations (epoch_ns, sv, signal, value) VALUES (?, ?, ?, ?)`

const selectObservations = `SELECT epoch_ns, sv, signal, value FROM observations`

// SaveSeries appends every record of series in one transaction and returns
// the number written.
func SaveSeries(ctx context.Context, db *sql.DB, series *dataset.Observations) (int, error) {
	records := series.Records()
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify(err, "begin save")
	}

	stmt, err := tx.PrepareContext(ctx, insertObservation)
	if err != nil {
		tx.Rollback()
		return 0, classify(err, "prepare insert")
	}
	defer stmt.Close()

	for i, o := range records {
		if _, err := stmt.ExecContext(ctx, o.Time.UnixNano(), o.SV, o.Signal, o.Value); err != nil {
			tx.Rollback()
			return 0, errors.WithDetailf(classify(err, "insert observation"),
				"record %d: %s %s %s", i, o.Time.Format(time.RFC3339Nano), o.SV, o.Signal)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(err, "commit save")
	}

	logger.LoggerFromContext(ctx).Debugw("Saved observations", logger.FieldCount, len(records))
	return len(records), nil
}

// LoadSeries reads the observations with from <= epoch <= to in epoch order.
// A zero from or to leaves that side open.
func LoadSeries(ctx context.Context, db *sql.DB, from, to time.Time) (*dataset.Observations, error) {
	query := selectObservations
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "epoch_ns >= ?")
		args = append(args, from.UnixNano())
	}
	if !to.IsZero() {
		where = append(where, "epoch_ns <= ?")
		args = append(args, to.UnixNano())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY epoch_ns, id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "query observations")
	}
	defer rows.Close()

	series := &dataset.Observations{}
	for rows.Next() {
		var (
			epochNS int64
			o       dataset.Observation
		)
		if err := rows.Scan(&epochNS, &o.SV, &o.Signal, &o.Value); err != nil {
			return nil, classify(err, "scan observation")
		}
		o.Time = time.Unix(0, epochNS).UTC()
		series.Insert(o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate observations")
	}

	logger.LoggerFromContext(ctx).Debugw("Loaded observations", logger.FieldCount, series.Len())
	return series, nil
}
