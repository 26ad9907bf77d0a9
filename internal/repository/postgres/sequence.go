package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepo is the database-backed bookingnum.SequenceProvider. The
// single-statement upsert increments atomically, which is what makes
// concurrent booking creation across instances safe.
type SequenceRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SequenceRepo) With(db DB) *SequenceRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SequenceRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *SequenceRepo) Next(ctx context.Context, key string) (int64, error) {
	const op = "postgresrepo.SequenceRepo.Next"

	var value int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO booking_sequences (key, value)
		 VALUES ($1, 1)
		 ON CONFLICT (key)
		 DO UPDATE SET value = booking_sequences.value + 1
		 RETURNING value`,
		key,
	).Scan(&value)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return value, nil
}

func (r *SequenceRepo) Set(ctx context.Context, key string, value int64) error {
	const op = "postgresrepo.SequenceRepo.Set"

	_, err := r.handle().Exec(ctx,
		`INSERT INTO booking_sequences (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key)
		 DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SequenceRepo) Reset(ctx context.Context) error {
	const op = "postgresrepo.SequenceRepo.Reset"

	if _, err := r.handle().Exec(ctx, `DELETE FROM booking_sequences`); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// SequenceRow is one counter as stored.
type SequenceRow struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

// List returns every counter, for the admin sequence view.
func (r *SequenceRepo) List(ctx context.Context) ([]SequenceRow, error) {
	const op = "postgresrepo.SequenceRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT key, value FROM booking_sequences ORDER BY key`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []SequenceRow
	for rows.Next() {
		var s SequenceRow
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
