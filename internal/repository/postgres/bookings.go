package postgresrepo

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const bookingColumns = `id, booking_number, yacht_id, charter_type, customer_name,
	customer_email, start_date, end_date, booking_status, payment_status,
	total_amount, record, created_at, updated_at`

// Insert persists a new booking. The row id is assigned here when the caller
// left it zero; created_at/updated_at come back from the database.
//
// Returns:
//   - error: repository.ErrNumberTaken when the booking number is already used.
func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	const op = "postgresrepo.BookingRepo.Insert"

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	record, err := json.Marshal(b.Record)
	if err != nil {
		return wrapDBErr(op, err)
	}

	err = r.handle().QueryRow(ctx,
		`INSERT INTO bookings (
			id, booking_number, yacht_id, charter_type, customer_name,
			customer_email, start_date, end_date, booking_status,
			payment_status, total_amount, record
		 )
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING created_at, updated_at`,
		b.ID, b.Number, b.YachtID, b.CharterType, b.CustomerName,
		b.CustomerEmail, b.StartDate, b.EndDate, b.Status,
		b.Payment, b.TotalAmount, record,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Update replaces the mutable columns of an existing booking.
//
// Returns:
//   - error: repository.ErrNotFound when the id does not exist.
func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	const op = "postgresrepo.BookingRepo.Update"

	record, err := json.Marshal(b.Record)
	if err != nil {
		return wrapDBErr(op, err)
	}

	err = r.handle().QueryRow(ctx,
		`UPDATE bookings SET
			yacht_id = $2, charter_type = $3, customer_name = $4,
			customer_email = $5, start_date = $6, end_date = $7,
			booking_status = $8, payment_status = $9, total_amount = $10,
			record = $11, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		b.ID, b.YachtID, b.CharterType, b.CustomerName,
		b.CustomerEmail, b.StartDate, b.EndDate,
		b.Status, b.Payment, b.TotalAmount, record,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.GetByID"

	row := r.handle().QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

func (r *BookingRepo) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.GetByNumber"

	row := r.handle().QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_number = $1`, number)

	b, err := scanBooking(row)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return b, nil
}

// List returns bookings ordered by start date, optionally filtered by yacht.
func (r *BookingRepo) List(ctx context.Context, yachtID string, limit, offset int) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE ($1 = '' OR yacht_id = $1)
		 ORDER BY start_date, booking_number
		 LIMIT $2 OFFSET $3`,
		yachtID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// ListNumbers returns every issued booking number, used at startup to seed
// the generator's collision set.
func (r *BookingRepo) ListNumbers(ctx context.Context) ([]string, error) {
	const op = "postgresrepo.BookingRepo.ListNumbers"

	rows, err := r.handle().Query(ctx, `SELECT booking_number FROM bookings`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, wrapDBErr(op, err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return numbers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b      domain.Booking
		record []byte
	)

	err := row.Scan(
		&b.ID, &b.Number, &b.YachtID, &b.CharterType, &b.CustomerName,
		&b.CustomerEmail, &b.StartDate, &b.EndDate, &b.Status, &b.Payment,
		&b.TotalAmount, &record, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(record) > 0 {
		if err := json.Unmarshal(record, &b.Record); err != nil {
			return nil, err
		}
	}

	return &b, nil
}
