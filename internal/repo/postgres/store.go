package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// Проверка, что Store удовлетворяет интерфейсу LocalStore.
var _ ports.LocalStore = (*Store)(nil)

// Store — локальное зеркало столов и броней на Postgres (pgxpool).
type Store struct {
	pool *pgxpool.Pool
}

// NewStore — конструктор Store.
func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

const tableColumns = `restaurant_id, id, zone, capacity, status, occupied_since, reserved_until, client_data, updated_at`

const reservationColumns = `restaurant_id, id, reservation_date, reservation_time, party_size, customer_name,
	phone, zone, table_id, status, created_at, updated_at`

// GetTableStates — все столы ресторана, по id.
func (s *Store) GetTableStates(ctx context.Context, restaurantID string) ([]domain.TableRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tableColumns+`
		FROM restaurant_tables WHERE restaurant_id = $1
		ORDER BY id
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("select tables: %w", err)
	}
	defer rows.Close()

	var out []domain.TableRecord
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tables rows: %w", err)
	}
	return out, nil
}

// UpsertTable — идемпотентный upsert по (restaurant_id, id).
func (s *Store) UpsertTable(ctx context.Context, t domain.TableRecord) error {
	if t.RestaurantID == "" || t.ID == "" {
		return errors.New("restaurant_id and table id are required")
	}
	client, err := encodeClient(t.ClientData)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO restaurant_tables (`+tableColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (restaurant_id, id) DO UPDATE SET
			zone = EXCLUDED.zone,
			capacity = EXCLUDED.capacity,
			status = EXCLUDED.status,
			occupied_since = EXCLUDED.occupied_since,
			reserved_until = EXCLUDED.reserved_until,
			client_data = EXCLUDED.client_data,
			updated_at = EXCLUDED.updated_at
	`,
		t.RestaurantID, t.ID, t.Zone, t.Capacity, string(t.Status),
		t.OccupiedSince, t.ReservedUntil, client, t.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert table: %w", err)
	}
	return nil
}

// GetReservations — брони ресторана на дату; пустая дата — все.
func (s *Store) GetReservations(ctx context.Context, restaurantID, date string) ([]domain.ReservationRecord, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if date == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations WHERE restaurant_id = $1
			ORDER BY reservation_date, reservation_time, id
		`, restaurantID)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations WHERE restaurant_id = $1 AND reservation_date = $2
			ORDER BY reservation_time, id
		`, restaurantID, date)
	}
	if err != nil {
		return nil, fmt.Errorf("select reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.ReservationRecord
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reservations rows: %w", err)
	}
	return out, nil
}

// UpsertReservation — идемпотентный upsert по (restaurant_id, id); created_at не перезаписывается.
func (s *Store) UpsertReservation(ctx context.Context, r domain.ReservationRecord) error {
	if r.RestaurantID == "" || r.ID == "" {
		return errors.New("restaurant_id and reservation id are required")
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (restaurant_id, id) DO UPDATE SET
			reservation_date = EXCLUDED.reservation_date,
			reservation_time = EXCLUDED.reservation_time,
			party_size = EXCLUDED.party_size,
			customer_name = EXCLUDED.customer_name,
			phone = EXCLUDED.phone,
			zone = EXCLUDED.zone,
			table_id = EXCLUDED.table_id,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`,
		r.RestaurantID, r.ID, r.Date, r.Time, r.PartySize, r.CustomerName,
		r.Phone, r.Zone, r.TableID, string(r.Status), r.CreatedAt, r.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

// ReleaseTable — в одной транзакции: стол from → free (только если статус всё ещё from)
// и закрытие брони, сидящей за столом.
func (s *Store) ReleaseTable(
	ctx context.Context,
	restaurantID, tableID string,
	from domain.TableStatus,
	at time.Time,
) (ports.ReleaseOutcome, error) {
	var out ports.ReleaseOutcome

	transaction, err := s.pool.Begin(ctx)
	if err != nil {
		return out, err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	row := transaction.QueryRow(ctx, `
		UPDATE restaurant_tables SET
			status = 'free',
			occupied_since = NULL,
			reserved_until = NULL,
			client_data = NULL,
			updated_at = $4
		WHERE restaurant_id = $1 AND id = $2 AND status = $3
		RETURNING `+tableColumns,
		restaurantID, tableID, string(from), at,
	)
	out.Table, err = scanTable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.ReleaseOutcome{}, nil
	}
	if err != nil {
		return out, fmt.Errorf("release table: %w", err)
	}
	out.Released = true

	rows, err := transaction.Query(ctx, `
		UPDATE reservations SET status = 'completed', updated_at = $3
		WHERE restaurant_id = $1 AND table_id = $2 AND status = 'occupied'
		RETURNING `+reservationColumns,
		restaurantID, tableID, at,
	)
	if err != nil {
		return ports.ReleaseOutcome{}, fmt.Errorf("complete reservations: %w", err)
	}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			rows.Close()
			return ports.ReleaseOutcome{}, fmt.Errorf("scan reservation: %w", err)
		}
		out.Completed = append(out.Completed, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ports.ReleaseOutcome{}, fmt.Errorf("reservations rows: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return ports.ReleaseOutcome{}, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

func scanTable(row pgx.Row) (domain.TableRecord, error) {
	var (
		t      domain.TableRecord
		status string
		client []byte
	)
	if err := row.Scan(
		&t.RestaurantID, &t.ID, &t.Zone, &t.Capacity, &status,
		&t.OccupiedSince, &t.ReservedUntil, &client, &t.UpdatedAt,
	); err != nil {
		return t, err
	}
	t.Status = domain.TableStatus(status)
	if len(client) > 0 {
		var c domain.ClientData
		if err := json.Unmarshal(client, &c); err != nil {
			return t, fmt.Errorf("client_data: %w", err)
		}
		t.ClientData = &c
	}
	return t, nil
}

func scanReservation(row pgx.Row) (domain.ReservationRecord, error) {
	var (
		r      domain.ReservationRecord
		status string
	)
	if err := row.Scan(
		&r.RestaurantID, &r.ID, &r.Date, &r.Time, &r.PartySize, &r.CustomerName,
		&r.Phone, &r.Zone, &r.TableID, &status, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return r, err
	}
	r.Status = domain.ReservationStatus(status)
	return r, nil
}

func encodeClient(c *domain.ClientData) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("client_data: %w", err)
	}
	return b, nil
}
