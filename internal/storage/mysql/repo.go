package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// DATE columns come back as instants under parseTime=true; normalize to a
// calendar date exactly once, here at the boundary.
func scanDate(t time.Time) domain.Date { return domain.DateOf(t) }

// ---------------------------------------------------------------------------
// RoomRepository
// ---------------------------------------------------------------------------

func (r *Repo) scanRoomType(row interface{ Scan(...any) error }) (domain.RoomType, error) {
	var rt domain.RoomType
	var size sql.NullFloat64
	var bed sql.NullString
	var imagesJSON []byte
	if err := row.Scan(&rt.ID, &rt.Name, &rt.BasePrice, &rt.MaxGuests, &size, &bed, &imagesJSON); err != nil {
		return domain.RoomType{}, err
	}
	if size.Valid {
		s := size.Float64
		rt.SizeM2 = &s
	}
	if bed.Valid {
		b := bed.String
		rt.BedType = &b
	}
	_ = json.Unmarshal(imagesJSON, &rt.Images)
	return rt, nil
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	rt, err := r.scanRoomType(r.db.QueryRowContext(ctx, getRoomTypeSQL, id))
	if err == sql.ErrNoRows {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return rt, err
}

func (r *Repo) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		rt, err := r.scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var rm domain.Room
	var status string
	if err := row.Scan(&rm.ID, &rm.RoomTypeID, &rm.Number, &rm.Floor, &status); err != nil {
		return domain.Room{}, err
	}
	rm.Status = domain.RoomStatus(status)
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) listRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsSQL)
}

func (r *Repo) ListRoomsByType(ctx context.Context, roomTypeID int64) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsByTypeSQL, roomTypeID)
}

func (r *Repo) SetRoomStatus(ctx context.Context, id int64, status domain.RoomStatus) error {
	res, err := r.db.ExecContext(ctx, setRoomStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for missing rows and no-op updates; probe.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, id).Scan(&one); err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// ReservationRepository
// ---------------------------------------------------------------------------

func (r *Repo) StaysOverlapping(ctx context.Context, roomIDs []int64, start, end domain.Date, excludeReservationID int64) ([]domain.Stay, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	ph := make([]string, len(roomIDs))
	args := make([]any, 0, len(roomIDs)+3)
	args = append(args, end.Time(), start.Time())
	for i, id := range roomIDs {
		ph[i] = "?"
		args = append(args, id)
	}
	q := staysOverlappingPrefix + "(" + strings.Join(ph, ",") + ")"
	if excludeReservationID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeReservationID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Stay
	for rows.Next() {
		var s domain.Stay
		var in, outAt time.Time
		if err := rows.Scan(&s.ReservationID, &s.RoomID, &in, &outAt); err != nil {
			return nil, err
		}
		s.CheckIn = scanDate(in)
		s.CheckOut = scanDate(outAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var conflicts int
	if err := tx.QueryRowContext(ctx, countConflictsForUpdateSQL,
		res.RoomID, res.CheckOut.Time(), res.CheckIn.Time()).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.ErrRoomConflict
	}

	ins, err := tx.ExecContext(ctx, insertReservationSQL,
		res.RoomID,
		res.UserID,
		res.CheckIn.Time(),
		res.CheckOut.Time(),
		res.Guests,
		res.Total,
		res.Paid,
		string(res.Status),
	)
	if err != nil {
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	res.ID = id
	return nil
}

func scanReservation(row interface{ Scan(...any) error }) (domain.Reservation, error) {
	var rv domain.Reservation
	var in, out time.Time
	var status string
	if err := row.Scan(&rv.ID, &rv.RoomID, &rv.UserID, &in, &out, &rv.Guests, &rv.Total, &rv.Paid, &status); err != nil {
		return domain.Reservation{}, err
	}
	rv.CheckIn = scanDate(in)
	rv.CheckOut = scanDate(out)
	rv.Status = domain.ReservationStatus(status)
	return rv, nil
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	rv, err := scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
	if err == sql.ErrNoRows {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReservationsByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, listReservationsByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) SetReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	_, err := r.db.ExecContext(ctx, setReservationStatusSQL, string(status), id)
	if err != nil {
		return fmt.Errorf("set reservation %d status: %w", id, err)
	}
	return nil
}

func (r *Repo) SetReservationPaid(ctx context.Context, id int64, paid float64, status domain.ReservationStatus) error {
	_, err := r.db.ExecContext(ctx, setReservationPaidSQL, paid, string(status), id)
	if err != nil {
		return fmt.Errorf("set reservation %d payment: %w", id, err)
	}
	return nil
}
