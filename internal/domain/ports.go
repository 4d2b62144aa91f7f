package domain

import "context"

type RoomRepository interface {
	// Read paths
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	ListRoomsByType(ctx context.Context, roomTypeID int64) ([]Room, error)

	// Write paths
	SetRoomStatus(ctx context.Context, id int64, status RoomStatus) error
}

type ReservationRepository interface {
	// StaysOverlapping fetches, in one batched query, every stay of a blocking
	// reservation on the given rooms whose half-open interval intersects
	// [start, end). A non-zero excludeReservationID is left out.
	StaysOverlapping(ctx context.Context, roomIDs []int64, start, end Date, excludeReservationID int64) ([]Stay, error)

	// CreateReservation re-checks the overlap and inserts under one
	// transaction, so concurrent bookings for the same room cannot both
	// succeed. Returns ErrRoomConflict on overlap.
	CreateReservation(ctx context.Context, r *Reservation) error

	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListReservationsByUser(ctx context.Context, userID int64) ([]Reservation, error)
	SetReservationStatus(ctx context.Context, id int64, status ReservationStatus) error
	SetReservationPaid(ctx context.Context, id int64, paid float64, status ReservationStatus) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
