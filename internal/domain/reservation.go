package domain

type ReservationStatus string

const (
	ReservationPendingPayment ReservationStatus = "PENDING_PAYMENT"
	ReservationConfirmed      ReservationStatus = "CONFIRMED"
	ReservationCancelled      ReservationStatus = "CANCELLED"
	ReservationCompleted      ReservationStatus = "COMPLETED"
)

// IsBlocking reports whether a reservation in this status counts toward
// occupancy.
func (s ReservationStatus) IsBlocking() bool {
	return s == ReservationPendingPayment || s == ReservationConfirmed
}

// CanTransitionTo encodes the allowed status moves: a pending reservation can
// be confirmed or cancelled, a confirmed one cancelled or completed. CANCELLED
// and COMPLETED are terminal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationPendingPayment:
		return next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationCancelled || next == ReservationCompleted
	default:
		return false
	}
}

// Reservation occupies its room over the half-open interval
// [CheckIn, CheckOut): the checkout day itself is free for a new arrival.
type Reservation struct {
	ID       int64
	RoomID   int64
	UserID   int64
	CheckIn  Date
	CheckOut Date
	Guests   int
	Total    float64
	Paid     float64
	Status   ReservationStatus
}

// Stay is the availability read model: the slice of a reservation the
// calculator needs. The repository's overlap query returns these.
type Stay struct {
	ReservationID int64
	RoomID        int64
	CheckIn       Date
	CheckOut      Date
}

// Overlaps reports whether the stay's half-open interval intersects
// [start, end). This two-inequality form is the single overlap predicate used
// everywhere; conflict checks and calendar views must not re-derive it.
func (s Stay) Overlaps(start, end Date) bool {
	return s.CheckIn.Before(end) && start.Before(s.CheckOut)
}

// Occupies reports whether the stay covers calendar day d.
func (s Stay) Occupies(d Date) bool {
	return !d.Before(s.CheckIn) && d.Before(s.CheckOut)
}
