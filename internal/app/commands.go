package app

import (
	"context"
	"fmt"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

type BookingService struct {
	rooms        domain.RoomRepository
	reservations domain.ReservationRepository
	availability *AvailabilityService
	cache        domain.Cache
}

func NewBookingService(rooms domain.RoomRepository, reservations domain.ReservationRepository, avail *AvailabilityService, cache domain.Cache) *BookingService {
	return &BookingService{rooms: rooms, reservations: reservations, availability: avail, cache: cache}
}

type BookingRequest struct {
	RoomID   int64
	UserID   int64
	CheckIn  domain.Date
	CheckOut domain.Date
	Guests   int
}

// CreateReservation books a room for [CheckIn, CheckOut). The conflict check
// runs twice: once here through the availability calculator, and again inside
// the repository transaction so concurrent requests for the same room cannot
// both commit.
func (s *BookingService) CreateReservation(ctx context.Context, req BookingRequest) (domain.Reservation, error) {
	if !req.CheckIn.Before(req.CheckOut) {
		return domain.Reservation{}, domain.ErrInvalidRange
	}

	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if room.Status == domain.RoomMaintenance {
		return domain.Reservation{}, domain.ErrRoomUnavailable
	}

	rt, err := s.rooms.GetRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if req.Guests < 1 || req.Guests > rt.MaxGuests {
		return domain.Reservation{}, domain.ErrGuestCount
	}

	rep, err := s.availability.RoomRange(ctx, req.RoomID, req.CheckIn, req.CheckOut, 0)
	if err != nil {
		return domain.Reservation{}, err
	}
	if rep.AvailableRoomCount == 0 {
		return domain.Reservation{}, domain.ErrRoomConflict
	}

	nights := req.CheckIn.DaysUntil(req.CheckOut)
	res := domain.Reservation{
		RoomID:   req.RoomID,
		UserID:   req.UserID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
		Total:    float64(nights) * rt.BasePrice,
		Status:   domain.ReservationPendingPayment,
	}
	if err := s.reservations.CreateReservation(ctx, &res); err != nil {
		return domain.Reservation{}, err
	}

	bumpAvailabilityGen(ctx, s.cache, room.RoomTypeID)
	return res, nil
}

// ChangeStatus applies one transition of the reservation lifecycle.
func (s *BookingService) ChangeStatus(ctx context.Context, id int64, next domain.ReservationStatus) (domain.Reservation, error) {
	res, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !res.Status.CanTransitionTo(next) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusChange, res.Status, next)
	}
	if err := s.reservations.SetReservationStatus(ctx, id, next); err != nil {
		return domain.Reservation{}, err
	}
	res.Status = next

	// Leaving the blocking set frees the dates; stale cached reports must go.
	if !next.IsBlocking() {
		s.invalidateForRoom(ctx, res.RoomID)
	}
	return res, nil
}

// RecordPayment adds a payment to a reservation and confirms it once fully
// paid.
func (s *BookingService) RecordPayment(ctx context.Context, id int64, amount float64) (domain.Reservation, error) {
	if amount <= 0 {
		return domain.Reservation{}, domain.ErrInvalidPayment
	}
	res, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !res.Status.IsBlocking() {
		return domain.Reservation{}, fmt.Errorf("%w: cannot pay a %s reservation", domain.ErrInvalidStatusChange, res.Status)
	}

	res.Paid += amount
	if res.Status == domain.ReservationPendingPayment && res.Paid >= res.Total {
		res.Status = domain.ReservationConfirmed
	}
	if err := s.reservations.SetReservationPaid(ctx, id, res.Paid, res.Status); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

func (s *BookingService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.reservations.GetReservation(ctx, id)
}

func (s *BookingService) ListReservationsByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return s.reservations.ListReservationsByUser(ctx, userID)
}

func (s *BookingService) invalidateForRoom(ctx context.Context, roomID int64) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return
	}
	bumpAvailabilityGen(ctx, s.cache, room.RoomTypeID)
}
