package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/app"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

func newBooking(rooms *fakeRooms, res *fakeReservations, cache *fakeCache) *app.BookingService {
	avail := app.NewAvailabilityService(rooms, res, cache, 10*time.Minute)
	return app.NewBookingService(rooms, res, avail, cache)
}

func TestCreateReservation(t *testing.T) {
	rooms, res := seed()
	svc := newBooking(rooms, res, newFakeCache())
	ctx := context.Background()

	got, err := svc.CreateReservation(ctx, app.BookingRequest{
		RoomID: 2, UserID: 9, CheckIn: d("2024-06-01"), CheckOut: d("2024-06-04"), Guests: 2,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.ID == 0 || got.Status != domain.ReservationPendingPayment {
		t.Fatalf("unexpected reservation: %+v", got)
	}
	if got.Total != 300 { // 3 nights at 100
		t.Fatalf("total = %v, want 300", got.Total)
	}
}

func TestCreateReservation_Conflict(t *testing.T) {
	rooms, res := seed()
	svc := newBooking(rooms, res, newFakeCache())

	_, err := svc.CreateReservation(context.Background(), app.BookingRequest{
		RoomID: 1, UserID: 9, CheckIn: d("2024-06-02"), CheckOut: d("2024-06-05"), Guests: 1,
	})
	if !errors.Is(err, domain.ErrRoomConflict) {
		t.Fatalf("expected ErrRoomConflict, got %v", err)
	}
}

func TestCreateReservation_BackToBack(t *testing.T) {
	rooms, res := seed()
	svc := newBooking(rooms, res, newFakeCache())

	// starts exactly on the existing checkout day
	_, err := svc.CreateReservation(context.Background(), app.BookingRequest{
		RoomID: 1, UserID: 9, CheckIn: d("2024-06-03"), CheckOut: d("2024-06-05"), Guests: 1,
	})
	if err != nil {
		t.Fatalf("back-to-back booking must succeed: %v", err)
	}
}

func TestCreateReservation_Validation(t *testing.T) {
	rooms, res := seed()
	svc := newBooking(rooms, res, newFakeCache())
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, app.BookingRequest{
		RoomID: 2, UserID: 9, CheckIn: d("2024-06-03"), CheckOut: d("2024-06-03"), Guests: 1,
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("equal dates: %v", err)
	}

	_, err = svc.CreateReservation(ctx, app.BookingRequest{
		RoomID: 2, UserID: 9, CheckIn: d("2024-06-03"), CheckOut: d("2024-06-05"), Guests: 5,
	})
	if !errors.Is(err, domain.ErrGuestCount) {
		t.Fatalf("too many guests: %v", err)
	}

	rm := rooms.rooms[2]
	rm.Status = domain.RoomMaintenance
	rooms.rooms[2] = rm
	_, err = svc.CreateReservation(ctx, app.BookingRequest{
		RoomID: 2, UserID: 9, CheckIn: d("2024-06-03"), CheckOut: d("2024-06-05"), Guests: 1,
	})
	if !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("maintenance room: %v", err)
	}
}

func TestCreateReservation_InvalidatesCache(t *testing.T) {
	rooms, res := seed()
	cache := newFakeCache()
	avail := app.NewAvailabilityService(rooms, res, cache, 10*time.Minute)
	svc := app.NewBookingService(rooms, res, avail, cache)
	ctx := context.Background()

	before, err := avail.RoomTypeRange(ctx, 7, d("2024-06-10"), d("2024-06-12"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if before.AvailableRoomCount != 3 {
		t.Fatalf("baseline: %+v", before)
	}

	if _, err := svc.CreateReservation(ctx, app.BookingRequest{
		RoomID: 3, UserID: 9, CheckIn: d("2024-06-10"), CheckOut: d("2024-06-12"), Guests: 1,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	after, err := avail.RoomTypeRange(ctx, 7, d("2024-06-10"), d("2024-06-12"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if after.AvailableRoomCount != 2 {
		t.Fatalf("booking must be visible immediately, got %+v", after)
	}
}

func TestChangeStatus(t *testing.T) {
	rooms, res := seed()
	cache := newFakeCache()
	avail := app.NewAvailabilityService(rooms, res, cache, 10*time.Minute)
	svc := app.NewBookingService(rooms, res, avail, cache)
	ctx := context.Background()

	got, err := svc.ChangeStatus(ctx, 100, domain.ReservationCancelled)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Status != domain.ReservationCancelled {
		t.Fatalf("status: %+v", got)
	}

	// a cancelled reservation no longer blocks its dates
	rep, err := avail.RoomRange(ctx, 1, d("2024-06-01"), d("2024-06-03"), 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.AvailableRoomCount != 1 {
		t.Fatalf("cancelled reservation still blocks: %+v", rep)
	}

	// terminal states reject further moves
	if _, err := svc.ChangeStatus(ctx, 100, domain.ReservationConfirmed); !errors.Is(err, domain.ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
	}
}

func TestRecordPayment(t *testing.T) {
	rooms, res := seed()
	svc := newBooking(rooms, res, newFakeCache())
	ctx := context.Background()

	res.add(domain.Reservation{
		ID: 200, RoomID: 2, UserID: 9,
		CheckIn: d("2024-07-01"), CheckOut: d("2024-07-03"),
		Guests: 1, Total: 200, Status: domain.ReservationPendingPayment,
	})

	got, err := svc.RecordPayment(ctx, 200, 50)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Paid != 50 || got.Status != domain.ReservationPendingPayment {
		t.Fatalf("partial payment: %+v", got)
	}

	got, err = svc.RecordPayment(ctx, 200, 150)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Paid != 200 || got.Status != domain.ReservationConfirmed {
		t.Fatalf("full payment must confirm: %+v", got)
	}

	if _, err := svc.RecordPayment(ctx, 200, -5); !errors.Is(err, domain.ErrInvalidPayment) {
		t.Fatalf("negative amount: %v", err)
	}
}
