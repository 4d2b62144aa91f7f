package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/app"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

// ---- fakes ----

type fakeRooms struct {
	types map[int64]domain.RoomType
	rooms map[int64]domain.Room
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{
		types: map[int64]domain.RoomType{},
		rooms: map[int64]domain.Room{},
	}
}

func (f *fakeRooms) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	rt, ok := f.types[id]
	if !ok {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return rt, nil
}

func (f *fakeRooms) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType
	for _, rt := range f.types {
		out = append(out, rt)
	}
	return out, nil
}

func (f *fakeRooms) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, nil
}

func (f *fakeRooms) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	for _, rm := range f.rooms {
		out = append(out, rm)
	}
	return out, nil
}

func (f *fakeRooms) ListRoomsByType(ctx context.Context, roomTypeID int64) ([]domain.Room, error) {
	var out []domain.Room
	for _, rm := range f.rooms {
		if rm.RoomTypeID == roomTypeID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (f *fakeRooms) SetRoomStatus(ctx context.Context, id int64, status domain.RoomStatus) error {
	rm, ok := f.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	rm.Status = status
	f.rooms[id] = rm
	return nil
}

type fakeReservations struct {
	byID       map[int64]domain.Reservation
	nextID     int64
	staysErr   error
	staysCalls int
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{byID: map[int64]domain.Reservation{}, nextID: 1}
}

func (f *fakeReservations) add(r domain.Reservation) domain.Reservation {
	if r.ID == 0 {
		r.ID = f.nextID
		f.nextID++
	} else if r.ID >= f.nextID {
		f.nextID = r.ID + 1
	}
	f.byID[r.ID] = r
	return r
}

func (f *fakeReservations) StaysOverlapping(ctx context.Context, roomIDs []int64, start, end domain.Date, excludeReservationID int64) ([]domain.Stay, error) {
	f.staysCalls++
	if f.staysErr != nil {
		return nil, f.staysErr
	}
	member := map[int64]bool{}
	for _, id := range roomIDs {
		member[id] = true
	}
	var out []domain.Stay
	for _, r := range f.byID {
		if !r.Status.IsBlocking() || !member[r.RoomID] || r.ID == excludeReservationID {
			continue
		}
		s := domain.Stay{ReservationID: r.ID, RoomID: r.RoomID, CheckIn: r.CheckIn, CheckOut: r.CheckOut}
		if s.Overlaps(start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeReservations) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	stays, _ := f.StaysOverlapping(ctx, []int64{r.RoomID}, r.CheckIn, r.CheckOut, 0)
	if len(stays) > 0 {
		return domain.ErrRoomConflict
	}
	*r = f.add(*r)
	return nil
}

func (f *fakeReservations) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeReservations) ListReservationsByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) SetReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	f.byID[id] = r
	return nil
}

func (f *fakeReservations) SetReservationPaid(ctx context.Context, id int64, paid float64, status domain.ReservationStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Paid = paid
	r.Status = status
	f.byID[id] = r
	return nil
}

// fakeCache round-trips through JSON so it stores the same shapes the redis
// adapter would.
type fakeCache struct{ store map[string][]byte }

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- fixtures ----

func d(s string) domain.Date {
	dt, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return dt
}

// three standard rooms, R1 confirmed for [06-01, 06-03)
func seed() (*fakeRooms, *fakeReservations) {
	rooms := newFakeRooms()
	rooms.types[7] = domain.RoomType{ID: 7, Name: "Standard", BasePrice: 100, MaxGuests: 2}
	for i := int64(1); i <= 3; i++ {
		rooms.rooms[i] = domain.Room{ID: i, RoomTypeID: 7, Number: string(rune('0' + i)), Floor: 1, Status: domain.RoomAvailable}
	}
	res := newFakeReservations()
	res.add(domain.Reservation{
		ID: 100, RoomID: 1, UserID: 55,
		CheckIn: d("2024-06-01"), CheckOut: d("2024-06-03"),
		Guests: 2, Total: 200, Status: domain.ReservationConfirmed,
	})
	return rooms, res
}

// ---- tests ----

func TestRoomTypeDaily(t *testing.T) {
	rooms, res := seed()
	svc := app.NewAvailabilityService(rooms, res, newFakeCache(), 10*time.Minute)

	days, err := svc.RoomTypeDaily(context.Background(), 7, d("2024-06-01"), d("2024-06-04"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []int{2, 2, 3}
	for i, w := range want {
		if days[i].AvailableRoomCount != w {
			t.Fatalf("day %s: available %d, want %d", days[i].Day, days[i].AvailableRoomCount, w)
		}
	}
}

func TestRoomTypeRange_CacheHit(t *testing.T) {
	rooms, res := seed()
	svc := app.NewAvailabilityService(rooms, res, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	first, err := svc.RoomTypeRange(ctx, 7, d("2024-06-01"), d("2024-06-04"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if first.AvailableRoomCount != 2 || first.TotalRoomCount != 3 {
		t.Fatalf("unexpected report: %+v", first)
	}

	calls := res.staysCalls
	second, err := svc.RoomTypeRange(ctx, 7, d("2024-06-01"), d("2024-06-04"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.staysCalls != calls {
		t.Fatal("second identical query should be served from cache")
	}
	if second.AvailableRoomCount != first.AvailableRoomCount {
		t.Fatalf("cache changed the answer: %+v vs %+v", first, second)
	}
}

func TestRoomTypeRange_Errors(t *testing.T) {
	rooms, res := seed()
	svc := app.NewAvailabilityService(rooms, res, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	if _, err := svc.RoomTypeRange(ctx, 7, d("2024-06-05"), d("2024-06-05")); !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("equal start/end: %v", err)
	}
	if _, err := svc.RoomTypeRange(ctx, 999, d("2024-06-01"), d("2024-06-02")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown type: %v", err)
	}

	// a type that owns zero rooms
	rooms.types[8] = domain.RoomType{ID: 8, Name: "Empty", BasePrice: 50, MaxGuests: 1}
	if _, err := svc.RoomTypeRange(ctx, 8, d("2024-06-01"), d("2024-06-02")); !errors.Is(err, domain.ErrNoRooms) {
		t.Fatalf("empty room set: %v", err)
	}

	// fetch failures surface untouched
	res.staysErr = errors.New("db down")
	if _, err := svc.RoomTypeDaily(ctx, 7, d("2024-06-01"), d("2024-06-02")); err == nil {
		t.Fatal("expected propagated fetch error")
	}
}

func TestRoomRange(t *testing.T) {
	rooms, res := seed()
	svc := app.NewAvailabilityService(rooms, res, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	rep, err := svc.RoomRange(ctx, 1, d("2024-06-01"), d("2024-06-03"), 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.AvailableRoomCount != 0 || rep.TotalRoomCount != 1 {
		t.Fatalf("R1 should be unavailable: %+v", rep)
	}

	rep, err = svc.RoomRange(ctx, 1, d("2024-06-03"), d("2024-06-05"), 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.AvailableRoomCount != 1 {
		t.Fatalf("checkout day onward should be free: %+v", rep)
	}

	// the reservation being edited does not conflict with itself
	rep, err = svc.RoomRange(ctx, 1, d("2024-06-01"), d("2024-06-03"), 100)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.AvailableRoomCount != 1 {
		t.Fatalf("excluded reservation must not block: %+v", rep)
	}

	if _, err := svc.RoomRange(ctx, 42, d("2024-06-01"), d("2024-06-02"), 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown room: %v", err)
	}
}
