package app

import (
	"context"
	"fmt"
	"time"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

// AvailabilityService is the one entry point for every availability question:
// calendar views, room-type searches and single-room conflict checks all go
// through it so the overlap predicate cannot diverge between call sites.
type AvailabilityService struct {
	rooms        domain.RoomRepository
	reservations domain.ReservationRepository
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewAvailabilityService(rooms domain.RoomRepository, reservations domain.ReservationRepository, c domain.Cache, ttl time.Duration) *AvailabilityService {
	return &AvailabilityService{rooms: rooms, reservations: reservations, cache: c, cacheTTL: ttl}
}

// Cache keys carry a per-room-type generation that booking writes bump, so
// stale reports die immediately instead of lingering for a TTL. The orphaned
// old-generation entries just expire.
func availabilityGenKey(roomTypeID int64) string {
	return fmt.Sprintf("avail:gen:%d", roomTypeID)
}

func availabilityGen(ctx context.Context, c domain.Cache, roomTypeID int64) int64 {
	var gen int64
	if ok, _ := c.Get(ctx, availabilityGenKey(roomTypeID), &gen); !ok {
		return 0
	}
	return gen
}

func bumpAvailabilityGen(ctx context.Context, c domain.Cache, roomTypeID int64) {
	gen := availabilityGen(ctx, c, roomTypeID)
	_ = c.Set(ctx, availabilityGenKey(roomTypeID), gen+1, 0)
}

// ListRoomTypes exposes the catalog for the public room-types page.
func (s *AvailabilityService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.rooms.ListRoomTypes(ctx)
}

func (s *AvailabilityService) roomIDsOfType(ctx context.Context, roomTypeID int64) ([]int64, error) {
	if _, err := s.rooms.GetRoomType(ctx, roomTypeID); err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRoomsByType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, domain.ErrNoRooms
	}
	ids := make([]int64, len(rooms))
	for i, rm := range rooms {
		ids[i] = rm.ID
	}
	return ids, nil
}

// RoomTypeRange reports how many rooms of the type are free for the whole of
// [start, end).
func (s *AvailabilityService) RoomTypeRange(ctx context.Context, roomTypeID int64, start, end domain.Date) (domain.RangeReport, error) {
	if !start.Before(end) {
		return domain.RangeReport{}, domain.ErrInvalidRange
	}

	key := fmt.Sprintf("avail:range:%d:%d:%s:%s", roomTypeID, availabilityGen(ctx, s.cache, roomTypeID), start, end)
	var rep domain.RangeReport
	if ok, _ := s.cache.Get(ctx, key, &rep); ok {
		return rep, nil
	}

	ids, err := s.roomIDsOfType(ctx, roomTypeID)
	if err != nil {
		return domain.RangeReport{}, err
	}
	stays, err := s.reservations.StaysOverlapping(ctx, ids, start, end, 0)
	if err != nil {
		return domain.RangeReport{}, err
	}
	rep, err = domain.RangeAvailability(ids, stays, start, end)
	if err != nil {
		return domain.RangeReport{}, err
	}
	_ = s.cache.Set(ctx, key, rep, int(s.cacheTTL.Seconds()))
	return rep, nil
}

// RoomTypeDaily computes a calendar grid: per day in [start, end), how many
// rooms of the type are free.
func (s *AvailabilityService) RoomTypeDaily(ctx context.Context, roomTypeID int64, start, end domain.Date) ([]domain.DayReport, error) {
	if !start.Before(end) {
		return nil, domain.ErrInvalidRange
	}

	key := fmt.Sprintf("avail:daily:%d:%d:%s:%s", roomTypeID, availabilityGen(ctx, s.cache, roomTypeID), start, end)
	var days []domain.DayReport
	if ok, _ := s.cache.Get(ctx, key, &days); ok {
		return days, nil
	}

	ids, err := s.roomIDsOfType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	stays, err := s.reservations.StaysOverlapping(ctx, ids, start, end, 0)
	if err != nil {
		return nil, err
	}
	days, err = domain.DailyAvailability(ids, stays, start, end)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, days, int(s.cacheTTL.Seconds()))
	return days, nil
}

// RoomRange checks a single room for the whole of [start, end). It never
// reads the cache: direct booking checks and edit validation
// (excludeReservationID pointing at the reservation being changed) must see
// the live reservation set.
func (s *AvailabilityService) RoomRange(ctx context.Context, roomID int64, start, end domain.Date, excludeReservationID int64) (domain.RangeReport, error) {
	if !start.Before(end) {
		return domain.RangeReport{}, domain.ErrInvalidRange
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return domain.RangeReport{}, err
	}
	stays, err := s.reservations.StaysOverlapping(ctx, []int64{roomID}, start, end, excludeReservationID)
	if err != nil {
		return domain.RangeReport{}, err
	}
	return domain.RangeAvailability([]int64{roomID}, stays, start, end)
}
