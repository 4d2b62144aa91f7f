package app

import (
	"context"
	"time"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/domain"
)

// RoomSyncService reconciles the flat Room.status label with the reservation
// set: a room is OCCUPIED while some blocking reservation covers today,
// AVAILABLE otherwise. MAINTENANCE is set by staff and never touched here.
// The label is a convenience for back-office screens; booking decisions read
// reservations, never this label.
type RoomSyncService struct {
	rooms        domain.RoomRepository
	reservations domain.ReservationRepository
}

func NewRoomSyncService(rooms domain.RoomRepository, reservations domain.ReservationRepository) *RoomSyncService {
	return &RoomSyncService{rooms: rooms, reservations: reservations}
}

func (s *RoomSyncService) RoomIDs(ctx context.Context) ([]int64, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rooms))
	for i, rm := range rooms {
		ids[i] = rm.ID
	}
	return ids, nil
}

// SyncRoom reconciles one room against the current UTC calendar date.
func (s *RoomSyncService) SyncRoom(ctx context.Context, roomID int64) (bool, error) {
	return s.SyncRoomOn(ctx, roomID, domain.DateOf(time.Now()))
}

// SyncRoomOn reports whether the room's label changed.
func (s *RoomSyncService) SyncRoomOn(ctx context.Context, roomID int64, today domain.Date) (bool, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.Status == domain.RoomMaintenance {
		return false, nil
	}

	stays, err := s.reservations.StaysOverlapping(ctx, []int64{roomID}, today, today.AddDays(1), 0)
	if err != nil {
		return false, err
	}

	want := domain.RoomAvailable
	if len(stays) > 0 {
		want = domain.RoomOccupied
	}
	if room.Status == want {
		return false, nil
	}
	if err := s.rooms.SetRoomStatus(ctx, roomID, want); err != nil {
		return false, err
	}
	return true, nil
}
