package domain

// RangeReport answers "how many of these rooms are free for the whole of
// [start, end)". A room with any overlapping stay, even a single day, is
// excluded entirely: bookings are all-or-nothing for a contiguous range.
type RangeReport struct {
	TotalRoomCount     int     `json:"totalRoomCount"`
	AvailableRoomCount int     `json:"availableRoomCount"`
	AvailableRoomIDs   []int64 `json:"availableRoomIds"`
}

// DayReport is one cell of a calendar view.
type DayReport struct {
	Day                Date `json:"day"`
	TotalRoomCount     int  `json:"totalRoomCount"`
	OccupiedRoomCount  int  `json:"occupiedRoomCount"`
	AvailableRoomCount int  `json:"availableRoomCount"`
	IsAvailable        bool `json:"isAvailable"`
}

func validateRange(roomIDs []int64, start, end Date) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if len(roomIDs) == 0 {
		return ErrNoRooms
	}
	return nil
}

// RangeAvailability counts the rooms in roomIDs with zero stays intersecting
// [start, end). Stays are assumed to come from blocking reservations only and
// to already exclude any reservation the caller is editing; stays for rooms
// outside roomIDs are ignored.
func RangeAvailability(roomIDs []int64, stays []Stay, start, end Date) (RangeReport, error) {
	if err := validateRange(roomIDs, start, end); err != nil {
		return RangeReport{}, err
	}

	busy := make(map[int64]bool, len(stays))
	for _, s := range stays {
		if s.Overlaps(start, end) {
			busy[s.RoomID] = true
		}
	}

	rep := RangeReport{TotalRoomCount: len(roomIDs), AvailableRoomIDs: []int64{}}
	for _, id := range roomIDs {
		if !busy[id] {
			rep.AvailableRoomCount++
			rep.AvailableRoomIDs = append(rep.AvailableRoomIDs, id)
		}
	}
	return rep, nil
}

// DailyAvailability walks every calendar day in [start, end) and counts, per
// day, the distinct rooms occupied by some stay whose half-open interval
// contains that day.
func DailyAvailability(roomIDs []int64, stays []Stay, start, end Date) ([]DayReport, error) {
	if err := validateRange(roomIDs, start, end); err != nil {
		return nil, err
	}

	member := make(map[int64]bool, len(roomIDs))
	for _, id := range roomIDs {
		member[id] = true
	}

	total := len(roomIDs)
	out := make([]DayReport, 0, start.DaysUntil(end))
	for d := start; d.Before(end); d = d.AddDays(1) {
		occupied := map[int64]bool{}
		for _, s := range stays {
			if member[s.RoomID] && s.Occupies(d) {
				occupied[s.RoomID] = true
			}
		}
		avail := total - len(occupied)
		out = append(out, DayReport{
			Day:                d,
			TotalRoomCount:     total,
			OccupiedRoomCount:  len(occupied),
			AvailableRoomCount: avail,
			IsAvailable:        avail > 0,
		})
	}
	return out, nil
}

// FilterStays drops the stay belonging to excludeReservationID, so that a
// reservation being edited does not conflict with itself. A zero ID filters
// nothing.
func FilterStays(stays []Stay, excludeReservationID int64) []Stay {
	if excludeReservationID == 0 {
		return stays
	}
	out := stays[:0:0]
	for _, s := range stays {
		if s.ReservationID != excludeReservationID {
			out = append(out, s)
		}
	}
	return out
}
