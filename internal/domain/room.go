package domain

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

// RoomType is a category of rooms sharing price, capacity and description.
type RoomType struct {
	ID        int64
	Name      string
	BasePrice float64 // per night
	MaxGuests int
	SizeM2    *float64
	BedType   *string
	Images    []string
}

// Room is a physical room. Status is a flat label set by staff or by the
// periodic sync job; it is never the source of truth for occupancy — active
// reservations are.
type Room struct {
	ID         int64
	RoomTypeID int64
	Number     string
	Floor      int
	Status     RoomStatus
}
