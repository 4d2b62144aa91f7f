package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRange        = errors.New("range end must be after range start")
	ErrNoRooms             = errors.New("no rooms to check")
	ErrRoomConflict        = errors.New("room already reserved for an overlapping range")
	ErrRoomUnavailable     = errors.New("room not bookable")
	ErrInvalidStatusChange = errors.New("invalid reservation status change")
	ErrGuestCount          = errors.New("guest count must be positive and within room type capacity")
	ErrInvalidPayment      = errors.New("payment amount must be positive")
)
