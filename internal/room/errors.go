package room

import "errors"

// Lifecycle errors, surfaced to the caller as named rejections and
// never retried by the core.
var (
	ErrRoomNotFound   = errors.New("room_not_found")
	ErrRoomFull       = errors.New("room_full")
	ErrAlreadyStarted = errors.New("already_started")
	ErrNotStarted     = errors.New("not_started")
	ErrNotEnoughSeats = errors.New("not_enough_seats")
	ErrNoGraceWindow  = errors.New("slot_not_in_grace")
	ErrNotSeated      = errors.New("not_seated")
	ErrAlreadyInRoom  = errors.New("already_in_room")
	ErrInvalidSlot    = errors.New("invalid_slot")
	ErrInvalidConfig  = errors.New("invalid_room_config")
)
