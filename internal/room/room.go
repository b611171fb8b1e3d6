package room

import (
	"sync"
	"time"

	"github.com/argyee/cube-connect/internal/game"
)

// Seat is one claim on a room's ordinal slots. ConnID is empty while
// the seat sits in a disconnect grace window.
type Seat struct {
	Slot   int
	Name   string
	ConnID string
	Ready  bool
}

// Room is a session container. All fields past mu are guarded by it;
// the store serializes every mutation of a room through these entry
// points, so intents for the same room apply one at a time while
// different rooms proceed in parallel.
type Room struct {
	mu sync.Mutex

	code      string
	capacity  int
	allotment int
	winLength int
	createdAt time.Time

	seats   []*Seat
	started bool
	engine  *game.Engine

	disconnects map[int]*DisconnectRecord

	deleteTimer *time.Timer
	deleteGen   uint64
}

func (r *Room) seatByConnLocked(connID string) *Seat {
	if connID == "" {
		return nil
	}
	for _, seat := range r.seats {
		if seat.ConnID == connID {
			return seat
		}
	}
	return nil
}

func (r *Room) seatBySlotLocked(slot int) *Seat {
	for _, seat := range r.seats {
		if seat.Slot == slot {
			return seat
		}
	}
	return nil
}

// removeSeatLocked drops the seat at slot. Pre-start the remaining
// slots are compacted to stay contiguous (slot 0 carries host
// privilege); post-start indices are frozen because the GameState
// already encodes them.
func (r *Room) removeSeatLocked(slot int) {
	for i, seat := range r.seats {
		if seat.Slot == slot {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			break
		}
	}
	if !r.started {
		for i, seat := range r.seats {
			seat.Slot = i
		}
	}
}

// cancelDeletionLocked stops any pending empty-lobby timer. Bumping
// the generation makes an already-fired callback a no-op, so a join
// racing the timer always wins.
func (r *Room) cancelDeletionLocked() {
	r.deleteGen++
	if r.deleteTimer != nil {
		r.deleteTimer.Stop()
		r.deleteTimer = nil
	}
}

// SeatView is the roster entry broadcast to every participant.
type SeatView struct {
	Slot      int    `json:"slot"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

// Update is the result of a committed mutation: the roster, the game
// snapshot once started, and the live connection ids the boundary
// layer should fan it out to.
type Update struct {
	Code       string
	Seats      []SeatView
	Started    bool
	State      *game.Snapshot
	Recipients []string
}

func (r *Room) updateLocked() *Update {
	upd := &Update{
		Code:    r.code,
		Started: r.started,
	}
	for _, seat := range r.seats {
		upd.Seats = append(upd.Seats, SeatView{
			Slot:      seat.Slot,
			Name:      seat.Name,
			Ready:     seat.Ready,
			Connected: seat.ConnID != "",
		})
		if seat.ConnID != "" {
			upd.Recipients = append(upd.Recipients, seat.ConnID)
		}
	}
	if r.engine != nil {
		snap := r.engine.State.Snapshot()
		upd.State = &snap
	}
	return upd
}
