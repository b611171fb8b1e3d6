package room

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DisconnectRecord tracks a started room's seat whose transport
// dropped. It lives until reconnection cancels the timer or expiry
// removes the seat for good.
type DisconnectRecord struct {
	Slot int
	Name string
	At   time.Time

	timer *time.Timer
}

// beginGraceLocked arms the grace timer for a dropped seat. Caller
// holds both s.mu and r.mu. Re-arming for the same slot replaces the
// previous record.
func (s *Store) beginGraceLocked(r *Room, seat *Seat) {
	if old, ok := r.disconnects[seat.Slot]; ok {
		old.timer.Stop()
	}
	rec := &DisconnectRecord{
		Slot: seat.Slot,
		Name: seat.Name,
		At:   time.Now(),
	}
	r.disconnects[seat.Slot] = rec
	rec.timer = time.AfterFunc(s.cfg.DisconnectGrace, func() {
		s.expireGrace(r, rec)
	})
}

// expireGrace fires when a grace window lapses without reconnection.
// The record identity check makes the race against a concurrent
// reconnect favor the reconnect: once the record is gone, a queued
// firing is a no-op.
func (s *Store) expireGrace(r *Room, rec *DisconnectRecord) {
	s.mu.Lock()
	r.mu.Lock()

	if s.rooms[r.code] != r || r.disconnects[rec.Slot] != rec {
		r.mu.Unlock()
		s.mu.Unlock()
		return
	}
	delete(r.disconnects, rec.Slot)
	r.removeSeatLocked(rec.Slot)
	log.Info().Str("room", r.code).Int("slot", rec.Slot).Str("name", rec.Name).Msg("grace window expired, seat removed")

	var upd *Update
	if len(r.seats) == 0 {
		s.removeRoomLocked(r)
	} else {
		upd = r.updateLocked()
	}
	r.mu.Unlock()
	s.mu.Unlock()

	s.notify(upd)
}

// armDeletionLocked schedules deletion of a fully vacated lobby so it
// can still be rejoined by code for a while. Caller holds both s.mu
// and r.mu. Re-arming cancels and replaces any existing timer.
func (s *Store) armDeletionLocked(r *Room) {
	r.cancelDeletionLocked()
	gen := r.deleteGen
	r.deleteTimer = time.AfterFunc(s.cfg.EmptyLobbyTTL, func() {
		s.expireEmptyLobby(r, gen)
	})
}

// expireEmptyLobby deletes a lobby that stayed empty for the full TTL.
// The generation check means any join (which bumps the generation
// under the room lock) beats a timer that already fired.
func (s *Store) expireEmptyLobby(r *Room, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.rooms[r.code] != r || r.deleteGen != gen {
		return
	}
	if r.started || len(r.seats) > 0 {
		return
	}
	s.removeRoomLocked(r)
}
