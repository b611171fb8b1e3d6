package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/argyee/cube-connect/internal/game"
)

const (
	minCapacity  = 2
	maxCapacity  = 6
	minWinLength = 4
	maxWinLength = 6

	defaultDisconnectGrace = 2 * time.Minute
	defaultEmptyLobbyTTL   = 10 * time.Minute
	defaultLobbyMaxAge     = time.Hour
)

// Config carries the supervisor timings. Zero values fall back to the
// production defaults; tests shrink them to milliseconds.
type Config struct {
	DisconnectGrace time.Duration
	EmptyLobbyTTL   time.Duration
	LobbyMaxAge     time.Duration
}

func (c Config) withDefaults() Config {
	if c.DisconnectGrace <= 0 {
		c.DisconnectGrace = defaultDisconnectGrace
	}
	if c.EmptyLobbyTTL <= 0 {
		c.EmptyLobbyTTL = defaultEmptyLobbyTTL
	}
	if c.LobbyMaxAge <= 0 {
		c.LobbyMaxAge = defaultLobbyMaxAge
	}
	return c
}

// Store owns the room registry. The registry maps are guarded by mu;
// each room serializes its own mutations behind its own mutex, taken
// after mu whenever both are needed.
type Store struct {
	cfg Config

	mu     sync.RWMutex
	rooms  map[string]*Room
	byConn map[string]*Room

	observer func(*Update)
}

func New(cfg Config) *Store {
	return &Store{
		cfg:    cfg.withDefaults(),
		rooms:  map[string]*Room{},
		byConn: map[string]*Room{},
	}
}

// SetObserver registers the boundary-layer callback invoked for
// timer-driven changes (grace expiry, room deletion) that have no
// requesting connection to answer. Must be set before traffic starts.
func (s *Store) SetObserver(fn func(*Update)) {
	s.observer = fn
}

func (s *Store) notify(upd *Update) {
	if s.observer != nil && upd != nil {
		s.observer(upd)
	}
}

// CreateRoom allocates a fresh room in lobby state and returns its
// shareable code.
func (s *Store) CreateRoom(winLength, capacity, allotment int) (string, error) {
	if winLength < minWinLength || winLength > maxWinLength {
		return "", ErrInvalidConfig
	}
	if capacity < minCapacity || capacity > maxCapacity {
		return "", ErrInvalidConfig
	}
	if allotment < 1 {
		return "", ErrInvalidConfig
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	code, err := s.newCodeLocked()
	if err != nil {
		return "", err
	}
	s.rooms[code] = &Room{
		code:        code,
		capacity:    capacity,
		allotment:   allotment,
		winLength:   winLength,
		createdAt:   time.Now(),
		disconnects: map[int]*DisconnectRecord{},
	}
	log.Info().Str("room", code).Int("capacity", capacity).Int("win_length", winLength).Msg("room created")
	return code, nil
}

// JoinSeat claims the next free slot in a lobby. Joining again with a
// connection that already holds a seat is idempotent and returns the
// existing slot. A connection seated in a different room is rejected;
// it must leave first, or its old seat would keep a connection id that
// no longer routes anywhere.
func (s *Store) JoinSeat(code, connID, name string) (*Update, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	if other := s.byConn[connID]; other != nil && other != r {
		return nil, 0, ErrAlreadyInRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seat := r.seatByConnLocked(connID); seat != nil {
		return r.updateLocked(), seat.Slot, nil
	}
	if r.started {
		return nil, 0, ErrAlreadyStarted
	}
	if len(r.seats) >= r.capacity {
		return nil, 0, ErrRoomFull
	}

	r.cancelDeletionLocked()
	seat := &Seat{Slot: len(r.seats), Name: name, ConnID: connID}
	r.seats = append(r.seats, seat)
	s.byConn[connID] = r
	log.Info().Str("room", code).Int("slot", seat.Slot).Str("name", name).Msg("seat joined")
	return r.updateLocked(), seat.Slot, nil
}

// LeaveSeat handles both a deliberate leave and a transport drop. It
// returns nil when the connection holds no seat. Pre-start the seat is
// removed and slots compacted; post-start the seat enters a disconnect
// grace window instead.
func (s *Store) LeaveSeat(connID string) *Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byConn[connID]
	if r == nil {
		return nil
	}
	delete(s.byConn, connID)

	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatByConnLocked(connID)
	if seat == nil {
		return nil
	}

	if r.started {
		seat.ConnID = ""
		s.beginGraceLocked(r, seat)
		log.Info().Str("room", r.code).Int("slot", seat.Slot).Msg("seat entered grace window")
		return r.updateLocked()
	}

	r.removeSeatLocked(seat.Slot)
	log.Info().Str("room", r.code).Int("slot", seat.Slot).Msg("seat left lobby")
	if len(r.seats) == 0 {
		s.armDeletionLocked(r)
	}
	return r.updateLocked()
}

// ReconnectSeat rebinds a slot in its grace window to a new transport.
// A connection that still holds a live seat anywhere is refused: a
// genuinely reconnecting client arrives on a fresh connection id.
func (s *Store) ReconnectSeat(code, connID string, slot int) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if s.byConn[connID] != nil {
		return nil, ErrAlreadyInRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.disconnects[slot]
	if !ok {
		return nil, ErrNoGraceWindow
	}
	rec.timer.Stop()
	delete(r.disconnects, slot)

	seat := r.seatBySlotLocked(slot)
	if seat == nil {
		return nil, ErrNoGraceWindow
	}
	seat.ConnID = connID
	s.byConn[connID] = r
	log.Info().Str("room", code).Int("slot", slot).Msg("seat reconnected")
	return r.updateLocked(), nil
}

// SetReady toggles a lobby seat's advisory ready flag.
func (s *Store) SetReady(code string, slot int, ready bool) (*Update, error) {
	r, err := s.lookup(code)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil, ErrAlreadyStarted
	}
	seat := r.seatBySlotLocked(slot)
	if seat == nil {
		return nil, ErrInvalidSlot
	}
	seat.Ready = ready
	return r.updateLocked(), nil
}

// StartRoom transitions lobby to started exactly once and builds the
// initial game state. There is no path back to lobby.
func (s *Store) StartRoom(code string) (*Update, error) {
	r, err := s.lookup(code)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil, ErrAlreadyStarted
	}
	if len(r.seats) < minCapacity {
		return nil, ErrNotEnoughSeats
	}
	r.started = true
	r.engine = game.NewEngine(game.NewGameState(len(r.seats), r.allotment, r.winLength))
	r.cancelDeletionLocked()
	log.Info().Str("room", code).Int("seats", len(r.seats)).Msg("room started")
	return r.updateLocked(), nil
}

// SubmitIntent applies one turn intent for the seat bound to connID.
// Rejections leave the game state untouched and are meant for the
// requester only.
func (s *Store) SubmitIntent(code, connID string, in game.Intent) (*Update, error) {
	r, err := s.lookup(code)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil, ErrNotStarted
	}
	seat := r.seatByConnLocked(connID)
	if seat == nil {
		return nil, ErrNotSeated
	}
	if err := r.engine.Apply(seat.Slot, in); err != nil {
		if errors.Is(err, game.ErrIntegrity) {
			log.Error().Str("room", code).Int("slot", seat.Slot).Err(err).Msg("refusing intent on corrupt game state")
		}
		return nil, err
	}
	return r.updateLocked(), nil
}

// SeatOf reports the room code and slot bound to a connection.
func (s *Store) SeatOf(connID string) (string, int, bool) {
	s.mu.RLock()
	r := s.byConn[connID]
	s.mu.RUnlock()
	if r == nil {
		return "", 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatByConnLocked(connID)
	if seat == nil {
		return "", 0, false
	}
	return r.code, seat.Slot, true
}

// Recipients lists the live connections of a room, for relay traffic
// that never touches game state.
func (s *Store) Recipients(code string) []string {
	r, err := s.lookup(code)
	if err != nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var conns []string
	for _, seat := range r.seats {
		if seat.ConnID != "" {
			conns = append(conns, seat.ConnID)
		}
	}
	return conns
}

func (s *Store) lookup(code string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// removeRoomLocked drops a room and all bookkeeping that points at it.
// Caller holds both s.mu and r.mu.
func (s *Store) removeRoomLocked(r *Room) {
	delete(s.rooms, r.code)
	for conn, room := range s.byConn {
		if room == r {
			delete(s.byConn, conn)
		}
	}
	for slot, rec := range r.disconnects {
		rec.timer.Stop()
		delete(r.disconnects, slot)
	}
	r.cancelDeletionLocked()
	log.Info().Str("room", r.code).Msg("room deleted")
}

// StartJanitor sweeps lobbies that never started past their maximum
// age. Runs until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.sweepStaleLobbies(now)
			}
		}
	}()
}

func (s *Store) sweepStaleLobbies(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		r.mu.Lock()
		stale := !r.started && now.Sub(r.createdAt) > s.cfg.LobbyMaxAge
		if stale {
			s.removeRoomLocked(r)
		}
		r.mu.Unlock()
	}
}
