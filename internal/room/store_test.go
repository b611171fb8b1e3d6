package room

import (
	"errors"
	"testing"
	"time"

	"github.com/argyee/cube-connect/internal/game"
)

func testStore() *Store {
	return New(Config{
		DisconnectGrace: 50 * time.Millisecond,
		EmptyLobbyTTL:   50 * time.Millisecond,
		LobbyMaxAge:     time.Hour,
	})
}

func mustCreate(t *testing.T, s *Store, winLen, capacity, allotment int) string {
	t.Helper()
	code, err := s.CreateRoom(winLen, capacity, allotment)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	return code
}

func mustJoin(t *testing.T, s *Store, code, connID, name string) int {
	t.Helper()
	_, slot, err := s.JoinSeat(code, connID, name)
	if err != nil {
		t.Fatalf("JoinSeat(%s, %s): %v", code, connID, err)
	}
	return slot
}

func TestCreateRoomValidatesConfig(t *testing.T) {
	s := testStore()
	for _, bad := range [][3]int{{3, 2, 8}, {7, 2, 8}, {4, 1, 8}, {4, 7, 8}, {4, 2, 0}} {
		if _, err := s.CreateRoom(bad[0], bad[1], bad[2]); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("CreateRoom(%v) err = %v, want %v", bad, err, ErrInvalidConfig)
		}
	}
}

func TestJoinAssignsOrdinalSlots(t *testing.T) {
	s := testStore()
	code := mustCreate(t, s, 4, 3, 8)
	if slot := mustJoin(t, s, code, "c1", "alice"); slot != 0 {
		t.Fatalf("first slot = %d, want 0", slot)
	}
	if slot := mustJoin(t, s, code, "c2", "bob"); slot != 1 {
		t.Fatalf("second slot = %d, want 1", slot)
	}
	// Same connection joining again gets its existing slot back.
	if slot := mustJoin(t, s, code, "c1", "alice"); slot != 0 {
		t.Fatalf("rejoin slot = %d, want 0", slot)
	}
}

func TestJoinRejections(t *testing.T) {
	s := testStore()
	if _, _, err := s.JoinSeat("ZZZZZ", "c1", "alice"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("unknown room err = %v, want %v", err, ErrRoomNotFound)
	}

	code := mustCreate(t, s, 4, 2, 8)
	mustJoin(t, s, code, "c1", "alice")
	mustJoin(t, s, code, "c2", "bob")
	if _, _, err := s.JoinSeat(code, "c3", "carol"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("full room err = %v, want %v", err, ErrRoomFull)
	}

	if _, err := s.StartRoom(code); err != nil {
		t.Fatalf("StartRoom: %v", err)
	}
	if _, _, err := s.JoinSeat(code, "c4", "dave"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("started room err = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestJoinWhileSeatedElsewhereRejected(t *testing.T) {
	s := testStore()
	started := mustCreate(t, s, 4, 2, 8)
	mustJoin(t, s, started, "c1", "alice")
	mustJoin(t, s, started, "c2", "bob")
	if _, err := s.StartRoom(started); err != nil {
		t.Fatalf("StartRoom: %v", err)
	}

	lobby := mustCreate(t, s, 4, 2, 8)
	if _, _, err := s.JoinSeat(lobby, "c1", "alice"); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("cross-room join err = %v, want %v", err, ErrAlreadyInRoom)
	}

	// The rejected join must not hijack c1's routing: dropping the
	// connection still services the started room's seat.
	if gotCode, slot, ok := s.SeatOf("c1"); !ok || gotCode != started || slot != 0 {
		t.Fatalf("SeatOf(c1) = %q/%d/%v, want %s/0/true", gotCode, slot, ok, started)
	}
	upd := s.LeaveSeat("c1")
	if upd == nil || upd.Code != started {
		t.Fatalf("LeaveSeat routed to %+v, want room %s", upd, started)
	}
	if upd.Seats[0].Connected {
		t.Fatal("dropped seat must enter its grace window")
	}

	// A connection that still holds a live seat cannot rebind a grace
	// slot; only a fresh connection id may reconnect.
	if _, err := s.ReconnectSeat(started, "c2", 0); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("live-seated reconnect err = %v, want %v", err, ErrAlreadyInRoom)
	}
}

func TestPreStartLeaveCompactsSlots(t *testing.T) {
	s := testStore()
	code := mustCreate(t, s, 4, 4, 8)
	mustJoin(t, s, code, "c1", "alice")
	mustJoin(t, s, code, "c2", "bob")
	mustJoin(t, s, code, "c3", "carol")

	upd := s.LeaveSeat("c2")
	if upd == nil {
		t.Fatal("LeaveSeat returned nil for a seated connection")
	}
	if len(upd.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(upd.Seats))
	}
	if upd.Seats[0].Slot != 0 || upd.Seats[0].Name != "alice" {
		t.Fatalf("seat 0 = %+v, want alice at 0", upd.Seats[0])
	}
	if upd.Seats[1].Slot != 1 || upd.Seats[1].Name != "carol" {
		t.Fatalf("seat 1 = %+v, want carol at 1", upd.Seats[1])
	}

	// Original connections keep their seats under the new numbering.
	gotCode, slot, ok := s.SeatOf("c3")
	if !ok || gotCode != code || slot != 1 {
		t.Fatalf("SeatOf(c3) = %q/%d/%v, want %s/1/true", gotCode, slot, ok, code)
	}
}

func TestLeaveUnknownConnection(t *testing.T) {
	s := testStore()
	if upd := s.LeaveSeat("ghost"); upd != nil {
		t.Fatalf("LeaveSeat(ghost) = %+v, want nil", upd)
	}
}

func TestStartRoomRules(t *testing.T) {
	s := testStore()
	code := mustCreate(t, s, 4, 3, 8)
	mustJoin(t, s, code, "c1", "alice")
	if _, err := s.StartRoom(code); !errors.Is(err, ErrNotEnoughSeats) {
		t.Fatalf("err = %v, want %v", err, ErrNotEnoughSeats)
	}

	mustJoin(t, s, code, "c2", "bob")
	upd, err := s.StartRoom(code)
	if err != nil {
		t.Fatalf("StartRoom: %v", err)
	}
	if !upd.Started || upd.State == nil {
		t.Fatal("started update missing game state")
	}
	if upd.State.Turn != 0 {
		t.Fatalf("initial turn = %d, want 0", upd.State.Turn)
	}
	for i, rem := range upd.State.Remaining {
		if rem != 8 {
			t.Fatalf("seat %d remaining = %d, want 8", i, rem)
		}
	}

	if _, err := s.StartRoom(code); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start err = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestSetReadyLobbyOnly(t *testing.T) {
	s := testStore()
	code := mustCreate(t, s, 4, 2, 8)
	mustJoin(t, s, code, "c1", "alice")
	mustJoin(t, s, code, "c2", "bob")

	upd, err := s.SetReady(code, 1, true)
	if err != nil {
		t.Fatalf("SetReady: %v", err)
	}
	if !upd.Seats[1].Ready {
		t.Fatal("ready flag not set")
	}
	if _, err := s.SetReady(code, 5, true); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("bad slot err = %v, want %v", err, ErrInvalidSlot)
	}

	if _, err := s.StartRoom(code); err != nil {
		t.Fatalf("StartRoom: %v", err)
	}
	if _, err := s.SetReady(code, 1, false); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("post-start err = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestSubmitIntentRoutesToSeat(t *testing.T) {
	s := testStore()
	code := mustCreate(t, s, 4, 2, 8)
	mustJoin(t, s, code, "c1", "alice")
	mustJoin(t, s, code, "c2", "bob")

	if _, err := s.SubmitIntent(code, "c1", game.Intent{Type: game.IntentPlace, Cell: game.Key(5, 5)}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("pre-start err = %v, want %v", err, ErrNotStarted)
	}
	if _, err := s.StartRoom(code); err != nil {
		t.Fatalf("StartRoom: %v", err)
	}

	if _, err := s.SubmitIntent(code, "stranger", game.Intent{Type: game.IntentPass}); !errors.Is(err, ErrNotSeated) {
		t.Fatalf("unseated err = %v, want %v", err, ErrNotSeated)
	}

	// Seat 1 acting on seat 0's turn is rejected without mutating state.
	if _, err := s.SubmitIntent(code, "c2", game.Intent{Type: game.IntentPlace, Cell: game.Key(5, 5)}); !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("wrong turn err = %v, want %v", err, game.ErrNotYourTurn)
	}

	upd, err := s.SubmitIntent(code, "c1", game.Intent{Type: game.IntentPlace, Cell: game.Key(5, 5)})
	if err != nil {
		t.Fatalf("SubmitIntent: %v", err)
	}
	if upd.State == nil || upd.State.Board[game.Key(5, 5)] != 0 {
		t.Fatal("committed placement missing from snapshot")
	}
	if upd.State.Turn != 1 {
		t.Fatalf("turn = %d, want 1", upd.State.Turn)
	}
	if len(upd.Recipients) != 2 {
		t.Fatalf("recipients = %v, want both connections", upd.Recipients)
	}
}

func TestJanitorSweepsStaleLobbies(t *testing.T) {
	s := New(Config{LobbyMaxAge: time.Millisecond})
	code := mustCreate(t, s, 4, 2, 8)

	s.sweepStaleLobbies(time.Now().Add(time.Second))
	if _, _, err := s.JoinSeat(code, "c1", "alice"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("swept lobby join err = %v, want %v", err, ErrRoomNotFound)
	}
}

func TestJanitorSparesStartedRooms(t *testing.T) {
	s := New(Config{LobbyMaxAge: time.Millisecond})
	code := mustCreate(t, s, 4, 2, 8)
	mustJoin(t, s, code, "c1", "alice")
	mustJoin(t, s, code, "c2", "bob")
	if _, err := s.StartRoom(code); err != nil {
		t.Fatalf("StartRoom: %v", err)
	}

	s.sweepStaleLobbies(time.Now().Add(time.Second))
	if _, _, ok := s.SeatOf("c1"); !ok {
		t.Fatal("started room must survive the lobby sweep")
	}
}
