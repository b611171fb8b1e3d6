package game

import "errors"

// Move-legality errors, surfaced to the requesting connection only.
var (
	ErrOutOfBounds     = errors.New("out_of_bounds")
	ErrOccupied        = errors.New("occupied")
	ErrNotAdjacent     = errors.New("not_adjacent")
	ErrNotYourTurn     = errors.New("not_your_turn")
	ErrNotYourPiece    = errors.New("not_your_piece")
	ErrWouldDisconnect = errors.New("would_disconnect")
	ErrNoPieceSelected = errors.New("no_piece_selected")
	ErrWrongPhase      = errors.New("wrong_phase")
	ErrGameOver        = errors.New("game_over")
)

// ErrIntegrity marks a state that violates the board invariants. The
// offending mutation is refused, never repaired.
var ErrIntegrity = errors.New("integrity_violation")

func validatePlacement(s *GameState, cell CellKey) error {
	if !cell.InBounds() {
		return ErrOutOfBounds
	}
	if _, ok := s.Board[cell]; ok {
		return ErrOccupied
	}
	if len(s.Board) > 0 && !s.hasOccupiedNeighbor(cell, nil) {
		return ErrNotAdjacent
	}
	return nil
}

func validateSelection(s *GameState, seat int, cell CellKey) error {
	owner, ok := s.Board[cell]
	if !ok || owner != seat {
		return ErrNotYourPiece
	}
	// Connectivity is deliberately not checked here: lifting a piece
	// and re-placing it next door can preserve connectivity even when
	// the lifted intermediate state would not.
	return nil
}

func validateDestination(s *GameState, origin, dest CellKey) error {
	if !dest.InBounds() {
		return ErrOutOfBounds
	}
	if _, ok := s.Board[dest]; ok {
		return ErrOccupied
	}
	// Adjacency against the board with the origin lifted; a board that
	// empties entirely has nothing to be adjacent to.
	if len(s.Board) > 1 && !s.hasOccupiedNeighbor(dest, &origin) {
		return ErrNotAdjacent
	}
	result := s.occupiedSet()
	delete(result, origin)
	result[dest] = true
	if len(ComponentsOf(result)) > 1 {
		return ErrWouldDisconnect
	}
	return nil
}

// checkIntegrity guards the invariants that should be unreachable
// through the validated entry points.
func checkIntegrity(s *GameState) error {
	if len(s.Remaining) == 0 {
		return ErrIntegrity
	}
	if s.Turn < 0 || s.Turn >= len(s.Remaining) {
		return ErrIntegrity
	}
	for k := range s.Board {
		if !k.InBounds() {
			return ErrIntegrity
		}
	}
	return nil
}
