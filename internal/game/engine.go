package game

// IntentType enumerates the turn intents a seat may submit.
type IntentType string

const (
	IntentPlace  IntentType = "place"
	IntentSelect IntentType = "select"
	IntentMove   IntentType = "move"
	IntentPass   IntentType = "pass"
)

// Intent is one seat's proposed turn action. Cell is unused for pass.
type Intent struct {
	Type IntentType
	Cell CellKey
}

// Engine applies intents to a single GameState. Every intent either
// fully transitions the state or leaves it untouched; all checks run
// before the first mutation.
type Engine struct {
	State *GameState
}

func NewEngine(state *GameState) *Engine {
	return &Engine{State: state}
}

// Apply validates and executes one intent for seat. A non-nil error
// means the state is unchanged.
func (e *Engine) Apply(seat int, in Intent) error {
	s := e.State
	if err := checkIntegrity(s); err != nil {
		return err
	}
	if s.Winner != nil {
		return ErrGameOver
	}

	if in.Type == IntentPass {
		// Driven by the boundary layer's turn timer; advances the turn
		// without touching the board. Any pending selection dies with
		// the turn so the next seat cannot move it.
		s.Selected = nil
		s.Turn = (s.Turn + 1) % len(s.Remaining)
		return nil
	}

	if seat != s.Turn {
		return ErrNotYourTurn
	}

	switch in.Type {
	case IntentPlace:
		return e.applyPlace(seat, in.Cell)
	case IntentSelect:
		return e.applySelect(seat, in.Cell)
	case IntentMove:
		return e.applyMove(seat, in.Cell)
	default:
		return ErrWrongPhase
	}
}

func (e *Engine) applyPlace(seat int, cell CellKey) error {
	s := e.State
	if s.Remaining[seat] <= 0 {
		return ErrWrongPhase
	}
	if err := validatePlacement(s, cell); err != nil {
		return err
	}
	s.Board[cell] = seat
	s.Remaining[seat]--
	s.Selected = nil
	e.finishTurn(seat, cell)
	return nil
}

func (e *Engine) applySelect(seat int, cell CellKey) error {
	s := e.State
	if s.Remaining[seat] > 0 {
		return ErrWrongPhase
	}
	if err := validateSelection(s, seat, cell); err != nil {
		return err
	}
	c := cell
	s.Selected = &c
	return nil
}

func (e *Engine) applyMove(seat int, dest CellKey) error {
	s := e.State
	if s.Remaining[seat] > 0 {
		return ErrWrongPhase
	}
	if s.Selected == nil {
		return ErrNoPieceSelected
	}
	origin := *s.Selected
	if err := validateDestination(s, origin, dest); err != nil {
		if err == ErrWouldDisconnect {
			s.Selected = nil
		}
		return err
	}
	delete(s.Board, origin)
	s.Board[dest] = seat
	s.Selected = nil
	e.finishTurn(seat, dest)
	return nil
}

// finishTurn runs win detection for the just-touched cell and either
// freezes the state on a win or rotates the turn.
func (e *Engine) finishTurn(seat int, cell CellKey) {
	s := e.State
	if res := CheckWin(cell, seat, s.Board, s.WinLength); res.Won {
		w := seat
		s.Winner = &w
		s.WinningLine = res.Line
		return
	}
	s.WinningLine = nil
	s.Turn = (s.Turn + 1) % len(s.Remaining)
}
