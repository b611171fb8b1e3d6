package game

// GameState is the authoritative board for one started room. All
// mutation goes through Engine; the room layer serializes access.
type GameState struct {
	Board       map[CellKey]int
	Turn        int
	Remaining   []int
	Winner      *int
	WinningLine []CellKey
	Selected    *CellKey
	WinLength   int
}

// NewGameState builds the initial state for seats players, each holding
// allotment unplaced cubes, with a win length of winLen.
func NewGameState(seats, allotment, winLen int) *GameState {
	remaining := make([]int, seats)
	for i := range remaining {
		remaining[i] = allotment
	}
	return &GameState{
		Board:     map[CellKey]int{},
		Remaining: remaining,
		WinLength: winLen,
	}
}

func (s *GameState) occupiedSet() map[CellKey]bool {
	set := make(map[CellKey]bool, len(s.Board))
	for k := range s.Board {
		set[k] = true
	}
	return set
}

func (s *GameState) hasOccupiedNeighbor(cell CellKey, ignore *CellKey) bool {
	for _, n := range cell.Neighbors() {
		if ignore != nil && n == *ignore {
			continue
		}
		if _, ok := s.Board[n]; ok {
			return true
		}
	}
	return false
}

// Snapshot is the wire view of a GameState, broadcast to every seat
// after each committed mutation.
type Snapshot struct {
	Type        string          `json:"type"`
	Board       map[CellKey]int `json:"board"`
	Turn        int             `json:"turn"`
	Remaining   []int           `json:"remaining"`
	Winner      *int            `json:"winner"`
	WinningLine []CellKey       `json:"winning_line,omitempty"`
	Selected    *CellKey        `json:"selected,omitempty"`
	WinLength   int             `json:"win_length"`
	BoardSize   int             `json:"board_size"`
}

func (s *GameState) Snapshot() Snapshot {
	board := make(map[CellKey]int, len(s.Board))
	for k, v := range s.Board {
		board[k] = v
	}
	remaining := append([]int(nil), s.Remaining...)
	line := append([]CellKey(nil), s.WinningLine...)
	var winner *int
	if s.Winner != nil {
		w := *s.Winner
		winner = &w
	}
	var selected *CellKey
	if s.Selected != nil {
		c := *s.Selected
		selected = &c
	}
	return Snapshot{
		Type:        "game_state",
		Board:       board,
		Turn:        s.Turn,
		Remaining:   remaining,
		Winner:      winner,
		WinningLine: line,
		Selected:    selected,
		WinLength:   s.WinLength,
		BoardSize:   BoardSize,
	}
}
