package game

// WinResult reports whether a just-placed cube completed a line, and if
// so which cells form it, ordered from the backward end to the forward
// end of the winning axis.
type WinResult struct {
	Won  bool
	Line []CellKey
}

// winAxes in scan-priority order: horizontal, vertical, down-right
// diagonal, down-left diagonal. The first axis reaching the target
// length wins.
var winAxes = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{-1, 1},
}

// CheckWin scans the four axes through cell for an unbroken run of
// owner-held cells of length winLen or more. Scans are capped at
// winLen-1 steps per side, so a returned line never exceeds 2*winLen-1
// cells but may exceed winLen when a move joins two runs.
func CheckWin(cell CellKey, owner int, board map[CellKey]int, winLen int) WinResult {
	x, y, err := cell.Coords()
	if err != nil {
		return WinResult{}
	}
	for _, axis := range winAxes {
		dx, dy := axis[0], axis[1]

		forward := 0
		for step := 1; step < winLen; step++ {
			v, ok := board[Key(x+dx*step, y+dy*step)]
			if !ok || v != owner {
				break
			}
			forward++
		}

		backward := 0
		for step := 1; step < winLen; step++ {
			v, ok := board[Key(x-dx*step, y-dy*step)]
			if !ok || v != owner {
				break
			}
			backward++
		}

		if 1+forward+backward < winLen {
			continue
		}

		line := make([]CellKey, 0, 1+forward+backward)
		for step := backward; step >= 1; step-- {
			line = append(line, Key(x-dx*step, y-dy*step))
		}
		line = append(line, cell)
		for step := 1; step <= forward; step++ {
			line = append(line, Key(x+dx*step, y+dy*step))
		}
		return WinResult{Won: true, Line: line}
	}
	return WinResult{}
}
