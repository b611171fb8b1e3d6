package game

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the side length of the square grid. Cells live at
// coordinates 0..BoardSize-1 on both axes.
const BoardSize = 16

// CellKey is the canonical identifier of one grid coordinate, "x,y".
type CellKey string

func Key(x, y int) CellKey {
	return CellKey(strconv.Itoa(x) + "," + strconv.Itoa(y))
}

// Coords parses the key back into coordinates.
func (k CellKey) Coords() (int, int, error) {
	xs, ys, found := strings.Cut(string(k), ",")
	if !found {
		return 0, 0, fmt.Errorf("malformed cell key %q", k)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed cell key %q", k)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed cell key %q", k)
	}
	return x, y, nil
}

// InBounds reports whether the key names a valid board cell.
func (k CellKey) InBounds() bool {
	x, y, err := k.Coords()
	if err != nil {
		return false
	}
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// Neighbors returns the four orthogonally adjacent keys. Out-of-bounds
// neighbors are included; callers filter against the occupied map, which
// never contains them.
func (k CellKey) Neighbors() [4]CellKey {
	x, y, _ := k.Coords()
	return [4]CellKey{
		Key(x+1, y),
		Key(x-1, y),
		Key(x, y+1),
		Key(x, y-1),
	}
}
