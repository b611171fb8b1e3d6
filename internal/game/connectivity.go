package game

// Connectivity over the occupied-cell set. Every occupied cell is
// traversable regardless of owner; adjacency is 4-directional.

// ComponentsOf partitions cells into connected components via BFS.
// Component order follows discovery order over the input set.
func ComponentsOf(cells map[CellKey]bool) []map[CellKey]bool {
	var components []map[CellKey]bool
	visited := make(map[CellKey]bool, len(cells))
	for start := range cells {
		if visited[start] {
			continue
		}
		comp := map[CellKey]bool{start: true}
		visited[start] = true
		queue := []CellKey{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range cur.Neighbors() {
				if cells[n] && !visited[n] {
					visited[n] = true
					comp[n] = true
					queue = append(queue, n)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}

// WouldStayConnected reports whether removing removed leaves the rest of
// the cells in a single component. Zero or one remaining cell is
// trivially connected.
func WouldStayConnected(cells map[CellKey]bool, removed CellKey) bool {
	rest := make(map[CellKey]bool, len(cells))
	for k := range cells {
		if k != removed {
			rest[k] = true
		}
	}
	if len(rest) <= 1 {
		return true
	}
	return len(ComponentsOf(rest)) == 1
}

// DisconnectedSetIfRemoved returns every cell stranded outside the
// largest remaining component if removing removed splits the board, or
// an empty set if it stays whole. Ties between equally large components
// go to the first one discovered.
func DisconnectedSetIfRemoved(cells map[CellKey]bool, removed CellKey) map[CellKey]bool {
	rest := make(map[CellKey]bool, len(cells))
	for k := range cells {
		if k != removed {
			rest[k] = true
		}
	}
	stranded := map[CellKey]bool{}
	components := ComponentsOf(rest)
	if len(components) <= 1 {
		return stranded
	}
	largest := 0
	for i, comp := range components {
		if len(comp) > len(components[largest]) {
			largest = i
		}
	}
	for i, comp := range components {
		if i == largest {
			continue
		}
		for k := range comp {
			stranded[k] = true
		}
	}
	return stranded
}
