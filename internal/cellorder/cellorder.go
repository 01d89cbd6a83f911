// Package cellorder implements spec §4.11 PcCellOrder: the deterministic
// traversal PC expects over an exterior worldspace's cell grid, and the
// matching traversal-index query. internal/ofst indexes OFST tables in
// raster order and does not use this package.
package cellorder

// Bounds is the inclusive grid-coordinate rectangle a worldspace's exterior
// cells occupy.
type Bounds struct {
	MinX, MaxX int32
	MinY, MaxY int32
}

// Coord is one exterior cell's grid position.
type Coord struct {
	X, Y int32
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Order produces the PC-canonical traversal sequence of grid coordinates
// within bounds, per spec §4.11: the rectangle is divided into 8x8 blocks
// processed column-major, and each block is walked with a left-sweep /
// SE-jump pattern down to a diagonal zigzag tail.
func Order(b Bounds) []Coord {
	width := int(b.MaxX-b.MinX) + 1
	height := int(b.MaxY-b.MinY) + 1
	if width <= 0 || height <= 0 {
		return nil
	}

	blocksX := ceilDiv(width, 8)
	blocksY := ceilDiv(height, 8)

	var out []Coord
	emit := func(gx, gy int32) {
		if gx < b.MinX || gx > b.MaxX || gy < b.MinY || gy > b.MaxY {
			return
		}
		out = append(out, Coord{X: gx, Y: gy})
	}

	for blockX := 0; blockX < blocksX; blockX++ {
		for blockY := 0; blockY < blocksY; blockY++ {
			baseX := b.MinX + int32(blockX*8)
			baseY := b.MinY + int32(blockY*8)

			// Rows 7 down to 2: sweep local_x from 7 down to 0.
			for localY := 7; localY >= 2; localY-- {
				for localX := 7; localX >= 0; localX-- {
					emit(baseX+int32(localX), baseY+int32(localY))
				}
			}
			// Rows 1, 0: for each local_x from 7 down to 0, emit (x,1) then (x,0).
			for localX := 7; localX >= 0; localX-- {
				emit(baseX+int32(localX), baseY+1)
				emit(baseX+int32(localX), baseY+0)
			}
		}
	}

	return out
}

// Index returns get_pc_ofst_index(grid_x, grid_y, bounds): the count of
// cells the PC traversal emits strictly before this coordinate. Returns
// (0, false) if the coordinate falls outside bounds or is never emitted.
func Index(gx, gy int32, b Bounds) (int, bool) {
	for i, c := range Order(b) {
		if c.X == gx && c.Y == gy {
			return i, true
		}
	}
	return 0, false
}

// IndexMap builds a grid-coordinate -> traversal-index lookup for bounds in
// one pass, for callers that need the index of many cells
// within the same worldspace.
func IndexMap(b Bounds) map[Coord]int {
	order := Order(b)
	m := make(map[Coord]int, len(order))
	for i, c := range order {
		m[c] = i
	}
	return m
}
