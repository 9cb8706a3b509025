package music

// DrumGrid is the boolean step grid: NumDrumTracks rows with Bars×StepsPerBar
// columns each. All rows always have equal length.
type DrumGrid struct {
	Bars int      `json:"bars"`
	Rows [][]bool `json:"rows"`
}

// NewDrumGrid allocates an empty grid. Bar counts below 1 are raised to 1.
func NewDrumGrid(bars int) *DrumGrid {
	if bars < 1 {
		bars = 1
	}
	g := &DrumGrid{Bars: bars, Rows: make([][]bool, NumDrumTracks)}
	for i := range g.Rows {
		g.Rows[i] = make([]bool, bars*StepsPerBar)
	}
	return g
}

// Steps returns the column count.
func (g *DrumGrid) Steps() int { return g.Bars * StepsPerBar }

// Active reports whether the cell at (track, step) is set. Out-of-range
// coordinates read as inactive.
func (g *DrumGrid) Active(track, step int) bool {
	if track < 0 || track >= len(g.Rows) {
		return false
	}
	row := g.Rows[track]
	if step < 0 || step >= len(row) {
		return false
	}
	return row[step]
}

// Set writes the cell at (track, step). Out-of-range writes are dropped.
func (g *DrumGrid) Set(track, step int, on bool) {
	if track < 0 || track >= len(g.Rows) {
		return
	}
	row := g.Rows[track]
	if step < 0 || step >= len(row) {
		return
	}
	row[step] = on
}

// Toggle flips the cell at (track, step).
func (g *DrumGrid) Toggle(track, step int) {
	g.Set(track, step, !g.Active(track, step))
}

// SetBars resizes the grid. Existing cells survive up to the shorter of the
// old and new lengths; added cells start inactive; order is never disturbed.
func (g *DrumGrid) SetBars(bars int) {
	if bars < 1 {
		bars = 1
	}
	steps := bars * StepsPerBar
	for i, row := range g.Rows {
		next := make([]bool, steps)
		copy(next, row)
		g.Rows[i] = next
	}
	g.Bars = bars
}

// Clone returns a deep copy, for snapshot reads during playback.
func (g *DrumGrid) Clone() *DrumGrid {
	out := &DrumGrid{Bars: g.Bars, Rows: make([][]bool, len(g.Rows))}
	for i, row := range g.Rows {
		out.Rows[i] = make([]bool, len(row))
		copy(out.Rows[i], row)
	}
	return out
}

// Normalize repairs the grid shape after decoding from JSON: the row count
// is forced to NumDrumTracks and every row to Bars×StepsPerBar cells,
// keeping whatever cells already exist.
func (g *DrumGrid) Normalize() {
	if g.Bars < 1 {
		g.Bars = 1
	}
	rows := make([][]bool, NumDrumTracks)
	steps := g.Steps()
	for i := range rows {
		rows[i] = make([]bool, steps)
		if i < len(g.Rows) {
			copy(rows[i], g.Rows[i])
		}
	}
	g.Rows = rows
}
