package music

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDrumGridShape(t *testing.T) {
	assert := assert.New(t)

	g := NewDrumGrid(2)
	assert.Equal(2, g.Bars)
	assert.Len(g.Rows, NumDrumTracks)
	for _, row := range g.Rows {
		assert.Len(row, 32)
	}

	assert.Equal(1, NewDrumGrid(0).Bars, "bar counts below 1 are raised")
	assert.Equal(1, NewDrumGrid(-3).Bars)
}

func TestDrumGridSetToggleActive(t *testing.T) {
	assert := assert.New(t)

	g := NewDrumGrid(1)
	g.Set(0, 4, true)
	assert.True(g.Active(0, 4))

	g.Toggle(0, 4)
	assert.False(g.Active(0, 4))

	g.Toggle(3, 15)
	assert.True(g.Active(3, 15))

	// out-of-range access neither panics nor reads true
	g.Set(7, 0, true)
	g.Set(0, 99, true)
	assert.False(g.Active(7, 0))
	assert.False(g.Active(0, 99))
	assert.False(g.Active(-1, -1))
}

func TestDrumGridResizePreservesCells(t *testing.T) {
	for _, bars := range []int{1, 2, 4, 8} {
		for _, next := range []int{1, 2, 4, 8} {
			g := NewDrumGrid(bars)
			for track := 0; track < NumDrumTracks; track++ {
				for step := track; step < g.Steps(); step += 3 {
					g.Set(track, step, true)
				}
			}
			before := g.Clone()

			g.SetBars(next)

			assert.Equal(t, next*StepsPerBar, g.Steps(), "resize %d->%d", bars, next)
			keep := min(bars, next) * StepsPerBar
			for track := 0; track < NumDrumTracks; track++ {
				for step := 0; step < keep; step++ {
					assert.Equal(t, before.Active(track, step), g.Active(track, step),
						"resize %d->%d cell (%d,%d)", bars, next, track, step)
				}
				for step := keep; step < g.Steps(); step++ {
					assert.False(t, g.Active(track, step),
						"resize %d->%d new cell (%d,%d) should be inactive", bars, next, track, step)
				}
			}
		}
	}
}

func TestDrumGridCloneIsDeep(t *testing.T) {
	g := NewDrumGrid(1)
	g.Set(1, 2, true)

	c := g.Clone()
	c.Set(1, 2, false)
	c.Set(0, 0, true)

	assert.True(t, g.Active(1, 2))
	assert.False(t, g.Active(0, 0))
}

func TestDrumGridNormalize(t *testing.T) {
	assert := assert.New(t)

	var g DrumGrid
	if err := json.Unmarshal([]byte(`{"bars":1,"rows":[[true,false],[true]]}`), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	g.Normalize()

	assert.Len(g.Rows, NumDrumTracks)
	for _, row := range g.Rows {
		assert.Len(row, StepsPerBar)
	}
	assert.True(g.Active(0, 0))
	assert.True(g.Active(1, 0))
	assert.False(g.Active(0, 1))

	empty := DrumGrid{}
	empty.Normalize()
	assert.Equal(1, empty.Bars)
	assert.Len(empty.Rows, NumDrumTracks)
}
