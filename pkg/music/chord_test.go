package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChordIntervals(t *testing.T) {
	assert := assert.New(t)

	iv, ok := ChordIntervals(ChordMin7)
	assert.True(ok)
	assert.Equal([]int{0, 3, 7, 10}, iv)

	iv, ok = ChordIntervals(ChordMajor)
	assert.True(ok)
	assert.Equal([]int{0, 4, 7}, iv)

	_, ok = ChordIntervals("power")
	assert.False(ok)
}

func TestNewChord(t *testing.T) {
	assert := assert.New(t)

	c := NewChord(A, ChordMinor)
	assert.NotEmpty(c.ID)
	assert.Equal(A, c.Root)
	assert.Equal(ChordMinor, c.Type)
	assert.Equal("Am", c.Name)

	d := NewChord(C, ChordMaj7)
	assert.Equal("Cmaj7", d.Name)
	assert.NotEqual(c.ID, d.ID, "every chord gets its own id")

	// unknown type falls back to a major triad
	e := NewChord(G, "power")
	assert.Equal(ChordMajor, e.Type)
	assert.Equal("G", e.Name)
}

func TestChordPitches(t *testing.T) {
	assert := assert.New(t)

	c := NewChord(C, ChordMajor)
	assert.Equal([]int{60, 64, 67}, c.Pitches(4))
	assert.Equal([]int{36, 40, 43}, c.Pitches(2))

	a := NewChord(A, ChordMin7)
	assert.Equal([]int{69, 72, 76, 79}, a.Pitches(4))
}

func TestProgressionRemove(t *testing.T) {
	assert := assert.New(t)

	p := Progression{NewChord(C, ChordMajor), NewChord(F, ChordMajor), NewChord(G, ChordDom7)}
	target := p[1].ID

	q := p.Remove(target)
	assert.Len(q, 2)
	assert.Equal(C, q[0].Root)
	assert.Equal(G, q[1].Root)
	assert.Len(p, 3, "original unchanged")

	assert.Len(p.Remove("nope"), 3)
}

func TestProgressionClone(t *testing.T) {
	p := Progression{NewChord(D, ChordMinor)}
	c := p.Clone()
	c[0].Name = "mutated"
	assert.Equal(t, "Dm", p[0].Name)
}
