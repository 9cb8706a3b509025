package generate

import (
	"math/rand"
	"testing"

	"github.com/guillaumesax/patternlab/pkg/music"
	"github.com/stretchr/testify/assert"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StylePop, music.ScaleMajor},
		{StyleJazz, music.ScaleDorian},
		{StyleFunk, music.ScaleMixolydian},
		{StyleLoFi, music.ScaleMinor},
		{Style("unknown"), music.ScaleMinor},
	}

	for _, tt := range tests {
		if got := ScaleFor(tt.style); got != tt.want {
			t.Errorf("ScaleFor(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestPatternDegenerateInput(t *testing.T) {
	assert.Empty(t, Pattern(Params{Instrument: InstrumentBass, Bars: 0, Density: 100, Rand: seeded(1)}))
	assert.Empty(t, Pattern(Params{Instrument: InstrumentBass, Bars: -4, Density: 100, Rand: seeded(1)}))
	assert.Empty(t, Pattern(Params{Instrument: Instrument("theremin"), Bars: 2, Density: 100, Rand: seeded(1)}))
}

func TestPatternOrderedByStart(t *testing.T) {
	for _, inst := range Instruments() {
		for seed := int64(0); seed < 5; seed++ {
			notes := Pattern(Params{
				Style:      StyleJazz,
				Instrument: inst,
				Root:       music.D,
				Bars:       4,
				Density:    80,
				Rand:       seeded(seed),
			})
			for i := 1; i < len(notes); i++ {
				if notes[i-1].Start > notes[i].Start {
					t.Fatalf("%s seed %d: notes out of order at %d: %d after %d",
						inst, seed, i, notes[i].Start, notes[i-1].Start)
				}
			}
		}
	}
}

func TestBassBarStartsAlwaysRoot(t *testing.T) {
	root := music.C.MIDI(2) // 36

	for seed := int64(0); seed < 20; seed++ {
		notes := Pattern(Params{
			Style:      StyleLoFi,
			Instrument: InstrumentBass,
			Root:       music.C,
			Bars:       4,
			Density:    100,
			Rand:       seeded(seed),
		})
		for bar := 0; bar < 4; bar++ {
			start := bar * music.StepsPerBar
			found := false
			for _, n := range notes {
				if n.Start == start && n.Pitch == root {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("seed %d: bar %d has no root at step %d", seed, bar, start)
			}
		}
	}
}

func TestBassDensityZeroOnlyAnchors(t *testing.T) {
	notes := Pattern(Params{
		Style:      StyleLoFi,
		Instrument: InstrumentBass,
		Root:       music.A,
		Bars:       8,
		Density:    0,
		Rand:       seeded(7),
	})

	assert.NotEmpty(t, notes)
	root := music.A.MIDI(2)
	for _, n := range notes {
		at := n.Start % music.StepsPerBar
		assert.Contains(t, []int{0, 8}, at, "density 0 note at off-anchor step %d", n.Start)
		assert.Equal(t, root, n.Pitch, "anchor hits are always the root")
	}
}

func TestBassNoteShape(t *testing.T) {
	notes := Pattern(Params{
		Style:      StylePop,
		Instrument: InstrumentBass,
		Root:       music.E,
		Bars:       2,
		Density:    100,
		Rand:       seeded(3),
	})

	for _, n := range notes {
		assert.Equal(t, 100, n.Velocity)
		assert.GreaterOrEqual(t, n.Duration, 1)
		assert.LessOrEqual(t, n.Duration, 2)
	}
}

func TestChordPadsTriads(t *testing.T) {
	assert := assert.New(t)

	notes := Pattern(Params{
		Style:      StylePop,
		Instrument: InstrumentChords,
		Root:       music.C,
		Bars:       2,
		Density:    100,
		Rand:       seeded(11),
	})

	// density 100 fires on every 8-step increment: 4 triads over 2 bars
	assert.Len(notes, 12)
	for i := 0; i < len(notes); i += 3 {
		triad := notes[i : i+3]
		assert.Equal(triad[0].Start, triad[1].Start)
		assert.Equal(triad[0].Start, triad[2].Start)
		assert.Zero(triad[0].Start % 8)
		for _, n := range triad {
			assert.Equal(8, n.Duration)
			assert.Equal(chordVelocity, n.Velocity)
		}
		assert.Less(triad[0].Pitch, triad[1].Pitch)
		assert.Less(triad[1].Pitch, triad[2].Pitch)
	}
}

func TestLeadStaysInTwoOctaveSpan(t *testing.T) {
	root := music.G.MIDI(4)

	for seed := int64(0); seed < 10; seed++ {
		notes := Pattern(Params{
			Style:      StyleFunk,
			Instrument: InstrumentLead,
			Root:       music.G,
			Bars:       8,
			Density:    100,
			Rand:       seeded(seed),
		})
		assert.NotEmpty(t, notes)
		for _, n := range notes {
			assert.GreaterOrEqual(t, n.Pitch, root, "seed %d", seed)
			assert.Less(t, n.Pitch, root+24, "seed %d pitch %d beyond two octaves", seed, n.Pitch)
			assert.Equal(t, 2, n.Duration)
			assert.Zero(t, n.Start%2)
		}
	}
}

func TestDensityZeroMelodicSilence(t *testing.T) {
	assert.Empty(t, Pattern(Params{
		Style: StyleJazz, Instrument: InstrumentChords, Root: music.C, Bars: 4, Density: 0, Rand: seeded(5),
	}))
	assert.Empty(t, Pattern(Params{
		Style: StyleJazz, Instrument: InstrumentLead, Root: music.C, Bars: 4, Density: 0, Rand: seeded(5),
	}))
}

func TestSameSeedSameOutput(t *testing.T) {
	p := Params{Style: StyleFunk, Instrument: InstrumentLead, Root: music.F, Bars: 2, Density: 60}

	p.Rand = seeded(99)
	a := Pattern(p)
	p.Rand = seeded(99)
	b := Pattern(p)

	assert.Equal(t, a, b)
}

func TestDensityOutOfRangeClamped(t *testing.T) {
	notes := Pattern(Params{
		Style:      StylePop,
		Instrument: InstrumentChords,
		Root:       music.C,
		Bars:       1,
		Density:    900,
		Rand:       seeded(2),
	})
	// clamped to 100: both increments of the single bar fire
	assert.Len(t, notes, 6)
}
