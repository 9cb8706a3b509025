// Package generate builds stochastic musical patterns from a handful of
// high-level parameters: style, instrument class, root key, length and
// density. The output is a plain note list ready for playback or export.
package generate

import (
	"math/rand"
	"time"

	"github.com/guillaumesax/patternlab/pkg/music"
)

// Style selects the melodic flavor of a generated pattern.
type Style string

// Supported styles.
const (
	StyleLoFi Style = "lofi"
	StyleJazz Style = "jazz"
	StylePop  Style = "pop"
	StyleFunk Style = "funk"
)

// Instrument selects the generation algorithm.
type Instrument string

// Supported instrument classes.
const (
	InstrumentBass   Instrument = "bass"
	InstrumentChords Instrument = "chords"
	InstrumentLead   Instrument = "lead"
)

// Styles lists the supported styles.
func Styles() []Style {
	return []Style{StyleLoFi, StyleJazz, StylePop, StyleFunk}
}

// Instruments lists the supported instrument classes.
func Instruments() []Instrument {
	return []Instrument{InstrumentBass, InstrumentChords, InstrumentLead}
}

const (
	bassOctave    = 2
	melodicOctave = 4

	bassVelocity  = 100
	chordVelocity = 90
	leadVelocity  = 100

	// chance of a root hit landing on the third beat of each bass bar,
	// independent of density
	bassThirdBeatChance = 0.7
)

// bassDegrees are the scale degrees a bass fill is drawn from: unison,
// third, fifth, seventh, octave.
var bassDegrees = []int{0, 2, 4, 6, 7}

// Params configures one generation call.
type Params struct {
	Style      Style
	Instrument Instrument
	Root       music.PitchClass
	Bars       int
	Density    int // 0..100
	// Rand supplies the random source; nil means a time-seeded one.
	Rand *rand.Rand
}

// ScaleFor maps a style to the scale it generates in.
func ScaleFor(s Style) string {
	switch s {
	case StylePop:
		return music.ScaleMajor
	case StyleJazz:
		return music.ScaleDorian
	case StyleFunk:
		return music.ScaleMixolydian
	default:
		return music.ScaleMinor
	}
}

// Pattern generates a note list, ordered by start step, for the given
// parameters. The result is intentionally stochastic: two calls with equal
// Params normally differ, but the structural rules below always hold.
// Degenerate input (Bars < 1, unknown instrument) yields an empty list.
func Pattern(p Params) []music.Note {
	if p.Bars < 1 {
		return nil
	}
	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	intervals, ok := music.ScaleIntervals(ScaleFor(p.Style))
	if !ok {
		return nil
	}
	density := float64(music.Clamp(p.Density, 0, 100))
	steps := p.Bars * music.StepsPerBar

	switch p.Instrument {
	case InstrumentBass:
		return bassLine(rng, intervals, p.Root.MIDI(bassOctave), steps, density)
	case InstrumentChords:
		return chordPads(rng, intervals, p.Root.MIDI(melodicOctave), steps, density)
	case InstrumentLead:
		return leadLine(rng, intervals, p.Root.MIDI(melodicOctave), steps, density)
	default:
		return nil
	}
}

// bassLine walks every sixteenth step. The first step of each bar always
// carries the root; the third beat usually does; anywhere else a note fires
// with probability density*0.5%, drawn from the consonant degree set.
func bassLine(rng *rand.Rand, intervals []int, root, steps int, density float64) []music.Note {
	var notes []music.Note
	for step := 0; step < steps; step++ {
		degree := -1
		switch {
		case step%music.StepsPerBar == 0:
			degree = 0
		case step%music.StepsPerBar == 8 && rng.Float64() < bassThirdBeatChance:
			degree = 0
		case rng.Float64() < density*0.005:
			degree = bassDegrees[rng.Intn(len(bassDegrees))]
		}
		if degree < 0 {
			continue
		}
		notes = append(notes, music.Note{
			Pitch:    music.DegreePitch(root, intervals, degree),
			Start:    step,
			Duration: 1 + rng.Intn(2),
			Velocity: bassVelocity,
		})
	}
	return notes
}

// chordPads advances two beats at a time and, with probability density%,
// stacks a triad on a random scale degree: the degree itself plus the
// degrees a third and a fifth above, held for the full two beats.
func chordPads(rng *rand.Rand, intervals []int, root, steps int, density float64) []music.Note {
	var notes []music.Note
	for step := 0; step < steps; step += 8 {
		if rng.Float64() >= density/100 {
			continue
		}
		base := rng.Intn(len(intervals))
		for _, off := range [3]int{0, 2, 4} {
			notes = append(notes, music.Note{
				Pitch:    music.DegreePitch(root, intervals, base+off),
				Start:    step,
				Duration: 8,
				Velocity: chordVelocity,
			})
		}
	}
	return notes
}

// leadLine advances an eighth note at a time with a degree cursor doing a
// bounded random walk, wrapped into a two-octave span. Each increment fires
// with probability density%.
func leadLine(rng *rand.Rand, intervals []int, root, steps int, density float64) []music.Note {
	span := 2 * len(intervals)
	degree := 0
	var notes []music.Note
	for step := 0; step < steps; step += 2 {
		degree = ((degree+rng.Intn(5)-2)%span + span) % span
		if rng.Float64() >= density/100 {
			continue
		}
		notes = append(notes, music.Note{
			Pitch:    music.DegreePitch(root, intervals, degree),
			Start:    step,
			Duration: 2,
			Velocity: leadVelocity,
		})
	}
	return notes
}
