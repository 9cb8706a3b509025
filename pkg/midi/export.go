package midi

import "github.com/guillaumesax/patternlab/pkg/music"

// chordOctave is the voicing octave for progression export.
const chordOctave = 4

// progressionVelocity is the fixed velocity of exported chord notes.
const progressionVelocity = 100

// StepTick converts a step index to its absolute tick.
func StepTick(step int) uint32 { return uint32(step) * TicksPerStep }

// addDrumGrid pushes the grid's hits onto t: channel 9, velocity 100, a
// fixed 60-tick gate per hit.
func addDrumGrid(t *Track, g *music.DrumGrid) {
	if g == nil {
		return
	}
	kit := music.Kit()
	for step := 0; step < g.Steps(); step++ {
		for _, dt := range kit {
			if !g.Active(dt.Index, step) {
				continue
			}
			t.AddNote(StepTick(step), drumHitTicks, DrumChannel, uint8(dt.MIDINote), drumVelocity)
		}
	}
}

// addPattern pushes generated notes onto t on the melodic channel, carrying
// each note's own velocity.
func addPattern(t *Track, notes []music.Note) {
	for _, n := range notes {
		t.AddNote(StepTick(n.Start), uint32(n.Duration)*TicksPerStep,
			MelodicChannel, uint8(n.Pitch), uint8(n.Velocity))
	}
}

// addProgression pushes a chord progression onto t: one bar per chord,
// every interval of the chord type held for the full bar.
func addProgression(t *Track, p music.Progression) {
	barTicks := uint32(music.StepsPerBar) * TicksPerStep
	for i, c := range p {
		start := uint32(i) * barTicks
		for _, pitch := range c.Pitches(chordOctave) {
			t.AddNote(start, barTicks, MelodicChannel, uint8(pitch), progressionVelocity)
		}
	}
}

// DrumGridTrack renders the grid as a bare track payload, for callers
// assembling multi-track files themselves.
func DrumGridTrack(g *music.DrumGrid) []byte {
	t := NewTrack()
	addDrumGrid(t, g)
	return t.Payload()
}

// PatternTrack renders a generated note list as a bare track payload.
func PatternTrack(notes []music.Note) []byte {
	t := NewTrack()
	addPattern(t, notes)
	return t.Payload()
}

// ProgressionTrack renders a chord progression as a bare track payload.
func ProgressionTrack(p music.Progression) []byte {
	t := NewTrack()
	addProgression(t, p)
	return t.Payload()
}

// EncodeDrumGrid exports the grid as a single-track format 0 file with the
// tempo inline.
func EncodeDrumGrid(g *music.DrumGrid, bpm float64) []byte {
	t := NewTrack()
	t.AddTempo(0, bpm)
	addDrumGrid(t, g)
	return File(0, t.Payload())
}

// EncodePattern exports a generated note list as a single-track format 0
// file with the tempo inline.
func EncodePattern(notes []music.Note, bpm float64) []byte {
	t := NewTrack()
	t.AddTempo(0, bpm)
	addPattern(t, notes)
	return File(0, t.Payload())
}

// EncodeProgression exports a chord progression as a single-track format 0
// file with the tempo inline.
func EncodeProgression(p music.Progression, bpm float64) []byte {
	t := NewTrack()
	t.AddTempo(0, bpm)
	addProgression(t, p)
	return File(0, t.Payload())
}
