package music

import (
	"sort"

	"github.com/google/uuid"
)

// Chord type names understood by ChordIntervals.
const (
	ChordMajor = "maj"
	ChordMinor = "min"
	ChordDim   = "dim"
	ChordAug   = "aug"
	ChordSus2  = "sus2"
	ChordSus4  = "sus4"
	ChordMin7  = "min7"
	ChordMaj7  = "maj7"
	ChordDom7  = "dom7"
)

// chordIntervals maps a chord type to its semitone offsets from the root.
var chordIntervals = map[string][]int{
	ChordMajor: {0, 4, 7},
	ChordMinor: {0, 3, 7},
	ChordDim:   {0, 3, 6},
	ChordAug:   {0, 4, 8},
	ChordSus2:  {0, 2, 7},
	ChordSus4:  {0, 5, 7},
	ChordMin7:  {0, 3, 7, 10},
	ChordMaj7:  {0, 4, 7, 11},
	ChordDom7:  {0, 4, 7, 10},
}

// chordSuffixes are the display suffixes per chord type ("Am", "Cmaj7").
var chordSuffixes = map[string]string{
	ChordMajor: "",
	ChordMinor: "m",
	ChordDim:   "dim",
	ChordAug:   "aug",
	ChordSus2:  "sus2",
	ChordSus4:  "sus4",
	ChordMin7:  "m7",
	ChordMaj7:  "maj7",
	ChordDom7:  "7",
}

// ChordIntervals returns the semitone offsets for a chord type.
func ChordIntervals(chordType string) ([]int, bool) {
	iv, ok := chordIntervals[chordType]
	if !ok {
		return nil, false
	}
	out := make([]int, len(iv))
	copy(out, iv)
	return out, true
}

// ChordTypes lists the known chord types in alphabetical order.
func ChordTypes() []string {
	names := make([]string, 0, len(chordIntervals))
	for name := range chordIntervals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chord is one entry of a progression. The ID is assigned on creation and
// stays stable across edits, for the benefit of list UIs.
type Chord struct {
	ID   string     `json:"id"`
	Root PitchClass `json:"root"`
	Type string     `json:"type"`
	Name string     `json:"name"`
}

// NewChord builds a chord of the given type on a root pitch class. Unknown
// types fall back to a major triad.
func NewChord(root PitchClass, chordType string) Chord {
	if _, ok := chordIntervals[chordType]; !ok {
		chordType = ChordMajor
	}
	return Chord{
		ID:   uuid.NewString(),
		Root: root,
		Type: chordType,
		Name: root.String() + chordSuffixes[chordType],
	}
}

// Pitches voices the chord in the given octave, one MIDI note per interval.
func (c Chord) Pitches(octave int) []int {
	iv, ok := chordIntervals[c.Type]
	if !ok {
		iv = chordIntervals[ChordMajor]
	}
	root := c.Root.MIDI(octave)
	out := make([]int, len(iv))
	for i, off := range iv {
		out[i] = root + off
	}
	return out
}

// Progression is an ordered chord sequence. Each chord occupies exactly one
// bar when played or exported; slice order is playback order.
type Progression []Chord

// Remove returns the progression without the chord carrying the given ID.
func (p Progression) Remove(id string) Progression {
	out := make(Progression, 0, len(p))
	for _, c := range p {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a copy of the progression.
func (p Progression) Clone() Progression {
	out := make(Progression, len(p))
	copy(out, p)
	return out
}
