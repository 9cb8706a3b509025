// Package music defines the shared data model for patternlab: notes, pitch
// classes, scale and chord interval tables, the drum kit, and the step grid.
//
// All musical time is measured in sixteenth-note steps. Everything in this
// package is plain data; playback and encoding live elsewhere.
package music

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// StepsPerBar is the native grid resolution: sixteen sixteenth-note steps.
const StepsPerBar = 16

// Note is a single scheduled note. Start and Duration count sixteenth-note
// steps from the pattern origin; Pitch and Velocity are MIDI ranges (0-127).
// Generated note lists are replaced wholesale, never patched in place.
type Note struct {
	Pitch    int `json:"pitch"`
	Start    int `json:"start"`
	Duration int `json:"duration"`
	Velocity int `json:"velocity"`
}

// PitchClass is one of the 12 chromatic pitch classes, C = 0.
type PitchClass int

// The 12 pitch classes.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Flat spellings accepted by ParsePitchClass.
var flatNames = map[string]PitchClass{
	"DB": CSharp,
	"EB": DSharp,
	"GB": FSharp,
	"AB": GSharp,
	"BB": ASharp,
}

// String returns the sharp spelling of the pitch class.
func (p PitchClass) String() string {
	if p < 0 || p > 11 {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}
	return pitchClassNames[p]
}

// MIDI returns the MIDI note number of the pitch class in the given octave,
// using the convention where C4 = 60.
func (p PitchClass) MIDI(octave int) int {
	return (octave+1)*12 + int(p)
}

// ParsePitchClass reads a pitch class name such as "C", "F#" or "Bb".
func ParsePitchClass(s string) (PitchClass, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range pitchClassNames {
		if name == n {
			return PitchClass(i), nil
		}
	}
	if p, ok := flatNames[name]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown pitch class %q", s)
}

// MarshalJSON encodes the pitch class as its name.
func (p PitchClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a pitch class name or a semitone number.
func (p *PitchClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		pc, err := ParsePitchClass(s)
		if err != nil {
			return err
		}
		*p = pc
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid pitch class %s", string(data))
	}
	if n < 0 || n > 11 {
		return fmt.Errorf("pitch class out of range: %d", n)
	}
	*p = PitchClass(n)
	return nil
}

// PitchName returns a readable name like "C#4" for a MIDI note number.
func PitchName(pitch int) string {
	return fmt.Sprintf("%s%d", pitchClassNames[((pitch%12)+12)%12], pitch/12-1)
}

// Clamp limits v to the range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
