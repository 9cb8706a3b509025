package music

import "sort"

// Scale names understood by ScaleIntervals.
const (
	ScaleMajor           = "major"
	ScaleMinor           = "minor"
	ScaleDorian          = "dorian"
	ScaleMixolydian      = "mixolydian"
	ScaleMajorPentatonic = "majorPentatonic"
	ScaleMinorPentatonic = "minorPentatonic"
)

// scaleIntervals maps a scale name to its semitone offsets from the root.
// The tables are fixed configuration data; lookups hand out copies.
var scaleIntervals = map[string][]int{
	ScaleMajor:           {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:           {0, 2, 3, 5, 7, 8, 10},
	ScaleDorian:          {0, 2, 3, 5, 7, 9, 10},
	ScaleMixolydian:      {0, 2, 4, 5, 7, 9, 10},
	ScaleMajorPentatonic: {0, 2, 4, 7, 9},
	ScaleMinorPentatonic: {0, 3, 5, 7, 10},
}

// ScaleIntervals returns the semitone offsets for a named scale.
func ScaleIntervals(name string) ([]int, bool) {
	iv, ok := scaleIntervals[name]
	if !ok {
		return nil, false
	}
	out := make([]int, len(iv))
	copy(out, iv)
	return out, true
}

// ScaleNames lists the known scales in alphabetical order.
func ScaleNames() []string {
	names := make([]string, 0, len(scaleIntervals))
	for name := range scaleIntervals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DegreePitch converts a scale degree to a MIDI note number relative to a
// root note. Degrees past the scale length continue into upper octaves;
// negative degrees descend.
func DegreePitch(root int, intervals []int, degree int) int {
	if len(intervals) == 0 {
		return root
	}
	octave := degree / len(intervals)
	idx := degree % len(intervals)
	if idx < 0 {
		idx += len(intervals)
		octave--
	}
	return root + 12*octave + intervals[idx]
}
