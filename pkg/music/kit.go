package music

// DrumTrack describes one row of the drum grid: the display name, the key
// the synthesizer voices it under, the General MIDI note used on export,
// and the terminal color the TUI paints it with.
type DrumTrack struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	SynthKey string `json:"synthKey"`
	MIDINote int    `json:"midiNote"`
	Color    string `json:"color"`
}

// NumDrumTracks is the fixed number of drum grid rows.
const NumDrumTracks = 4

// kit is the fixed drum catalog. Grid rows map onto it by index.
var kit = [NumDrumTracks]DrumTrack{
	{Index: 0, Name: "Kick", SynthKey: "kick", MIDINote: 36, Color: "#E06C75"},
	{Index: 1, Name: "Snare", SynthKey: "snare", MIDINote: 38, Color: "#E5C07B"},
	{Index: 2, Name: "Hat", SynthKey: "hihat", MIDINote: 42, Color: "#98C379"},
	{Index: 3, Name: "Open Hat", SynthKey: "openhat", MIDINote: 46, Color: "#61AFEF"},
}

// Kit returns the drum track catalog in row order.
func Kit() []DrumTrack {
	out := make([]DrumTrack, NumDrumTracks)
	copy(out, kit[:])
	return out
}

// TrackBySynthKey looks up a kit entry by its synthesis key.
func TrackBySynthKey(key string) (DrumTrack, bool) {
	for _, t := range kit {
		if t.SynthKey == key {
			return t, true
		}
	}
	return DrumTrack{}, false
}
