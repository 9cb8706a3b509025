package music

import (
	"reflect"
	"testing"
)

func TestScaleIntervals(t *testing.T) {
	tests := []struct {
		name  string
		scale string
		want  []int
	}{
		{"major", ScaleMajor, []int{0, 2, 4, 5, 7, 9, 11}},
		{"minor", ScaleMinor, []int{0, 2, 3, 5, 7, 8, 10}},
		{"dorian", ScaleDorian, []int{0, 2, 3, 5, 7, 9, 10}},
		{"mixolydian", ScaleMixolydian, []int{0, 2, 4, 5, 7, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScaleIntervals(tt.scale)
			if !ok {
				t.Fatalf("ScaleIntervals(%q) not found", tt.scale)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScaleIntervals(%q) = %v, want %v", tt.scale, got, tt.want)
			}
		})
	}

	if _, ok := ScaleIntervals("locrian"); ok {
		t.Error("ScaleIntervals(\"locrian\") found, want miss")
	}
}

func TestScaleIntervalsReturnsCopy(t *testing.T) {
	a, _ := ScaleIntervals(ScaleMajor)
	a[0] = 99
	b, _ := ScaleIntervals(ScaleMajor)
	if b[0] != 0 {
		t.Errorf("table mutated through returned slice: got %v", b)
	}
}

func TestDegreePitch(t *testing.T) {
	major, _ := ScaleIntervals(ScaleMajor)

	tests := []struct {
		name   string
		root   int
		degree int
		want   int
	}{
		{"unison", 60, 0, 60},
		{"third", 60, 2, 64},
		{"fifth", 60, 4, 67},
		{"seventh", 60, 6, 71},
		{"octave", 60, 7, 72},
		{"ninth", 60, 8, 74},
		{"two octaves", 60, 14, 84},
		{"below root", 60, -1, 59},
		{"octave below", 60, -7, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DegreePitch(tt.root, major, tt.degree); got != tt.want {
				t.Errorf("DegreePitch(%d, major, %d) = %d, want %d", tt.root, tt.degree, got, tt.want)
			}
		})
	}
}

func TestDegreePitchEmptyScale(t *testing.T) {
	if got := DegreePitch(60, nil, 5); got != 60 {
		t.Errorf("DegreePitch with empty scale = %d, want 60", got)
	}
}

func TestScaleNamesSorted(t *testing.T) {
	names := ScaleNames()
	if len(names) < 4 {
		t.Fatalf("ScaleNames() returned %d names, want at least 4", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("ScaleNames() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
