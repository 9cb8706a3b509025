// Package project persists the working document: tempo, drum grid, chord
// progression, generator settings, and the last generated pattern, as one
// JSON file edited by the TUI and consumed by the export and play commands.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/guillaumesax/patternlab/pkg/generate"
	"github.com/guillaumesax/patternlab/pkg/music"
)

const defaultTempo = 120

// Generator holds the pattern generation settings the editor exposes.
type Generator struct {
	Style      generate.Style      `json:"style"`
	Instrument generate.Instrument `json:"instrument"`
	Root       music.PitchClass    `json:"root"`
	Bars       int                 `json:"bars"`
	Density    int                 `json:"density"`
}

// Params converts the settings to generator parameters. The random source
// is left nil, so generation is freshly seeded unless the caller sets one.
func (g Generator) Params() generate.Params {
	return generate.Params{
		Style:      g.Style,
		Instrument: g.Instrument,
		Root:       g.Root,
		Bars:       g.Bars,
		Density:    g.Density,
	}
}

// Project is the persisted document.
type Project struct {
	Name        string            `json:"name"`
	Tempo       float64           `json:"tempo"`
	Grid        *music.DrumGrid   `json:"grid"`
	Progression music.Progression `json:"progression,omitempty"`
	Generator   Generator         `json:"generator"`
	Pattern     []music.Note      `json:"pattern,omitempty"`

	Path string `json:"-"` // runtime only, where the project was loaded from
}

// New returns a project with one empty bar at the default tempo.
func New(name string) *Project {
	return &Project{
		Name:  name,
		Tempo: defaultTempo,
		Grid:  music.NewDrumGrid(1),
		Generator: Generator{
			Style:      generate.StyleLoFi,
			Instrument: generate.InstrumentBass,
			Root:       music.C,
			Bars:       1,
			Density:    50,
		},
	}
}

// Load reads a project file. Decoded data is normalized, so a hand-edited
// file cannot produce ragged grid rows or out-of-range settings.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	p := New("")
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}
	p.normalize()
	p.Path = path
	return p, nil
}

// LoadOrNew loads path if it exists, otherwise returns a fresh project that
// will save there.
func LoadOrNew(path, name string) (*Project, error) {
	p, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		p = New(name)
		p.Path = path
		return p, nil
	}
	return p, err
}

// Save writes the project to path, replacing any existing file atomically.
// An empty path saves to the path the project was loaded from.
func (p *Project) Save(path string) error {
	if path == "" {
		path = p.Path
	}
	if path == "" {
		return errors.New("project has no file path")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace project file: %w", err)
	}
	p.Path = path
	return nil
}

// Clone returns a deep copy, for handing to a background save while the
// original keeps being edited.
func (p *Project) Clone() *Project {
	out := *p
	if p.Grid != nil {
		out.Grid = p.Grid.Clone()
	}
	out.Progression = p.Progression.Clone()
	out.Pattern = append([]music.Note(nil), p.Pattern...)
	return &out
}

func (p *Project) normalize() {
	if p.Tempo <= 0 {
		p.Tempo = defaultTempo
	}
	if p.Grid == nil {
		p.Grid = music.NewDrumGrid(1)
	}
	p.Grid.Normalize()
	if p.Generator.Bars < 1 {
		p.Generator.Bars = 1
	}
	p.Generator.Density = music.Clamp(p.Generator.Density, 0, 100)
}
