// Package tui provides the terminal step-grid editor for patternlab
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guillaumesax/patternlab/pkg/generate"
	"github.com/guillaumesax/patternlab/pkg/midi"
	"github.com/guillaumesax/patternlab/pkg/music"
	"github.com/guillaumesax/patternlab/pkg/project"
	"github.com/guillaumesax/patternlab/pkg/sequencer"
)

// One Dark inspired color scheme, matching the kit colors
var (
	accentBlue = lipgloss.Color("#61AFEF")
	softGray   = lipgloss.Color("#ABB2BF")
	dimGray    = lipgloss.Color("#5C6370")
	darkGray   = lipgloss.Color("#282C34")
	warnYellow = lipgloss.Color("#E5C07B")
	errRed     = lipgloss.Color("#E06C75")
	okGreen    = lipgloss.Color("#98C379")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(softGray).
			Width(10)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(warnYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(okGreen)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateGrid State = iota
	StateTempo
)

const (
	maxBars       = 8
	saveDebounce  = 500 * time.Millisecond
	frameInterval = 100 * time.Millisecond
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Play     key.Binding
	Mode     key.Binding
	Generate key.Binding
	Export   key.Binding
	Tempo    key.Binding
	MoreBars key.Binding
	LessBars key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.Mode, k.Generate, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Play, k.Mode},
		{k.Generate, k.Export, k.Tempo},
		{k.MoreBars, k.LessBars, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Toggle:   key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter/x", "toggle")),
	Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/stop")),
	Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
	Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Tempo:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tempo")),
	MoreBars: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more bars")),
	LessBars: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer bars")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model represents the TUI model
type Model struct {
	proj   *project.Project
	player *sequencer.Player
	log    *slog.Logger

	state State
	mode  sequencer.Mode

	cursorTrack int
	cursorStep  int

	trackStyles []lipgloss.Style
	tempoInput  textinput.Model
	help        help.Model
	save        func(func())

	status string
	err    error
	width  int
	height int
}

// tickMsg drives UI refresh while playing
type tickMsg time.Time

// exportDoneMsg signals export completion
type exportDoneMsg struct {
	path string
	err  error
}

// New creates a new TUI model editing proj and playing through player.
func New(proj *project.Project, player *sequencer.Player, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}

	styles := make([]lipgloss.Style, 0, music.NumDrumTracks)
	for _, tr := range music.Kit() {
		styles = append(styles, lipgloss.NewStyle().Foreground(lipgloss.Color(tr.Color)))
	}

	ti := textinput.New()
	ti.Placeholder = "120"
	ti.CharLimit = 6
	ti.Width = 8

	player.SetTempo(proj.Tempo)
	player.SetGrid(proj.Grid)
	player.SetPattern(proj.Pattern, proj.Generator.Bars, sequencer.TimbreFor(string(proj.Generator.Instrument)))
	player.SetProgression(proj.Progression)

	return Model{
		proj:        proj,
		player:      player,
		log:         log,
		state:       StateGrid,
		mode:        sequencer.ModeDrums,
		trackStyles: styles,
		tempoInput:  ti,
		help:        help.New(),
		save:        debounce.New(saveDebounce),
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// scheduleSave queues a debounced background save of a project snapshot.
func (m Model) scheduleSave() {
	snap := m.proj.Clone()
	log := m.log
	m.save(func() {
		if err := snap.Save(""); err != nil {
			log.Error("failed to save project", "error", err)
		}
	})
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tick()

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.status = "exported " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateTempo:
			return m.updateTempo(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.player.Stop()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursorTrack > 0 {
			m.cursorTrack--
		}
	case key.Matches(msg, keys.Down):
		if m.cursorTrack < music.NumDrumTracks-1 {
			m.cursorTrack++
		}
	case key.Matches(msg, keys.Left):
		if m.cursorStep > 0 {
			m.cursorStep--
		}
	case key.Matches(msg, keys.Right):
		if m.cursorStep < m.proj.Grid.Steps()-1 {
			m.cursorStep++
		}

	case key.Matches(msg, keys.Toggle):
		m.proj.Grid.Toggle(m.cursorTrack, m.cursorStep)
		m.player.SetGrid(m.proj.Grid)
		m.scheduleSave()

	case key.Matches(msg, keys.Play):
		return m.togglePlayback()

	case key.Matches(msg, keys.Mode):
		m.mode = (m.mode + 1) % 3
		m.player.SetMode(m.mode)
		m.status = "mode: " + m.mode.String()

	case key.Matches(msg, keys.Generate):
		notes := generate.Pattern(m.proj.Generator.Params())
		m.proj.Pattern = notes
		m.player.SetPattern(notes, m.proj.Generator.Bars, sequencer.TimbreFor(string(m.proj.Generator.Instrument)))
		m.status = fmt.Sprintf("generated %d notes (%s %s)", len(notes), m.proj.Generator.Style, m.proj.Generator.Instrument)
		m.scheduleSave()

	case key.Matches(msg, keys.Export):
		return m, m.performExport()

	case key.Matches(msg, keys.Tempo):
		m.state = StateTempo
		m.tempoInput.SetValue(strconv.FormatFloat(m.proj.Tempo, 'f', -1, 64))
		m.tempoInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.MoreBars):
		if m.proj.Grid.Bars < maxBars {
			m.proj.Grid.SetBars(m.proj.Grid.Bars + 1)
			m.player.SetGrid(m.proj.Grid)
			m.scheduleSave()
		}
	case key.Matches(msg, keys.LessBars):
		if m.proj.Grid.Bars > 1 {
			m.proj.Grid.SetBars(m.proj.Grid.Bars - 1)
			if m.cursorStep >= m.proj.Grid.Steps() {
				m.cursorStep = m.proj.Grid.Steps() - 1
			}
			m.player.SetGrid(m.proj.Grid)
			m.scheduleSave()
		}
	}
	return m, nil
}

func (m Model) updateTempo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if bpm, err := strconv.ParseFloat(m.tempoInput.Value(), 64); err == nil && bpm > 0 {
			m.player.SetTempo(bpm)
			m.proj.Tempo = m.player.Tempo()
			m.status = fmt.Sprintf("tempo: %g bpm", m.proj.Tempo)
			m.scheduleSave()
		}
		m.state = StateGrid
		m.tempoInput.Blur()
		return m, nil
	case "esc":
		m.state = StateGrid
		m.tempoInput.Blur()
		return m, nil
	case "q", "ctrl+c":
		m.player.Stop()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.tempoInput, cmd = m.tempoInput.Update(msg)
	return m, cmd
}

func (m Model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.player.Running() {
		m.player.Stop()
		m.status = "stopped"
		return m, nil
	}

	m.player.SetTempo(m.proj.Tempo)
	m.player.SetMode(m.mode)
	m.player.SetGrid(m.proj.Grid)
	m.player.SetPattern(m.proj.Pattern, m.proj.Generator.Bars, sequencer.TimbreFor(string(m.proj.Generator.Instrument)))
	m.player.SetProgression(m.proj.Progression)

	if err := m.player.Start(); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.status = "playing " + m.mode.String()
	return m, nil
}

func (m Model) performExport() tea.Cmd {
	proj := m.proj.Clone()
	mode := m.mode
	return func() tea.Msg {
		var data []byte
		switch mode {
		case sequencer.ModePattern:
			data = midi.EncodePattern(proj.Pattern, proj.Tempo)
		case sequencer.ModeChords:
			data = midi.EncodeProgression(proj.Progression, proj.Tempo)
		default:
			data = midi.EncodeDrumGrid(proj.Grid, proj.Tempo)
		}

		name := proj.Name
		if name == "" {
			name = "patternlab"
		}
		path := fmt.Sprintf("%s-%s.mid", name, mode)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" PATTERNLAB "))
	s.WriteString("\n")
	s.WriteString(m.viewStatus())
	s.WriteString("\n\n")
	s.WriteString(boxStyle.Render(m.viewGrid()))
	s.WriteString("\n")

	if m.state == StateTempo {
		s.WriteString(statusStyle.Render("tempo: " + m.tempoInput.View()))
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		s.WriteString("\n")
	} else if m.status != "" {
		s.WriteString(successStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render(m.help.View(keys)))
	return s.String()
}

func (m Model) viewStatus() string {
	transport := "stopped"
	if m.player.Running() {
		transport = fmt.Sprintf("playing step %02d", m.player.CurrentStep())
	}
	return statusStyle.Render(fmt.Sprintf("%s · %g bpm · %d bars · mode %s",
		transport, m.proj.Tempo, m.proj.Grid.Bars, m.mode))
}

func (m Model) viewGrid() string {
	var s strings.Builder

	playhead := -1
	if m.player.Running() && m.mode == sequencer.ModeDrums {
		playhead = m.player.CurrentStep()
	}

	for row, tr := range music.Kit() {
		s.WriteString(labelStyle.Render(tr.Name))
		for step := 0; step < m.proj.Grid.Steps(); step++ {
			if step > 0 && step%music.StepsPerBar == 0 {
				s.WriteString("  ")
			} else if step > 0 && step%4 == 0 {
				s.WriteString(" ")
			}

			cell := "·"
			style := dimStyle
			if m.proj.Grid.Active(row, step) {
				cell = "█"
				style = m.trackStyles[row]
			}
			if step == playhead {
				style = style.Underline(true)
			}
			if row == m.cursorTrack && step == m.cursorStep {
				style = style.Reverse(true)
			}
			s.WriteString(style.Render(cell))
		}
		s.WriteString("\n")
	}

	return strings.TrimRight(s.String(), "\n")
}

// Run starts the TUI application
func Run(proj *project.Project, player *sequencer.Player, log *slog.Logger) error {
	p := tea.NewProgram(New(proj, player, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
