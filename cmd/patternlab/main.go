// Package main is the entry point for the patternlab CLI
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/guillaumesax/patternlab/pkg/api"
	"github.com/guillaumesax/patternlab/pkg/config"
	"github.com/guillaumesax/patternlab/pkg/generate"
	"github.com/guillaumesax/patternlab/pkg/midi"
	"github.com/guillaumesax/patternlab/pkg/music"
	"github.com/guillaumesax/patternlab/pkg/project"
	"github.com/guillaumesax/patternlab/pkg/sequencer"
	"github.com/guillaumesax/patternlab/pkg/synth"
	"github.com/guillaumesax/patternlab/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	projectPath string
	tempo       float64
	midiPort    string
	debug       bool

	genStyle      string
	genInstrument string
	genRoot       string
	genBars       int
	genDensity    int
	genSeed       int64

	exportOutput string
	playMode     string
	serverPort   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "patternlab",
	Short: "Procedural drum grids, basslines and chord pads in the terminal",
	Long: `patternlab is a pattern workstation: edit a four-track drum grid,
generate basslines, chords and leads from a style and a root key, play
everything against a MIDI output, and export Standard MIDI Files.

Examples:
  patternlab tui
  patternlab generate --style jazz --instrument bass --root A --bars 2
  patternlab export drums -o beat.mid
  patternlab play --mode chords --midi-port fluid
  patternlab serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a melodic pattern into the project file",
	RunE:  runGenerate,
}

var exportCmd = &cobra.Command{
	Use:   "export <drums|pattern|chords>",
	Short: "Export the project as a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the project until interrupted",
	RunE:  runPlay,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive grid editor",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	cfg := config.Load()

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "f", cfg.ProjectPath, "Project file path")
	rootCmd.PersistentFlags().Float64VarP(&tempo, "tempo", "t", cfg.Tempo, "Tempo override in bpm (0 keeps the project tempo)")
	rootCmd.PersistentFlags().StringVar(&midiPort, "midi-port", cfg.MIDIPort, "MIDI output port substring (empty picks the first port)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", cfg.Debug, "Enable debug logging")

	// generate command
	generateCmd.Flags().StringVar(&genStyle, "style", "lofi", "Style (lofi, jazz, pop, funk)")
	generateCmd.Flags().StringVar(&genInstrument, "instrument", "bass", "Instrument (bass, chords, lead)")
	generateCmd.Flags().StringVar(&genRoot, "root", "C", "Root pitch class (C, C#, D, ...)")
	generateCmd.Flags().IntVar(&genBars, "bars", 1, "Pattern length in bars")
	generateCmd.Flags().IntVar(&genDensity, "density", 50, "Note density 0-100")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 seeds from the clock)")

	// export command
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output .mid file path")

	// play command
	playCmd.Flags().StringVarP(&playMode, "mode", "m", "drums", "Playback mode (drums, pattern, chords)")

	// serve command
	serveCmd.Flags().StringVarP(&serverPort, "port", "p", cfg.Port, "Server port")

	// Add commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func initLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadProject() (*project.Project, error) {
	proj, err := project.LoadOrNew(projectPath, "")
	if err != nil {
		return nil, err
	}
	if tempo > 0 {
		proj.Tempo = tempo
	}
	return proj, nil
}

// newSynth picks the MIDI backend when an output port exists and falls
// back to the note logger otherwise, so play and tui work headless.
func newSynth(clock sequencer.Clock) sequencer.Synthesizer {
	log := slog.Default()
	outs, err := drivers.Outs()
	if err != nil || len(outs) == 0 {
		log.Info("no MIDI output ports, logging notes instead")
		return synth.NewLogger(log)
	}
	return synth.NewMIDIOut(clock, midiPort, log)
}

func newPlayer(proj *project.Project, mode sequencer.Mode) *sequencer.Player {
	clock := sequencer.NewSystemClock()
	player := sequencer.NewPlayer(clock, newSynth(clock))

	player.SetTempo(proj.Tempo)
	player.SetMode(mode)
	player.SetGrid(proj.Grid)
	player.SetPattern(proj.Pattern, proj.Generator.Bars, sequencer.TimbreFor(string(proj.Generator.Instrument)))
	player.SetProgression(proj.Progression)
	return player
}

func runGenerate(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	root, err := music.ParsePitchClass(genRoot)
	if err != nil {
		return err
	}
	proj.Generator = project.Generator{
		Style:      generate.Style(strings.ToLower(genStyle)),
		Instrument: generate.Instrument(strings.ToLower(genInstrument)),
		Root:       root,
		Bars:       genBars,
		Density:    genDensity,
	}

	params := proj.Generator.Params()
	if genSeed != 0 {
		params.Rand = rand.New(rand.NewSource(genSeed))
	}
	proj.Pattern = generate.Pattern(params)

	if err := proj.Save(""); err != nil {
		return err
	}

	fmt.Printf("Generated %d notes (%s %s in %s %s) -> %s\n",
		len(proj.Pattern), proj.Generator.Style, proj.Generator.Instrument,
		proj.Generator.Root, generate.ScaleFor(proj.Generator.Style), proj.Path)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	mode, err := sequencer.ParseMode(args[0])
	if err != nil {
		return err
	}
	proj, err := loadProject()
	if err != nil {
		return err
	}

	var data []byte
	switch mode {
	case sequencer.ModePattern:
		data = midi.EncodePattern(proj.Pattern, proj.Tempo)
	case sequencer.ModeChords:
		data = midi.EncodeProgression(proj.Progression, proj.Tempo)
	default:
		data = midi.EncodeDrumGrid(proj.Grid, proj.Tempo)
	}

	output := exportOutput
	if output == "" {
		name := proj.Name
		if name == "" {
			name = "patternlab"
		}
		output = fmt.Sprintf("%s-%s.mid", name, mode)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	fmt.Printf("Exported %s -> %s\n", mode, output)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	mode, err := sequencer.ParseMode(playMode)
	if err != nil {
		return err
	}
	proj, err := loadProject()
	if err != nil {
		return err
	}

	player := newPlayer(proj, mode)
	defer player.Close()

	if err := player.Start(); err != nil {
		return err
	}
	fmt.Printf("Playing %s at %g bpm. Press Ctrl-C to stop.\n", mode, proj.Tempo)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	player := newPlayer(proj, sequencer.ModeDrums)
	defer player.Close()

	return tui.Run(proj, player, slog.Default())
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting patternlab API server on port %s...\n", serverPort)
	return api.StartServer(serverPort)
}
