// Package api provides the REST API server for patternlab
package api

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guillaumesax/patternlab/pkg/generate"
	"github.com/guillaumesax/patternlab/pkg/midi"
	"github.com/guillaumesax/patternlab/pkg/music"
)

// @title PatternLab API
// @version 1.0
// @description API for generating step-sequenced patterns and exporting them as Standard MIDI Files
// @host localhost:8080
// @BasePath /api/v1

// NewRouter builds the API router.
func NewRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/kit", listKit)
		v1.GET("/styles", listStyles)
		v1.GET("/scales", listScales)
		v1.GET("/chords", listChords)
		v1.POST("/generate", handleGenerate)
		v1.POST("/export/drums", handleExportDrums)
		v1.POST("/export/pattern", handleExportPattern)
		v1.POST("/export/progression", handleExportProgression)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port string) error {
	return NewRouter().Run(":" + port)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "patternlab",
	})
}

// listKit godoc
// @Summary List the drum kit
// @Description Returns the four fixed drum tracks with their MIDI notes
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/kit [get]
func listKit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kit": music.Kit()})
}

// listStyles godoc
// @Summary List generation styles and instruments
// @Description Returns the supported styles, the scale each maps to, and the instrument classes
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/styles [get]
func listStyles(c *gin.Context) {
	scaleByStyle := make(map[string]string, len(generate.Styles()))
	for _, s := range generate.Styles() {
		scaleByStyle[string(s)] = generate.ScaleFor(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"styles":      generate.Styles(),
		"instruments": generate.Instruments(),
		"scales":      scaleByStyle,
	})
}

// listScales godoc
// @Summary List scale interval tables
// @Description Returns every known scale with its semitone offsets
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/scales [get]
func listScales(c *gin.Context) {
	scales := gin.H{}
	for _, name := range music.ScaleNames() {
		iv, _ := music.ScaleIntervals(name)
		scales[name] = iv
	}
	c.JSON(http.StatusOK, gin.H{"scales": scales})
}

// listChords godoc
// @Summary List chord types and roots
// @Description Returns the known chord types and the twelve pitch class names
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/chords [get]
func listChords(c *gin.Context) {
	roots := make([]string, 12)
	for i := range roots {
		roots[i] = music.PitchClass(i).String()
	}
	c.JSON(http.StatusOK, gin.H{
		"types": music.ChordTypes(),
		"roots": roots,
	})
}

type generateRequest struct {
	Style      string `json:"style"`
	Instrument string `json:"instrument"`
	Root       string `json:"root"`
	Bars       int    `json:"bars"`
	Density    int    `json:"density"`
	Seed       int64  `json:"seed"`
}

func (r generateRequest) params() (generate.Params, error) {
	root := music.C
	if r.Root != "" {
		var err error
		root, err = music.ParsePitchClass(r.Root)
		if err != nil {
			return generate.Params{}, err
		}
	}
	bars := r.Bars
	if bars < 1 {
		bars = 1
	}
	p := generate.Params{
		Style:      generate.Style(r.Style),
		Instrument: generate.Instrument(r.Instrument),
		Root:       root,
		Bars:       bars,
		Density:    music.Clamp(r.Density, 0, 100),
	}
	if r.Seed != 0 {
		p.Rand = rand.New(rand.NewSource(r.Seed))
	}
	return p, nil
}

// handleGenerate godoc
// @Summary Generate a pattern
// @Description Generates a note list from style, instrument, root, bars and density; a non-zero seed makes the result reproducible
// @Tags generate
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/generate [post]
func handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	params, err := req.params()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notes := generate.Pattern(params)
	if notes == nil {
		notes = []music.Note{}
	}
	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"count": len(notes),
		"scale": generate.ScaleFor(params.Style),
	})
}

type exportDrumsRequest struct {
	Tempo float64         `json:"tempo"`
	Grid  *music.DrumGrid `json:"grid"`
}

// handleExportDrums godoc
// @Summary Export the drum grid as MIDI
// @Description Encodes a drum grid as a format 0 Standard MIDI File
// @Tags export
// @Accept json
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/export/drums [post]
func handleExportDrums(c *gin.Context) {
	var req exportDrumsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Grid == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No grid provided"})
		return
	}
	req.Grid.Normalize()

	sendMIDI(c, "drums.mid", midi.EncodeDrumGrid(req.Grid, req.Tempo))
}

type exportPatternRequest struct {
	Tempo float64      `json:"tempo"`
	Notes []music.Note `json:"notes"`
}

// handleExportPattern godoc
// @Summary Export a note list as MIDI
// @Description Encodes generated notes as a format 0 Standard MIDI File
// @Tags export
// @Accept json
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/export/pattern [post]
func handleExportPattern(c *gin.Context) {
	var req exportPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sendMIDI(c, "pattern.mid", midi.EncodePattern(req.Notes, req.Tempo))
}

type chordSpec struct {
	Root string `json:"root"`
	Type string `json:"type"`
}

type exportProgressionRequest struct {
	Tempo  float64     `json:"tempo"`
	Chords []chordSpec `json:"chords"`
}

// handleExportProgression godoc
// @Summary Export a chord progression as MIDI
// @Description Encodes a chord progression, one bar per chord, as a format 0 Standard MIDI File
// @Tags export
// @Accept json
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/export/progression [post]
func handleExportProgression(c *gin.Context) {
	var req exportProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prog := make(music.Progression, 0, len(req.Chords))
	for _, spec := range req.Chords {
		root, err := music.ParsePitchClass(spec.Root)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prog = append(prog, music.NewChord(root, spec.Type))
	}

	sendMIDI(c, "progression.mid", midi.EncodeProgression(prog, req.Tempo))
}

func sendMIDI(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "audio/midi", data)
}
