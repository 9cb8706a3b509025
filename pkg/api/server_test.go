package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guillaumesax/patternlab/pkg/music"
)

func setupTestRouter() http.Handler {
	gin.SetMode(gin.TestMode)
	return NewRouter()
}

func getJSON(t *testing.T, router http.Handler, path string) map[string]interface{} {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "GET %s: %s", path, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter()

	response := getJSON(t, router, "/health")
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "patternlab", response["service"])
}

func TestListKit(t *testing.T) {
	router := setupTestRouter()

	response := getJSON(t, router, "/api/v1/kit")
	kit, ok := response["kit"].([]interface{})
	require.True(t, ok, "Response should have 'kit' array")
	require.Len(t, kit, 4)

	first, ok := kit[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Kick", first["name"])
	assert.Equal(t, float64(36), first["midiNote"])
}

func TestListStyles(t *testing.T) {
	router := setupTestRouter()

	response := getJSON(t, router, "/api/v1/styles")
	styles, ok := response["styles"].([]interface{})
	require.True(t, ok)
	assert.Len(t, styles, 4)

	scales, ok := response["scales"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "major", scales["pop"])
	assert.Equal(t, "dorian", scales["jazz"])
}

func TestListChords(t *testing.T) {
	router := setupTestRouter()

	response := getJSON(t, router, "/api/v1/chords")
	roots, ok := response["roots"].([]interface{})
	require.True(t, ok)
	require.Len(t, roots, 12)
	assert.Equal(t, "C", roots[0])
	assert.Equal(t, "B", roots[11])
}

func TestGenerateBassPattern(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/generate", map[string]interface{}{
		"style":      "lofi",
		"instrument": "bass",
		"root":       "A",
		"bars":       2,
		"density":    100,
		"seed":       42,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Notes []music.Note `json:"notes"`
		Count int          `json:"count"`
		Scale string       `json:"scale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "minor", response.Scale)
	assert.Equal(t, len(response.Notes), response.Count)
	require.NotEmpty(t, response.Notes)

	// Bar starts always carry the bass root.
	root := music.A.MIDI(2)
	for _, barStart := range []int{0, 16} {
		found := false
		for _, n := range response.Notes {
			if n.Start == barStart && n.Pitch == root {
				found = true
			}
		}
		assert.True(t, found, "no root note at bar start %d", barStart)
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	router := setupTestRouter()

	body := map[string]interface{}{
		"style":      "jazz",
		"instrument": "lead",
		"root":       "D",
		"bars":       1,
		"density":    80,
		"seed":       7,
	}
	first := postJSON(t, router, "/api/v1/generate", body)
	second := postJSON(t, router, "/api/v1/generate", body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGenerateRejectsBadRoot(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/generate", map[string]interface{}{
		"style":      "pop",
		"instrument": "bass",
		"root":       "H",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportDrums(t *testing.T) {
	router := setupTestRouter()

	grid := music.NewDrumGrid(1)
	grid.Set(0, 0, true)

	w := postJSON(t, router, "/api/v1/export/drums", map[string]interface{}{
		"tempo": 120,
		"grid":  grid,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "drums.mid")

	data := w.Body.Bytes()
	require.Greater(t, len(data), 14)
	assert.Equal(t, []byte{0x4D, 0x54, 0x68, 0x64, 0x00, 0x00, 0x00, 0x06}, data[:8])
}

func TestExportDrumsWithoutGrid(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/export/drums", map[string]interface{}{"tempo": 120})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportPattern(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/export/pattern", map[string]interface{}{
		"tempo": 100,
		"notes": []music.Note{{Pitch: 60, Start: 0, Duration: 2, Velocity: 100}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x4D, 0x54, 0x68, 0x64}, w.Body.Bytes()[:4])
}

func TestExportProgression(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/export/progression", map[string]interface{}{
		"tempo": 90,
		"chords": []map[string]string{
			{"root": "C", "type": "maj"},
			{"root": "A", "type": "min7"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "progression.mid")
	assert.Equal(t, []byte{0x4D, 0x54, 0x68, 0x64}, w.Body.Bytes()[:4])
}

func TestExportProgressionBadRoot(t *testing.T) {
	router := setupTestRouter()

	w := postJSON(t, router, "/api/v1/export/progression", map[string]interface{}{
		"tempo":  90,
		"chords": []map[string]string{{"root": "X", "type": "maj"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
