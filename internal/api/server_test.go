package api

import (
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/colonysim/internal/agents"
	"github.com/talgya/colonysim/internal/colony"
	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/entropy"
	"github.com/talgya/colonysim/internal/world"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 60, G: 150, B: 60, A: 255})
		}
	}
	tr, err := world.TerrainFromImage(img, 24, 16)
	if err != nil {
		t.Fatal(err)
	}
	placer, err := colony.NewPlacer(colony.PlacerConfig{
		Mode:     colony.ModeRandom,
		Count:    3,
		Defaults: colony.DefaultDefaults(),
	}, entropy.New(5).Stream(entropy.StreamPlacement))
	if err != nil {
		t.Fatal(err)
	}
	w, err := engine.NewWorld(tr, placer, engine.Options{ReproductionThreshold: 30, Rules: agents.DefaultRules()}, entropy.New(5))
	if err != nil {
		t.Fatal(err)
	}

	s := &Server{
		Sim:      engine.NewSimulation(w),
		Eng:      engine.NewEngine(30),
		RunID:    "test-run",
		AdminKey: "secret",
	}
	return s, s.Handler()
}

func TestStatus(t *testing.T) {
	s, h := testServer(t)
	s.Sim.TickOnce(1)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d; want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["tick"] != float64(1) || body["colonies"] != float64(3) || body["run_id"] != "test-run" {
		t.Errorf("status = %v", body)
	}
}

func TestColonies(t *testing.T) {
	_, h := testServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/colonies", nil))

	var out []struct {
		ID         int    `json:"id"`
		Color      string `json:"color"`
		Population int    `json:"population"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d; want 3", len(out))
	}
	for i, c := range out {
		if c.ID != i+1 || !strings.HasPrefix(c.Color, "#") {
			t.Errorf("colony %d = %+v", i, c)
		}
	}
}

func TestSpeedRequiresAdmin(t *testing.T) {
	s, h := testServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": 4}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated POST = %d; want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": 4}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated POST = %d; want 200", rec.Code)
	}
	if s.Eng.Speed() != 4 {
		t.Errorf("Speed() = %f; want 4", s.Eng.Speed())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed": -1}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative speed = %d; want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/speed", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"speed": 4`) {
		t.Errorf("GET speed = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHistoryWithoutDatabase(t *testing.T) {
	_, h := testServer(t)
	for _, path := range []string{"/api/v1/runs", "/api/v1/stats/history"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d; want 503", path, rec.Code)
		}
	}
}

func TestMapPNG(t *testing.T) {
	_, h := testServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/map.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("map.png = %d; want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, _, err := image.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("map bounds = %v", b)
	}
}
