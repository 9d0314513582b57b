package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/talgya/colonysim/internal/agents"
	"github.com/talgya/colonysim/internal/world"
)

func testSimulation(t *testing.T) *Simulation {
	t.Helper()
	tr := testTerrain(t, 8, 6, func(x, y int) bool { return y == 0 })
	g := world.NewGrid[agents.Person](8, 6)
	place(g, 2, 2, 1, 1000)
	place(g, 6, 4, 2, 1000)
	w := newWorld(tr, g, testRegistry(t, 2), quietOptions(), rand.New(rand.NewSource(1)))
	return NewSimulation(w)
}

func TestSimulationStatus(t *testing.T) {
	s := testSimulation(t)

	st := s.Status()
	if st.Width != 8 || st.Height != 6 || st.Colonies != 2 || st.Population != 2 || st.Alive != 2 {
		t.Errorf("Status() = %+v", st)
	}
	if st.LandCells != 40 {
		t.Errorf("LandCells = %d; want 40", st.LandCells)
	}
	if got := len(s.Colonies()); got != 2 {
		t.Errorf("len(Colonies()) = %d; want 2", got)
	}

	s.TickOnce(1)
	if got := s.LastReport().Tick; got != 1 {
		t.Errorf("LastReport().Tick = %d; want 1", got)
	}
	if got := s.Status().Tick; got != 1 {
		t.Errorf("Status().Tick = %d; want 1", got)
	}
}

func TestSimulationSubscribe(t *testing.T) {
	s := testSimulation(t)
	id, ch := s.Subscribe()

	s.TickOnce(1)
	select {
	case rep := <-ch:
		if rep.Tick != 1 {
			t.Errorf("received tick %d; want 1", rep.Tick)
		}
	case <-time.After(time.Second):
		t.Fatal("no report delivered")
	}

	s.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}
	s.TickOnce(2) // Must not panic on the closed channel.
}

func TestSimulationComposite(t *testing.T) {
	s := testSimulation(t)
	img := s.Composite()

	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("Composite() bounds = %v", b)
	}
	if got := img.RGBAAt(2, 2); got != s.world.Registry().Color(1) {
		t.Errorf("colony cell = %v; want colony color", got)
	}
	if got := img.RGBAAt(0, 0); got != waterColor {
		t.Errorf("empty water cell = %v; want terrain color", got)
	}
}
