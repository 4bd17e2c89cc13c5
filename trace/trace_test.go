package trace

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "trace.db"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer store.Close()

	recorded := []Point{
		{Evaluation: 50, Cost: -2.3},
		{Evaluation: 100, Cost: -4.1},
		{Evaluation: 150, Cost: -7.9},
	}
	// Append out of order, Points must come back sorted.
	for _, i := range []int{1, 2, 0} {
		if err := store.Append(recorded[i].Evaluation, recorded[i].Cost); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	points, err := store.Points()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(points) != len(recorded) {
		t.Fatalf("%d %d", len(points), len(recorded))
	}
	for i, p := range points {
		if p.Evaluation != recorded[i].Evaluation || math.Abs(p.Cost-recorded[i].Cost) > 1e-12 {
			t.Fatalf("%d %#v, expected %#v", i, p, recorded[i])
		}
	}

	// Re-recording an evaluation replaces it.
	if err := store.Append(100, -5.5); err != nil {
		t.Fatalf("%+v", err)
	}
	points, err = store.Points()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(points) != len(recorded) {
		t.Fatalf("%d %d", len(points), len(recorded))
	}
	if math.Abs(points[1].Cost-(-5.5)) > 1e-12 {
		t.Fatalf("%#v", points[1])
	}
}
