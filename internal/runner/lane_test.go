package runner

import "testing"

func TestRequestMoveBounds(t *testing.T) {
	lanes := NewLaneModel([]float64{-3, 0, 3})

	tests := []struct {
		name     string
		lane     int
		dir      Direction
		accepted bool
		want     int
	}{
		{"left from centre", 1, Left, true, 0},
		{"right from centre", 1, Right, true, 2},
		{"left at left edge", 0, Left, false, 0},
		{"right at right edge", 2, Right, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Player{Lane: tt.lane, X: lanes.Position(tt.lane)}
			got := lanes.RequestMove(&p, tt.dir)
			if got != tt.accepted {
				t.Errorf("RequestMove() = %v, want %v", got, tt.accepted)
			}
			if p.Lane != tt.want {
				t.Errorf("lane = %d, want %d", p.Lane, tt.want)
			}
			if p.Transitioning != tt.accepted {
				t.Errorf("transitioning = %v, want %v", p.Transitioning, tt.accepted)
			}
		})
	}
}

func TestRequestMoveIgnoredWhileTransitioning(t *testing.T) {
	lanes := NewLaneModel([]float64{-3, 0, 3})
	p := Player{Lane: 1}

	if !lanes.RequestMove(&p, Right) {
		t.Fatal("first request should be accepted")
	}
	if lanes.RequestMove(&p, Left) {
		t.Error("request during a transition should be ignored")
	}
	if p.Lane != 2 {
		t.Errorf("lane = %d, want 2", p.Lane)
	}
}

func TestLaneModelCopiesPositions(t *testing.T) {
	src := []float64{-3, 0, 3}
	lanes := NewLaneModel(src)
	src[0] = 100

	if lanes.Position(0) != -3 {
		t.Errorf("lane moved after source edit: %v", lanes.Position(0))
	}
	if lanes.Count() != 3 {
		t.Errorf("Count() = %d", lanes.Count())
	}
	if lanes.Extent() != 3 {
		t.Errorf("Extent() = %v", lanes.Extent())
	}
}

func TestLaneIndexAlwaysInRange(t *testing.T) {
	cfg := testConfig()
	r := runningRun(cfg, constRand(0.5, 0))

	moves := []func(){r.MoveLeft, r.MoveLeft, r.MoveLeft, r.MoveRight, r.MoveRight, r.MoveRight, r.MoveRight}
	for i := 0; i < 600; i++ {
		moves[i%len(moves)]()
		r.Tick(1.0 / 60)
		lane := r.Snapshot().Player.Lane
		if lane < 0 || lane >= r.Lanes().Count() {
			t.Fatalf("tick %d: lane %d out of range", i, lane)
		}
	}
}
