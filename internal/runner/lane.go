package runner

import "math"

// Direction is a lateral move request.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Player is the runner's position. The LaneModel writes Lane and sets
// Transitioning when a move starts; the Integrator writes X and clears
// Transitioning once X reaches the lane.
type Player struct {
	Lane          int     // Target lane index
	X             float64 // Lateral position, converging toward the lane coordinate
	Z             float64 // Longitudinal position, fixed for the whole run
	Transitioning bool
}

// LaneModel holds the static lateral coordinates of every lane.
type LaneModel struct {
	positions []float64
}

// NewLaneModel copies positions so later edits to the source slice cannot move lanes mid-run.
func NewLaneModel(positions []float64) LaneModel {
	p := make([]float64, len(positions))
	copy(p, positions)
	return LaneModel{positions: p}
}

// Count returns the number of lanes.
func (m LaneModel) Count() int {
	return len(m.positions)
}

// Position returns the lateral coordinate of lane i.
func (m LaneModel) Position(i int) float64 {
	return m.positions[i]
}

// Extent returns the largest absolute lane coordinate.
func (m LaneModel) Extent() float64 {
	var e float64
	for _, p := range m.positions {
		e = math.Max(e, math.Abs(p))
	}
	return e
}

// RequestMove retargets the player one lane in dir. Requests made while a
// lane change is still converging, or that would leave the lane range, are
// ignored. Reports whether the request was accepted.
func (m LaneModel) RequestMove(p *Player, dir Direction) bool {
	if p.Transitioning {
		return false
	}
	next := p.Lane + int(dir)
	if next < 0 || next >= len(m.positions) {
		return false
	}
	p.Lane = next
	p.Transitioning = true
	return true
}
