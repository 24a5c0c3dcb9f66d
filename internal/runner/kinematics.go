package runner

import (
	"math"

	"github.com/vovakirdan/chocodash/internal/config"
	"github.com/vovakirdan/chocodash/internal/core"
)

// Integrator advances speed, the player's lateral position and every live object.
type Integrator struct {
	kin   config.KinematicsConfig
	rate  float64
	eps   float64
	lanes LaneModel
}

// NewIntegrator creates an integrator for the given lanes.
func NewIntegrator(kin config.KinematicsConfig, player config.PlayerConfig, lanes LaneModel) Integrator {
	return Integrator{
		kin:   kin,
		rate:  player.LaneChangeRate,
		eps:   player.ArriveEpsilon,
		lanes: lanes,
	}
}

// Speed returns speed advanced by dt seconds of acceleration, capped at the maximum.
func (in Integrator) Speed(speed, dt float64) float64 {
	if dt <= 0 {
		return speed
	}
	return math.Min(in.kin.MaxSpeed, speed+dt*in.kin.Acceleration)
}

// MovePlayer interpolates the player toward its target lane. The rate does not
// depend on speed.
func (in Integrator) MovePlayer(p Player, dt float64) Player {
	if dt <= 0 {
		return p
	}
	target := in.lanes.Position(p.Lane)
	p.X = core.Lerp(p.X, target, dt*in.rate)
	if math.Abs(p.X-target) < in.eps {
		p.Transitioning = false
	}
	return p
}

// AdvanceObjects returns a new slice with every object moved dt*speed toward the player.
// The input slice is left untouched. Spare capacity is reserved for a spawn wave.
func (in Integrator) AdvanceObjects(objs []Object, speed, dt float64) []Object {
	out := make([]Object, len(objs), len(objs)+in.lanes.Count())
	step := dt * speed
	if dt <= 0 {
		step = 0
	}
	for i, o := range objs {
		o.PrevZ = o.Z
		o.Z += step
		out[i] = o
	}
	return out
}
