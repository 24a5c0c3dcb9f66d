package runner

import (
	"github.com/vovakirdan/chocodash/internal/config"
	"github.com/vovakirdan/chocodash/internal/core"
)

// Resolver tests live objects against the player once per tick.
type Resolver struct {
	cfg config.CollisionConfig
}

// NewResolver creates a collision resolver.
func NewResolver(cfg config.CollisionConfig) Resolver {
	return Resolver{cfg: cfg}
}

// Resolve returns the objects that survive into the next tick and one event
// per object the player touched. Objects that passed the player untouched are
// dropped without an event. objs is not modified; the survivor slice is new.
//
// Each object is decided on its own, so the result does not depend on the
// order of objs.
func (r Resolver) Resolve(player Player, objs []Object) ([]Object, []Event) {
	survivors := make([]Object, 0, len(objs))
	var events []Event
	at := core.Vec2{X: player.X, Z: player.Z}

	for _, o := range objs {
		if z, ok := r.testPoint(o, player.Z); ok {
			if at.Distance(core.Vec2{X: o.X, Z: z}) < r.cfg.HitRadius {
				events = append(events, eventFor(o))
				continue
			}
		}
		if o.Z > r.cfg.PassLimit {
			continue // missed
		}
		survivors = append(survivors, o)
	}
	return survivors, events
}

// testPoint returns the longitudinal coordinate to test o at this tick.
// An object that left the band during this tick is still tested once, at the
// band edge, so fast objects cannot skip their collision frame.
func (r Resolver) testPoint(o Object, playerZ float64) (float64, bool) {
	near, far := r.cfg.BandNear, r.cfg.PassLimit
	switch {
	case o.Z < near:
		return 0, false
	case o.Z <= far:
		return o.Z, true
	case o.PrevZ > far:
		return 0, false
	case o.PrevZ >= near:
		return far, true
	default:
		// Crossed the whole band in one tick: test at the point closest to the player.
		return core.ClampF(playerZ, near, far), true
	}
}
