package runner

import "github.com/vovakirdan/chocodash/internal/config"

// Event is an outcome produced by the collision resolver.
type Event interface {
	Object() Object
	outcomeEvent()
}

// ObstacleHit is emitted when the player runs into an obstacle.
type ObstacleHit struct {
	Obj Object
}

func (e ObstacleHit) Object() Object { return e.Obj }
func (ObstacleHit) outcomeEvent()    {}

// CollectibleGoodPicked is emitted when the player picks up a regular collectible.
type CollectibleGoodPicked struct {
	Obj Object
}

func (e CollectibleGoodPicked) Object() Object { return e.Obj }
func (CollectibleGoodPicked) outcomeEvent()    {}

// CollectibleBonusPicked is emitted when the player picks up a bonus collectible.
type CollectibleBonusPicked struct {
	Obj Object
}

func (e CollectibleBonusPicked) Object() Object { return e.Obj }
func (CollectibleBonusPicked) outcomeEvent()    {}

// eventFor wraps a resolved object in the event matching its kind.
func eventFor(o Object) Event {
	switch o.Kind {
	case KindCollectible:
		return CollectibleGoodPicked{Obj: o}
	case KindBonus:
		return CollectibleBonusPicked{Obj: o}
	default:
		return ObstacleHit{Obj: o}
	}
}

// ScoreDelta returns the score change an event applies.
func ScoreDelta(cfg config.ScoringConfig, ev Event) int {
	switch ev.(type) {
	case ObstacleHit:
		return cfg.ObstacleHit
	case CollectibleGoodPicked:
		return cfg.Collectible
	case CollectibleBonusPicked:
		return cfg.Bonus
	default:
		return 0
	}
}
