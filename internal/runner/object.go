package runner

import "fmt"

// Kind is the category of a spawned object.
type Kind int

const (
	KindObstacle    Kind = iota // Costs points (and a life in the lives variant)
	KindCollectible             // Regular pickup
	KindBonus                   // Rare pickup worth more
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindCollectible:
		return "collectible"
	case KindBonus:
		return "bonus"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Object is an obstacle or pickup travelling toward the player.
// Objects are values: every tick produces new copies rather than editing old ones.
type Object struct {
	ID    uint64
	Lane  int
	Kind  Kind
	X     float64 // Lateral coordinate of Lane
	Y     float64 // Vertical offset, depends on Kind
	Z     float64 // Longitudinal coordinate, grows toward the player
	PrevZ float64 // Z before the most recent advance
}
