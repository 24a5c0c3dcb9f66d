package runner

import (
	"math"

	"github.com/vovakirdan/chocodash/internal/config"
)

// Rand is the randomness the spawner draws from. *math/rand.Rand satisfies it,
// and tests can script exact draws.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Spawner emits waves of objects at the spawn line whenever its countdown expires.
//
// A wave never puts two objects in one lane, never reuses a lane already
// occupied near the spawn line, and never lets one kind reach the streak limit
// within the row.
type Spawner struct {
	cfg       config.SpawnerConfig
	lanes     LaneModel
	rng       Rand
	nextID    uint64
	countdown float64
}

// NewSpawner creates a spawner. The first wave is due on the first update.
func NewSpawner(cfg config.SpawnerConfig, lanes LaneModel, rng Rand) *Spawner {
	return &Spawner{cfg: cfg, lanes: lanes, rng: rng}
}

// Reset makes the next wave due immediately. Object ids keep increasing.
func (s *Spawner) Reset() {
	s.countdown = 0
}

// Update runs the countdown for dt seconds and returns the wave spawned this
// tick, if any. live is only read.
func (s *Spawner) Update(dt float64, live []Object) []Object {
	s.countdown -= dt
	if s.countdown > 0 {
		return nil
	}
	wave := s.SpawnWave(s.NearSpawnLine(live))
	s.countdown = s.cfg.MinInterval + s.rng.Float64()*s.cfg.IntervalJitter
	return wave
}

// NearSpawnLine returns the live objects close enough to the spawn line to
// count as part of the row being built.
func (s *Spawner) NearSpawnLine(live []Object) []Object {
	var near []Object
	for _, o := range live {
		if math.Abs(o.Z-s.cfg.SpawnDistance) < s.cfg.WaveBand {
			near = append(near, o)
		}
	}
	return near
}

// SpawnWave builds one wave next to the given row occupants.
func (s *Spawner) SpawnWave(row []Object) []Object {
	laneCount := s.lanes.Count()
	occupied := make([]bool, laneCount)
	var counts [kindCount]int
	preOccupied := 0
	for _, o := range row {
		if o.Lane >= 0 && o.Lane < laneCount && !occupied[o.Lane] {
			occupied[o.Lane] = true
			preOccupied++
		}
		counts[o.Kind]++
	}

	available := make([]int, 0, laneCount)
	for i := 0; i < laneCount; i++ {
		if !occupied[i] {
			available = append(available, i)
		}
	}

	// Both promotion rolls are always drawn so the random stream does not
	// depend on which branch was taken.
	pairRoll := s.rng.Float64()
	fillRoll := s.rng.Float64()
	if len(available) == 0 {
		return nil
	}

	size := 1
	if pairRoll < s.cfg.PairProbability && len(available) >= 2 {
		size = 2
	}
	if fillRoll < s.cfg.FillProbability && preOccupied == 0 {
		size = laneCount
	}
	if size > len(available) {
		size = len(available)
	}

	wave := make([]Object, 0, size)
	for i := 0; i < size; i++ {
		kind, ok := s.pickKind(&counts)
		if !ok {
			break // every kind hit the streak limit; a smaller wave is fine
		}
		pick := s.rng.Intn(len(available))
		lane := available[pick]
		available = append(available[:pick], available[pick+1:]...)

		s.nextID++
		wave = append(wave, Object{
			ID:    s.nextID,
			Lane:  lane,
			Kind:  kind,
			X:     s.lanes.Position(lane),
			Y:     s.height(kind),
			Z:     s.cfg.SpawnDistance,
			PrevZ: s.cfg.SpawnDistance,
		})
	}
	return wave
}

// pickKind draws a kind from the base weights with every kind at the streak
// limit removed and the rest renormalised, then counts it.
func (s *Spawner) pickKind(counts *[kindCount]int) (Kind, bool) {
	base := [kindCount]float64{
		KindObstacle:    s.cfg.Weights.Obstacle,
		KindCollectible: s.cfg.Weights.Collectible,
		KindBonus:       s.cfg.Weights.Bonus,
	}

	var weights [kindCount]float64
	total := 0.0
	last := Kind(-1)
	for k := Kind(0); k < kindCount; k++ {
		if counts[k] >= s.cfg.StreakLimit || base[k] <= 0 {
			continue
		}
		weights[k] = base[k]
		total += base[k]
		last = k
	}
	if total <= 0 {
		return 0, false
	}

	r := s.rng.Float64() * total
	chosen := last // guards against rounding at the top of the range
	acc := 0.0
	for k := Kind(0); k < kindCount; k++ {
		if weights[k] == 0 {
			continue
		}
		acc += weights[k]
		if r < acc {
			chosen = k
			break
		}
	}
	counts[chosen]++
	return chosen, true
}

func (s *Spawner) height(k Kind) float64 {
	if k == KindObstacle {
		return s.cfg.Heights.Obstacle
	}
	return s.cfg.Heights.Pickup
}
