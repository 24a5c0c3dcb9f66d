package runner

import "github.com/vovakirdan/chocodash/internal/config"

// scriptedRand replays fixed draws. When a queue runs dry the last value repeats.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

func constRand(f float64, i int) *scriptedRand {
	return &scriptedRand{floats: []float64{f}, ints: []int{i}}
}

func testConfig() config.RunnerConfig {
	return config.DefaultRunnerConfig()
}

func runningRun(cfg config.RunnerConfig, rng Rand) *Run {
	r := NewRun(cfg, rng, 0, nil)
	r.CompleteRegistration()
	r.StartRun()
	return r
}
