package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/chocodash/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar      = '▲'
	ObstacleChar    = '▓'
	CollectibleChar = '●'
	BonusChar       = '✚'
	LaneEdgeChar    = '·'
	GroundChar      = '═'
)

// focal sets how quickly the track shrinks toward the horizon.
const focal = 12.0

// view projects world coordinates onto the screen.
type view struct {
	w, h     int
	horizon  int
	bottom   int
	halfSpan float64 // Lateral half-width, in world units, at the player's depth
	playerZ  float64
}

func newView(dst *core.Screen, lanes LaneModel, playerZ float64) view {
	halfSpan := lanes.Extent() + 1.5
	if halfSpan <= 0 {
		halfSpan = 1
	}
	return view{
		w:        dst.Width(),
		h:        dst.Height(),
		horizon:  2,
		bottom:   dst.Height() - 3,
		halfSpan: halfSpan,
		playerZ:  playerZ,
	}
}

func (v view) scale(z float64) float64 {
	d := v.playerZ - z
	if d < 0 {
		d = 0
	}
	return focal / (d + focal)
}

func (v view) project(x, z float64) (int, int) {
	s := v.scale(z)
	sy := float64(v.horizon) + float64(v.bottom-v.horizon)*s
	sx := float64(v.w)/2 + x/v.halfSpan*float64(v.w)/2*0.9*s
	return int(math.Round(sx)), int(math.Round(sy))
}

// Render draws the track, objects, player and HUD into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.run == nil || dst.Width() < 10 || dst.Height() < 8 {
		return
	}
	s := g.run.Snapshot()
	lanes := g.run.Lanes()
	v := newView(dst, lanes, s.Player.Z)

	g.drawTrack(dst, v, lanes)

	// Newest objects are the farthest; draw them first so nearer ones overdraw.
	for i := len(s.Objects) - 1; i >= 0; i-- {
		o := s.Objects[i]
		if o.Z > s.Player.Z+1 {
			continue
		}
		drawObject(dst, v, o)
	}

	px, py := v.project(s.Player.X, s.Player.Z)
	dst.SetColored(px, py, PlayerChar, core.ColorYellow)

	g.drawHUD(dst, s)

	switch s.Phase {
	case PhaseIdle:
		drawCenteredMessage(dst, g.title, "Press Enter to start", core.ColorYellow)
	case PhasePausedForCheckpoint:
		drawCenteredMessage(dst, "CHECKPOINT", "Time to test your blood sugar", core.ColorCyan)
	case PhaseEnded:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", s.Score), core.ColorRed)
	}
}

func (g *Game) drawTrack(dst *core.Screen, v view, lanes LaneModel) {
	dst.DrawHLine(0, v.horizon, v.w, '─', core.ColorGray)
	dst.DrawHLine(0, v.bottom+1, v.w, GroundChar, core.ColorBrown)

	n := lanes.Count()
	if n == 0 {
		return
	}
	// Lane edges sit halfway between neighbouring lane centres.
	var edges []float64
	spacing := 1.0
	if n > 1 {
		spacing = lanes.Position(1) - lanes.Position(0)
	}
	edges = append(edges, lanes.Position(0)-spacing/2)
	for i := 1; i < n; i++ {
		edges = append(edges, (lanes.Position(i-1)+lanes.Position(i))/2)
	}
	edges = append(edges, lanes.Position(n-1)+spacing/2)

	for y := v.horizon + 1; y <= v.bottom; y++ {
		z := v.depthAt(y)
		for _, e := range edges {
			x, _ := v.project(e, z)
			dst.SetColored(x, y, LaneEdgeChar, core.ColorGray)
		}
	}
}

// depthAt inverts project's vertical mapping.
func (v view) depthAt(y int) float64 {
	span := float64(v.bottom - v.horizon)
	s := float64(y-v.horizon) / span
	if s <= 0 {
		return v.playerZ - 1e6
	}
	return v.playerZ - (focal/s - focal)
}

func drawObject(dst *core.Screen, v view, o Object) {
	x, y := v.project(o.X, o.Z)
	r, c := ObstacleChar, core.ColorBrown
	switch o.Kind {
	case KindCollectible:
		r, c = CollectibleChar, core.ColorRed
	case KindBonus:
		r, c = BonusChar, core.ColorCyan
	}
	dst.SetColored(x, y, r, c)
	// Close objects get wider.
	if v.scale(o.Z) > 0.5 {
		dst.SetColored(x-1, y, r, c)
		dst.SetColored(x+1, y, r, c)
	}
}

func (g *Game) drawHUD(dst *core.Screen, s RunState) {
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", s.Score), core.ColorWhite)
	best := fmt.Sprintf(" Best: %d ", s.HighScore)
	dst.DrawTextColored((dst.Width()-len(best))/2, 0, best, core.ColorYellow)
	right := fmt.Sprintf(" Spd: %.1f ", s.Speed)
	if s.Lives >= 0 {
		right = fmt.Sprintf(" Lives: %d %s", s.Lives, right)
	}
	dst.DrawTextColored(dst.Width()-len(right)-2, 0, right, core.ColorWhite)

	if interval := g.cfg.Checkpoint.Interval; interval > 0 && s.Phase == PhaseRunning {
		left := int(math.Ceil(interval - s.SinceCheckpoint))
		dst.DrawTextColored(2, dst.Height()-1, fmt.Sprintf(" Next check-in: %ds ", left), core.ColorGray)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	tw, sw := len([]rune(title)), len([]rune(subtitle))
	boxW := max(tw, sw) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawBox(boxX, boxY, boxW, boxH, c)
	dst.DrawTextColored(boxX+(boxW-tw)/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-sw)/2, boxY+3, subtitle)
}
