// Package game is the dial viewer window: it turns mouse and keyboard input
// into controller calls and draws the dial ring with the solved path.
package game

import (
	"context"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Arcadaos/ffxiii2-enigme/internal/config"
	"github.com/Arcadaos/ffxiii2-enigme/internal/controller"
	"github.com/Arcadaos/ffxiii2-enigme/internal/geometry"
	"github.com/Arcadaos/ffxiii2-enigme/internal/route"
)

type Game struct {
	ctrl   *controller.Controller
	ctx    context.Context
	logger *log.Logger

	// prompts
	ask       askFunc
	prompts   chan promptAnswer
	prompting bool

	// audio
	chime *chime

	// viz
	time  float64
	pulse float64

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool
	hoverDial     int

	lastErr error
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger receiving viewer diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithMute disables the audio cues.
func WithMute(mute bool) Option {
	return func(g *Game) {
		if mute {
			g.chime = nil
		}
	}
}

// NewGame returns a viewer driving ctrl. Solve requests inherit ctx.
func NewGame(ctx context.Context, ctrl *controller.Controller, opts ...Option) *Game {
	g := &Game{
		ctrl:      ctrl,
		ctx:       ctx,
		logger:    log.New(io.Discard, "", 0),
		ask:       zenityAsk,
		prompts:   make(chan promptAnswer, 1),
		chime:     newChime(),
		prevKey:   map[ebiten.Key]bool{},
		hoverDial: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	ctrl.Subscribe(g.onOutcome)
	return g
}

// CanvasLayout returns the dial ring and arrow sizes drawn by the viewer.
func CanvasLayout() controller.Layout {
	return controller.Layout{
		Radius: config.CircleRadius,
		Center: geometry.Point{X: config.CenterX, Y: config.CenterY},
		Style: route.Style{
			TrimRadius:    config.DialRadius,
			ArrowSize:     config.ArrowSize,
			MarkerPadding: config.MarkerPadding,
		},
	}
}

func (g *Game) Update() error {

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.ctrl.Poll()
	g.drainPrompts()

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = inButton(mouseX, mouseY)
	g.hoverDial = dialAt(g.ctrl.Positions(), toCanvas(mouseX, mouseY), config.DialRadius)

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		switch {
		case g.buttonPressed && g.buttonHovered:
			g.solve()
		case g.hoverDial >= 0:
			g.openPrompt(promptValue, g.hoverDial)
		case inCountField(mouseX, mouseY):
			g.openPrompt(promptCount, 0)
		}
		g.buttonPressed = false
	}

	if justPressed(ebiten.KeyUp) || justPressed(ebiten.KeyEqual) {
		g.stepCount(1)
	}
	if justPressed(ebiten.KeyDown) || justPressed(ebiten.KeyMinus) {
		g.stepCount(-1)
	}
	if justPressed(ebiten.KeyEnter) || justPressed(ebiten.KeyS) {
		g.solve()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.time += 1.0 / 60.0 // Assuming 60 FPS
	g.pulse = config.PulseSmoothing*g.pulse + (1-config.PulseSmoothing)*g.chime.level()

	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

func (g *Game) solve() {
	g.lastErr = nil
	g.ctrl.Solve(g.ctx)
}

// stepCount changes the dial count by delta within
// [config.MinWidgetDials, config.MaxDials].
func (g *Game) stepCount(delta int) {
	n := g.ctrl.Count() + delta
	switch {
	case n < config.MinWidgetDials:
		n = config.MinWidgetDials
	case n > config.MaxDials:
		n = config.MaxDials
	}
	if n == g.ctrl.Count() {
		return
	}
	g.ctrl.SetDialCount(n)
}

func (g *Game) onOutcome(o controller.Outcome) {
	if g.chime == nil {
		return
	}
	if err := g.chime.play(o); err != nil {
		g.logger.Printf("audio cue: %v", err)
		g.chime = nil
	}
}

// toCanvas converts window coordinates to dial canvas coordinates.
func toCanvas(x, y int) geometry.Point {
	return geometry.Point{X: float64(x), Y: float64(y - config.TopBarHeight)}
}

// toScreen converts dial canvas coordinates to window coordinates.
func toScreen(p geometry.Point) (float32, float32) {
	return float32(p.X), float32(p.Y + config.TopBarHeight)
}

// dialAt returns the index of the dial under p, or -1.
func dialAt(positions []geometry.Point, p geometry.Point, radius float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, pos := range positions {
		d := geometry.Distance(pos, p)
		if d <= radius && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func inButton(x, y int) bool {
	return x >= config.ButtonX && x <= config.ButtonX+config.ButtonWidth &&
		y >= config.ButtonY && y <= config.ButtonY+config.ButtonHeight
}

func inCountField(x, y int) bool {
	return x >= config.CountFieldX && x <= config.CountFieldX+config.CountFieldWidth &&
		y >= config.CountFieldY && y <= config.CountFieldY+config.CountFieldHeight
}
