package game

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Arcadaos/ffxiii2-enigme/internal/config"
	"github.com/Arcadaos/ffxiii2-enigme/internal/controller"
	"github.com/Arcadaos/ffxiii2-enigme/internal/geometry"
	"github.com/Arcadaos/ffxiii2-enigme/internal/route"
)

// Debug font cell size.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// whiteSubImage is the texture for filled shapes, created on first draw.
var whiteSubImage *ebiten.Image

func fillSource() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawTopBar(screen)

	// Arrows go under the dials so each one ends at a marker's edge.
	path := g.ctrl.Path()
	g.drawPath(screen, path)
	g.drawDials(screen)

	g.drawButton(screen)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	for y := 0; y < config.WindowHeight; y++ {
		ratio := float64(y) / float64(config.WindowHeight)
		r := uint8(10 + 8*math.Sin(g.time*0.5+ratio*math.Pi))
		g_val := uint8(12 + 6*math.Cos(g.time*0.3+ratio*math.Pi))
		b := uint8(24 + 10*math.Sin(g.time*0.7+ratio*math.Pi))
		vector.StrokeLine(screen, 0, float32(y), config.WindowWidth, float32(y), 1, color.RGBA{R: r, G: g_val, B: b, A: 255}, false)
	}
}

func (g *Game) drawTopBar(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, config.CountFieldX, config.CountFieldY, config.CountFieldWidth, config.CountFieldHeight, color.RGBA{R: 20, G: 25, B: 35, A: 220}, false)
	borderColor := color.RGBA{R: 60, G: 70, B: 90, A: 255}
	if g.prompting {
		borderColor = color.RGBA{R: 150, G: 170, B: 200, A: 255}
	}
	vector.StrokeRect(screen, config.CountFieldX, config.CountFieldY, config.CountFieldWidth, config.CountFieldHeight, 2, borderColor, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Number of dials: %d", g.ctrl.Count()), config.CountFieldX+6, config.CountFieldY+4)

	statusY := config.CountFieldY + config.CountFieldHeight + 4
	vector.DrawFilledCircle(screen, config.CountFieldX+4, float32(statusY+glyphHeight/2), 4, stateColor(g.ctrl.State()), true)
	ebitenutil.DebugPrintAt(screen, g.statusLine(), config.CountFieldX+12, statusY)
}

// statusLine summarizes the controller state for the top bar.
func (g *Game) statusLine() string {
	status := g.ctrl.State().String()
	switch {
	case g.ctrl.Pending():
		status = "solving " + formatDuration(g.ctrl.Elapsed())
	case g.ctrl.Status() != "":
		status += " - " + g.ctrl.Status()
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) drawPath(screen *ebiten.Image, path route.Path) {
	for _, e := range path.Edges {
		x1, y1 := toScreen(e.Start)
		x2, y2 := toScreen(e.End)
		vector.StrokeLine(screen, x1, y1, x2, y2, config.EdgeWidth, config.EdgeColor, true)
		fillTriangle(screen, e.Head, config.EdgeColor)
	}

	if path.Start != nil {
		cx, cy := toScreen(path.Start.Center)
		width := float32(1 + 3*g.pulse)
		vector.StrokeCircle(screen, cx, cy, float32(path.Start.Radius), width, config.MarkerColor, true)
	}
}

// fillTriangle draws a filled triangle given in canvas coordinates.
func fillTriangle(screen *ebiten.Image, pts [3]geometry.Point, clr color.RGBA) {
	var p vector.Path
	for i, pt := range pts {
		x, y := toScreen(pt)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	screen.DrawTriangles(vs, is, fillSource(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (g *Game) drawDials(screen *ebiten.Image) {
	for i, pos := range g.ctrl.Positions() {
		cx, cy := toScreen(pos)
		vector.DrawFilledCircle(screen, cx, cy, config.DialRadius, color.Black, true)

		value := g.ctrl.Value(i)
		outline := float32(2)
		if i == g.hoverDial {
			outline = 3
		}
		vector.StrokeCircle(screen, cx, cy, config.DialRadius, outline, dialColor(value), true)

		label := strconv.Itoa(value)
		ebitenutil.DebugPrintAt(screen, label, int(cx)-len(label)*glyphWidth/2, int(cy)-glyphHeight/2)
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	// Button background
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 59, G: 130, B: 246, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := "Solve"
	if g.ctrl.Pending() {
		text = "Solve again"
	}
	textWidth := len(text) * glyphWidth
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-glyphHeight)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// stateColor tints the status line by state.
func stateColor(s controller.State) color.RGBA {
	switch s {
	case controller.Solved:
		return color.RGBA{R: 0x44, G: 0xff, B: 0x44, A: 0xff}
	case controller.Failed:
		return color.RGBA{R: 0xff, G: 0x44, B: 0x44, A: 0xff}
	default:
		return config.LabelColor
	}
}
