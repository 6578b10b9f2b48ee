package config

import (
	"flag"
	"image/color"
	"time"
)

const (
	WindowWidth  = 500
	WindowHeight = 620

	// Top bar holding the dial count field and status line
	TopBarHeight = 60

	// Dial canvas, placed right under the top bar
	CanvasSize    = 500
	CircleRadius  = 200
	CenterX       = 250
	CenterY       = 250
	DialRadius    = 25
	ArrowSize     = 10
	MarkerPadding = 5
	EdgeWidth     = 2

	// Count field dimensions
	CountFieldX      = 20
	CountFieldY      = 12
	CountFieldWidth  = 140
	CountFieldHeight = 24

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = (WindowWidth - ButtonWidth) / 2
	ButtonY      = TopBarHeight + CanvasSize + 10

	// Audio cue parameters
	SampleRate     = 44100
	ToneRingSize   = 4096
	ToneVolume     = 0.25
	ToneDuration   = 120 * time.Millisecond
	PulseSmoothing = 0.6

	// MinWidgetDials is the lower bound the count controls enforce.
	// The dial store itself accepts zero.
	MinWidgetDials = 1
	// MaxDials caps the dial count; larger counts are clamped to it.
	MaxDials = 64
)

var (
	EdgeColor   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	MarkerColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	LabelColor  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Config holds the runtime settings of the dial viewer.
type Config struct {
	// SolverURL is the base URL of the solver; requests go to SolverURL + "/solve".
	SolverURL string
	// Timeout bounds a single solve request. Zero disables the bound.
	Timeout time.Duration
	// Mute disables the audio cue played when a solve completes.
	Mute bool
	// InitialDials is the dial count the viewer starts with.
	InitialDials int
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		SolverURL:    "http://127.0.0.1:5000",
		Timeout:      30 * time.Second,
		InitialDials: 0,
	}
}

// BindFlags registers the settings on fs, using c's current values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.SolverURL, "solver", c.SolverURL, "Base URL of the clock solver service")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Timeout for a single solve request (0 = none)")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "Disable the audio cue on solve completion")
	fs.IntVar(&c.InitialDials, "dials", c.InitialDials, "Number of dials to start with")
}
