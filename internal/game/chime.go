package game

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/Arcadaos/ffxiii2-enigme/internal/config"
	"github.com/Arcadaos/ffxiii2-enigme/internal/controller"
)

// Cue frequencies in Hz.
const (
	noteLow  = 220.00
	noteC5   = 523.25
	noteG5   = 783.99
	levelLen = 1024
)

// toneTap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the start ring can pulse with the cue that is playing.
type toneTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newToneTap(src beep.Streamer, ringSize int) *toneTap {
	return &toneTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *toneTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.buffer[t.nextIndex] = samples[i]
		t.nextIndex++
		if t.nextIndex >= len(t.buffer) {
			t.nextIndex = 0
		}
	}
	if !ok {
		// Silence the ring once the source is drained so the pulse decays.
		for i := range t.buffer {
			t.buffer[i] = [2]float64{}
		}
	}
	t.mu.Unlock()
	return n, ok
}

func (t *toneTap) Err() error { return t.Source.Err() }

// snapshot returns up to last n samples (stereo) from the ring buffer (most recent last).
func (t *toneTap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := 0; i < n; i++ {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// level returns the RMS of the most recent samples, scaled to 0..1.
func (t *toneTap) level() float64 {
	samples := t.snapshot(levelLen)
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	return clamp01(rms / config.ToneVolume * math.Sqrt2)
}

// tone returns a sine of freq Hz lasting d, fading out linearly.
func tone(sr beep.SampleRate, freq float64, d time.Duration, volume float64) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := volume * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// cueNotes picks the notes announcing a solve outcome: a rising pair when a
// path is drawn, a single note for a trivial path, a low note otherwise.
func cueNotes(o controller.Outcome) []float64 {
	switch {
	case o.State == controller.Solved && len(o.Path.Edges) > 0:
		return []float64{noteC5, noteG5}
	case o.State == controller.Solved:
		return []float64{noteC5}
	default:
		return []float64{noteLow}
	}
}

// chime plays the audio cues. The speaker is initialized on first use.
type chime struct {
	sampleRate beep.SampleRate
	initDone   bool
	tap        *toneTap
}

func newChime() *chime {
	return &chime{sampleRate: beep.SampleRate(config.SampleRate)}
}

// cue builds the streamer for notes and installs a fresh tap around it.
func (c *chime) cue(notes []float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		parts = append(parts, tone(c.sampleRate, f, config.ToneDuration, config.ToneVolume))
	}
	c.tap = newToneTap(beep.Seq(parts...), config.ToneRingSize)
	return c.tap
}

func (c *chime) play(o controller.Outcome) error {
	if !c.initDone {
		if err := speaker.Init(c.sampleRate, c.sampleRate.N(time.Second/20)); err != nil {
			return err
		}
		c.initDone = true
	}
	s := c.cue(cueNotes(o))
	speaker.Clear()
	speaker.Play(s)
	return nil
}

func (c *chime) level() float64 {
	if c == nil || c.tap == nil {
		return 0
	}
	return c.tap.level()
}
