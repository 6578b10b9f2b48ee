// Package controller connects dial edits and solve requests to the drawn
// path. All methods must be called from the goroutine running the event
// loop; solve requests run elsewhere and hand their answers back through
// Poll or Wait.
package controller

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Arcadaos/ffxiii2-enigme/internal/dial"
	"github.com/Arcadaos/ffxiii2-enigme/internal/geometry"
	"github.com/Arcadaos/ffxiii2-enigme/internal/route"
	"github.com/Arcadaos/ffxiii2-enigme/internal/solve"
)

// State is what the viewer currently shows.
type State int

const (
	Idle    State = iota // no dials, or the count just changed to zero
	Editing              // dials configured, no path shown
	Solved               // the last solve answered with a dial order
	Failed               // the last solve produced no dial order
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Solver answers solve requests. *solve.Client implements it.
type Solver interface {
	Solve(ctx context.Context, dials []int) solve.Result
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, dials []int) solve.Result

func (f SolverFunc) Solve(ctx context.Context, dials []int) solve.Result { return f(ctx, dials) }

// Layout places the dial ring and sizes the arrows.
type Layout struct {
	Radius float64
	Center geometry.Point
	Style  route.Style
}

// Outcome describes a solve answer that was applied to the view.
type Outcome struct {
	Token  uint64
	State  State
	Result solve.Result
	Path   route.Path
}

type completion struct {
	token      uint64
	generation uint64
	result     solve.Result
}

// Controller owns the dial store and the path derived from solve answers.
type Controller struct {
	store  *dial.Store
	solver Solver
	layout Layout
	logger *log.Logger

	results chan completion

	token      uint64 // latest issued request
	settled    uint64 // latest request whose answer arrived
	pendingGen uint64 // store generation the latest request was issued against
	issuedAt   time.Time

	state     State
	path      route.Path
	status    string
	lastErr   error
	listeners []func(Outcome)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger receiving controller diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a controller with no dials.
func New(s Solver, layout Layout, opts ...Option) *Controller {
	c := &Controller{
		store:   dial.NewStore(0),
		solver:  s,
		layout:  layout,
		logger:  log.New(io.Discard, "", 0),
		results: make(chan completion, 8),
		state:   Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDialCount replaces the dials with n zero-valued ones and clears the
// drawn path. Answers to requests issued before the change are dropped.
func (c *Controller) SetDialCount(n int) {
	c.store.SetCount(n)
	c.resetView()
}

// SetDialCountText is SetDialCount for raw form input.
func (c *Controller) SetDialCountText(raw string) {
	c.store.SetCountText(raw)
	c.resetView()
}

func (c *Controller) resetView() {
	c.path = route.Path{}
	c.status = ""
	c.lastErr = nil
	if c.store.Count() == 0 {
		c.state = Idle
	} else {
		c.state = Editing
	}
}

// SetDialValue stores raw as the value of dial index. The drawn path is kept
// until the next solve answer arrives.
func (c *Controller) SetDialValue(index int, raw string) {
	c.store.SetValue(index, raw)
}

// Solve sends the current dial values to the solver and returns the token of
// the request. Only the answer to the most recent request is ever applied.
// Answers are held until Poll or Wait collects them; canceling ctx releases
// requests nobody collects.
func (c *Controller) Solve(ctx context.Context) uint64 {
	c.token++
	tok := c.token
	gen := c.store.Generation()
	values := c.store.Values()

	c.pendingGen = gen
	c.issuedAt = time.Now()
	c.logger.Printf("solve #%d issued for %d dials", tok, len(values))

	go func() {
		res := c.solver.Solve(ctx, values)
		select {
		case c.results <- completion{token: tok, generation: gen, result: res}:
		case <-ctx.Done():
		}
	}()
	return tok
}

// Poll applies every solve answer that has arrived, without blocking.
// It reports whether the view changed.
func (c *Controller) Poll() bool {
	changed := false
	for {
		select {
		case cmp := <-c.results:
			if c.apply(cmp) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// Wait blocks until one solve answer arrives and processes it. It reports
// whether the answer changed the view.
func (c *Controller) Wait(ctx context.Context) (bool, error) {
	select {
	case cmp := <-c.results:
		return c.apply(cmp), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (c *Controller) apply(cmp completion) bool {
	if cmp.token != c.token {
		c.logger.Printf("solve #%d superseded by #%d, dropped", cmp.token, c.token)
		return false
	}
	c.settled = cmp.token
	if cmp.generation != c.store.Generation() {
		c.logger.Printf("solve #%d answered for a previous dial layout, dropped", cmp.token)
		return false
	}

	res := cmp.result
	path, err := route.Render(res, c.Positions(), c.layout.Style)
	switch {
	case err != nil:
		c.logger.Printf("solve #%d: %v", cmp.token, err)
		c.path = route.Path{}
		c.state = Failed
		c.status = solve.FailureMessage
		c.lastErr = err
	case res.IsPath():
		c.path = path
		c.state = Solved
		c.status = fmt.Sprintf("path through %d dials", len(res.Path))
		c.lastErr = nil
	default:
		c.path = route.Path{}
		c.state = Failed
		c.status = res.Message
		c.lastErr = res.Err
	}
	c.logger.Printf("solve #%d applied: %s, %d edges", cmp.token, c.state, len(c.path.Edges))

	out := Outcome{Token: cmp.token, State: c.state, Result: res, Path: c.path}
	for _, fn := range c.listeners {
		fn(out)
	}
	return true
}

// Subscribe registers fn to be called, on the event loop, for every applied
// solve answer.
func (c *Controller) Subscribe(fn func(Outcome)) {
	c.listeners = append(c.listeners, fn)
}

// Positions returns the dial centers for the current dial count.
func (c *Controller) Positions() []geometry.Point {
	return geometry.Positions(c.store.Count(), c.layout.Radius, c.layout.Center)
}

// Pending reports whether the latest request is still unanswered and was
// issued for the current dial layout.
func (c *Controller) Pending() bool {
	return c.token > c.settled && c.pendingGen == c.store.Generation()
}

// Elapsed returns how long the pending request has been running.
func (c *Controller) Elapsed() time.Duration {
	if !c.Pending() {
		return 0
	}
	return time.Since(c.issuedAt)
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Path() route.Path { return c.path }
func (c *Controller) Status() string { return c.status }
func (c *Controller) Err() error { return c.lastErr }
func (c *Controller) Count() int { return c.store.Count() }
func (c *Controller) Value(index int) int { return c.store.Value(index) }
func (c *Controller) Values() []int { return c.store.Values() }
func (c *Controller) Layout() Layout { return c.layout }

// Generation identifies the current dial layout; it changes with the count.
func (c *Controller) Generation() uint64 { return c.store.Generation() }
