package controller

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arcadaos/ffxiii2-enigme/internal/config"
	"github.com/Arcadaos/ffxiii2-enigme/internal/geometry"
	"github.com/Arcadaos/ffxiii2-enigme/internal/route"
	"github.com/Arcadaos/ffxiii2-enigme/internal/solve"
)

var testLayout = Layout{
	Radius: 200,
	Center: geometry.Point{X: 250, Y: 250},
	Style:  route.Style{TrimRadius: 25, ArrowSize: 10, MarkerPadding: 5},
}

// gatedSolver holds every request until the test releases an answer for
// the dial values it was sent.
type gatedSolver struct {
	mu    sync.Mutex
	gates map[string]chan solve.Result
	calls [][]int
}

func newGatedSolver() *gatedSolver {
	return &gatedSolver{gates: make(map[string]chan solve.Result)}
}

func (g *gatedSolver) gate(dials []int) chan solve.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := fmt.Sprint(dials)
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan solve.Result, 1)
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedSolver) Solve(ctx context.Context, dials []int) solve.Result {
	g.mu.Lock()
	g.calls = append(g.calls, dials)
	g.mu.Unlock()
	select {
	case res := <-g.gate(dials):
		return res
	case <-ctx.Done():
		return solve.Failed(ctx.Err())
	}
}

func (g *gatedSolver) answer(dials []int, res solve.Result) {
	g.gate(dials) <- res
}

func fixed(res solve.Result) Solver {
	return SolverFunc(func(context.Context, []int) solve.Result { return res })
}

func waitApplied(t *testing.T, c *Controller) bool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	applied, err := c.Wait(ctx)
	require.NoError(t, err)
	return applied
}

func TestInitialState(t *testing.T) {
	c := New(fixed(solve.Result{}), testLayout)
	assert.Equal(t, Idle, c.State())
	assert.Zero(t, c.Count())
	assert.Empty(t, c.Positions())
	assert.True(t, c.Path().Empty())
	assert.False(t, c.Pending())
}

func TestSolveScenario(t *testing.T) {
	var sent []int
	s := SolverFunc(func(_ context.Context, dials []int) solve.Result {
		sent = dials
		return solve.Result{Kind: solve.KindPath, Path: []int{0, 2, 1, 3}}
	})
	c := New(s, testLayout)

	c.SetDialCount(4)
	assert.Equal(t, Editing, c.State())
	for i, v := range []string{"1", "2", "3", "4"} {
		c.SetDialValue(i, v)
	}

	c.Solve(context.Background())
	assert.True(t, waitApplied(t, c))

	assert.Equal(t, []int{1, 2, 3, 4}, sent)
	assert.Equal(t, Solved, c.State())
	path := c.Path()
	require.Len(t, path.Edges, 3)
	assert.Equal(t, [2]int{0, 2}, [2]int{path.Edges[0].From, path.Edges[0].To})
	assert.Equal(t, [2]int{2, 1}, [2]int{path.Edges[1].From, path.Edges[1].To})
	assert.Equal(t, [2]int{1, 3}, [2]int{path.Edges[2].From, path.Edges[2].To})
	require.NotNil(t, path.Start)
	assert.Equal(t, c.Positions()[0], path.Start.Center)
	assert.False(t, c.Pending())
}

func TestSolveUnsolvedText(t *testing.T) {
	c := New(fixed(solve.Result{Kind: solve.KindUnsolved, Message: "no solution"}), testLayout)
	c.SetDialCount(3)

	c.Solve(context.Background())
	assert.True(t, waitApplied(t, c))

	assert.Equal(t, Failed, c.State())
	assert.True(t, c.Path().Empty())
	assert.Equal(t, "no solution", c.Status())

	// Still usable afterwards.
	c.SetDialValue(0, "2")
	assert.Equal(t, 2, c.Value(0))
	c.SetDialCount(5)
	assert.Equal(t, Editing, c.State())
}

func TestSolveTransportFailure(t *testing.T) {
	c := New(fixed(solve.Failed(errors.New("connection refused"))), testLayout)
	c.SetDialCount(2)

	c.Solve(context.Background())
	waitApplied(t, c)

	assert.Equal(t, Failed, c.State())
	assert.True(t, c.Path().Empty())
	assert.Equal(t, solve.FailureMessage, c.Status())
	assert.Error(t, c.Err())
}

func TestSolveShortPathDrawsNothing(t *testing.T) {
	for _, p := range [][]int{{}, {0}} {
		c := New(fixed(solve.Result{Kind: solve.KindPath, Path: p}), testLayout)
		c.SetDialCount(1)
		c.Solve(context.Background())
		waitApplied(t, c)

		assert.Equal(t, Solved, c.State())
		assert.Empty(t, c.Path().Edges)
		assert.Nil(t, c.Path().Start)
	}
}

func TestSolveOutOfRangeIndex(t *testing.T) {
	c := New(fixed(solve.Result{Kind: solve.KindPath, Path: []int{0, 7}}), testLayout)
	c.SetDialCount(3)
	c.Solve(context.Background())
	waitApplied(t, c)

	assert.Equal(t, Failed, c.State())
	assert.True(t, c.Path().Empty())
	assert.ErrorIs(t, c.Err(), route.ErrIndexOutOfRange)
}

func TestCountChangeClearsPath(t *testing.T) {
	c := New(fixed(solve.Result{Kind: solve.KindPath, Path: []int{0, 2, 1, 3}}), testLayout)
	c.SetDialCount(4)
	c.Solve(context.Background())
	waitApplied(t, c)
	require.False(t, c.Path().Empty())

	c.SetDialCount(2)
	assert.True(t, c.Path().Empty())
	assert.Nil(t, c.Path().Start)
	assert.Equal(t, Editing, c.State())
	assert.Equal(t, []int{0, 0}, c.Values())

	c.SetDialCountText("zero")
	assert.Equal(t, Idle, c.State())
}

func TestDialCountTextIsBounded(t *testing.T) {
	c := New(fixed(solve.Result{}), testLayout)
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"64", config.MaxDials},
		{"100000000", config.MaxDials},
		{"9223372036854775807", config.MaxDials},
		{"-9223372036854775808", 0},
	}
	for _, tt := range tests {
		require.NotPanics(t, func() { c.SetDialCountText(tt.raw) }, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, c.Count(), "raw=%q", tt.raw)
		assert.Len(t, c.Positions(), tt.want, "raw=%q", tt.raw)
	}
	assert.Equal(t, Idle, c.State())
}

func TestValueEditKeepsPath(t *testing.T) {
	c := New(fixed(solve.Result{Kind: solve.KindPath, Path: []int{0, 1}}), testLayout)
	c.SetDialCount(2)
	c.Solve(context.Background())
	waitApplied(t, c)

	c.SetDialValue(1, "5")
	assert.Equal(t, Solved, c.State())
	assert.Len(t, c.Path().Edges, 1)
}

func TestStaleAnswerAfterCountChange(t *testing.T) {
	g := newGatedSolver()
	c := New(g, testLayout)
	c.SetDialCount(4)

	c.Solve(context.Background())
	assert.True(t, c.Pending())

	c.SetDialCount(2)
	assert.False(t, c.Pending())

	g.answer([]int{0, 0, 0, 0}, solve.Result{Kind: solve.KindPath, Path: []int{0, 3, 2, 1}})
	assert.False(t, waitApplied(t, c))

	assert.True(t, c.Path().Empty())
	assert.Equal(t, Editing, c.State())
}

func TestOverlappingSolvesApplyLatestOnly(t *testing.T) {
	g := newGatedSolver()
	c := New(g, testLayout)
	c.SetDialCount(3)

	first := c.Solve(context.Background())
	c.SetDialValue(0, "1")
	second := c.Solve(context.Background())
	assert.Greater(t, second, first)

	var outcomes []Outcome
	c.Subscribe(func(o Outcome) { outcomes = append(outcomes, o) })

	g.answer([]int{1, 0, 0}, solve.Result{Kind: solve.KindPath, Path: []int{0, 1, 2}})
	assert.True(t, waitApplied(t, c))
	assert.Len(t, c.Path().Edges, 2)

	// The older request answers last and must not replace the newer path.
	g.answer([]int{0, 0, 0}, solve.Result{Kind: solve.KindUnsolved, Message: "no solution"})
	assert.False(t, waitApplied(t, c))

	assert.Equal(t, Solved, c.State())
	assert.Len(t, c.Path().Edges, 2)
	require.Len(t, outcomes, 1)
	assert.Equal(t, second, outcomes[0].Token)
}

func TestPollDoesNotBlock(t *testing.T) {
	g := newGatedSolver()
	c := New(g, testLayout)
	c.SetDialCount(2)
	c.Solve(context.Background())

	assert.False(t, c.Poll())
	assert.True(t, c.Pending())

	g.answer([]int{0, 0}, solve.Result{Kind: solve.KindPath, Path: []int{1, 0}})
	assert.Eventually(t, c.Poll, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, Solved, c.State())
	assert.Zero(t, c.Elapsed())
}

func TestUncollectedAnswersReleasedOnCancel(t *testing.T) {
	base := runtime.NumGoroutine()
	c := New(fixed(solve.Result{Kind: solve.KindPath, Path: []int{0, 1}}), testLayout)
	c.SetDialCount(2)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 20; i++ {
		c.Solve(ctx)
	}
	cancel()

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= base
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWaitCanceled(t *testing.T) {
	c := New(newGatedSolver(), testLayout)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "solved", Solved.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
