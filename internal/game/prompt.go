package game

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ncruces/zenity"
)

type promptKind int

const (
	promptCount promptKind = iota
	promptValue
)

// promptAnswer is posted back to the event loop once a dialog closes.
type promptAnswer struct {
	kind       promptKind
	index      int    // dial index for promptValue
	generation uint64 // dial layout the dialog was opened for
	text       string
	err        error
}

// askFunc shows a text entry dialog. Overridden in tests.
type askFunc func(title, label, initial string) (string, error)

func zenityAsk(title, label, initial string) (string, error) {
	return zenity.Entry(label, zenity.Title(title), zenity.EntryText(initial))
}

// openPrompt runs a dialog off the event loop. Only one dialog is open at a time.
func (g *Game) openPrompt(kind promptKind, index int) {
	if g.prompting {
		return
	}
	g.prompting = true

	var title, label, initial string
	switch kind {
	case promptCount:
		title, label = "Number of dials", "Number of dials:"
		initial = strconv.Itoa(g.ctrl.Count())
	case promptValue:
		title, label = "Dial value", fmt.Sprintf("Value of dial %d:", index)
		initial = strconv.Itoa(g.ctrl.Value(index))
	}

	ans := promptAnswer{kind: kind, index: index, generation: g.ctrl.Generation()}
	go func() {
		ans.text, ans.err = g.ask(title, label, initial)
		g.prompts <- ans
	}()
}

// drainPrompts applies dialog answers that arrived since the last tick.
func (g *Game) drainPrompts() {
	for {
		select {
		case ans := <-g.prompts:
			g.prompting = false
			g.applyPrompt(ans)
		default:
			return
		}
	}
}

func (g *Game) applyPrompt(ans promptAnswer) {
	if ans.err != nil {
		if !errors.Is(ans.err, zenity.ErrCanceled) {
			g.lastErr = ans.err
		}
		return
	}
	switch ans.kind {
	case promptCount:
		g.ctrl.SetDialCountText(ans.text)
	case promptValue:
		if ans.generation != g.ctrl.Generation() {
			g.logger.Printf("value for dial %d entered after the dial count changed, dropped", ans.index)
			return
		}
		g.ctrl.SetDialValue(ans.index, ans.text)
	}
}
