// Package confirm implements the two-step confirmation used before
// destructive or bulk mutations: pick parameters, review a summary, then
// submit. While a submission is outstanding the gate is locked.
package confirm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Phase is the gate's position in the flow.
type Phase int

const (
	Closed Phase = iota
	Selecting
	Confirming
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Selecting:
		return "selecting"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	// ErrBusy is returned when a submission is already outstanding.
	ErrBusy = errors.New("submission already in progress")
	// ErrNotConfirming is returned when nothing awaits confirmation.
	ErrNotConfirming = errors.New("nothing to confirm")
)

// Options wire a Gate to its mutation.
type Options[P any] struct {
	// Describe renders the confirmation summary for params.
	Describe func(P) string
	// Mutate performs the mutation. Used by Confirm only.
	Mutate func(context.Context, P) error
	// OnSuccess runs after a successful submission, outside the gate's lock.
	OnSuccess  func(P)
	ErrMessage func(error) string
}

// View is a snapshot of a Gate.
type View[P any] struct {
	Phase  Phase
	Params P
	Prompt string
	Err    string
}

// Open reports whether the gate's surface should be shown.
func (v View[P]) Open() bool {
	return v.Phase != Closed
}

// Locked reports whether the surface must ignore dismissal.
func (v View[P]) Locked() bool {
	return v.Phase == Submitting
}

// Gate holds one confirmation flow.
type Gate[P any] struct {
	opts Options[P]

	mu     sync.Mutex
	phase  Phase
	params P
	prompt string
	err    string
}

// New builds a closed Gate.
func New[P any](opts Options[P]) *Gate[P] {
	if opts.ErrMessage == nil {
		opts.ErrMessage = func(err error) string {
			if msg := strings.TrimSpace(err.Error()); msg != "" {
				return msg
			}
			return "request failed"
		}
	}
	return &Gate[P]{opts: opts}
}

// Open starts the selection step.
func (g *Gate[P]) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == Submitting {
		return false
	}
	var zero P
	g.phase = Selecting
	g.params = zero
	g.prompt = ""
	g.err = ""
	return true
}

// Submit records params and moves to the confirmation step.
func (g *Gate[P]) Submit(params P) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == Submitting {
		return false
	}
	g.phase = Confirming
	g.params = params
	g.err = ""
	if g.opts.Describe != nil {
		g.prompt = g.opts.Describe(params)
	} else {
		g.prompt = ""
	}
	return true
}

// Back returns from confirmation to selection.
func (g *Gate[P]) Back() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != Confirming {
		return false
	}
	g.phase = Selecting
	g.err = ""
	return true
}

// Cancel closes the gate unless a submission is outstanding.
func (g *Gate[P]) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == Submitting || g.phase == Closed {
		return false
	}
	var zero P
	g.phase = Closed
	g.params = zero
	g.prompt = ""
	g.err = ""
	return true
}

// Begin locks the gate for submission and returns the confirmed params. It
// fails when the gate is not awaiting confirmation, which includes a
// submission already in flight.
func (g *Gate[P]) Begin() (P, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != Confirming {
		var zero P
		return zero, false
	}
	g.phase = Submitting
	g.err = ""
	return g.params, true
}

// Finish resolves the outstanding submission. A failure returns to the
// confirmation step with the error shown inline. Success closes the gate and
// runs OnSuccess.
func (g *Gate[P]) Finish(err error) bool {
	g.mu.Lock()
	if g.phase != Submitting {
		g.mu.Unlock()
		return false
	}
	if err != nil {
		g.phase = Confirming
		g.err = g.opts.ErrMessage(err)
		g.mu.Unlock()
		return true
	}
	params := g.params
	var zero P
	g.phase = Closed
	g.params = zero
	g.prompt = ""
	g.err = ""
	g.mu.Unlock()

	if g.opts.OnSuccess != nil {
		g.opts.OnSuccess(params)
	}
	return true
}

// Confirm runs Begin, Mutate and Finish in sequence.
func (g *Gate[P]) Confirm(ctx context.Context) error {
	params, ok := g.Begin()
	if !ok {
		if g.Snapshot().Phase == Submitting {
			return ErrBusy
		}
		return ErrNotConfirming
	}
	var err error
	if g.opts.Mutate != nil {
		err = g.opts.Mutate(ctx, params)
	}
	g.Finish(err)
	return err
}

// Snapshot returns the gate's current view.
func (g *Gate[P]) Snapshot() View[P] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return View[P]{Phase: g.phase, Params: g.params, Prompt: g.prompt, Err: g.err}
}
