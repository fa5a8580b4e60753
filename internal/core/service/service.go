package service

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

var ErrTooFewOpts = errors.New("too few options")

var validate = validator.New(validator.WithRequiredStructEnabled())

// A submitGate suppresses re-entry of a submit while one is in flight.
type submitGate struct {
	busy atomic.Bool
}

func (g *submitGate) enter() (release func(), ok bool) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	return func() { g.busy.Store(false) }, true
}

func (g *submitGate) inFlight() bool {
	return g.busy.Load()
}

func opErr(err error, op string) error {
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
