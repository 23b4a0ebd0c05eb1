package marketplace

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrSuperseded is returned by a fetch whose response arrived after a newer
// fetch of the same view was started. The stale response is discarded.
var ErrSuperseded = errors.New("marketplace: response superseded by a newer request")

// ErrNotConfirmed is returned when a destructive action was declined. No
// request is sent.
var ErrNotConfirmed = errors.New("marketplace: action not confirmed")

// Confirmer is the yes/no gate in front of destructive actions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil {
		return ErrNotConfirmed
	}
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}

// generation tags each fetch of a view. Only the response of the most recent
// fetch may be applied.
type generation struct {
	n atomic.Uint64
}

func (g *generation) next() uint64 { return g.n.Add(1) }

func (g *generation) current(tag uint64) bool { return g.n.Load() == tag }
