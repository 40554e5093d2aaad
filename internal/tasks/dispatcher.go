package tasks

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher runs units of work asynchronously, fire-and-forget, with no
// ordering guarantee across units. A panic in one unit is recovered and
// logged without taking anything else down.
type Dispatcher struct {
	log zerolog.Logger
	wg  sync.WaitGroup
}

func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

func (d *Dispatcher) Dispatch(name string, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Str("task", name).Any("panic", r).Msg("task panicked")
			}
		}()
		d.log.Debug().Str("task", name).Msg("task dispatched")
		fn(context.Background())
	}()
}

// Wait blocks until all dispatched tasks have finished. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
