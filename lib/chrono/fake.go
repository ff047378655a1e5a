package chrono

import (
	"context"
	"sync"
	"time"
)

// Fake is an API whose time only moves when Sleep is called.
type Fake struct {
	mutex  sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now is the start time plus every duration slept so far.
func (f *Fake) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = f.now.Add(d)
	f.sleeps = append(f.sleeps, d)
	return nil
}

// Sleeps returns every duration passed to Sleep, in order.
func (f *Fake) Sleeps() []time.Duration {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}
