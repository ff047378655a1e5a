package chrono

import (
	"context"
	"time"
)

// API is the clock the clients wait on, tests swap it out so that a
// 15 second wait does not take 15 seconds.
type API interface {
	// Sleep blocks for d or until ctx is done, whichever is first.
	Sleep(ctx context.Context, d time.Duration) error
}

type StandardImpl struct{}

func (StandardImpl) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Countdown sleeps one second at a time for the given number of seconds,
// calling tick after each one with the count of seconds elapsed so far.
func Countdown(ctx context.Context, clock API, seconds int, tick func(elapsed int)) error {
	for i := 1; i <= seconds; i++ {
		err := clock.Sleep(ctx, time.Second)
		if err != nil {
			return err
		}
		if tick != nil {
			tick(i)
		}
	}
	return nil
}
