package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	_ API = StandardImpl{}
	_ API = (*Fake)(nil)
)

func TestStandardSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := StandardImpl{}.Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestStandardSleep(t *testing.T) {
	err := StandardImpl{}.Sleep(context.Background(), time.Millisecond)
	require.NoError(t, err)
}

func TestCountdown(t *testing.T) {
	start := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	clock := NewFake(start)

	var ticks []int
	err := Countdown(context.Background(), clock, 3, func(elapsed int) {
		ticks = append(ticks, elapsed)
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, ticks)
	require.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, clock.Sleeps())
	require.Equal(t, start.Add(3*time.Second), clock.Now())
}

func TestCountdownZero(t *testing.T) {
	clock := NewFake(time.Time{})
	err := Countdown(context.Background(), clock, 0, func(int) {
		t.Fatal("tick should not be called")
	})
	require.NoError(t, err)
	require.Empty(t, clock.Sleeps())
}

func TestCountdownCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := NewFake(time.Time{})

	ticks := 0
	err := Countdown(ctx, clock, 5, func(elapsed int) {
		ticks++
		if elapsed == 2 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, ticks)
}
