package ports

import "github.com/benbjohnson/clock"

// Clock supplies wall time and tickers. Tests swap in clock.NewMock().
type Clock = clock.Clock

func SystemClock() Clock {
	return clock.New()
}
