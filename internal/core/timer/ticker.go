package timer

import "time"

// Ticker is a periodic tick source. Stop must release every resource the
// ticker holds.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every interval.
type TickerFactory func(interval time.Duration) Ticker

type wallTicker struct {
	ticker *time.Ticker
}

// NewWallTicker returns a Ticker backed by time.Ticker.
func NewWallTicker(interval time.Duration) Ticker {
	return &wallTicker{ticker: time.NewTicker(interval)}
}

func (ticker *wallTicker) C() <-chan time.Time {
	return ticker.ticker.C
}

func (ticker *wallTicker) Stop() {
	ticker.ticker.Stop()
}
