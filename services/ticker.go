package services

import "time"

// Ticker is the part of time.Ticker the registry needs, so tests can drive
// ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// tickLoop owns the goroutine ticking one table.
type tickLoop struct {
	stop chan struct{}
	done chan struct{}
}

func startTickLoop(ticker Ticker, onTick func()) *tickLoop {
	loop := &tickLoop{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(loop.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				onTick()
			case <-loop.stop:
				return
			}
		}
	}()
	return loop
}

// halt stops the loop and waits until its goroutine has exited,
// so no tick can land after it returns.
func (l *tickLoop) halt() {
	close(l.stop)
	<-l.done
}
