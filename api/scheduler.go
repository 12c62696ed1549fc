/*
scheduler.go - Year opening scheduler

PURPOSE:
  Periodically makes sure every active employee has an account for the
  current calendar year, so the year overview lists everyone from the
  first day of January with zeroed entitlement.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Runs once immediately on Start
  - Uses the service's concurrency-safe account resolver, so it can race
    freely with request submissions and never creates a duplicate account

USAGE:
  opener := NewYearOpener(svc, time.Hour, logger)
  opener.Start()
  // ... later
  opener.Stop()

SEE ALSO:
  - leave/resolver.go: ResolveAccount
*/
package api

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/leave-ledger/leave"
)

// YearOpener opens year accounts for active employees.
type YearOpener struct {
	Service  *leave.Service
	Interval time.Duration
	Logger   *slog.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewYearOpener creates a new scheduler. A zero interval means one hour.
func NewYearOpener(svc *leave.Service, interval time.Duration, logger *slog.Logger) *YearOpener {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &YearOpener{
		Service:  svc,
		Interval: interval,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduler. Calling Start twice is a no-op.
func (yo *YearOpener) Start() {
	yo.mu.Lock()
	defer yo.mu.Unlock()

	if yo.ticker != nil {
		return
	}
	yo.ticker = time.NewTicker(yo.Interval)
	yo.stop = make(chan struct{})
	yo.wg.Add(1)

	go yo.run(yo.ticker, yo.stop)

	yo.Logger.Info("year opener started", "interval", yo.Interval)
}

// Stop stops the scheduler and waits for an in-flight run.
func (yo *YearOpener) Stop() {
	yo.mu.Lock()
	defer yo.mu.Unlock()

	if yo.ticker == nil {
		return
	}
	yo.ticker.Stop()
	close(yo.stop)
	yo.wg.Wait()
	yo.ticker = nil
	yo.Logger.Info("year opener stopped")
}

func (yo *YearOpener) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer yo.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	// Run immediately on start
	yo.tick(ctx)

	for {
		select {
		case <-ticker.C:
			yo.tick(ctx)
		case <-stop:
			return
		}
	}
}

func (yo *YearOpener) tick(ctx context.Context) {
	if _, err := yo.RunNow(ctx); err != nil && ctx.Err() == nil {
		yo.Logger.Error("year opening failed", "err", err)
	}
}

// RunNow opens the current UTC year for every active employee and returns
// how many employees were processed.
func (yo *YearOpener) RunNow(ctx context.Context) (int, error) {
	year := yo.now().Year()
	n, err := yo.Service.OpenYear(ctx, year)
	if err != nil {
		return n, err
	}
	yo.Logger.Debug("year opened", "year", year, "employees", n)
	return n, nil
}
