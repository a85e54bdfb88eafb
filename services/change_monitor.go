package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

// ChangeMonitor polls the ledger summary and reports it whenever it differs
// from the last one seen, so dashboards refresh after edits made anywhere.
type ChangeMonitor struct {
	Ledger   *LedgerStore
	Interval time.Duration
	OnChange func(models.LedgerSummary)
	StopChan chan struct{}

	done      chan struct{}
	last      *models.LedgerSummary
	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewChangeMonitor(ledger *LedgerStore, onChange func(models.LedgerSummary)) *ChangeMonitor {
	return &ChangeMonitor{
		Ledger:   ledger,
		Interval: 5 * time.Second,
		OnChange: onChange,
		StopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine. Later calls do nothing.
func (cm *ChangeMonitor) Start() {
	cm.startOnce.Do(cm.run)
}

func (cm *ChangeMonitor) run() {
	cm.started.Store(true)
	go func() {
		defer close(cm.done)
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges(context.Background())
			case <-cm.StopChan:
				return
			}
		}
	}()
}

// Stop ends polling and waits for an in-flight check to finish. It is safe
// to call more than once, and before Start.
func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.StopChan) })
	if cm.started.Load() {
		<-cm.done
	}
}

// checkChanges reports whether OnChange was called.
func (cm *ChangeMonitor) checkChanges(ctx context.Context) bool {
	summary, err := cm.Ledger.Summary(ctx)
	if err != nil {
		utils.ErrorLogger.Errorf("poll ledger summary: %v", err)
		return false
	}
	if cm.last != nil && *cm.last == summary {
		return false
	}
	cm.last = &summary
	if cm.OnChange != nil {
		cm.OnChange(summary)
	}
	return true
}
