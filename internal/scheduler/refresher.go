// Package scheduler runs the background refresh cycle that keeps the
// rendered state converging on the remote store between user actions.
package scheduler

import (
	"context"
	"time"

	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/logger"
)

// Refresher periodically triggers a silent engine reload. Manual reloads
// requested over the API arrive on manualTrigger and reset nothing; the
// ticker keeps its own cadence.
type Refresher struct {
	engine        *engine.Engine
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewRefresher(eng *engine.Engine, log logger.Logger, interval time.Duration, manualTrigger chan struct{}) *Refresher {
	return &Refresher{
		engine:        eng,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start launches the refresh loop. The initial load is the caller's
// responsibility; this loop only keeps an already-loaded view fresh.
func (rf *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(rf.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rf.engine.Reload(ctx, true); err != nil {
					rf.logger.Error("background refresh failed", logger.Error(err))
				}
			case <-rf.manualTrigger:
				rf.logger.Info("manual refresh triggered")
				if err := rf.engine.Reload(ctx, false); err != nil {
					rf.logger.Error("manual refresh failed", logger.Error(err))
				}
			case <-rf.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresh loop.
func (rf *Refresher) Stop() {
	close(rf.stopCh)
}
