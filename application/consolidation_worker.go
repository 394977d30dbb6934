package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// ConsolidationWorker periodically consolidates every user's grants so the
// drawable pools stay current between draws
type ConsolidationWorker struct {
	consolidator *BatchConsolidator
	interval     time.Duration
}

// NewConsolidationWorker creates a new consolidation worker
func NewConsolidationWorker(consolidator *BatchConsolidator, interval time.Duration) *ConsolidationWorker {
	return &ConsolidationWorker{
		consolidator: consolidator,
		interval:     interval,
	}
}

// Start begins the consolidation worker and returns a stop function
func (w *ConsolidationWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Consolidation worker started")

		for {
			report, err := w.consolidator.Consolidate(ctx, nil)
			if err != nil {
				log.Errorf("Error running consolidation batch: %v", err)
			} else if len(report.Failures) > 0 {
				log.Warnf("Consolidation batch completed with %d failures", len(report.Failures))
			}

			select {
			case <-ctx.Done():
				log.Info("Consolidation worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Consolidation worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
