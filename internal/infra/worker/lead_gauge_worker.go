package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/calldesk/internal/entity"
)

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error)
}

// LeadGaugeWorker periodically snapshots lead counts per status.
type LeadGaugeWorker struct {
	counter      StatusCounter
	publish      func(map[entity.LeadStatus]int)
	tickInterval time.Duration
}

func NewLeadGaugeWorker(counter StatusCounter, publish func(map[entity.LeadStatus]int), interval time.Duration) *LeadGaugeWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LeadGaugeWorker{
		counter:      counter,
		publish:      publish,
		tickInterval: interval,
	}
}

func (w *LeadGaugeWorker) Start(ctx context.Context) {
	log.Printf("🕒 Lead gauge worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Lead gauge worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *LeadGaugeWorker) refresh(ctx context.Context) {
	counts, err := w.counter.CountByStatus(ctx)
	if err != nil {
		log.Printf("❌ Failed to count leads by status: %v", err)
		return
	}
	w.publish(counts)
}
