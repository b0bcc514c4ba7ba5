package services

import (
	"context"
	"log"
	"time"
)

const (
	minJanitorInterval = time.Minute
	maxJanitorInterval = time.Hour
)

type idlePickerPruner interface {
	PruneIdle(ttl time.Duration) (int64, error)
}

// PickerJanitor periodically deletes picker sessions nobody touched within ttl.
type PickerJanitor struct {
	pickers  idlePickerPruner
	ttl      time.Duration
	interval time.Duration
}

func NewPickerJanitor(pickers idlePickerPruner, ttl time.Duration) *PickerJanitor {
	return &PickerJanitor{
		pickers:  pickers,
		ttl:      ttl,
		interval: janitorInterval(ttl),
	}
}

func (janitor *PickerJanitor) Start(ctx context.Context) {
	if janitor.pickers == nil || janitor.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(janitor.interval)
	go func() {
		defer ticker.Stop()

		janitor.run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				janitor.run()
			}
		}
	}()
}

func (janitor *PickerJanitor) run() int64 {
	deleted, err := janitor.pickers.PruneIdle(janitor.ttl)
	if err != nil {
		log.Printf("janitor: prune idle pickers failed: %v", err)
		return 0
	}
	if deleted > 0 {
		log.Printf("janitor: pruned %d idle picker(s)", deleted)
	}
	return deleted
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < minJanitorInterval {
		return minJanitorInterval
	}
	if interval > maxJanitorInterval {
		return maxJanitorInterval
	}
	return interval
}
