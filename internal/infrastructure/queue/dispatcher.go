// Package queue implements the asynchronous audit trail pipeline. Storage
// status transitions are applied synchronously by the services; only the
// persistence of their audit events is deferred to this dispatcher.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/skladhub/warehousing-system/internal/api/metrics"
	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Deduper answers whether an audit event was already persisted and records
// that it has been. A nil Deduper disables deduplication.
type Deduper interface {
	IsDuplicate(ctx context.Context, storageID, toStatus string, ts time.Time) (bool, error)
	Mark(ctx context.Context, storageID, toStatus string, ts time.Time) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the storage ID, guaranteeing per-storage event ordering.
type Dispatcher struct {
	workers []chan domain.StorageEvent
	events  ports.EventRepository
	dedup   Deduper
	log     zerolog.Logger
}

var _ ports.EventSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, events ports.EventRepository, dedup Deduper, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.StorageEvent, numWorkers),
		events:  events,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StorageEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its storage ID.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.StorageEvent) {
	idx := d.shardIndex(event.StorageID)
	d.workers[idx] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a storage ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(storageID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(storageID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StorageEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.handle(ctx, id, event)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, workerID int, event domain.StorageEvent) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.AuditPersistDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if d.dedup != nil {
		dup, err := d.dedup.IsDuplicate(ctx, event.StorageID, string(event.To), event.Timestamp)
		if err != nil {
			metrics.AuditEventsErrorsTotal.WithLabelValues("dedup_failed").Inc()
			d.log.Warn().Err(err).
				Str("storage_id", event.StorageID).
				Msg("dedup check failed, persisting anyway")
		} else if dup {
			outcome = "duplicate"
			metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
			return
		} else {
			metrics.AuditDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	if err := d.events.Insert(ctx, &event); err != nil {
		outcome = "error"
		metrics.AuditEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		d.log.Error().Err(err).
			Str("storage_id", event.StorageID).
			Str("to", string(event.To)).
			Int("worker_id", workerID).
			Msg("audit event persistence failed")
		return
	}
	metrics.AuditEventsPersistedTotal.Inc()
	metrics.StorageTransitionsTotal.WithLabelValues(string(event.From), string(event.To)).Inc()

	if d.dedup != nil {
		if err := d.dedup.Mark(ctx, event.StorageID, string(event.To), event.Timestamp); err != nil {
			d.log.Warn().Err(err).
				Str("storage_id", event.StorageID).
				Msg("dedup mark failed")
		}
	}
}
