package kvstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportx_kv_writes_total",
		Help: "Durable store writes by outcome.",
	}, []string{"outcome"})

	// MetricWritesCoalesced counts queued values replaced by a newer one before being written.
	MetricWritesCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportx_kv_writes_coalesced_total",
		Help: "Queued writes superseded by a later write to the same key.",
	})
)

type writeOp struct {
	value  string
	remove bool
}

type keyQueue struct {
	pending *writeOp
	running bool
}

// Writer serializes writes per key. At most one write per key is in flight;
// values queued behind it collapse to the latest one. Callers never block
// and never see write errors; failures are logged and counted.
type Writer struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	queues map[string]*keyQueue
	active int
	idle   chan struct{}
}

func NewWriter(store Store, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	idle := make(chan struct{})
	close(idle)
	return &Writer{
		store:   store,
		logger:  logger,
		timeout: 5 * time.Second,
		queues:  make(map[string]*keyQueue),
		idle:    idle,
	}
}

// Store returns the underlying store for reads.
func (w *Writer) Store() Store { return w.store }

func (w *Writer) Set(key, value string) {
	w.enqueue(key, writeOp{value: value})
}

func (w *Writer) Remove(key string) {
	w.enqueue(key, writeOp{remove: true})
}

func (w *Writer) enqueue(key string, op writeOp) {
	w.mu.Lock()
	defer w.mu.Unlock()

	q, ok := w.queues[key]
	if !ok {
		q = &keyQueue{}
		w.queues[key] = q
	}
	if q.pending != nil {
		MetricWritesCoalesced.Inc()
	}
	q.pending = &op
	if q.running {
		return
	}
	q.running = true
	if w.active == 0 {
		w.idle = make(chan struct{})
	}
	w.active++
	go w.drain(key, q)
}

func (w *Writer) drain(key string, q *keyQueue) {
	for {
		w.mu.Lock()
		op := q.pending
		q.pending = nil
		if op == nil {
			q.running = false
			w.active--
			if w.active == 0 {
				close(w.idle)
			}
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		w.apply(key, *op)
	}
}

func (w *Writer) apply(key string, op writeOp) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	if op.remove {
		err = w.store.Remove(ctx, key)
	} else {
		err = w.store.Set(ctx, key, op.value)
	}
	if err != nil {
		w.logger.Error("Failed to persist key", "key", key, "error", err)
		MetricWrites.WithLabelValues("error").Inc()
		return
	}
	MetricWrites.WithLabelValues("ok").Inc()
}

// Flush waits until every queued write has been applied or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and closes the store.
func (w *Writer) Close(ctx context.Context) error {
	if err := w.Flush(ctx); err != nil {
		w.logger.Warn("Closing store with writes still pending", "error", err)
	}
	return w.store.Close()
}
