package notify

import (
	"context"
	"encoding/json"
	"time"

	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/metrics"
)

// Inline processes events on the caller's goroutine, detached from the
// request's cancellation.
type Inline struct {
	Service *Service
}

func NewInline(s *Service) *Inline {
	return &Inline{Service: s}
}

func (d *Inline) Dispatch(ctx context.Context, ev Event) {
	// Process logs its own failures.
	_ = d.Service.Process(context.WithoutCancel(ctx), ev)
}

// EventQueue is a durable FIFO of encoded events; storage.Service implements
// it on a Redis list.
type EventQueue interface {
	PushEvent(ctx context.Context, key string, payload []byte) error
	PopEvent(ctx context.Context, key string, timeout time.Duration) ([]byte, error)
}

// Queued hands events to a Worker through an EventQueue. When the push
// fails the event is processed inline instead.
type Queued struct {
	Queue    EventQueue
	Key      string
	Fallback Dispatcher
}

func NewQueued(q EventQueue, key string, fallback Dispatcher) *Queued {
	return &Queued{Queue: q, Key: key, Fallback: fallback}
}

func (d *Queued) Dispatch(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err == nil {
		err = d.Queue.PushEvent(context.WithoutCancel(ctx), d.Key, payload)
	}
	if err == nil {
		return
	}

	metrics.FanoutFailures.WithLabelValues(string(ev.Kind), "enqueue").Inc()
	logger.Log.WithError(err).WithField("event_id", ev.ID).Warn("enqueue failed, processing notification inline")
	if d.Fallback != nil {
		d.Fallback.Dispatch(ctx, ev)
	}
}

// Worker drains an EventQueue into a Service. Events that fail are logged
// and dropped.
type Worker struct {
	Queue       EventQueue
	Key         string
	Service     *Service
	PollTimeout time.Duration
	RetryDelay  time.Duration
}

func NewWorker(q EventQueue, key string, s *Service) *Worker {
	return &Worker{
		Queue:       q,
		Key:         key,
		Service:     s,
		PollTimeout: 5 * time.Second,
		RetryDelay:  time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	logger.Log.WithField("queue", w.Key).Info("notification worker started")
	defer logger.Log.WithField("queue", w.Key).Info("notification worker stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		payload, err := w.Queue.PopEvent(ctx, w.Key, w.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.WithError(err).Error("notification queue read failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.RetryDelay):
			}
			continue
		}
		if payload == nil {
			continue
		}

		w.handle(ctx, payload)
	}
}

func (w *Worker) handle(ctx context.Context, payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Log.WithError(err).Warn("discarding malformed notification event")
		return
	}
	_ = w.Service.Process(ctx, ev)
}
