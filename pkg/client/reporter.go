package client

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sliderstack/sliderstack/pkg/types"
)

const (
	backoffInitial = 1 * time.Second
	backoffMax     = 60 * time.Second
)

// Reporter pushes container status updates to slider-server. Only the latest
// status per container waits to be sent: reporting a container that is already
// pending replaces its queued status in place. When the queue is full the
// oldest container is dropped.
type Reporter struct {
	cfg  Config
	q    *queue
	dial func(ctx context.Context, cfg Config) (*Client, error)
}

// NewReporter creates a Reporter that dials with cfg. Call Run to start
// delivering.
func NewReporter(cfg Config) *Reporter {
	size := cfg.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Reporter{cfg: cfg, q: newQueue(size), dial: Dial}
}

// Report queues c for delivery. It never blocks.
func (r *Reporter) Report(c types.ContainerStatus) {
	if evicted, ok := r.q.put(c); ok {
		slog.Warn("reporter: queue full, dropped oldest update",
			"container", evicted, "capacity", r.q.size)
	}
}

// Pending returns the number of containers waiting to be sent.
func (r *Reporter) Pending() int { return r.q.len() }

// Run delivers queued updates until ctx is cancelled, redialing with
// exponential backoff whenever the connection fails.
func (r *Reporter) Run(ctx context.Context) {
	wait := backoffInitial
	for {
		c, err := r.dial(ctx, r.cfg)
		if err == nil {
			slog.Info("reporter: connected", "endpoint", r.cfg.Endpoint)
			wait = backoffInitial
			err = r.drain(ctx, c)
			c.Close()
		}
		if ctx.Err() != nil {
			return
		}

		d := jitter(wait)
		slog.Warn("reporter: delivery interrupted, retrying",
			"endpoint", r.cfg.Endpoint, "err", err, "retry_in", d)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
		}
		if wait *= 2; wait > backoffMax {
			wait = backoffMax
		}
	}
}

// drain sends queued updates over c until a transient failure or ctx ends.
// A transiently failed update goes back to the front of the queue unless a
// newer status for the same container arrived meanwhile.
func (r *Reporter) drain(ctx context.Context, c *Client) error {
	for {
		upd, ok := r.q.take(ctx)
		if !ok {
			return nil
		}

		err := c.UpdateContainer(ctx, &upd)
		switch {
		case err == nil:
			slog.Debug("reporter: update delivered", "container", upd.ContainerID)
		case isPermanentError(err):
			slog.Error("reporter: update rejected, discarding",
				"container", upd.ContainerID, "err", err)
		default:
			if !r.q.requeue(upd) {
				slog.Warn("reporter: queue full, dropped failed update",
					"container", upd.ContainerID, "capacity", r.q.size)
			}
			return fmt.Errorf("client: report %s: %w", upd.ContainerID, err)
		}
	}
}

// isPermanentError reports whether retrying the same update cannot succeed.
func isPermanentError(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.Unauthenticated, codes.PermissionDenied:
		return true
	}
	return false
}

// jitter spreads d by up to 25% either way.
func jitter(d time.Duration) time.Duration {
	return d + time.Duration(float64(d)*0.25*(rand.Float64()*2-1)) //nolint:gosec // not crypto
}

// queue is a bounded FIFO of container statuses keyed by container ID.
type queue struct {
	size int

	mu     sync.Mutex
	order  []string
	latest map[string]types.ContainerStatus
	ready  chan struct{} // holds a token while the queue is non-empty
}

func newQueue(size int) *queue {
	return &queue{
		size:   size,
		latest: make(map[string]types.ContainerStatus, size),
		ready:  make(chan struct{}, 1),
	}
}

// put stores c, replacing a pending status for the same container. It returns
// the ID of the container evicted to make room, if any.
func (q *queue) put(c types.ContainerStatus) (evicted string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, pending := q.latest[c.ContainerID]; !pending {
		if len(q.order) >= q.size {
			evicted, ok = q.order[0], true
			q.order = q.order[1:]
			delete(q.latest, evicted)
		}
		q.order = append(q.order, c.ContainerID)
	}
	q.latest[c.ContainerID] = c
	q.signal()
	return evicted, ok
}

// requeue puts c back at the front unless a newer status is already pending.
// It returns false when c was dropped because the queue filled up meanwhile.
func (q *queue) requeue(c types.ContainerStatus) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, pending := q.latest[c.ContainerID]; pending {
		return true
	}
	if len(q.order) >= q.size {
		return false
	}
	q.order = append([]string{c.ContainerID}, q.order...)
	q.latest[c.ContainerID] = c
	q.signal()
	return true
}

// take blocks until a status is available or ctx is done.
func (q *queue) take(ctx context.Context) (types.ContainerStatus, bool) {
	for {
		q.mu.Lock()
		if len(q.order) > 0 {
			id := q.order[0]
			q.order = q.order[1:]
			c := q.latest[id]
			delete(q.latest, id)
			if len(q.order) > 0 {
				q.signal()
			}
			q.mu.Unlock()
			return c, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return types.ContainerStatus{}, false
		case <-q.ready:
		}
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

func (q *queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
