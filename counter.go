package cymometer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Counter is a decaying-window event counter over one storage key. All
// methods are safe for concurrent use; the admission decision itself is
// made atomically by the backing store, so any number of Counters in any
// number of processes may share a key.
type Counter struct {
	key     string
	limit   int64
	window  time.Duration
	store   Store
	logger  *zap.Logger
	metrics *Metrics

	// now is the clock for window arithmetic. Tests pin it.
	now func() time.Time
}

// NewCounter builds a Counter from cfg, filling gaps from the process
// defaults installed with [SetDefaults].
func NewCounter(cfg CounterConfig) (*Counter, error) {
	cfg = cfg.withDefaults(currentDefaults())
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Counter{
		key:     cfg.Namespace + ":" + cfg.ID,
		limit:   cfg.Limit,
		window:  cfg.Window,
		store:   cfg.Store,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     time.Now,
	}, nil
}

// Key returns the full storage key, "namespace:id".
func (c *Counter) Key() string { return c.key }

// Limit returns the maximum number of in-window events.
func (c *Counter) Limit() int64 { return c.limit }

// Window returns the trailing span events are counted over.
func (c *Counter) Window() time.Duration { return c.window }

// Increment records one event and returns the resulting in-window count.
// When the window already holds Limit events the event is not recorded
// and the error is a [*LimitExceededError]; match it with
// errors.Is(err, ErrLimitExceeded).
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	start := time.Now()
	admitted, count, err := c.store.Increment(ctx, c.key, c.now(), c.window, c.limit)
	c.metrics.Observe(MetricStoreLatency, time.Since(start))
	if err != nil {
		c.metrics.Inc(MetricStoreError)
		return 0, err
	}
	if !admitted {
		c.metrics.Inc(MetricRejected)
		return 0, &LimitExceededError{Key: c.key, Limit: c.limit, Count: count}
	}
	c.metrics.Inc(MetricAdmitted)
	return count, nil
}

// Decrement removes the oldest in-window event, if any, and returns the
// resulting count. Decrementing an empty window is not an error; the
// count stays at zero.
func (c *Counter) Decrement(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := c.store.Decrement(ctx, c.key, c.now(), c.window)
	c.metrics.Observe(MetricStoreLatency, time.Since(start))
	if err != nil {
		c.metrics.Inc(MetricStoreError)
		return 0, err
	}
	c.metrics.Inc(MetricDecremented)
	return count, nil
}

// Count returns the number of in-window events without recording one.
// The answer is advisory: another client may admit an event between this
// read and any later increment.
func (c *Counter) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := c.store.Count(ctx, c.key, c.now(), c.window)
	c.metrics.Observe(MetricStoreLatency, time.Since(start))
	if err != nil {
		c.metrics.Inc(MetricStoreError)
		return 0, err
	}
	return count, nil
}

type doConfig struct {
	keepOnError bool
}

// DoOption adjusts how [Counter.Do] treats a failed body.
type DoOption func(*doConfig)

// KeepOnError makes [Counter.Do] keep the admitted event even when the
// body returns an error. Use it when the failed work still consumed the
// resource the counter guards.
func KeepOnError() DoOption {
	return func(c *doConfig) { c.keepOnError = true }
}

// Do admits one event, runs fn, and on failure removes the event again
// so an aborted piece of work does not consume window capacity.
//
// When the admission itself is rejected or fails, fn never runs and Do
// returns that error. When fn returns an error or panics, Do issues a
// compensating decrement and hands the original failure back unchanged.
// The compensating decrement is best effort: if it fails too, the
// failure is logged and counted, and the stale entry ages out of the
// window on its own. Note that the decrement removes the oldest
// in-window event, which under concurrency is not necessarily the one
// Do admitted; the count is still correct.
func (c *Counter) Do(ctx context.Context, fn func(context.Context) error, opts ...DoOption) error {
	var dc doConfig
	for _, opt := range opts {
		opt(&dc)
	}

	if _, err := c.Increment(ctx); err != nil {
		return err
	}

	succeeded := false
	defer func() {
		if succeeded || dc.keepOnError {
			return
		}
		c.rollback(ctx)
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	succeeded = true
	return nil
}

// rollback issues the compensating decrement for a failed Do body. It
// runs on the caller's context, so a context canceled by the body's own
// failure can make the rollback fail as well; that case is logged and
// left to window decay.
func (c *Counter) rollback(ctx context.Context) {
	c.metrics.Inc(MetricRollback)
	if _, err := c.store.Decrement(ctx, c.key, c.now(), c.window); err != nil {
		c.metrics.Inc(MetricRollbackFailure)
		c.logger.Warn("compensating decrement failed; entry will age out of the window",
			zap.String("key", c.key),
			zap.Error(err),
		)
	}
}
