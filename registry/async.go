package registry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// flight is one pending async production. val and err are written exactly
// once, before done is closed; waiters read them only after done.
type flight struct {
	done chan struct{}
	val  any
	err  error
}

// ResolveAsync looks up key, producing it via its AsyncFactory if necessary.
//
// The fast path returns a cached singleton without blocking. If a production
// for key is already in flight, the caller awaits its outcome instead of
// triggering a second factory invocation (the single-flight guarantee).
// Bindings of any other kind are delegated to the synchronous Resolve path.
//
// ctx bounds only this caller's wait: on expiry the caller gets ctx.Err(),
// while the production continues and still settles the caches for other and
// future callers. A failed production is not cached; the next ResolveAsync
// re-invokes the factory.
func (r *Registry) ResolveAsync(ctx context.Context, key Key) (any, error) {
	r.mu.Lock()
	if v, ok := r.singletons[key]; ok {
		r.mu.Unlock()
		r.emit(Event{Kind: EventCacheHit, Key: key})
		return v, nil
	}
	if fl, ok := r.inflight[key]; ok {
		r.mu.Unlock()
		r.emit(Event{Kind: EventFlightJoin, Key: key})
		return await(ctx, fl)
	}
	reg, ok := r.registrations[key]
	if !ok {
		r.mu.Unlock()
		return nil, &NotRegisteredError{Key: key}
	}
	if reg.kind != KindAsyncSingleton {
		r.mu.Unlock()
		return r.Resolve(key)
	}

	// Publish the pending production before releasing the lock so callers
	// racing on the same key join it instead of starting their own.
	fl := &flight{done: make(chan struct{})}
	r.inflight[key] = fl
	r.mu.Unlock()

	r.emit(Event{Kind: EventFlightStart, Key: key})
	go r.produce(key, reg, fl)

	return await(ctx, fl)
}

// produce runs one async factory invocation and settles the flight. The
// factory gets a background context: callers abandoning their wait must not
// cancel a production other callers share.
func (r *Registry) produce(key Key, reg *registration, fl *flight) {
	start := time.Now()
	v, err := reg.async(context.Background())
	if err != nil {
		err = &FactoryError{Key: key, Err: err}
	}
	fl.val, fl.err = v, err

	r.mu.Lock()
	// The entry may already be gone (Unregister, Reset) or belong to a newer
	// production; remove it only if it is still ours. The value is cached
	// only while the binding that produced it is still current.
	if r.inflight[key] == fl {
		delete(r.inflight, key)
	}
	if err == nil && r.registrations[key] == reg {
		r.singletons[key] = v
	}
	r.mu.Unlock()

	close(fl.done)

	elapsed := time.Since(start)
	r.emit(Event{Kind: EventFlightSettle, Key: key, Err: err, Duration: elapsed})
	if err != nil {
		r.log.Error("async production failed", map[string]interface{}{
			"key":         string(key),
			"duration_ms": elapsed.Milliseconds(),
			"error":       err.Error(),
		})
	} else {
		r.log.Debug("async production settled", map[string]interface{}{
			"key":         string(key),
			"duration_ms": elapsed.Milliseconds(),
		})
	}
}

// await blocks until the flight settles or ctx expires.
func await(ctx context.Context, fl *flight) (any, error) {
	select {
	case <-fl.done:
		return fl.val, fl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AllReady forces resolution of every currently-registered AsyncSingleton
// key, front-loading expensive initialization before the application begins
// serving work. Keys are resolved concurrently with each other; the
// single-flight guarantee still holds per key. Failures are aggregated and
// do not stop the remaining keys.
func (r *Registry) AllReady(ctx context.Context) error {
	r.mu.RLock()
	keys := make([]Key, 0)
	for key, reg := range r.registrations {
		if reg.kind == KindAsyncSingleton {
			keys = append(keys, key)
		}
	}
	r.mu.RUnlock()

	if len(keys) == 0 {
		return nil
	}

	r.log.Debug("warming up async singletons", map[string]interface{}{
		"count": len(keys),
	})

	var wg sync.WaitGroup
	errs := make([]error, len(keys))
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key Key) {
			defer wg.Done()
			_, errs[i] = r.ResolveAsync(ctx, key)
		}(i, key)
	}
	wg.Wait()

	return errors.Join(errs...)
}
