package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolveAsyncSingleFlight(t *testing.T) {
	r := New()
	var calls int64
	gate := make(chan struct{})
	r.RegisterAsyncSingleton("idx", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		<-gate
		return "index", nil
	})

	const k = 16
	results := make([]any, k)
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.ResolveAsync(context.Background(), "idx")
		}(i)
	}

	// Let all callers pile up on the in-flight production before it settles.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected exactly 1 factory call, got %d", got)
	}
	for i := 0; i < k; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i] != "index" {
			t.Fatalf("caller %d got %v", i, results[i])
		}
	}
}

func TestResolveAsyncCachesValue(t *testing.T) {
	r := New()
	var calls int64
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		return 42, nil
	})

	if _, err := r.ResolveAsync(context.Background(), "svc"); err != nil {
		t.Fatalf("ResolveAsync failed: %v", err)
	}

	// Cached: the synchronous path now serves it without a factory call.
	got, err := r.Resolve("svc")
	if err != nil {
		t.Fatalf("Resolve after warm-up failed: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("expected 1 factory call, got %d", calls)
	}
}

func TestResolveAsyncFailureNotCached(t *testing.T) {
	r := New()
	var calls int64
	boom := errors.New("connect refused")
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return nil, boom
		}
		return "up", nil
	})

	_, err := r.ResolveAsync(context.Background(), "svc")
	var fe *FactoryError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FactoryError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected failure propagated verbatim, got %v", err)
	}

	got, err := r.ResolveAsync(context.Background(), "svc")
	if err != nil {
		t.Fatalf("second ResolveAsync failed: %v", err)
	}
	if got != "up" {
		t.Errorf("expected 'up', got %v", got)
	}
	if atomic.LoadInt64(&calls) != 2 {
		t.Errorf("expected 2 factory calls, got %d", calls)
	}
}

func TestResolveAsyncSharedFailure(t *testing.T) {
	r := New()
	var calls int64
	gate := make(chan struct{})
	boom := errors.New("boom")
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		<-gate
		return nil, boom
	})

	const k = 8
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.ResolveAsync(context.Background(), "svc")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("expected 1 factory call, got %d", calls)
	}
	for i := 0; i < k; i++ {
		if !errors.Is(errs[i], boom) {
			t.Errorf("caller %d: expected the shared failure, got %v", i, errs[i])
		}
	}
}

func TestResolveAsyncDelegatesSyncKinds(t *testing.T) {
	r := New()
	r.RegisterSingleton("s", "sv")
	r.RegisterLazySingleton("l", func() (any, error) { return "lv", nil })
	r.RegisterFactory("f", func() (any, error) { return "fv", nil })

	ctx := context.Background()
	for key, want := range map[Key]string{"s": "sv", "l": "lv", "f": "fv"} {
		got, err := r.ResolveAsync(ctx, key)
		if err != nil {
			t.Fatalf("ResolveAsync(%q) failed: %v", key, err)
		}
		if got != want {
			t.Errorf("ResolveAsync(%q): expected %q, got %v", key, want, got)
		}
	}

	_, err := r.ResolveAsync(ctx, "missing")
	var nr *NotRegisteredError
	if !errors.As(err, &nr) {
		t.Fatalf("expected NotRegisteredError, got %v", err)
	}
}

func TestResolveAsyncCallerContextExpiry(t *testing.T) {
	r := New()
	gate := make(chan struct{})
	r.RegisterAsyncSingleton("slow", func(ctx context.Context) (any, error) {
		<-gate
		return "done", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.ResolveAsync(ctx, "slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// The production was not cancelled; it still settles the cache for
	// future callers.
	close(gate)
	got, err := r.ResolveAsync(context.Background(), "slow")
	if err != nil {
		t.Fatalf("ResolveAsync after expiry failed: %v", err)
	}
	if got != "done" {
		t.Errorf("expected 'done', got %v", got)
	}
}

func TestUnregisterDuringFlight(t *testing.T) {
	r := New()
	gate := make(chan struct{})
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		<-gate
		return "v", nil
	})

	done := make(chan struct{})
	var got any
	var err error
	go func() {
		got, err = r.ResolveAsync(context.Background(), "svc")
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	r.Unregister("svc")
	close(gate)
	<-done

	// The waiter still observes the original production's result.
	if err != nil {
		t.Fatalf("waiter failed: %v", err)
	}
	if got != "v" {
		t.Fatalf("expected 'v', got %v", got)
	}

	// But the key is gone and the settled value was not cached.
	_, err = r.ResolveAsync(context.Background(), "svc")
	var nr *NotRegisteredError
	if !errors.As(err, &nr) {
		t.Fatalf("expected NotRegisteredError after unregister, got %v", err)
	}
}

func TestReRegisterDuringFlightDoesNotCacheStaleValue(t *testing.T) {
	r := New()
	gate := make(chan struct{})
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		<-gate
		return "old", nil
	})

	done := make(chan struct{})
	go func() {
		_, _ = r.ResolveAsync(context.Background(), "svc")
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		return "new", nil
	})
	close(gate)
	<-done

	got, err := r.ResolveAsync(context.Background(), "svc")
	if err != nil {
		t.Fatalf("ResolveAsync failed: %v", err)
	}
	if got != "new" {
		t.Errorf("expected value from the replacement binding, got %v", got)
	}
}

func TestAllReady(t *testing.T) {
	r := New()
	var aCalls, bCalls int64
	r.RegisterAsyncSingleton("a", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&aCalls, 1)
		time.Sleep(10 * time.Millisecond)
		return "av", nil
	})
	r.RegisterAsyncSingleton("b", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&bCalls, 1)
		return "bv", nil
	})
	r.RegisterSingleton("plain", 1)

	if err := r.AllReady(context.Background()); err != nil {
		t.Fatalf("AllReady failed: %v", err)
	}

	// Warm-up done: the synchronous path serves both without re-invocation.
	for key, want := range map[Key]string{"a": "av", "b": "bv"} {
		got, err := r.Resolve(key)
		if err != nil {
			t.Fatalf("Resolve(%q) after warm-up failed: %v", key, err)
		}
		if got != want {
			t.Errorf("Resolve(%q): expected %q, got %v", key, want, got)
		}
	}
	if aCalls != 1 || bCalls != 1 {
		t.Errorf("expected 1 call each, got a=%d b=%d", aCalls, bCalls)
	}
}

func TestAllReadyAggregatesFailures(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	r.RegisterAsyncSingleton("bad", func(ctx context.Context) (any, error) {
		return nil, boom
	})
	r.RegisterAsyncSingleton("good", func(ctx context.Context) (any, error) {
		return "ok", nil
	})

	err := r.AllReady(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected aggregated failure, got %v", err)
	}

	// The good key still warmed up.
	got, err2 := r.Resolve("good")
	if err2 != nil || got != "ok" {
		t.Errorf("expected good key cached, got %v (%v)", got, err2)
	}
}

func TestAllReadySingleFlightWithConcurrentResolvers(t *testing.T) {
	r := New()
	var calls int64
	r.RegisterAsyncSingleton("svc", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return "v", nil
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := r.AllReady(context.Background()); err != nil {
			t.Errorf("AllReady failed: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := r.ResolveAsync(context.Background(), "svc"); err != nil {
			t.Errorf("ResolveAsync failed: %v", err)
		}
	}()
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected 1 factory call, got %d", got)
	}
}
