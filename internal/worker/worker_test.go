package worker

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("LOG_OUTPUT", "stdout")
	os.Exit(m.Run())
}

// goroutine ghi log của logger sống suốt tiến trình
var ignoreLogger = goleak.IgnoreAnyFunction("vdg_commerce/internal/logger.(*AsyncHook).run")

type fakeExpirer struct {
	n     int64
	err   error
	panic bool
	calls atomic.Int32
	seen  time.Time
}

func (f *fakeExpirer) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	f.seen = now
	if f.panic {
		panic("boom")
	}
	return f.n, f.err
}

func TestPromotionExpiryWorker_RunOnce(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	coupons := &fakeExpirer{n: 3}
	offers := &fakeExpirer{err: errors.New("db down")}
	broken := &fakeExpirer{panic: true}

	w := NewPromotionExpiryWorker(time.Minute, map[string]Expirer{"coupons": coupons, "offers": offers, "broken": broken})
	w.now = func() time.Time { return fixed }

	got := w.RunOnce(context.Background())
	assert.Equal(t, map[string]int64{"coupons": 3}, got)
	assert.Equal(t, fixed, coupons.seen)
	assert.Equal(t, int32(1), offers.calls.Load())
	assert.Equal(t, int32(1), broken.calls.Load())
}

func TestPromotionExpiryWorker_Start(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogger)

	e := &fakeExpirer{}
	w := NewPromotionExpiryWorker(time.Second, map[string]Expirer{"coupons": e})
	assert.Equal(t, 5*time.Minute, w.interval)
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Start(ctx)
	}()
	require.Eventually(t, func() bool { return e.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()
}

type fakeFailer struct {
	mu      sync.Mutex
	results []int64
	err     error
	befores []time.Time
}

func (f *fakeFailer) FailStale(_ context.Context, before time.Time, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.befores = append(f.befores, before)
	if f.err != nil {
		return 0, f.err
	}
	if len(f.results) == 0 {
		return 0, nil
	}
	n := f.results[0]
	f.results = f.results[1:]
	return n, nil
}

func TestStaleOrderWorker_RunOnce(t *testing.T) {
	fixed := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)

	t.Run("lặp tới khi batch không đầy", func(t *testing.T) {
		f := &fakeFailer{results: []int64{2, 2, 1}}
		w := NewStaleOrderWorker(f, time.Hour, 24*time.Hour, 2)
		w.now = func() time.Time { return fixed }

		assert.Equal(t, int64(5), w.RunOnce(context.Background()))
		require.Len(t, f.befores, 3)
		assert.Equal(t, fixed.Add(-24*time.Hour), f.befores[0])
	})

	t.Run("lỗi thì dừng lượt", func(t *testing.T) {
		f := &fakeFailer{err: errors.New("db down")}
		w := NewStaleOrderWorker(f, time.Hour, time.Hour, 10)
		assert.Equal(t, int64(0), w.RunOnce(context.Background()))
		assert.Len(t, f.befores, 1)
	})

	t.Run("giá trị mặc định", func(t *testing.T) {
		w := NewStaleOrderWorker(&fakeFailer{}, time.Second, time.Hour, 0)
		assert.Equal(t, 10*time.Minute, w.interval)
		assert.Equal(t, int64(50), w.batchSize)
	})
}

func TestStaleOrderWorker_StartStops(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogger)

	w := NewStaleOrderWorker(&fakeFailer{}, time.Hour, time.Hour, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker không dừng khi ctx bị huỷ")
	}
}
