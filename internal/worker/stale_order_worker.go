package worker

import (
	"context"
	"time"

	"vdg_commerce/internal/logger"
)

// StaleOrderFailer chuyển tối đa limit đơn chưa thanh toán tạo trước before sang failed
type StaleOrderFailer interface {
	FailStale(ctx context.Context, before time.Time, limit int64) (int64, error)
}

// StaleOrderWorker định kỳ huỷ đơn initiated quá hạn thanh toán để trả hàng về kho.
// Mỗi lượt xử lý theo batch cho tới khi một batch không đầy.
type StaleOrderWorker struct {
	orders    StaleOrderFailer
	interval  time.Duration
	maxAge    time.Duration
	batchSize int64
	now       func() time.Time
}

// NewStaleOrderWorker tạo worker; interval dưới 1 phút thì dùng 10 phút, batchSize <= 0 thì dùng 50
func NewStaleOrderWorker(orders StaleOrderFailer, interval, maxAge time.Duration, batchSize int64) *StaleOrderWorker {
	if interval < time.Minute {
		interval = 10 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &StaleOrderWorker{orders: orders, interval: interval, maxAge: maxAge, batchSize: batchSize, now: time.Now}
}

// RunOnce chạy một lượt, trả tổng số đơn đã chuyển
func (w *StaleOrderWorker) RunOnce(ctx context.Context) (total int64) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("🔥 [STALE_ORDER] Panic khi huỷ đơn quá hạn, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	before := w.now().Add(-w.maxAge)
	for ctx.Err() == nil {
		n, err := w.orders.FailStale(ctx, before, w.batchSize)
		if err != nil {
			log.WithError(err).Error("❌ [STALE_ORDER] Lỗi lấy danh sách đơn quá hạn")
			return total
		}
		total += n
		if n < w.batchSize {
			break
		}
	}
	if total > 0 {
		log.WithFields(map[string]any{"count": total, "before": before.Format(time.RFC3339)}).
			Info("✅ [STALE_ORDER] Đã huỷ đơn quá hạn thanh toán")
	}
	return total
}

// Start lặp theo interval cho tới khi ctx bị huỷ
func (w *StaleOrderWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]any{
		"interval":  w.interval.String(),
		"maxAge":    w.maxAge.String(),
		"batchSize": w.batchSize,
	}).Info("🔄 [STALE_ORDER] Starting Stale Order Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [STALE_ORDER] Stale Order Worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}
