// Package worker - các tác vụ nền chạy theo chu kỳ cùng server.
package worker

import (
	"context"
	"time"

	"vdg_commerce/internal/logger"
)

// Expirer tắt các bản ghi đã hết hạn tại thời điểm now, trả số bản ghi bị tắt
type Expirer interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PromotionExpiryWorker định kỳ tắt mã giảm giá và ưu đãi đã hết hạn
type PromotionExpiryWorker struct {
	expirers map[string]Expirer
	interval time.Duration
	now      func() time.Time
}

// NewPromotionExpiryWorker tạo worker; interval dưới 10 giây thì dùng 5 phút
func NewPromotionExpiryWorker(interval time.Duration, expirers map[string]Expirer) *PromotionExpiryWorker {
	if interval < 10*time.Second {
		interval = 5 * time.Minute
	}
	return &PromotionExpiryWorker{expirers: expirers, interval: interval, now: time.Now}
}

// RunOnce chạy một lượt, trả số bản ghi bị tắt theo tên; lỗi ở một nguồn không chặn nguồn khác
func (w *PromotionExpiryWorker) RunOnce(ctx context.Context) map[string]int64 {
	log := logger.GetAppLogger()
	now := w.now()
	out := make(map[string]int64, len(w.expirers))
	for name, e := range w.expirers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]any{"panic": r, "source": name}).
						Error("🔥 [PROMOTION_EXPIRY] Panic khi tắt khuyến mãi hết hạn, sẽ thử lại lần sau")
				}
			}()
			n, err := e.DeactivateExpired(ctx, now)
			if err != nil {
				log.WithError(err).WithField("source", name).Error("❌ [PROMOTION_EXPIRY] Không tắt được khuyến mãi hết hạn")
				return
			}
			out[name] = n
			if n > 0 {
				log.WithFields(map[string]any{"source": name, "count": n}).Info("✅ [PROMOTION_EXPIRY] Đã tắt khuyến mãi hết hạn")
			}
		}()
	}
	return out
}

// Start chạy một lượt ngay rồi lặp theo interval cho tới khi ctx bị huỷ
func (w *PromotionExpiryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("🔄 [PROMOTION_EXPIRY] Starting Promotion Expiry Worker...")
	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [PROMOTION_EXPIRY] Promotion Expiry Worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}
