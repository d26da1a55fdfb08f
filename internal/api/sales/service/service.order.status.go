// Package salessvc - service đơn hàng và thanh toán.
package salessvc

import (
	models "vdg_commerce/internal/api/sales/models"
)

// lastOpenStage là vị trí bước cuối trước các bước kết thúc (completed, cancelled...)
const lastOpenStage = 4

func clampStages(stages []models.OrderStatusStage, n int) []models.OrderStatusStage {
	if n > len(stages) {
		n = len(stages)
	}
	out := make([]models.OrderStatusStage, n)
	copy(out, stages[:n])
	return out
}

// FilterOrderStatus chọn các bước hiển thị trên dòng thời gian đơn hàng.
// Đơn đã thanh toán (hoặc COD) giữ bốn bước đầu rồi tới bước hiện tại;
// đơn chưa thanh toán chỉ giữ hai bước đầu. Khi current chưa qua bước 4 thì trả năm bước đầu.
func FilterOrderStatus(stages []models.OrderStatusStage, paymentStatus string, current int) []models.OrderStatusStage {
	if current <= lastOpenStage {
		return clampStages(stages, lastOpenStage+1)
	}
	keep := 2
	if models.IsSettled(paymentStatus) {
		keep = lastOpenStage
	}
	out := clampStages(stages, keep)
	if current < len(stages) {
		out = append(out, stages[current])
	}
	return out
}

// StatusTimeline là dòng thời gian của một đơn
func StatusTimeline(o *models.Order) []models.OrderStatusStage {
	return FilterOrderStatus(models.OrderStatuses, o.PaymentStatus, models.StatusIndex(o.Status))
}

// NewOrderDetail gắn dòng thời gian vào đơn
func NewOrderDetail(o models.Order) *models.OrderDetail {
	return &models.OrderDetail{Order: o, StatusTimeline: StatusTimeline(&o)}
}

// IsClosedStatus là các trạng thái đơn không còn tính doanh thu
func IsClosedStatus(status string) bool {
	switch status {
	case models.OrderStatusCancelled, models.OrderStatusFailed, models.OrderStatusRefunded:
		return true
	}
	return false
}

// StatusEffects là các việc phụ cần làm khi đơn đổi trạng thái
type StatusEffects struct {
	PaymentStatus   string // rỗng là giữ nguyên
	ReleaseStock    bool
	ReleaseCoupon   bool
	RevertSold      bool // soldCount đã được cộng khi đơn sang placed
	ReverseEarnings bool // thử trừ doanh thu đã cộng; việc trừ chỉ xảy ra một lần
	CreditEarnings  bool
}

// PlanStatusChange tính việc phụ khi đơn chuyển từ trạng thái hiện tại sang to
func PlanStatusChange(order *models.Order, to string) StatusEffects {
	var fx StatusEffects
	switch to {
	case models.OrderStatusCancelled, models.OrderStatusFailed:
		fx.ReleaseStock = true
		fx.ReleaseCoupon = order.CouponID != nil
	case models.OrderStatusDelivered:
		if order.PaymentStatus == models.PaymentCashOnDelivery {
			fx.PaymentStatus = models.PaymentSuccess
			fx.CreditEarnings = true
		}
	}
	if IsClosedStatus(to) {
		if order.PaymentStatus == models.PaymentSuccess {
			fx.PaymentStatus = models.PaymentReversal
		}
		fx.RevertSold = order.Status != models.OrderStatusInitiated
		fx.ReverseEarnings = order.EarningsCredited || order.PaymentStatus == models.PaymentSuccess
	}
	return fx
}
