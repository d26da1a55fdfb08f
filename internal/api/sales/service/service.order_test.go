package salessvc

import (
	"testing"

	commercemodels "vdg_commerce/internal/api/commerce/models"
	pricingmodels "vdg_commerce/internal/api/pricing/models"
	salesdto "vdg_commerce/internal/api/sales/dto"
	models "vdg_commerce/internal/api/sales/models"
	"vdg_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func statuses(stages []models.OrderStatusStage) []string {
	out := make([]string, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Status)
	}
	return out
}

func TestFilterOrderStatus(t *testing.T) {
	all := models.OrderStatuses
	firstFive := []string{"initiated", "placed", "shipped", "delivered", "completed"}

	tests := []struct {
		name    string
		payment string
		current int
		want    []string
	}{
		{"đã thanh toán, đang giao", models.PaymentSuccess, 2, firstFive},
		{"COD, đã huỷ", models.PaymentCashOnDelivery, 5, []string{"initiated", "placed", "shipped", "delivered", "cancelled"}},
		{"chưa thanh toán, đang xử lý", models.PaymentPending, 1, firstFive},
		{"chưa thanh toán, thất bại", models.PaymentFailed, 7, []string{"initiated", "placed", "failed"}},
		{"đã thanh toán, hoàn tiền", models.PaymentSuccess, 6, []string{"initiated", "placed", "shipped", "delivered", "refunded"}},
		{"trạng thái lạ", models.PaymentPending, -1, firstFive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statuses(FilterOrderStatus(all, tt.payment, tt.current)))
		})
	}

	t.Run("danh sách ngắn được cắt theo độ dài", func(t *testing.T) {
		short := all[:3]
		assert.Equal(t, []string{"initiated", "placed", "shipped"}, statuses(FilterOrderStatus(short, models.PaymentSuccess, 1)))
		assert.Equal(t, []string{"initiated", "placed", "shipped"}, statuses(FilterOrderStatus(short, models.PaymentSuccess, 6)))
	})

	t.Run("không sửa danh sách gốc", func(t *testing.T) {
		out := FilterOrderStatus(all, models.PaymentSuccess, 5)
		out[0].Name = "x"
		assert.Equal(t, "Order Pending", all[0].Name)
	})
}

func TestStatusTimeline(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusCancelled, PaymentStatus: models.PaymentPending}
	assert.Equal(t, []string{"initiated", "placed", "cancelled"}, statuses(StatusTimeline(o)))

	d := NewOrderDetail(models.Order{Status: models.OrderStatusShipped, PaymentStatus: models.PaymentSuccess})
	assert.Len(t, d.StatusTimeline, 5)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, models.CanTransition(models.OrderStatusInitiated, models.OrderStatusPlaced))
	assert.True(t, models.CanTransition(models.OrderStatusPlaced, models.OrderStatusCancelled))
	assert.True(t, models.CanTransition(models.OrderStatusDelivered, models.OrderStatusCompleted))
	assert.False(t, models.CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled))
	assert.False(t, models.CanTransition(models.OrderStatusCancelled, models.OrderStatusPlaced))
	assert.False(t, models.CanTransition(models.OrderStatusRefunded, models.OrderStatusCompleted))
}

func TestCalculateTotals(t *testing.T) {
	items := []models.OrderItem{
		{UnitPrice: 10.5, Quantity: 2},
		{UnitPrice: 3.333, Quantity: 3},
	}
	fixedShip := &pricingmodels.Shipping{Type: pricingmodels.TypeFixed, Amount: 5}

	t.Run("không mã giảm giá", func(t *testing.T) {
		got := CalculateTotals(items, 10, fixedShip, nil)
		assert.Equal(t, Totals{Amount: 31, SalesTax: 3.1, DeliveryFee: 5, Discount: 0, Total: 39.1}, got)
	})
	t.Run("giảm cố định lớn hơn tiền hàng", func(t *testing.T) {
		c := &pricingmodels.Coupon{Type: pricingmodels.TypeFixed, Amount: 100}
		got := CalculateTotals(items, 0, nil, c)
		assert.Equal(t, 31.0, got.Discount)
		assert.Equal(t, 0.0, got.Total)
	})
	t.Run("giảm phần trăm", func(t *testing.T) {
		c := &pricingmodels.Coupon{Type: pricingmodels.TypePercentage, Amount: 15}
		got := CalculateTotals(items, 0, fixedShip, c)
		assert.Equal(t, 4.65, got.Discount)
		assert.Equal(t, 31.35, got.Total)
	})
	t.Run("miễn phí vận chuyển", func(t *testing.T) {
		pct := &pricingmodels.Shipping{Type: pricingmodels.TypePercentage, Amount: 10}
		c := &pricingmodels.Coupon{Type: pricingmodels.TypeFreeShipping}
		got := CalculateTotals(items, 0, pct, c)
		assert.Equal(t, 3.1, got.DeliveryFee)
		assert.Equal(t, 3.1, got.Discount)
		assert.Equal(t, 31.0, got.Total)
	})
	t.Run("giỏ rỗng", func(t *testing.T) {
		assert.Equal(t, Totals{}, CalculateTotals(nil, 10, nil, nil))
	})
}

func TestBuildItems(t *testing.T) {
	shopA, shopB := primitive.NewObjectID(), primitive.NewObjectID()
	p1 := commercemodels.Product{ID: primitive.NewObjectID(), ShopID: shopA, Name: "Táo", Price: 10, SalePrice: 8, Quantity: 5, Status: commercemodels.ProductStatusPublish}
	p2 := commercemodels.Product{ID: primitive.NewObjectID(), ShopID: shopA, Name: "Lê", Price: 4, Quantity: 1, Status: commercemodels.ProductStatusPublish}
	p3 := commercemodels.Product{ID: primitive.NewObjectID(), ShopID: shopB, Name: "Cam", Price: 2, Quantity: 9, Status: commercemodels.ProductStatusPublish}
	draft := commercemodels.Product{ID: primitive.NewObjectID(), ShopID: shopA, Price: 1, Quantity: 9, Status: commercemodels.ProductStatusDraft}
	products := []commercemodels.Product{p1, p2, p3, draft}

	in := func(p commercemodels.Product, q int64) salesdto.CheckoutItemInput {
		return salesdto.CheckoutItemInput{ProductID: p.ID.Hex(), Quantity: q}
	}

	t.Run("gộp dòng trùng và lấy giá khuyến mãi", func(t *testing.T) {
		items, shop, err := BuildItems([]salesdto.CheckoutItemInput{in(p1, 1), in(p2, 1), in(p1, 2)}, products)
		require.NoError(t, err)
		assert.Equal(t, shopA, shop)
		require.Len(t, items, 2)
		assert.Equal(t, int64(3), items[0].Quantity)
		assert.Equal(t, 8.0, items[0].UnitPrice)
		assert.Equal(t, 24.0, items[0].Subtotal)
	})
	t.Run("khác cửa hàng", func(t *testing.T) {
		_, _, err := BuildItems([]salesdto.CheckoutItemInput{in(p1, 1), in(p3, 1)}, products)
		assert.ErrorIs(t, err, errMixedShops)
	})
	t.Run("sản phẩm nháp", func(t *testing.T) {
		_, _, err := BuildItems([]salesdto.CheckoutItemInput{in(draft, 1)}, products)
		assert.ErrorIs(t, err, errProductNotOnSale)
	})
	t.Run("vượt tồn kho sau khi gộp", func(t *testing.T) {
		_, _, err := BuildItems([]salesdto.CheckoutItemInput{in(p2, 1), in(p2, 1)}, products)
		assert.ErrorIs(t, err, common.ErrOutOfStock)
	})
}

func TestListFilter(t *testing.T) {
	shop := primitive.NewObjectID()
	customer := primitive.NewObjectID()
	f := ListFilter(&salesdto.OrderListQuery{Status: "placed", Tracking: "TN00000001"}, &shop, &customer)
	assert.Equal(t, bson.M{"shopId": shop, "customerId": customer, "status": "placed", "trackingNumber": "TN00000001"}, f)
	assert.Empty(t, ListFilter(&salesdto.OrderListQuery{}, nil, nil))
}

func TestFormatTrackingNumber(t *testing.T) {
	assert.Equal(t, "TN00000042", FormatTrackingNumber(42))
}

func TestOrderRevenueAndSold(t *testing.T) {
	id := primitive.NewObjectID()
	o := models.Order{Amount: 50, Discount: 60, Products: []models.OrderItem{{ProductID: id, Quantity: 2}, {ProductID: id, Quantity: 1}}}
	assert.Zero(t, o.Revenue())
	assert.Equal(t, map[primitive.ObjectID]int64{id: 3}, o.SoldQuantities())
}

func TestPlanStatusChange(t *testing.T) {
	coupon := primitive.NewObjectID()

	t.Run("đơn đã thanh toán bị huỷ thì hoàn tiền và trừ doanh thu", func(t *testing.T) {
		paid := &models.Order{
			Status:           models.OrderStatusPlaced,
			PaymentStatus:    models.PaymentSuccess,
			EarningsCredited: true,
			CouponID:         &coupon,
		}
		fx := PlanStatusChange(paid, models.OrderStatusCancelled)
		assert.Equal(t, models.PaymentReversal, fx.PaymentStatus)
		assert.True(t, fx.ReleaseStock)
		assert.True(t, fx.ReleaseCoupon)
		assert.True(t, fx.RevertSold)
		assert.True(t, fx.ReverseEarnings)
		assert.False(t, fx.CreditEarnings)
	})

	t.Run("đơn chưa thanh toán bị huỷ chỉ hoàn kho", func(t *testing.T) {
		fx := PlanStatusChange(&models.Order{Status: models.OrderStatusInitiated, PaymentStatus: models.PaymentPending}, models.OrderStatusCancelled)
		assert.Empty(t, fx.PaymentStatus)
		assert.True(t, fx.ReleaseStock)
		assert.False(t, fx.ReleaseCoupon)
		assert.False(t, fx.RevertSold)
		assert.False(t, fx.ReverseEarnings)
	})

	t.Run("đơn COD huỷ trước khi giao không có doanh thu để trừ", func(t *testing.T) {
		fx := PlanStatusChange(&models.Order{Status: models.OrderStatusPlaced, PaymentStatus: models.PaymentCashOnDelivery}, models.OrderStatusCancelled)
		assert.Empty(t, fx.PaymentStatus)
		assert.True(t, fx.RevertSold)
		assert.False(t, fx.ReverseEarnings)
	})

	t.Run("giao đơn COD thì ghi nhận thanh toán và doanh thu", func(t *testing.T) {
		fx := PlanStatusChange(&models.Order{Status: models.OrderStatusShipped, PaymentStatus: models.PaymentCashOnDelivery}, models.OrderStatusDelivered)
		assert.Equal(t, models.PaymentSuccess, fx.PaymentStatus)
		assert.True(t, fx.CreditEarnings)
		assert.False(t, fx.ReleaseStock)
	})

	t.Run("hoàn tiền đơn đã giao trừ doanh thu nhưng không hoàn kho", func(t *testing.T) {
		fx := PlanStatusChange(&models.Order{Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentSuccess, EarningsCredited: true}, models.OrderStatusRefunded)
		assert.Equal(t, models.PaymentReversal, fx.PaymentStatus)
		assert.True(t, fx.ReverseEarnings)
		assert.True(t, fx.RevertSold)
		assert.False(t, fx.ReleaseStock)
	})

	t.Run("đơn đang mở không có việc phụ", func(t *testing.T) {
		assert.Equal(t, StatusEffects{}, PlanStatusChange(&models.Order{Status: models.OrderStatusPlaced, PaymentStatus: models.PaymentSuccess}, models.OrderStatusShipped))
	})
}

func TestIsClosedStatus(t *testing.T) {
	for _, s := range []string{models.OrderStatusCancelled, models.OrderStatusFailed, models.OrderStatusRefunded} {
		assert.True(t, IsClosedStatus(s), s)
	}
	assert.False(t, IsClosedStatus(models.OrderStatusDelivered))
}
