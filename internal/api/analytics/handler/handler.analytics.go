// Package analyticshdl - handler thống kê.
package analyticshdl

import (
	"fmt"
	"time"

	analyticsdto "vdg_commerce/internal/api/analytics/dto"
	analyticssvc "vdg_commerce/internal/api/analytics/service"
	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/api/middleware"
	"vdg_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errShopHeaderRequired = common.NewError(common.ErrCodeValidationInput,
	"Thiếu header "+middleware.HeaderShopID, common.StatusBadRequest, nil)

// AnalyticsHandler xử lý /analytics
type AnalyticsHandler struct {
	svc *analyticssvc.AnalyticsService
}

// NewAnalyticsHandler tạo AnalyticsHandler
func NewAnalyticsHandler() (*AnalyticsHandler, error) {
	svc, err := analyticssvc.NewAnalyticsService()
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}
	return &AnalyticsHandler{svc: svc}, nil
}

// scope: admin không gửi X-Shop-ID thì xem toàn hệ thống; chủ shop và nhân viên chỉ xem cửa hàng của mình
func scope(c fiber.Ctx) (*primitive.ObjectID, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, common.ErrTokenMissing
	}
	shopID := basehdl.GetShopID(c)
	if shopID == nil && !user.IsAdmin() {
		return nil, errShopHeaderRequired
	}
	return shopID, nil
}

// params đọc days và múi giờ từ query
func params(c fiber.Ctx) (int, *time.Location, error) {
	var q analyticsdto.RevenueQuery
	if err := basehdl.ParseQuery(c, &q); err != nil {
		return 0, nil, err
	}
	loc := time.UTC
	if q.Timezone != "" {
		l, err := time.LoadLocation(q.Timezone)
		if err != nil {
			return 0, nil, common.NewError(common.ErrCodeValidationFormat, "Múi giờ không hợp lệ", common.StatusBadRequest, q.Timezone)
		}
		loc = l
	}
	return q.Days, loc, nil
}

func (h *AnalyticsHandler) run(c fiber.Ctx, fn func(shopID *primitive.ObjectID, days int, loc *time.Location) (any, error)) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		shopID, err := scope(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		days, loc, err := params(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		data, err := fn(shopID, days, loc)
		basehdl.HandleResponse(c, data, err)
		return nil
	})
}

// HandleOverview trả toàn bộ số liệu dashboard
// @Router /analytics [get]
func (h *AnalyticsHandler) HandleOverview(c fiber.Ctx) error {
	return h.run(c, func(shopID *primitive.ObjectID, days int, loc *time.Location) (any, error) {
		return h.svc.Overview(c.Context(), shopID, days, loc)
	})
}

// HandleTotals trả các chỉ số tổng
// @Router /analytics/totals [get]
func (h *AnalyticsHandler) HandleTotals(c fiber.Ctx) error {
	return h.run(c, func(shopID *primitive.ObjectID, _ int, loc *time.Location) (any, error) {
		return h.svc.Totals(c.Context(), shopID, loc)
	})
}

// HandleRevenue trả doanh thu theo ngày
// @Router /analytics/revenue [get]
func (h *AnalyticsHandler) HandleRevenue(c fiber.Ctx) error {
	return h.run(c, func(shopID *primitive.ObjectID, days int, loc *time.Location) (any, error) {
		return h.svc.RevenueByDay(c.Context(), shopID, days, loc)
	})
}

// HandleOrderStatus trả số đơn theo trạng thái
// @Router /analytics/order-status [get]
func (h *AnalyticsHandler) HandleOrderStatus(c fiber.Ctx) error {
	return h.run(c, func(shopID *primitive.ObjectID, _ int, _ *time.Location) (any, error) {
		return h.svc.StatusCounts(c.Context(), shopID)
	})
}
