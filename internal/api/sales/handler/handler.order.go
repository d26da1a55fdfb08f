// Package saleshdl - handler đơn hàng và thanh toán.
package saleshdl

import (
	authmodels "vdg_commerce/internal/api/auth/models"
	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/api/middleware"
	salesdto "vdg_commerce/internal/api/sales/dto"
	models "vdg_commerce/internal/api/sales/models"
	salessvc "vdg_commerce/internal/api/sales/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errShopHeaderRequired = common.NewError(common.ErrCodeValidationInput,
	"Thiếu header "+middleware.HeaderShopID, common.StatusBadRequest, nil)

// OrderHandler xử lý đơn hàng
type OrderHandler struct {
	*basehdl.BaseHandler[models.Order, salesdto.CheckoutInput, salesdto.OrderStatusInput]
	orderService *salessvc.OrderService
}

// NewOrderHandler tạo OrderHandler
func NewOrderHandler(orderService *salessvc.OrderService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  basehdl.NewBaseHandler[models.Order, salesdto.CheckoutInput, salesdto.OrderStatusInput](orderService),
		orderService: orderService,
	}
}

func requireUser(c fiber.Ctx) (*authmodels.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
		return nil, false
	}
	return user, true
}

// shopScope trả cửa hàng mà request được phép thao tác; admin không gửi header thì xem toàn hệ thống
func shopScope(c fiber.Ctx, user *authmodels.User) (*primitive.ObjectID, error) {
	shopID := basehdl.GetShopID(c)
	if shopID == nil && !user.IsAdmin() {
		return nil, errShopHeaderRequired
	}
	return shopID, nil
}

// HandleQuote tính tiền giỏ hàng (không giữ hàng, không tạo đơn)
func (h *OrderHandler) HandleQuote(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input salesdto.CheckoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		quote, err := h.orderService.Quote(c.Context(), &input)
		h.HandleResponse(c, quote, err)
		return nil
	})
}

// HandleCheckout đặt hàng cho khách đang đăng nhập
func (h *OrderHandler) HandleCheckout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		var input salesdto.CheckoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.orderService.Checkout(c.Context(), user.ID, user.Email, &input)
		if err == nil {
			logger.LogCRUD("create", "order", order.ID.Hex(), c, map[string]any{"tracking": order.TrackingNumber})
		}
		basehdl.HandleCreated(c, order, err)
		return nil
	})
}

// HandleList trả đơn của cửa hàng (X-Shop-ID) hoặc toàn hệ thống với admin
func (h *OrderHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		shopID, err := shopScope(c, user)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var q salesdto.OrderListQuery
		if err := h.ParseRequestQuery(c, &q); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.orderService.List(c.Context(), &q, shopID, nil)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleDetail trả đơn kèm dòng thời gian trạng thái
func (h *OrderHandler) HandleDetail(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		shopID, err := shopScope(c, user)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		detail, err := h.orderService.Detail(c.Context(), id, shopID)
		h.HandleResponse(c, detail, err)
		return nil
	})
}

// HandleUpdateStatus đổi trạng thái đơn
func (h *OrderHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		shopID, err := shopScope(c, user)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input salesdto.OrderStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		detail, err := h.orderService.UpdateStatus(c.Context(), id, shopID, input.Status, input.Note, &user.ID)
		if err == nil {
			logger.LogAction("order_status", c, map[string]any{"order": detail.TrackingNumber, "status": input.Status})
		}
		h.HandleResponse(c, detail, err)
		return nil
	})
}

// HandleCancel cho khách huỷ đơn của mình
func (h *OrderHandler) HandleCancel(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input salesdto.CancelOrderInput
		if len(c.Body()) > 0 {
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}
		detail, err := h.orderService.Cancel(c.Context(), id, user.ID, input.Note)
		h.HandleResponse(c, detail, err)
		return nil
	})
}

// HandleMyOrders trả đơn của khách đang đăng nhập
func (h *OrderHandler) HandleMyOrders(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		var q salesdto.OrderListQuery
		if err := h.ParseRequestQuery(c, &q); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.orderService.List(c.Context(), &q, nil, &user.ID)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleMyOrder trả đơn của khách theo mã theo dõi
func (h *OrderHandler) HandleMyOrder(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		detail, err := h.orderService.FindByTracking(c.Context(), user.ID, c.Params("tracking"))
		h.HandleResponse(c, detail, err)
		return nil
	})
}

// PaymentHandler xử lý thanh toán
type PaymentHandler struct {
	paymentService *salessvc.PaymentService
}

// NewPaymentHandler tạo PaymentHandler
func NewPaymentHandler(paymentService *salessvc.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleIntent tạo thanh toán cho đơn của khách
func (h *PaymentHandler) HandleIntent(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		var input salesdto.PaymentIntentInput
		if err := basehdl.ParseBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		payment, err := h.paymentService.CreateIntent(c.Context(), user.ID, mustID(input.OrderID), input.Gateway)
		basehdl.HandleCreated(c, payment, err)
		return nil
	})
}

// HandleConfirm ghi nhận kết quả thanh toán
func (h *PaymentHandler) HandleConfirm(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := basehdl.ParseObjectIDParam(c, "id")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input salesdto.PaymentConfirmInput
		if err := basehdl.ParseBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		payment, err := h.paymentService.Confirm(c.Context(), id, input.Status, input.TransactionRef)
		if err == nil {
			logger.LogAction("payment_confirm", c, map[string]any{"payment": id.Hex(), "status": input.Status})
		}
		basehdl.HandleResponse(c, payment, err)
		return nil
	})
}

// HandleCashOnDelivery chọn thanh toán khi nhận hàng
func (h *PaymentHandler) HandleCashOnDelivery(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		var input salesdto.CashOnDeliveryInput
		if err := basehdl.ParseBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		order, err := h.paymentService.CashOnDelivery(c.Context(), user.ID, mustID(input.OrderID))
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		basehdl.HandleResponse(c, salessvc.NewOrderDetail(order), nil)
		return nil
	})
}

// HandleListForOrder trả các lần thanh toán của đơn.
// Khách chỉ xem đơn của mình, cửa hàng xem theo X-Shop-ID, admin xem tất cả.
func (h *PaymentHandler) HandleListForOrder(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, ok := requireUser(c)
		if !ok {
			return nil
		}
		orderID, err := basehdl.ParseObjectIDParam(c, "orderId")
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var customerID *primitive.ObjectID
		shopID := basehdl.GetShopID(c)
		if shopID == nil && !user.IsAdmin() {
			customerID = &user.ID
		}
		payments, err := h.paymentService.ListForOrder(c.Context(), orderID, customerID, shopID)
		basehdl.HandleResponse(c, payments, err)
		return nil
	})
}

// mustID đổi hex đã qua validate object_id sang ObjectID
func mustID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}
