// Package salesdto - DTO đặt hàng và thanh toán.
package salesdto

import (
	models "vdg_commerce/internal/api/sales/models"
)

// CheckoutItemInput là một dòng trong giỏ hàng
type CheckoutItemInput struct {
	ProductID string `json:"productId" validate:"required,object_id"`
	Quantity  int64  `json:"quantity" validate:"required,gte=1,lte=1000"`
}

// AddressInput là địa chỉ giao hàng
type AddressInput struct {
	Name    string `json:"name" validate:"required,max=100,no_xss"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Country string `json:"country" validate:"required"`
	State   string `json:"state"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip"`
	Street  string `json:"streetAddress" validate:"required,no_xss"`
}

// ToModel chuyển sang địa chỉ lưu trong đơn
func (a AddressInput) ToModel() models.OrderAddress {
	return models.OrderAddress{
		Name: a.Name, Phone: a.Phone, Country: a.Country, State: a.State,
		City: a.City, Zip: a.Zip, Street: a.Street,
	}
}

// CheckoutInput là dữ liệu đặt hàng; mọi sản phẩm phải thuộc cùng một cửa hàng
type CheckoutInput struct {
	Items           []CheckoutItemInput `json:"items" validate:"required,min=1,max=100,dive"`
	ShippingID      string              `json:"shippingId" validate:"omitempty,object_id"`
	CouponCode      string              `json:"couponCode" validate:"omitempty,max=40"`
	ShippingAddress AddressInput        `json:"shippingAddress" validate:"required"`
	PaymentGateway  string              `json:"paymentGateway" validate:"required,oneof=CASH_ON_DELIVERY STRIPE PAYPAL CASH"`
	Note            string              `json:"note" validate:"omitempty,max=500,no_xss"`
}

// OrderStatusInput là dữ liệu đổi trạng thái đơn
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=placed shipped delivered completed cancelled refunded failed"`
	Note   string `json:"note" validate:"omitempty,max=500,no_xss"`
}

// CancelOrderInput là lý do khách huỷ đơn
type CancelOrderInput struct {
	Note string `json:"note" validate:"omitempty,max=500,no_xss"`
}

// OrderListQuery là tham số danh sách đơn (?page=&limit=&status=&tracking=)
type OrderListQuery struct {
	Page     int64  `query:"page"`
	Limit    int64  `query:"limit"`
	Status   string `query:"status" validate:"omitempty,oneof=initiated placed shipped delivered completed cancelled refunded failed"`
	Tracking string `query:"tracking" validate:"omitempty,max=40"`
}

// PaymentIntentInput là yêu cầu tạo thanh toán cho đơn
type PaymentIntentInput struct {
	OrderID string `json:"orderId" validate:"required,object_id"`
	Gateway string `json:"gateway" validate:"required,oneof=STRIPE PAYPAL CASH"`
}

// PaymentConfirmInput là kết quả thanh toán từ cổng
type PaymentConfirmInput struct {
	Status         string `json:"status" validate:"required,oneof=payment-success payment-failed"`
	TransactionRef string `json:"transactionRef" validate:"omitempty,max=120"`
}

// CashOnDeliveryInput chọn thanh toán khi nhận hàng cho đơn
type CashOnDeliveryInput struct {
	OrderID string `json:"orderId" validate:"required,object_id"`
}
