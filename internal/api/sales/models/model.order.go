// Package models - đơn hàng, thanh toán và các trạng thái của chúng.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái đơn hàng
const (
	OrderStatusInitiated = "initiated"
	OrderStatusPlaced    = "placed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
	OrderStatusFailed    = "failed"
)

// OrderStatusStage là một bước trên dòng thời gian đơn hàng
type OrderStatusStage struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Serial int    `json:"serial"`
}

// OrderStatuses là danh sách bước theo thứ tự; bốn bước kết thúc cùng serial 5
var OrderStatuses = []OrderStatusStage{
	{Name: "Order Pending", Status: OrderStatusInitiated, Serial: 1},
	{Name: "Order Processing", Status: OrderStatusPlaced, Serial: 2},
	{Name: "Order Shipped", Status: OrderStatusShipped, Serial: 3},
	{Name: "Order Delivered", Status: OrderStatusDelivered, Serial: 4},
	{Name: "Order Completed", Status: OrderStatusCompleted, Serial: 5},
	{Name: "Order Cancelled", Status: OrderStatusCancelled, Serial: 5},
	{Name: "Order Refunded", Status: OrderStatusRefunded, Serial: 5},
	{Name: "Order Failed", Status: OrderStatusFailed, Serial: 5},
}

// StatusIndex trả vị trí của trạng thái trong OrderStatuses (-1 nếu không có)
func StatusIndex(status string) int {
	for i, s := range OrderStatuses {
		if s.Status == status {
			return i
		}
	}
	return -1
}

// orderTransitions là các bước chuyển trạng thái hợp lệ
var orderTransitions = map[string][]string{
	OrderStatusInitiated: {OrderStatusPlaced, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusPlaced:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusFailed},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusRefunded},
	OrderStatusCompleted: {OrderStatusRefunded},
}

// CanTransition cho biết đơn có thể chuyển từ from sang to
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderItem là một dòng hàng; giá được chốt tại thời điểm đặt
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	UnitPrice float64            `json:"unitPrice" bson:"unitPrice"`
	Quantity  int64              `json:"quantity" bson:"quantity"`
	Subtotal  float64            `json:"subtotal" bson:"subtotal"`
}

// OrderAddress là địa chỉ giao hàng
type OrderAddress struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Country string `json:"country" bson:"country"`
	State   string `json:"state" bson:"state"`
	City    string `json:"city" bson:"city"`
	Zip     string `json:"zip" bson:"zip"`
	Street  string `json:"streetAddress" bson:"streetAddress"`
}

// StatusChange là một lần đổi trạng thái đơn
type StatusChange struct {
	Status    string              `json:"status" bson:"status"`
	Note      string              `json:"note,omitempty" bson:"note,omitempty"`
	ChangedBy *primitive.ObjectID `json:"changedBy,omitempty" bson:"changedBy,omitempty"`
	At        int64               `json:"at" bson:"at"`
}

// Order là đơn hàng của một khách tại một cửa hàng
type Order struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TrackingNumber   string              `json:"trackingNumber" bson:"trackingNumber" index:"unique"`
	CustomerID       primitive.ObjectID  `json:"customerId" bson:"customerId" index:"single"`
	CustomerEmail    string              `json:"customerEmail,omitempty" bson:"customerEmail,omitempty"`
	ShopID           primitive.ObjectID  `json:"shopId" bson:"shopId" index:"single;compound:shop_status"`
	Products         []OrderItem         `json:"products" bson:"products"`
	Amount           float64             `json:"amount" bson:"amount"`
	SalesTax         float64             `json:"salesTax" bson:"salesTax"`
	DeliveryFee      float64             `json:"deliveryFee" bson:"deliveryFee"`
	Discount         float64             `json:"discount" bson:"discount"`
	Total            float64             `json:"total" bson:"total"`
	CouponID         *primitive.ObjectID `json:"couponId,omitempty" bson:"couponId,omitempty"`
	CouponCode       string              `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	ShippingAddress  OrderAddress        `json:"shippingAddress" bson:"shippingAddress"`
	Status           string              `json:"status" bson:"status" index:"single;compound:shop_status"`
	PaymentGateway   string              `json:"paymentGateway" bson:"paymentGateway"`
	PaymentStatus    string              `json:"paymentStatus" bson:"paymentStatus"`
	StatusHistory    []StatusChange      `json:"statusHistory" bson:"statusHistory"`
	EarningsCredited bool                `json:"-" bson:"earningsCredited"`
	CreditedEarnings float64             `json:"-" bson:"creditedEarnings,omitempty"`
	Note             string              `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt        int64               `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt        int64               `json:"updatedAt" bson:"updatedAt"`
}

// SoldQuantities gom số lượng theo sản phẩm
func (o *Order) SoldQuantities() map[primitive.ObjectID]int64 {
	out := make(map[primitive.ObjectID]int64, len(o.Products))
	for _, it := range o.Products {
		out[it.ProductID] += it.Quantity
	}
	return out
}

// Revenue là tiền hàng sau giảm giá, phần dùng để tính doanh thu cửa hàng
func (o *Order) Revenue() float64 {
	r := o.Amount - o.Discount
	if r < 0 {
		return 0
	}
	return r
}

// OrderDetail là đơn kèm dòng thời gian trạng thái
type OrderDetail struct {
	Order          `json:",inline" bson:",inline"`
	StatusTimeline []OrderStatusStage `json:"statusTimeline"`
}
