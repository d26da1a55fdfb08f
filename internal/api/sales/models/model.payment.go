package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái thanh toán
const (
	PaymentPending            = "payment-pending"
	PaymentProcessing         = "payment-processing"
	PaymentSuccess            = "payment-success"
	PaymentFailed             = "payment-failed"
	PaymentReversal           = "payment-reversal"
	PaymentCashOnDelivery     = "payment-cash-on-delivery"
	PaymentCash               = "payment-cash"
	PaymentWallet             = "payment-wallet"
	PaymentAwaitingForApprove = "payment-awaiting-for-approval"
)

// Cổng thanh toán
const (
	GatewayCOD    = "CASH_ON_DELIVERY"
	GatewayStripe = "STRIPE"
	GatewayPaypal = "PAYPAL"
	GatewayCash   = "CASH"
)

// IsSettled cho biết trạng thái thanh toán đã chắc chắn thu được tiền (hoặc thu khi giao)
func IsSettled(paymentStatus string) bool {
	return paymentStatus == PaymentSuccess || paymentStatus == PaymentCashOnDelivery
}

// Payment là một lần thanh toán cho đơn hàng
type Payment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderID        primitive.ObjectID `json:"orderId" bson:"orderId" index:"single"`
	CustomerID     primitive.ObjectID `json:"customerId" bson:"customerId"`
	ShopID         primitive.ObjectID `json:"shopId" bson:"shopId" index:"single"`
	Gateway        string             `json:"gateway" bson:"gateway"`
	Amount         float64            `json:"amount" bson:"amount"`
	Status         string             `json:"status" bson:"status"`
	TransactionRef string             `json:"transactionRef,omitempty" bson:"transactionRef,omitempty" index:"unique,sparse"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
