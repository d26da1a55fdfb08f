package notification

// Domain phân loại thông báo
const (
	DomainOrder    = "order"
	DomainPayment  = "payment"
	DomainWithdraw = "withdraw"
	DomainUser     = "user"
)

// Event là loại sự kiện gửi thông báo
const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventWithdrawStatus     = "withdraw_status_changed"
	EventPasswordReset      = "password_reset"
)

// eventDomains ánh xạ sự kiện sang domain (dùng cho log)
var eventDomains = map[string]string{
	EventOrderPlaced:        DomainOrder,
	EventOrderStatusChanged: DomainOrder,
	EventWithdrawStatus:     DomainWithdraw,
	EventPasswordReset:      DomainUser,
}
