// Package withdrawdto - DTO rút tiền.
package withdrawdto

// WithdrawRequestInput là yêu cầu rút tiền của cửa hàng
type WithdrawRequestInput struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,max=60,no_xss"`
	Details       string  `json:"details" validate:"omitempty,max=1000,no_xss"`
	Note          string  `json:"note" validate:"omitempty,max=500,no_xss"`
}

// WithdrawStatusInput là dữ liệu đổi trạng thái (admin)
type WithdrawStatusInput struct {
	Status string `json:"status" validate:"required,oneof=PROCESSING ON_HOLD APPROVED REJECTED processing on_hold approved rejected"`
	Note   string `json:"note" validate:"omitempty,max=500,no_xss"`
}

// WithdrawListQuery là tham số danh sách (?page=&limit=&orderBy=amount|status|createdAt&sortedBy=asc|desc&status=)
type WithdrawListQuery struct {
	Page     int64  `query:"page"`
	Limit    int64  `query:"limit"`
	OrderBy  string `query:"orderBy" validate:"omitempty,oneof=amount status createdAt created_at"`
	SortedBy string `query:"sortedBy" validate:"omitempty,oneof=asc desc ASC DESC"`
	Status   string `query:"status" validate:"omitempty,max=20"`
}
