// Package models - yêu cầu rút tiền của cửa hàng.
package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái rút tiền
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusOnHold     = "ON_HOLD"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
)

var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusOnHold, StatusApproved, StatusRejected},
	StatusProcessing: {StatusApproved, StatusOnHold, StatusRejected},
	StatusOnHold:     {StatusProcessing, StatusApproved, StatusRejected},
}

// CanTransition cho biết yêu cầu có thể chuyển từ from sang to; APPROVED và REJECTED là trạng thái cuối
func CanTransition(from, to string) bool {
	for _, s := range transitions[strings.ToUpper(from)] {
		if s == strings.ToUpper(to) {
			return true
		}
	}
	return false
}

// Withdraw là một yêu cầu rút tiền
type Withdraw struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Number        int64              `json:"number" bson:"number" index:"unique"`
	ShopID        primitive.ObjectID `json:"shopId" bson:"shopId" index:"single"`
	Amount        float64            `json:"amount" bson:"amount" index:"single"`
	PaymentMethod string             `json:"paymentMethod" bson:"paymentMethod"`
	Details       string             `json:"details,omitempty" bson:"details,omitempty"`
	Note          string             `json:"note,omitempty" bson:"note,omitempty"`
	Status        string             `json:"status" bson:"status" index:"single"`
	RequestedBy   primitive.ObjectID `json:"requestedBy" bson:"requestedBy"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}

// StatusBadge là nhãn trạng thái hiển thị trên danh sách
type StatusBadge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ShopRef là thông tin rút gọn của cửa hàng
type ShopRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// WithdrawView là một dòng trên danh sách rút tiền
type WithdrawView struct {
	Withdraw    `json:",inline"`
	Shop        *ShopRef     `json:"shop,omitempty"`
	Price       string       `json:"price"`
	StatusBadge *StatusBadge `json:"statusBadge,omitempty"`
}

// PaginatorInfo là thông tin phân trang của danh sách rút tiền
type PaginatorInfo struct {
	Total       int64 `json:"total"`
	CurrentPage int64 `json:"currentPage"`
	PerPage     int64 `json:"perPage"`
	LastPage    int64 `json:"lastPage"`
}

// WithdrawPage là một trang rút tiền
type WithdrawPage struct {
	Data          []WithdrawView `json:"data"`
	PaginatorInfo PaginatorInfo  `json:"paginatorInfo"`
}
