// Package models - thuế, phí vận chuyển và mã giảm giá.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kiểu giảm giá / phí vận chuyển
const (
	TypeFixed        = "fixed"
	TypePercentage   = "percentage"
	TypeFreeShipping = "free_shipping"
)

// MaxPercentAmount là mức giảm tối đa của mã phần trăm
const MaxPercentAmount = 100

// CouponAmountValid kiểm tra giá trị mã theo loại: mã phần trăm không vượt quá 100
func CouponAmountValid(typ string, amount float64) bool {
	return amount >= 0 && (typ != TypePercentage || amount <= MaxPercentAmount)
}

// Tax là mức thuế theo khu vực; IsGlobal áp dụng khi không có mức riêng
type Tax struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty" yaml:"-"`
	Name       string             `json:"name" bson:"name" yaml:"name"`
	Rate       float64            `json:"rate" bson:"rate" yaml:"rate"`
	Country    string             `json:"country,omitempty" bson:"country,omitempty" yaml:"country" index:"single"`
	State      string             `json:"state,omitempty" bson:"state,omitempty" yaml:"state"`
	Zip        string             `json:"zip,omitempty" bson:"zip,omitempty" yaml:"zip"`
	City       string             `json:"city,omitempty" bson:"city,omitempty" yaml:"city"`
	Priority   int                `json:"priority" bson:"priority" yaml:"priority"`
	IsGlobal   bool               `json:"isGlobal" bson:"isGlobal" yaml:"isGlobal"`
	OnShipping bool               `json:"onShipping" bson:"onShipping" yaml:"onShipping"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Shipping là hạng vận chuyển
type Shipping struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty" yaml:"-"`
	Name      string             `json:"name" bson:"name" yaml:"name"`
	Amount    float64            `json:"amount" bson:"amount" yaml:"amount"`
	Type      string             `json:"type" bson:"type" yaml:"type"`
	IsGlobal  bool               `json:"isGlobal" bson:"isGlobal" yaml:"isGlobal" index:"single"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Fee tính phí vận chuyển theo tiền hàng
func (s *Shipping) Fee(amount float64) float64 {
	if s == nil {
		return 0
	}
	switch s.Type {
	case TypeFixed:
		return s.Amount
	case TypePercentage:
		return amount * s.Amount / 100
	default:
		return 0
	}
}

// Coupon là mã giảm giá; UsageLimit = 0 là không giới hạn, thời gian tính bằng millisecond
type Coupon struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code              string             `json:"code" bson:"code" index:"unique"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	Image             string             `json:"image,omitempty" bson:"image,omitempty"`
	Type              string             `json:"type" bson:"type"`
	Amount            float64            `json:"amount" bson:"amount"`
	MinimumCartAmount float64            `json:"minimumCartAmount" bson:"minimumCartAmount"`
	ActiveFrom        int64              `json:"activeFrom" bson:"activeFrom"`
	ExpireAt          int64              `json:"expireAt" bson:"expireAt" index:"single"`
	IsActive          bool               `json:"isActive" bson:"isActive" index:"single"`
	UsageLimit        int64              `json:"usageLimit" bson:"usageLimit"`
	UsedCount         int64              `json:"usedCount" bson:"usedCount"`
	CreatedAt         int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt         int64              `json:"updatedAt" bson:"updatedAt"`
}
