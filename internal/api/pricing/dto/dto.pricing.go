// Package pricingdto - DTO thuế, vận chuyển, mã giảm giá.
package pricingdto

import (
	"strings"
	"time"

	models "vdg_commerce/internal/api/pricing/models"
	"vdg_commerce/internal/utility"
)

// TaxInput là dữ liệu tạo thuế
type TaxInput struct {
	Name       string  `json:"name" bson:"name" validate:"required,max=100,no_xss"`
	Rate       float64 `json:"rate" bson:"rate" validate:"gte=0,lte=100"`
	Country    string  `json:"country" bson:"country"`
	State      string  `json:"state" bson:"state"`
	Zip        string  `json:"zip" bson:"zip"`
	City       string  `json:"city" bson:"city"`
	Priority   int     `json:"priority" bson:"priority" validate:"gte=0"`
	IsGlobal   bool    `json:"isGlobal" bson:"isGlobal"`
	OnShipping bool    `json:"onShipping" bson:"onShipping"`
}

// TaxUpdateInput là dữ liệu cập nhật thuế
type TaxUpdateInput struct {
	Name       *string  `json:"name" bson:"name,omitempty" validate:"omitempty,max=100,no_xss"`
	Rate       *float64 `json:"rate" bson:"rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Country    *string  `json:"country" bson:"country,omitempty"`
	State      *string  `json:"state" bson:"state,omitempty"`
	Zip        *string  `json:"zip" bson:"zip,omitempty"`
	City       *string  `json:"city" bson:"city,omitempty"`
	Priority   *int     `json:"priority" bson:"priority,omitempty" validate:"omitempty,gte=0"`
	IsGlobal   *bool    `json:"isGlobal" bson:"isGlobal,omitempty"`
	OnShipping *bool    `json:"onShipping" bson:"onShipping,omitempty"`
}

// ShippingInput là dữ liệu tạo hạng vận chuyển
type ShippingInput struct {
	Name     string  `json:"name" bson:"name" validate:"required,max=100,no_xss"`
	Amount   float64 `json:"amount" bson:"amount" validate:"gte=0"`
	Type     string  `json:"type" bson:"type" validate:"required,oneof=fixed percentage free_shipping"`
	IsGlobal bool    `json:"isGlobal" bson:"isGlobal"`
}

// ShippingUpdateInput là dữ liệu cập nhật hạng vận chuyển
type ShippingUpdateInput struct {
	Name     *string  `json:"name" bson:"name,omitempty" validate:"omitempty,max=100,no_xss"`
	Amount   *float64 `json:"amount" bson:"amount,omitempty" validate:"omitempty,gte=0"`
	Type     *string  `json:"type" bson:"type,omitempty" validate:"omitempty,oneof=fixed percentage free_shipping"`
	IsGlobal *bool    `json:"isGlobal" bson:"isGlobal,omitempty"`
}

// CouponInput là dữ liệu tạo mã giảm giá; thời gian theo RFC3339
type CouponInput struct {
	Code              string    `json:"code" validate:"required,max=40,alphanum"`
	Description       string    `json:"description" validate:"omitempty,no_xss"`
	Image             string    `json:"image"`
	Type              string    `json:"type" validate:"required,oneof=fixed percentage free_shipping"`
	Amount            float64   `json:"amount" validate:"gte=0"`
	MinimumCartAmount float64   `json:"minimumCartAmount" validate:"gte=0"`
	ActiveFrom        time.Time `json:"activeFrom"`
	ExpireAt          time.Time `json:"expireAt" validate:"required"`
	UsageLimit        int64     `json:"usageLimit" validate:"gte=0"`
}

// ToModel chuyển input sang model; mã được viết hoa
func (in *CouponInput) ToModel() (*models.Coupon, error) {
	activeFrom := in.ActiveFrom
	if activeFrom.IsZero() {
		activeFrom = time.Now()
	}
	if !models.CouponAmountValid(in.Type, in.Amount) {
		return nil, ErrPercentTooHigh
	}
	return &models.Coupon{
		Code:              NormalizeCode(in.Code),
		Description:       in.Description,
		Image:             in.Image,
		Type:              in.Type,
		Amount:            utility.RoundMoney(in.Amount),
		MinimumCartAmount: utility.RoundMoney(in.MinimumCartAmount),
		ActiveFrom:        activeFrom.UnixMilli(),
		ExpireAt:          in.ExpireAt.UnixMilli(),
		IsActive:          true,
		UsageLimit:        in.UsageLimit,
	}, nil
}

// CouponUpdateInput là dữ liệu cập nhật mã giảm giá
type CouponUpdateInput struct {
	Description       *string    `json:"description" validate:"omitempty,no_xss"`
	Type              *string    `json:"type" validate:"omitempty,oneof=fixed percentage free_shipping"`
	Image             *string    `json:"image"`
	Amount            *float64   `json:"amount" validate:"omitempty,gte=0"`
	MinimumCartAmount *float64   `json:"minimumCartAmount" validate:"omitempty,gte=0"`
	ActiveFrom        *time.Time `json:"activeFrom"`
	ExpireAt          *time.Time `json:"expireAt"`
	IsActive          *bool      `json:"isActive"`
	UsageLimit        *int64     `json:"usageLimit" validate:"omitempty,gte=0"`
}

// ToUpdate trả $set cho các field được gửi lên
func (in *CouponUpdateInput) ToUpdate() (map[string]any, error) {
	set := map[string]any{}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.Amount != nil {
		set["amount"] = utility.RoundMoney(*in.Amount)
	}
	if in.MinimumCartAmount != nil {
		set["minimumCartAmount"] = utility.RoundMoney(*in.MinimumCartAmount)
	}
	if in.ActiveFrom != nil {
		set["activeFrom"] = in.ActiveFrom.UnixMilli()
	}
	if in.ExpireAt != nil {
		set["expireAt"] = in.ExpireAt.UnixMilli()
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	if in.UsageLimit != nil {
		set["usageLimit"] = *in.UsageLimit
	}
	return set, nil
}

// CheckAgainst kiểm tra giá trị mã sau cập nhật, dựa trên loại và giá trị hiện tại của mã
func (in *CouponUpdateInput) CheckAgainst(current *models.Coupon) error {
	typ, amount := current.Type, current.Amount
	if in.Type != nil {
		typ = *in.Type
	}
	if in.Amount != nil {
		amount = *in.Amount
	}
	if !models.CouponAmountValid(typ, amount) {
		return ErrPercentTooHigh
	}
	return nil
}

// VerifyCouponInput là dữ liệu kiểm tra mã giảm giá với giá trị giỏ hàng
type VerifyCouponInput struct {
	Code        string  `json:"code" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	DeliveryFee float64 `json:"deliveryFee" validate:"gte=0"`
}

// NormalizeCode chuẩn hoá mã giảm giá (bỏ khoảng trắng, viết hoa)
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
