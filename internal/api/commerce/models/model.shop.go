package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopBalance là số dư của cửa hàng
type ShopBalance struct {
	AdminCommissionRate float64     `json:"adminCommissionRate" bson:"adminCommissionRate"`
	TotalEarnings       float64     `json:"totalEarnings" bson:"totalEarnings"`
	WithdrawnAmount     float64     `json:"withdrawnAmount" bson:"withdrawnAmount"`
	CurrentBalance      float64     `json:"currentBalance" bson:"currentBalance"`
	PaymentInfo         PaymentInfo `json:"paymentInfo" bson:"paymentInfo"`
}

// PaymentInfo là tài khoản nhận tiền của cửa hàng
type PaymentInfo struct {
	Account string `json:"account,omitempty" bson:"account,omitempty"`
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Bank    string `json:"bank,omitempty" bson:"bank,omitempty"`
}

// ShopAddress là địa chỉ cửa hàng
type ShopAddress struct {
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
	Street  string `json:"streetAddress,omitempty" bson:"streetAddress,omitempty"`
}

// Shop là cửa hàng (tenant)
type Shop struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID   `json:"ownerId" bson:"ownerId" index:"single"`
	Staffs        []primitive.ObjectID `json:"staffs" bson:"staffs" index:"single"`
	Name          string               `json:"name" bson:"name" index:"text"`
	Slug          string               `json:"slug" bson:"slug" index:"unique"`
	Description   string               `json:"description,omitempty" bson:"description,omitempty"`
	Logo          string               `json:"logo,omitempty" bson:"logo,omitempty"`
	CoverImage    string               `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Address       ShopAddress          `json:"address" bson:"address"`
	IsActive      bool                 `json:"isActive" bson:"isActive"`
	Balance       ShopBalance          `json:"balance" bson:"balance"`
	ProductsCount int64                `json:"productsCount" bson:"productsCount"`
	OrdersCount   int64                `json:"ordersCount" bson:"ordersCount"`
	CreatedAt     int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64                `json:"updatedAt" bson:"updatedAt"`
}

// HasMember cho biết user là chủ hoặc nhân viên của cửa hàng
func (s *Shop) HasMember(userID primitive.ObjectID) bool {
	if s.OwnerID == userID {
		return true
	}
	for _, id := range s.Staffs {
		if id == userID {
			return true
		}
	}
	return false
}
