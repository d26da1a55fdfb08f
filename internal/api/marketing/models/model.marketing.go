// Package models - slider và chương trình ưu đãi.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slider là một banner trên trang chủ
type Slider struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Subtitle  string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Image     string             `json:"image" bson:"image"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Position  int                `json:"position" bson:"position" index:"single"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Offer là chương trình giảm giá cho một nhóm sản phẩm trong khoảng thời gian (millisecond)
type Offer struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string               `json:"title" bson:"title"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	Banner          string               `json:"banner,omitempty" bson:"banner,omitempty"`
	ProductIDs      []primitive.ObjectID `json:"productIds" bson:"productIds"`
	DiscountPercent float64              `json:"discountPercent" bson:"discountPercent"`
	StartAt         int64                `json:"startAt" bson:"startAt"`
	EndAt           int64                `json:"endAt" bson:"endAt" index:"single"`
	IsActive        bool                 `json:"isActive" bson:"isActive" index:"single"`
	CreatedAt       int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64                `json:"updatedAt" bson:"updatedAt"`
}

// RunningAt cho biết ưu đãi đang chạy tại thời điểm ms
func (o *Offer) RunningAt(ms int64) bool {
	return o.IsActive && o.StartAt <= ms && (o.EndAt == 0 || ms < o.EndAt)
}
