package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái sản phẩm
const (
	ProductStatusDraft   = "draft"
	ProductStatusPublish = "publish"
)

// Product là sản phẩm thuộc một cửa hàng
type Product struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ShopID      primitive.ObjectID   `json:"shopId" bson:"shopId" index:"single;compound:shop_status"`
	Name        string               `json:"name" bson:"name" index:"text"`
	Slug        string               `json:"slug" bson:"slug" index:"unique"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Image       string               `json:"image,omitempty" bson:"image,omitempty"`
	Gallery     []string             `json:"gallery" bson:"gallery"`
	Price       float64              `json:"price" bson:"price" index:"single"`
	SalePrice   float64              `json:"salePrice,omitempty" bson:"salePrice,omitempty"`
	Quantity    int64                `json:"quantity" bson:"quantity"`
	Unit        string               `json:"unit,omitempty" bson:"unit,omitempty"`
	Categories  []primitive.ObjectID `json:"categories" bson:"categories" index:"single"`
	Tags        []string             `json:"tags" bson:"tags"`
	Status      string               `json:"status" bson:"status" index:"compound:shop_status"`
	SoldCount   int64                `json:"soldCount" bson:"soldCount" index:"single,order:-1"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt" index:"single,order:-1"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// EffectivePrice là giá bán thực tế (ưu tiên giá khuyến mãi nếu có)
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// InStock cho biết còn đủ số lượng
func (p *Product) InStock(qty int64) bool {
	return p.Quantity >= qty
}

// ProductGrid là một trang sản phẩm dạng "xem thêm"
type ProductGrid struct {
	Items   []Product `json:"items"`
	HasMore bool      `json:"hasMore"`
	Page    int64     `json:"page"`
	Limit   int64     `json:"limit"`
	Total   int64     `json:"total"`
}

// PopularProduct là sản phẩm kèm số lượng đã bán trong các đơn
type PopularProduct struct {
	Product      `json:",inline" bson:",inline"`
	OrderedCount int64 `json:"orderedCount" bson:"orderedCount"`
}
