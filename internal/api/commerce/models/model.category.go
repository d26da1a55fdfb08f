// Package models - model danh mục, sản phẩm, cửa hàng và bộ đếm sequence.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category là danh mục sản phẩm.
// ID (số) và UUID được gán đúng một lần trước khi lưu lần đầu.
type Category struct {
	MongoID     primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	ID          int64                `json:"id" bson:"id,omitempty" index:"unique,sparse"`
	UUID        string               `json:"uuid" bson:"uuid,omitempty" index:"unique,sparse"`
	Icon        string               `json:"icon,omitempty" bson:"icon,omitempty"`
	Identity    string               `json:"identity" bson:"identity" index:"text"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Slug        string               `json:"slug" bson:"slug" index:"unique"`
	Image       string               `json:"image,omitempty" bson:"image,omitempty"`
	IsChild     bool                 `json:"is_child" bson:"is_child"`
	Parent      *primitive.ObjectID  `json:"parent" bson:"parent" index:"single"`
	Tags        []string             `json:"tags" bson:"tags"`
	Products    []primitive.ObjectID `json:"products" bson:"products"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// CategoryNode là danh mục kèm danh mục con (dạng cây)
type CategoryNode struct {
	Category `json:",inline" bson:",inline"`
	Children []*CategoryNode `json:"children"`
}

// Sequence là bộ đếm theo tên thực thể: {_id: "Category", seq: 12}
type Sequence struct {
	ID  string `json:"id" bson:"_id"`
	Seq int64  `json:"seq" bson:"seq"`
}

// Tên sequence
const (
	SequenceCategory = "Category"
	SequenceOrder    = "Order"
	SequenceWithdraw = "Withdraw"
)
