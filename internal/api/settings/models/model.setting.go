// Package models - cấu hình cửa hàng lưu trong database.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultKey là khoá bộ cấu hình chính của hệ thống
const DefaultKey = "default"

// Setting là một bộ cấu hình dạng key/options
type Setting struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key       string             `json:"key" bson:"key" index:"unique"`
	Options   map[string]any     `json:"options" bson:"options"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
