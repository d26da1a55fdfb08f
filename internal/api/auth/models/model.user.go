// Package models - model người dùng thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vai trò người dùng
const (
	RoleSuperAdmin = "super_admin"
	RoleStoreOwner = "store_owner"
	RoleStaff      = "staff"
	RoleCustomer   = "customer"
)

// Roles là danh sách vai trò hợp lệ
var Roles = []string{RoleSuperAdmin, RoleStoreOwner, RoleStaff, RoleCustomer}

// Address là địa chỉ giao hàng/thanh toán của người dùng
type Address struct {
	Title   string `json:"title" bson:"title"`
	Type    string `json:"type" bson:"type"` // billing | shipping
	Default bool   `json:"default" bson:"default"`
	Country string `json:"country" bson:"country"`
	State   string `json:"state" bson:"state"`
	City    string `json:"city" bson:"city"`
	Zip     string `json:"zip" bson:"zip"`
	Street  string `json:"streetAddress" bson:"streetAddress"`
}

// User là tài khoản người dùng.
// Token là access token mới nhất; Tokens giữ token theo từng thiết bị (hwid).
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"text"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty" index:"unique,sparse"`
	Password  string             `json:"-" bson:"password,omitempty"`
	Role      string             `json:"role" bson:"role" index:"single"`
	AvatarURL string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Addresses []Address          `json:"addresses" bson:"addresses"`
	Token     string             `json:"-" bson:"token" index:"single"`
	Tokens    []Token            `json:"-" bson:"tokens"`
	IsBlock   bool               `json:"isBlock" bson:"isBlock"`
	BlockNote string             `json:"blockNote,omitempty" bson:"blockNote,omitempty"`
	Wallet    Wallet             `json:"wallet" bson:"wallet"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Wallet là điểm thưởng của khách hàng
type Wallet struct {
	TotalPoints     int64 `json:"totalPoints" bson:"totalPoints"`
	PointsUsed      int64 `json:"pointsUsed" bson:"pointsUsed"`
	AvailablePoints int64 `json:"availablePoints" bson:"availablePoints"`
}

// IsAdmin cho biết người dùng là super admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Sanitize xoá các trường nhạy cảm trước khi trả về client
func (u *User) Sanitize() {
	u.Password = ""
	u.Token = ""
	u.Tokens = nil
}
