package models

import "time"

// Token là cặp token theo thiết bị (hwid)
type Token struct {
	Hwid         string `json:"hwid" bson:"hwid,omitempty"`
	JwtToken     string `json:"jwtToken,omitempty" bson:"jwtToken,omitempty"`
	RefreshToken string `json:"-" bson:"refreshToken,omitempty"`
	// Hạn refresh token (unix milli)
	RefreshExpiresAt int64 `json:"-" bson:"refreshExpiresAt,omitempty"`
}

// PasswordReset là mã đặt lại mật khẩu; MongoDB tự xoá khi tới expireAt (TTL index)
type PasswordReset struct {
	Email     string    `json:"email" bson:"email" index:"single"`
	Token     string    `json:"-" bson:"token" index:"unique"`
	ExpireAt  time.Time `json:"expireAt" bson:"expireAt" index:"ttl:0"`
	CreatedAt int64     `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64     `json:"updatedAt" bson:"updatedAt"`
}
