package authdto

// RegisterInput đầu vào đăng ký tài khoản
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100,no_xss"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	// store_owner hoặc customer (mặc định)
	Role string `json:"role" validate:"omitempty,oneof=store_owner customer"`
}

// LoginInput đầu vào đăng nhập
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// LogoutInput đầu vào đăng xuất thiết bị
type LogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// RefreshTokenInput đầu vào làm mới access token
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
	Hwid         string `json:"hwid" validate:"required"`
}

// VerifyTokenInput đầu vào kiểm tra token
type VerifyTokenInput struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordInput đầu vào quên mật khẩu
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetTokenInput đầu vào kiểm tra mã đặt lại mật khẩu
type VerifyResetTokenInput struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// ResetPasswordInput đầu vào đặt lại mật khẩu
type ResetPasswordInput struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,strong_password"`
}

// ChangePasswordInput đầu vào đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password,nefield=OldPassword"`
}

// UpdateProfileInput đầu vào cập nhật profile (chỉ các trường gửi lên)
type UpdateProfileInput struct {
	Name      *string        `json:"name" bson:"name,omitempty" validate:"omitempty,max=100,no_xss"`
	Phone     *string        `json:"phone" bson:"phone,omitempty" validate:"omitempty,e164"`
	AvatarURL *string        `json:"avatarUrl" bson:"avatarUrl,omitempty" validate:"omitempty,url"`
	Addresses []AddressInput `json:"addresses" bson:"addresses,omitempty" validate:"omitempty,dive"`
}

// AddressInput là địa chỉ gửi lên
type AddressInput struct {
	Title   string `json:"title" bson:"title" validate:"required,max=50"`
	Type    string `json:"type" bson:"type" validate:"required,oneof=billing shipping"`
	Default bool   `json:"default" bson:"default"`
	Country string `json:"country" bson:"country" validate:"required"`
	State   string `json:"state" bson:"state"`
	City    string `json:"city" bson:"city" validate:"required"`
	Zip     string `json:"zip" bson:"zip"`
	Street  string `json:"streetAddress" bson:"streetAddress" validate:"required"`
}

// AuthResult là kết quả đăng nhập/làm mới token
type AuthResult struct {
	Token        string   `json:"token"`
	ExpiresAt    string   `json:"expiresAt"`
	RefreshToken string   `json:"refreshToken"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
}
