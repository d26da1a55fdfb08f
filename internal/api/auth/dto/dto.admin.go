package authdto

// BlockUserInput đầu vào khoá người dùng
type BlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
	Note  string `json:"note" validate:"required,max=500"`
}

// UnBlockUserInput đầu vào mở khoá người dùng
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SetRoleInput đầu vào gán vai trò
type SetRoleInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=super_admin store_owner staff customer"`
}

// UserListQuery là tham số tìm kiếm danh sách người dùng
type UserListQuery struct {
	Page   int64  `query:"page"`
	Limit  int64  `query:"limit"`
	Search string `query:"search" validate:"omitempty,max=100"`
	Role   string `query:"role" validate:"omitempty,oneof=super_admin store_owner staff customer"`
}
