package commercedto

import (
	models "vdg_commerce/internal/api/commerce/models"
)

// ShopCreateInput là dữ liệu mở cửa hàng; chủ cửa hàng là người gọi
type ShopCreateInput struct {
	Name        string             `json:"name" validate:"required,max=120,no_xss"`
	Slug        string             `json:"slug" validate:"omitempty,slug"`
	Description string             `json:"description" validate:"omitempty,no_xss"`
	Logo        string             `json:"logo"`
	CoverImage  string             `json:"coverImage"`
	Address     models.ShopAddress `json:"address"`
	PaymentInfo models.PaymentInfo `json:"paymentInfo"`
}

// ToModel chuyển input sang model (chưa kích hoạt)
func (in *ShopCreateInput) ToModel() (*models.Shop, error) {
	return &models.Shop{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Logo:        in.Logo,
		CoverImage:  in.CoverImage,
		Address:     in.Address,
		Balance:     models.ShopBalance{PaymentInfo: in.PaymentInfo},
	}, nil
}

// ShopUpdateInput là dữ liệu cập nhật cửa hàng
type ShopUpdateInput struct {
	Name        *string             `json:"name" validate:"omitempty,max=120,no_xss"`
	Description *string             `json:"description" validate:"omitempty,no_xss"`
	Logo        *string             `json:"logo"`
	CoverImage  *string             `json:"coverImage"`
	Address     *models.ShopAddress `json:"address"`
	PaymentInfo *models.PaymentInfo `json:"paymentInfo"`
}

// ToUpdate trả $set cho các field được gửi lên
func (in *ShopUpdateInput) ToUpdate() (map[string]any, error) {
	set := map[string]any{}
	putString(set, "name", in.Name)
	putString(set, "description", in.Description)
	putString(set, "logo", in.Logo)
	putString(set, "coverImage", in.CoverImage)
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if in.PaymentInfo != nil {
		set["balance.paymentInfo"] = *in.PaymentInfo
	}
	return set, nil
}

// ShopApproveInput là dữ liệu duyệt cửa hàng (admin)
type ShopApproveInput struct {
	AdminCommissionRate *float64 `json:"adminCommissionRate" validate:"omitempty,gte=0,lte=100"`
}

// StaffInput là nhân viên cần thêm/bớt
type StaffInput struct {
	Email string `json:"email" validate:"required,email"`
}
