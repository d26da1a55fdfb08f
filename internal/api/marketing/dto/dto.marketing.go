// Package marketingdto - DTO slider và ưu đãi.
package marketingdto

import (
	"time"

	models "vdg_commerce/internal/api/marketing/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/utility"
)

// SliderInput là dữ liệu tạo slider
type SliderInput struct {
	Title    string `json:"title" bson:"title" validate:"required,max=120,no_xss"`
	Subtitle string `json:"subtitle" bson:"subtitle" validate:"omitempty,max=200,no_xss"`
	Image    string `json:"image" bson:"image" validate:"required,url"`
	Link     string `json:"link" bson:"link" validate:"omitempty,max=500"`
	Position int    `json:"position" bson:"position" validate:"gte=0"`
	IsActive bool   `json:"isActive" bson:"isActive"`
}

// SliderUpdateInput là dữ liệu cập nhật slider
type SliderUpdateInput struct {
	Title    *string `json:"title" bson:"title,omitempty" validate:"omitempty,max=120,no_xss"`
	Subtitle *string `json:"subtitle" bson:"subtitle,omitempty" validate:"omitempty,max=200,no_xss"`
	Image    *string `json:"image" bson:"image,omitempty" validate:"omitempty,url"`
	Link     *string `json:"link" bson:"link,omitempty" validate:"omitempty,max=500"`
	Position *int    `json:"position" bson:"position,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"isActive" bson:"isActive,omitempty"`
}

var errOfferWindow = common.NewError(common.ErrCodeValidationInput, "Thời gian kết thúc phải sau thời gian bắt đầu", common.StatusBadRequest, nil)

// OfferInput là dữ liệu tạo ưu đãi; thời gian theo RFC3339
type OfferInput struct {
	Title           string    `json:"title" validate:"required,max=120,no_xss"`
	Description     string    `json:"description" validate:"omitempty,max=1000,no_xss"`
	Banner          string    `json:"banner" validate:"omitempty,url"`
	ProductIDs      []string  `json:"productIds" validate:"omitempty,dive,object_id"`
	DiscountPercent float64   `json:"discountPercent" validate:"gt=0,lte=100"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt" validate:"required"`
}

// ToModel chuyển input sang model; thiếu startAt thì bắt đầu ngay
func (in *OfferInput) ToModel() (*models.Offer, error) {
	start := in.StartAt
	if start.IsZero() {
		start = time.Now()
	}
	if !in.EndAt.After(start) {
		return nil, errOfferWindow
	}
	return &models.Offer{
		Title:           in.Title,
		Description:     in.Description,
		Banner:          in.Banner,
		ProductIDs:      utility.StringArray2ObjectIDArray(in.ProductIDs),
		DiscountPercent: in.DiscountPercent,
		StartAt:         start.UnixMilli(),
		EndAt:           in.EndAt.UnixMilli(),
		IsActive:        true,
	}, nil
}

// OfferUpdateInput là dữ liệu cập nhật ưu đãi
type OfferUpdateInput struct {
	Title           *string    `json:"title" validate:"omitempty,max=120,no_xss"`
	Description     *string    `json:"description" validate:"omitempty,max=1000,no_xss"`
	Banner          *string    `json:"banner" validate:"omitempty,url"`
	ProductIDs      []string   `json:"productIds" validate:"omitempty,dive,object_id"`
	DiscountPercent *float64   `json:"discountPercent" validate:"omitempty,gt=0,lte=100"`
	StartAt         *time.Time `json:"startAt"`
	EndAt           *time.Time `json:"endAt"`
	IsActive        *bool      `json:"isActive"`
}

// ToUpdate trả $set cho các field được gửi lên
func (in *OfferUpdateInput) ToUpdate() (map[string]any, error) {
	if in.StartAt != nil && in.EndAt != nil && !in.EndAt.After(*in.StartAt) {
		return nil, errOfferWindow
	}
	set := map[string]any{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Banner != nil {
		set["banner"] = *in.Banner
	}
	if in.ProductIDs != nil {
		set["productIds"] = utility.StringArray2ObjectIDArray(in.ProductIDs)
	}
	if in.DiscountPercent != nil {
		set["discountPercent"] = *in.DiscountPercent
	}
	if in.StartAt != nil {
		set["startAt"] = in.StartAt.UnixMilli()
	}
	if in.EndAt != nil {
		set["endAt"] = in.EndAt.UnixMilli()
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	return set, nil
}
