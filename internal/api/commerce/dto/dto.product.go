package commercedto

import (
	"fmt"

	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/utility"
)

func errInvalidID(field string) error {
	return common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("%s không phải ObjectID hợp lệ", field), common.StatusBadRequest, nil)
}

// ProductCreateInput là dữ liệu tạo sản phẩm; shop lấy từ header X-Shop-ID
type ProductCreateInput struct {
	Name        string   `json:"name" validate:"required,max=200,no_xss"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Description string   `json:"description" validate:"omitempty,no_xss"`
	Image       string   `json:"image"`
	Gallery     []string `json:"gallery"`
	Price       float64  `json:"price" validate:"gte=0"`
	SalePrice   float64  `json:"salePrice" validate:"gte=0"`
	Quantity    int64    `json:"quantity" validate:"gte=0"`
	Unit        string   `json:"unit"`
	Categories  []string `json:"categories" validate:"dive,object_id"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft publish"`
}

// ToModel chuyển input sang model
func (in *ProductCreateInput) ToModel() (*models.Product, error) {
	return &models.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Image:       in.Image,
		Gallery:     in.Gallery,
		Price:       utility.RoundMoney(in.Price),
		SalePrice:   utility.RoundMoney(in.SalePrice),
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Categories:  utility.StringArray2ObjectIDArray(in.Categories),
		Tags:        in.Tags,
		Status:      in.Status,
	}, nil
}

// ProductUpdateInput là dữ liệu cập nhật sản phẩm
type ProductUpdateInput struct {
	Name        *string   `json:"name" validate:"omitempty,max=200,no_xss"`
	Slug        *string   `json:"slug" validate:"omitempty,slug"`
	Description *string   `json:"description" validate:"omitempty,no_xss"`
	Image       *string   `json:"image"`
	Gallery     *[]string `json:"gallery"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	SalePrice   *float64  `json:"salePrice" validate:"omitempty,gte=0"`
	Quantity    *int64    `json:"quantity" validate:"omitempty,gte=0"`
	Unit        *string   `json:"unit"`
	Categories  *[]string `json:"categories"`
	Tags        *[]string `json:"tags"`
	Status      *string   `json:"status" validate:"omitempty,oneof=draft publish"`
}

// ToUpdate trả $set cho các field được gửi lên
func (in *ProductUpdateInput) ToUpdate() (map[string]any, error) {
	set := map[string]any{}
	putString(set, "name", in.Name)
	putString(set, "slug", in.Slug)
	putString(set, "description", in.Description)
	putString(set, "image", in.Image)
	putString(set, "unit", in.Unit)
	putString(set, "status", in.Status)
	if in.Gallery != nil {
		set["gallery"] = *in.Gallery
	}
	if in.Tags != nil {
		set["tags"] = *in.Tags
	}
	if in.Price != nil {
		set["price"] = utility.RoundMoney(*in.Price)
	}
	if in.SalePrice != nil {
		set["salePrice"] = utility.RoundMoney(*in.SalePrice)
	}
	if in.Quantity != nil {
		set["quantity"] = *in.Quantity
	}
	if in.Categories != nil {
		for _, id := range *in.Categories {
			if utility.String2ObjectID(id).IsZero() {
				return nil, errInvalidID("categories")
			}
		}
		set["categories"] = utility.StringArray2ObjectIDArray(*in.Categories)
	}
	return set, nil
}

// ProductGridQuery là tham số lưới sản phẩm dạng "xem thêm"
type ProductGridQuery struct {
	Page     int64  `query:"page"`
	Limit    int64  `query:"limit"`
	Shop     string `query:"shop" validate:"omitempty,object_id"`
	Category string `query:"category" validate:"omitempty,object_id"`
	Search   string `query:"search" validate:"omitempty,max=100"`
	Status   string `query:"status" validate:"omitempty,oneof=draft publish"`
	OrderBy  string `query:"orderBy" validate:"omitempty,oneof=createdAt price name soldCount"`
	SortedBy string `query:"sortedBy" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// PopularProductsQuery là tham số sản phẩm bán chạy
type PopularProductsQuery struct {
	Shop  string `query:"shop" validate:"omitempty,object_id"`
	Limit int64  `query:"limit" validate:"omitempty,gte=1,lte=50"`
}
