// Package commercedto - DTO cho danh mục, sản phẩm và cửa hàng.
package commercedto

import (
	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryCreateInput là dữ liệu tạo danh mục
type CategoryCreateInput struct {
	Identity    string   `json:"identity" validate:"required,max=120,no_xss"`
	Slug        string   `json:"slug" validate:"omitempty,slug"`
	Icon        string   `json:"icon"`
	Description string   `json:"description" validate:"omitempty,no_xss"`
	Image       string   `json:"image"`
	Parent      string   `json:"parent" validate:"omitempty,object_id"`
	Tags        []string `json:"tags"`
}

// ToModel chuyển input sang model (chưa có id/uuid)
func (in *CategoryCreateInput) ToModel() (*models.Category, error) {
	c := &models.Category{
		Identity:    in.Identity,
		Slug:        in.Slug,
		Icon:        in.Icon,
		Description: in.Description,
		Image:       in.Image,
		Tags:        in.Tags,
	}
	if in.Parent != "" {
		p := utility.String2ObjectID(in.Parent)
		c.Parent = &p
	}
	return c, nil
}

// CategoryUpdateInput là dữ liệu cập nhật danh mục; field nil được bỏ qua
type CategoryUpdateInput struct {
	Identity    *string   `json:"identity" validate:"omitempty,max=120,no_xss"`
	Slug        *string   `json:"slug" validate:"omitempty,slug"`
	Icon        *string   `json:"icon"`
	Description *string   `json:"description" validate:"omitempty,no_xss"`
	Image       *string   `json:"image"`
	Parent      *string   `json:"parent" validate:"omitempty"`
	Tags        *[]string `json:"tags"`
}

// ToUpdate trả $set; parent = "" nghĩa là bỏ danh mục cha
func (in *CategoryUpdateInput) ToUpdate() (map[string]any, error) {
	set := map[string]any{}
	putString(set, "identity", in.Identity)
	putString(set, "slug", in.Slug)
	putString(set, "icon", in.Icon)
	putString(set, "description", in.Description)
	putString(set, "image", in.Image)
	if in.Tags != nil {
		set["tags"] = *in.Tags
	}
	if in.Parent != nil {
		if *in.Parent == "" {
			set["parent"] = nil
		} else {
			if !primitive.IsValidObjectID(*in.Parent) {
				return nil, errInvalidID("parent")
			}
			set["parent"] = utility.String2ObjectID(*in.Parent)
		}
	}
	return set, nil
}

func putString(set map[string]any, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}
