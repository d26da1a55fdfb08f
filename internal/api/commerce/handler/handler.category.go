// Package commercehdl chứa handler danh mục, sản phẩm và cửa hàng.
package commercehdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	commercedto "vdg_commerce/internal/api/commerce/dto"
	models "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// CategoryHandler xử lý danh mục; tạo mới luôn đi qua bước gán id/uuid
type CategoryHandler struct {
	*basehdl.BaseHandler[models.Category, commercedto.CategoryCreateInput, commercedto.CategoryUpdateInput]
	categoryService *commercesvc.CategoryService
}

// NewCategoryHandler tạo CategoryHandler
func NewCategoryHandler() (*CategoryHandler, error) {
	categoryService, err := commercesvc.NewCategoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}
	return &CategoryHandler{
		BaseHandler:     basehdl.NewBaseHandler[models.Category, commercedto.CategoryCreateInput, commercedto.CategoryUpdateInput](categoryService),
		categoryService: categoryService,
	}, nil
}

// InsertOne tạo danh mục
func (h *CategoryHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input commercedto.CategoryCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		model, _ := input.ToModel()
		created, err := h.categoryService.Create(c.Context(), *model)
		if err == nil {
			logger.LogCRUD("create", "category", created.MongoID.Hex(), c, map[string]any{"id": created.ID, "uuid": created.UUID})
		}
		basehdl.HandleCreated(c, created, err)
		return nil
	})
}

// InsertMany tạo nhiều danh mục, lần lượt qua bước gán id/uuid; dừng ở lỗi đầu tiên
func (h *CategoryHandler) InsertMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var inputs []commercedto.CategoryCreateInput
		if err := h.ParseRequestBody(c, &inputs); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		out := make([]models.Category, 0, len(inputs))
		for i := range inputs {
			if err := h.ValidateInput(&inputs[i]); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			model, _ := inputs[i].ToModel()
			created, err := h.categoryService.Create(c.Context(), *model)
			if err != nil {
				h.HandleResponse(c, fiber.Map{"created": out}, err)
				return nil
			}
			out = append(out, created)
		}
		basehdl.HandleCreated(c, out, nil)
		return nil
	})
}

// UpdateById cập nhật danh mục (id/uuid không đổi được)
func (h *CategoryHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input commercedto.CategoryUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		set, err := input.ToUpdate()
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(set) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil))
			return nil
		}
		updated, err := h.categoryService.Update(c.Context(), id, set)
		if err == nil {
			logger.LogCRUD("update", "category", id.Hex(), c, nil)
		}
		h.HandleResponse(c, updated, err)
		return nil
	})
}

// DeleteById xoá danh mục không còn danh mục con
func (h *CategoryHandler) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.categoryService.Delete(c.Context(), id)
		if err == nil {
			logger.LogCRUD("delete", "category", id.Hex(), c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleTree trả cây danh mục
func (h *CategoryHandler) HandleTree(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		tree, err := h.categoryService.Tree(c.Context())
		h.HandleResponse(c, tree, err)
		return nil
	})
}
