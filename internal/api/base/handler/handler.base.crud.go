package basehdl

import (
	"fmt"
	"strings"

	basesvc "vdg_commerce/internal/api/base/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateConverter được DTO cập nhật triển khai khi cần map field đặc thù
type UpdateConverter interface {
	ToUpdate() (map[string]any, error)
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) updateInputToData(input *UpdateInput) (*basesvc.UpdateData, error) {
	var set map[string]any
	var err error
	if conv, ok := any(input).(UpdateConverter); ok {
		set, err = conv.ToUpdate()
	} else {
		set, err = utility.ToMap(input)
	}
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"_id", "shopId", "createdAt"} {
		delete(set, k)
	}
	if len(set) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}
	return &basesvc.UpdateData{Set: set}, nil
}

// scopedByID tạo filter theo _id và shop hiện hành
func (h *BaseHandler[T, CreateInput, UpdateInput]) scopedByID(c fiber.Ctx, id primitive.ObjectID) bson.M {
	filter := h.applyShopFilter(c, map[string]any{"_id": id})
	return bson.M(filter)
}

// InsertOne tạo mới một bản ghi từ CreateInput
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.transformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi chuyển đổi dữ liệu: %v", err),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		if shopID := GetShopID(c); shopID != nil {
			h.setShopID(model, *shopID)
		}

		data, err := h.BaseService.InsertOne(c.Context(), *model)
		if err == nil {
			logger.LogCRUD("create", fmt.Sprintf("%T", data), "", c, nil)
		}
		h.HandleResponse(c, data, err)
		return nil
	})
}

// InsertMany tạo nhiều bản ghi (body là mảng model)
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var inputs []T
		if err := h.ParseRequestBody(c, &inputs); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if shopID := GetShopID(c); shopID != nil {
			for i := range inputs {
				h.setShopID(&inputs[i], *shopID)
			}
		}
		data, err := h.BaseService.InsertMany(c.Context(), inputs)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOne tìm một bản ghi theo filter/options trong query
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.ProcessFindOneOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOne(c.Context(), h.applyShopFilter(c, filter), opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById tìm theo :id
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOne(c.Context(), h.scopedByID(c, id), nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindManyByIds tìm theo danh sách id (?ids=a,b,c)
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindManyByIds(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		raw := c.Query("ids")
		if raw == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu tham số ids", common.StatusBadRequest, nil))
			return nil
		}
		ids := []primitive.ObjectID{}
		for _, s := range splitComma(raw) {
			oid, err := primitive.ObjectIDFromHex(s)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
					fmt.Sprintf("'%s' không phải ObjectID hợp lệ", s), common.StatusBadRequest, nil))
				return nil
			}
			ids = append(ids, oid)
		}
		filter := h.applyShopFilter(c, map[string]any{"_id": bson.M{"$in": ids}})
		data, err := h.BaseService.Find(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination tìm có phân trang (?page=&limit=)
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.ProcessFindOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		data, err := h.BaseService.FindWithPagination(c.Context(), h.applyShopFilter(c, filter), page, limit, opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Find trả toàn bộ bản ghi khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.ProcessFindOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.Find(c.Context(), h.applyShopFilter(c, filter), opts)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateOne cập nhật bản ghi đầu tiên khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(filter) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Filter không được rỗng khi cập nhật", common.StatusBadRequest, nil))
			return nil
		}
		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		update, err := h.updateInputToData(&input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.UpdateOne(c.Context(), h.applyShopFilter(c, filter), update, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateMany cập nhật nhiều bản ghi, trả số bản ghi bị thay đổi
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		update, err := h.updateInputToData(&input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		count, err := h.BaseService.UpdateMany(c.Context(), h.applyShopFilter(c, filter), update, nil)
		h.HandleResponse(c, fiber.Map{"modifiedCount": count}, err)
		return nil
	})
}

// UpdateById cập nhật theo :id
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		update, err := h.updateInputToData(&input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.UpdateOne(c.Context(), h.scopedByID(c, id), update, nil)
		if err == nil {
			logger.LogCRUD("update", fmt.Sprintf("%T", data), id.Hex(), c, nil)
		}
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteOne xoá bản ghi đầu tiên khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(filter) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Filter không được rỗng khi xoá", common.StatusBadRequest, nil))
			return nil
		}
		err = h.BaseService.DeleteOne(c.Context(), h.applyShopFilter(c, filter))
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// DeleteMany xoá nhiều bản ghi; filter rỗng bị từ chối
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteMany(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(filter) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Filter không được rỗng khi xoá", common.StatusBadRequest, nil))
			return nil
		}
		count, err := h.BaseService.DeleteMany(c.Context(), h.applyShopFilter(c, filter))
		h.HandleResponse(c, fiber.Map{"deletedCount": count}, err)
		return nil
	})
}

// DeleteById xoá theo :id
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.BaseService.DeleteOne(c.Context(), h.scopedByID(c, id))
		if err == nil {
			var zero T
			logger.LogCRUD("delete", fmt.Sprintf("%T", zero), id.Hex(), c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// FindOneAndUpdate cập nhật nguyên tử theo filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneAndUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		update, err := h.updateInputToData(&input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOneAndUpdate(c.Context(), h.applyShopFilter(c, filter), update, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneAndDelete xoá nguyên tử và trả bản ghi đã xoá
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneAndDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOneAndDelete(c.Context(), h.applyShopFilter(c, filter), nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// CountDocuments đếm bản ghi khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		count, err := h.BaseService.CountDocuments(c.Context(), h.applyShopFilter(c, filter))
		h.HandleResponse(c, fiber.Map{"count": count}, err)
		return nil
	})
}

// Distinct lấy các giá trị khác nhau của :field
func (h *BaseHandler[T, CreateInput, UpdateInput]) Distinct(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		field := c.Params("field")
		if field == "" || utility.Contains(h.filterOptions.DeniedFields, field) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("Trường '%s' không hợp lệ", field), common.StatusBadRequest, nil))
			return nil
		}
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.Distinct(c.Context(), field, h.applyShopFilter(c, filter))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Upsert cập nhật theo filter hoặc tạo mới nếu chưa có
func (h *BaseHandler[T, CreateInput, UpdateInput]) Upsert(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(filter) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Filter không được rỗng khi upsert", common.StatusBadRequest, nil))
			return nil
		}
		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		model, err := h.transformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Lỗi chuyển đổi dữ liệu: %v", err), common.StatusBadRequest, nil))
			return nil
		}
		if shopID := GetShopID(c); shopID != nil {
			h.setShopID(model, *shopID)
		}
		data, err := h.BaseService.Upsert(c.Context(), h.applyShopFilter(c, filter), model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DocumentExists kiểm tra có bản ghi khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) DocumentExists(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		exists, err := h.BaseService.DocumentExists(c.Context(), h.applyShopFilter(c, filter))
		h.HandleResponse(c, fiber.Map{"exists": exists}, err)
		return nil
	})
}

func splitComma(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
