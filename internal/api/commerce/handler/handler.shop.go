package commercehdl

import (
	"fmt"
	"strings"

	authmodels "vdg_commerce/internal/api/auth/models"
	authsvc "vdg_commerce/internal/api/auth/service"
	basehdl "vdg_commerce/internal/api/base/handler"
	commercedto "vdg_commerce/internal/api/commerce/dto"
	models "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	"vdg_commerce/internal/api/middleware"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// ShopHandler xử lý cửa hàng
type ShopHandler struct {
	*basehdl.BaseHandler[models.Shop, commercedto.ShopCreateInput, commercedto.ShopUpdateInput]
	shopService *commercesvc.ShopService
	userService *authsvc.UserService
}

// NewShopHandler tạo ShopHandler
func NewShopHandler() (*ShopHandler, error) {
	shopService, err := commercesvc.NewShopService()
	if err != nil {
		return nil, fmt.Errorf("failed to create shop service: %w", err)
	}
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &ShopHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Shop, commercedto.ShopCreateInput, commercedto.ShopUpdateInput](shopService),
		shopService: shopService,
		userService: userService,
	}, nil
}

func (h *ShopHandler) requireUser(c fiber.Ctx) (*authmodels.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleResponse(c, nil, common.ErrTokenMissing)
		return nil, false
	}
	return user, true
}

// InsertOne mở cửa hàng cho user hiện tại (chờ duyệt)
func (h *ShopHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := h.requireUser(c)
		if !ok {
			return nil
		}
		var input commercedto.ShopCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		model, _ := input.ToModel()
		created, err := h.shopService.Create(c.Context(), user.ID, *model)
		if err == nil {
			logger.LogCRUD("create", "shop", created.ID.Hex(), c, map[string]any{"slug": created.Slug})
		}
		basehdl.HandleCreated(c, created, err)
		return nil
	})
}

// UpdateById cập nhật cửa hàng; chỉ chủ cửa hàng hoặc super_admin
func (h *ShopHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := h.requireUser(c)
		if !ok {
			return nil
		}
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input commercedto.ShopUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		set, _ := input.ToUpdate()
		if len(set) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil))
			return nil
		}
		filter := bson.M{"_id": id}
		if user.Role != authmodels.RoleSuperAdmin {
			filter["ownerId"] = user.ID
		}
		updated, err := h.shopService.UpdateOne(c.Context(), filter, set, nil)
		if err == nil {
			logger.LogCRUD("update", "shop", id.Hex(), c, nil)
		}
		h.HandleResponse(c, updated, err)
		return nil
	})
}

func (h *ShopHandler) setActive(c fiber.Ctx, active bool) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input commercedto.ShopApproveInput
		if len(c.Body()) > 0 {
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}
		shop, err := h.shopService.SetActive(c.Context(), id, active, input.AdminCommissionRate)
		if err == nil {
			logger.LogAction("shop_set_active", c, map[string]any{"shop_id": id.Hex(), "active": active})
		}
		h.HandleResponse(c, shop, err)
		return nil
	})
}

// HandleApprove kích hoạt cửa hàng (super_admin)
func (h *ShopHandler) HandleApprove(c fiber.Ctx) error { return h.setActive(c, true) }

// HandleDisapprove ngừng cửa hàng (super_admin)
func (h *ShopHandler) HandleDisapprove(c fiber.Ctx) error { return h.setActive(c, false) }

func (h *ShopHandler) staffChange(c fiber.Ctx, add bool) error {
	return h.SafeHandler(c, func() error {
		user, ok := h.requireUser(c)
		if !ok {
			return nil
		}
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input commercedto.StaffInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		staff, err := h.userService.FindOne(c.Context(), bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var shop models.Shop
		if add {
			shop, err = h.shopService.AddStaff(c.Context(), id, user.ID, staff.ID)
			if err == nil && staff.Role == authmodels.RoleCustomer {
				_, err = h.userService.UpdateById(c.Context(), staff.ID, bson.M{"role": authmodels.RoleStaff})
			}
		} else {
			shop, err = h.shopService.RemoveStaff(c.Context(), id, user.ID, staff.ID)
		}
		if err == nil {
			logger.LogAction("shop_staff", c, map[string]any{"shop_id": id.Hex(), "staff": staff.ID.Hex(), "add": add})
		}
		h.HandleResponse(c, shop, err)
		return nil
	})
}

// HandleAddStaff thêm nhân viên theo email
func (h *ShopHandler) HandleAddStaff(c fiber.Ctx) error { return h.staffChange(c, true) }

// HandleRemoveStaff gỡ nhân viên theo email
func (h *ShopHandler) HandleRemoveStaff(c fiber.Ctx) error { return h.staffChange(c, false) }

// HandleMyShops trả các cửa hàng của user hiện tại
func (h *ShopHandler) HandleMyShops(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		user, ok := h.requireUser(c)
		if !ok {
			return nil
		}
		shops, err := h.shopService.MyShops(c.Context(), user.ID)
		if shops == nil {
			shops = []models.Shop{}
		}
		h.HandleResponse(c, shops, err)
		return nil
	})
}
