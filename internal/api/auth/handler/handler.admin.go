package authhdl

import (
	"fmt"

	authdto "vdg_commerce/internal/api/auth/dto"
	authsvc "vdg_commerce/internal/api/auth/service"
	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler xử lý quản trị người dùng
type AdminHandler struct {
	adminService *authsvc.AdminService
}

// NewAdminHandler tạo AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	adminService, err := authsvc.NewAdminService()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %w", err)
	}
	return &AdminHandler{adminService: adminService}, nil
}

func (h *AdminHandler) parse(c fiber.Ctx, input any) bool {
	if err := basehdl.ParseBody(c, input); err != nil {
		basehdl.HandleResponse(c, nil, err)
		return false
	}
	return true
}

// HandleListUsers trả danh sách người dùng có phân trang (?page=&limit=&search=&role=)
func (h *AdminHandler) HandleListUsers(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q authdto.UserListQuery
		if err := basehdl.ParseQuery(c, &q); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.adminService.ListUsers(c.Context(), &q)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleBlockUser khoá người dùng và thu hồi token
func (h *AdminHandler) HandleBlockUser(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.BlockUserInput
		if !h.parse(c, &input) {
			return nil
		}
		user, err := h.adminService.BlockUser(c.Context(), input.Email, true, input.Note)
		if err == nil {
			logger.LogAction("block_user", c, map[string]any{"email": input.Email, "note": input.Note})
		}
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUnBlockUser mở khoá người dùng
func (h *AdminHandler) HandleUnBlockUser(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.UnBlockUserInput
		if !h.parse(c, &input) {
			return nil
		}
		user, err := h.adminService.UnBlockUser(c.Context(), input.Email)
		if err == nil {
			logger.LogAction("unblock_user", c, map[string]any{"email": input.Email})
		}
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}

// HandleSetRole gán vai trò cho người dùng
func (h *AdminHandler) HandleSetRole(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.SetRoleInput
		if !h.parse(c, &input) {
			return nil
		}
		user, err := h.adminService.SetRole(c.Context(), input.Email, input.Role)
		if err == nil {
			logger.LogAction("set_role", c, map[string]any{"email": input.Email, "role": input.Role})
		}
		basehdl.HandleResponse(c, user, err)
		return nil
	})
}

// HandleDashboard trả các bộ đếm tổng quan
func (h *AdminHandler) HandleDashboard(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		counts, err := h.adminService.Dashboard(c.Context())
		basehdl.HandleResponse(c, counts, err)
		return nil
	})
}
