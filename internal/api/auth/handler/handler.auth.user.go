// Package authhdl chứa handler cho xác thực, token, profile và quản trị người dùng.
package authhdl

import (
	"fmt"

	authdto "vdg_commerce/internal/api/auth/dto"
	models "vdg_commerce/internal/api/auth/models"
	authsvc "vdg_commerce/internal/api/auth/service"
	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/api/middleware"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// UserHandler xử lý đăng ký, đăng nhập, token và profile
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.RegisterInput, authdto.UpdateProfileInput]
	userService *authsvc.UserService
}

// NewUserHandler tạo UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &UserHandler{
		BaseHandler: basehdl.NewBaseHandler[models.User, authdto.RegisterInput, authdto.UpdateProfileInput](userService),
		userService: userService,
	}, nil
}

func (h *UserHandler) currentUserID(c fiber.Ctx) error {
	if basehdl.GetUserID(c) == nil {
		return common.NewError(common.ErrCodeAuth, "Chưa đăng nhập", common.StatusUnauthorized, nil)
	}
	return nil
}

// HandleRegister đăng ký tài khoản (customer hoặc store_owner)
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.RegisterInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.Register(c.Context(), &input)
		if err == nil {
			logger.LogAuth("register", c, map[string]any{"email": user.Email, "role": user.Role})
		}
		basehdl.HandleCreated(c, user, err)
		return nil
	})
}

// HandleLogin đăng nhập, trả access token + refresh token cho thiết bị (hwid)
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, result, err := h.userService.Login(c.Context(), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]any{"email": input.Email})
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login", c, map[string]any{"user_id": user.ID.Hex(), "hwid": input.Hwid})
		h.HandleResponse(c, fiber.Map{"user": user, "auth": result}, nil)
		return nil
	})
}

// HandleLogout thu hồi token của thiết bị hiện tại
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if err := h.currentUserID(c); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.LogoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err := h.userService.Logout(c.Context(), *basehdl.GetUserID(c), input.Hwid)
		if token, ok := c.Locals("token").(string); ok && err == nil {
			middleware.ForgetToken(token)
		}
		if err == nil {
			logger.LogAuth("logout", c, map[string]any{"hwid": input.Hwid})
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleForgotPassword gửi mã đặt lại mật khẩu qua email.
// Luôn trả thành công để không lộ email nào đã đăng ký.
func (h *UserHandler) HandleForgotPassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.ForgotPasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err := h.userService.ForgotPassword(c.Context(), input.Email)
		h.HandleResponse(c, fiber.Map{"sent": err == nil}, err)
		return nil
	})
}

// HandleVerifyResetToken kiểm tra mã đặt lại mật khẩu còn hiệu lực
func (h *UserHandler) HandleVerifyResetToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.VerifyResetTokenInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		_, err := h.userService.VerifyResetToken(c.Context(), input.Email, input.Token)
		h.HandleResponse(c, fiber.Map{"valid": err == nil}, err)
		return nil
	})
}

// HandleResetPassword đặt mật khẩu mới bằng mã đặt lại
func (h *UserHandler) HandleResetPassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.ResetPasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err := h.userService.ResetPassword(c.Context(), &input)
		if err == nil {
			logger.LogAuth("reset_password", c, map[string]any{"email": input.Email})
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleRefreshToken đổi refresh token lấy access token mới
func (h *UserHandler) HandleRefreshToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.RefreshTokenInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.userService.RefreshToken(c.Context(), &input)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleVerifyToken kiểm tra access token (gửi trong body)
func (h *UserHandler) HandleVerifyToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.VerifyTokenInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.VerifyToken(c.Context(), input.Token)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user.Sanitize()
		h.HandleResponse(c, fiber.Map{
			"valid":       true,
			"user":        user,
			"permissions": authsvc.PermissionsOf(user.Role),
		}, nil)
		return nil
	})
}

// HandleGetProfile trả profile của user đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if err := h.currentUserID(c); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.FindOneById(c.Context(), *basehdl.GetUserID(c))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user.Sanitize()
		h.HandleResponse(c, fiber.Map{
			"user":        user,
			"permissions": authsvc.PermissionsOf(user.Role),
		}, nil)
		return nil
	})
}

// HandleUpdateProfile cập nhật tên, số điện thoại, avatar, địa chỉ
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if err := h.currentUserID(c); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.UpdateProfileInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.UpdateProfile(c.Context(), *basehdl.GetUserID(c), &input)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleChangePassword đổi mật khẩu (cần mật khẩu cũ)
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		if err := h.currentUserID(c); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.ChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err := h.userService.ChangePassword(c.Context(), *basehdl.GetUserID(c), &input)
		if err == nil {
			logger.LogAuth("change_password", c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}
