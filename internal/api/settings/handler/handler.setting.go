// Package settingshdl - handler cấu hình.
package settingshdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	settingsdto "vdg_commerce/internal/api/settings/dto"
	settingssvc "vdg_commerce/internal/api/settings/service"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// SettingHandler xử lý /settings
type SettingHandler struct {
	svc *settingssvc.SettingService
}

// NewSettingHandler tạo SettingHandler
func NewSettingHandler() (*SettingHandler, error) {
	svc, err := settingssvc.NewSettingService()
	if err != nil {
		return nil, fmt.Errorf("failed to create setting service: %w", err)
	}
	return &SettingHandler{svc: svc}, nil
}

// HandleGet trả cấu hình (?key=, mặc định "default")
// @Router /settings [get]
func (h *SettingHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		setting, err := h.svc.Get(c.Context(), c.Query("key"))
		basehdl.HandleResponse(c, setting, err)
		return nil
	})
}

// HandleUpsert ghi cấu hình
// @Router /settings [post]
func (h *SettingHandler) HandleUpsert(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input settingsdto.SettingUpsertInput
		if err := basehdl.ParseBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		setting, err := h.svc.Save(c.Context(), input.Key, input.Options, input.Merge)
		if err == nil {
			logger.LogAction("settings.save", c, map[string]any{"key": setting.Key, "merge": input.Merge})
		}
		basehdl.HandleResponse(c, setting, err)
		return nil
	})
}
