// Package router đăng ký route /settings.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"
	settingshdl "vdg_commerce/internal/api/settings/handler"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký route cấu hình
func Register(v1 fiber.Router, _ *apirouter.Router) error {
	h, err := settingshdl.NewSettingHandler()
	if err != nil {
		return fmt.Errorf("failed to create setting handler: %w", err)
	}
	v1.Get("/settings", h.HandleGet)
	admin := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleSuperAdmin))
	apirouter.RegisterRouteWithMiddleware(v1, "/settings", "POST", "", admin, h.HandleUpsert)
	apirouter.RegisterRouteWithMiddleware(v1, "/settings", "PUT", "", admin, h.HandleUpsert)
	return nil
}
