// Package router đăng ký các route domain auth: /auth, /token, /me (profile), /admin, /system.
package router

import (
	"fmt"

	authhdl "vdg_commerce/internal/api/auth/handler"
	models "vdg_commerce/internal/api/auth/models"
	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký tất cả route auth lên v1
func Register(v1 fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	adminHandler, err := authhdl.NewAdminHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin handler: %w", err)
	}

	registerSystemRoutes(v1)
	registerAuthRoutes(v1, userHandler)
	registerTokenRoutes(v1, userHandler)
	registerMeRoutes(v1, userHandler)
	registerAdminRoutes(v1, r, userHandler, adminHandler)
	return nil
}

func registerSystemRoutes(router fiber.Router) {
	systemHandler := basehdl.NewSystemHandler()
	router.Get("/system/health", systemHandler.HandleHealth)
}

func registerAuthRoutes(router fiber.Router, h *authhdl.UserHandler) {
	router.Post("/auth/register", h.HandleRegister)
	router.Post("/auth/login", h.HandleLogin)
	router.Post("/auth/forgot-password", h.HandleForgotPassword)
	router.Post("/auth/verify-reset-token", h.HandleVerifyResetToken)
	router.Post("/auth/reset-password", h.HandleResetPassword)
	router.Post("/auth/verify", h.HandleVerifyToken)

	authOnly := apirouter.Chain(middleware.AuthMiddleware())
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", authOnly, h.HandleLogout)
}

func registerTokenRoutes(router fiber.Router, h *authhdl.UserHandler) {
	router.Post("/token/refresh", h.HandleRefreshToken)
	router.Post("/token/verify", h.HandleVerifyToken)
}

func registerMeRoutes(router fiber.Router, h *authhdl.UserHandler) {
	authOnly := apirouter.Chain(middleware.AuthMiddleware())
	apirouter.RegisterRouteWithMiddleware(router, "/me", "GET", "", authOnly, h.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/me", "PUT", "", authOnly, h.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/me", "POST", "/change-password", authOnly, h.HandleChangePassword)
}

func registerAdminRoutes(router fiber.Router, r *apirouter.Router, users *authhdl.UserHandler, h *authhdl.AdminHandler) {
	adminOnly := apirouter.Chain(middleware.AuthMiddleware(models.RoleSuperAdmin))
	apirouter.RegisterRouteWithMiddleware(router, "/admin", "GET", "/dashboard", adminOnly, h.HandleDashboard)
	apirouter.RegisterRouteWithMiddleware(router, "/admin", "GET", "/users", adminOnly, h.HandleListUsers)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/block", adminOnly, h.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/unblock", adminOnly, h.HandleUnBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/role", adminOnly, h.HandleSetRole)

	r.RegisterCRUDRoutes(router, "/admin/users", users, apirouter.CRUDConfig{
		FindById: true, Paginate: true, Count: true, Exists: true,
	}, apirouter.CRUDAccess{ReadRoles: []string{models.RoleSuperAdmin}, WriteRoles: []string{models.RoleSuperAdmin}})
}
