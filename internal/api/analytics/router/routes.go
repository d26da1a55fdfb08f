// Package router đăng ký route /analytics.
package router

import (
	"fmt"

	analyticshdl "vdg_commerce/internal/api/analytics/handler"
	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký route thống kê
func Register(v1 fiber.Router, _ *apirouter.Router) error {
	h, err := analyticshdl.NewAnalyticsHandler()
	if err != nil {
		return fmt.Errorf("failed to create analytics handler: %w", err)
	}
	mw := apirouter.Chain(
		middleware.AuthMiddleware(authmodels.RoleSuperAdmin, authmodels.RoleStoreOwner, authmodels.RoleStaff),
		middleware.ShopContextMiddleware(false),
	)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "", mw, h.HandleOverview)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/totals", mw, h.HandleTotals)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/revenue", mw, h.HandleRevenue)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/order-status", mw, h.HandleOrderStatus)
	return nil
}
