// Package router đăng ký route /withdraws.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"
	withdrawhdl "vdg_commerce/internal/api/withdraw/handler"

	"github.com/gofiber/fiber/v3"
)

const prefix = "/withdraws"

// Register đăng ký route rút tiền
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := withdrawhdl.NewWithdrawHandler()
	if err != nil {
		return fmt.Errorf("failed to create withdraw handler: %w", err)
	}

	vendorRoles := []string{authmodels.RoleSuperAdmin, authmodels.RoleStoreOwner}
	owner := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleStoreOwner), middleware.ShopContextMiddleware(true))
	vendorOrAdmin := apirouter.Chain(middleware.AuthMiddleware(vendorRoles...), middleware.ShopContextMiddleware(false))
	admin := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleSuperAdmin))

	r.RegisterCRUDRoutes(v1, prefix, h, apirouter.CRUDConfig{FindById: true, Count: true},
		apirouter.CRUDAccess{ReadRoles: vendorRoles, Shop: apirouter.ShopOptional})
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "", owner, h.HandleRequest)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "GET", "", vendorOrAdmin, h.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "PUT", "/:id/status", admin, h.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/approve", admin, h.HandleApprove)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "DELETE", "/:id", vendorOrAdmin, h.HandleDelete)
	return nil
}
