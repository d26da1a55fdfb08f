// Package router đăng ký route /taxes, /shippings, /coupons.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	pricinghdl "vdg_commerce/internal/api/pricing/handler"
	apirouter "vdg_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

var adminOnly = apirouter.CRUDAccess{PublicRead: true, WriteRoles: []string{authmodels.RoleSuperAdmin}}

// Register đăng ký route thuế, vận chuyển, mã giảm giá
func Register(v1 fiber.Router, r *apirouter.Router) error {
	tax, err := pricinghdl.NewTaxHandler()
	if err != nil {
		return fmt.Errorf("failed to create tax handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/taxes", tax, apirouter.ResourceConfig, adminOnly)

	shipping, err := pricinghdl.NewShippingHandler()
	if err != nil {
		return fmt.Errorf("failed to create shipping handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/shippings", shipping, apirouter.ResourceConfig, adminOnly)

	coupon, err := pricinghdl.NewCouponHandler()
	if err != nil {
		return fmt.Errorf("failed to create coupon handler: %w", err)
	}
	apirouter.RegisterRouteWithMiddleware(v1, "/coupons", "POST", "/verify",
		apirouter.Chain(middleware.AuthMiddleware()), coupon.HandleVerify)
	r.RegisterCRUDRoutes(v1, "/coupons", coupon, apirouter.ResourceConfig, adminOnly)
	return nil
}
