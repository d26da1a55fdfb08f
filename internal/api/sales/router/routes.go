// Package router đăng ký route /orders, /payment, /me/orders.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"
	saleshdl "vdg_commerce/internal/api/sales/handler"
	salessvc "vdg_commerce/internal/api/sales/service"

	"github.com/gofiber/fiber/v3"
)

var vendorRoles = []string{authmodels.RoleSuperAdmin, authmodels.RoleStoreOwner, authmodels.RoleStaff}

// Register đăng ký route đơn hàng và thanh toán
func Register(v1 fiber.Router, r *apirouter.Router) error {
	orderService, err := salessvc.NewOrderService()
	if err != nil {
		return fmt.Errorf("failed to create order service: %w", err)
	}
	paymentService, err := salessvc.NewPaymentService(orderService)
	if err != nil {
		return fmt.Errorf("failed to create payment service: %w", err)
	}
	orders := saleshdl.NewOrderHandler(orderService)
	payments := saleshdl.NewPaymentHandler(paymentService)

	authOnly := apirouter.Chain(middleware.AuthMiddleware())
	vendor := apirouter.Chain(middleware.AuthMiddleware(vendorRoles...), middleware.ShopContextMiddleware(false))
	admin := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleSuperAdmin))
	withShop := apirouter.Chain(middleware.AuthMiddleware(), middleware.ShopContextMiddleware(false))

	// Đơn hàng; /count và /exists đăng ký trước /:id
	r.RegisterCRUDRoutes(v1, "/orders", orders, apirouter.CRUDConfig{Count: true, Exists: true},
		apirouter.CRUDAccess{ReadRoles: vendorRoles, Shop: apirouter.ShopOptional})
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "POST", "/checkout/verify", authOnly, orders.HandleQuote)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "POST", "/checkout", authOnly, orders.HandleCheckout)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "GET", "", vendor, orders.HandleList)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "GET", "/:id", vendor, orders.HandleDetail)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "PUT", "/:id/status", vendor, orders.HandleUpdateStatus)
	apirouter.RegisterRouteWithMiddleware(v1, "/orders", "POST", "/:id/cancel", authOnly, orders.HandleCancel)

	// Đơn của tôi
	apirouter.RegisterRouteWithMiddleware(v1, "/me", "GET", "/orders", authOnly, orders.HandleMyOrders)
	apirouter.RegisterRouteWithMiddleware(v1, "/me", "GET", "/orders/:tracking", authOnly, orders.HandleMyOrder)

	// Thanh toán
	apirouter.RegisterRouteWithMiddleware(v1, "/payment", "POST", "/intent", authOnly, payments.HandleIntent)
	apirouter.RegisterRouteWithMiddleware(v1, "/payment", "POST", "/cod", authOnly, payments.HandleCashOnDelivery)
	apirouter.RegisterRouteWithMiddleware(v1, "/payment", "POST", "/:id/confirm", admin, payments.HandleConfirm)
	apirouter.RegisterRouteWithMiddleware(v1, "/payment", "GET", "/order/:orderId", withShop, payments.HandleListForOrder)
	return nil
}
