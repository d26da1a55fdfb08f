// Package router đăng ký các route domain commerce: /commerce, /popular-products, /me/shops.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	commercehdl "vdg_commerce/internal/api/commerce/handler"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

var (
	vendorRoles = []string{authmodels.RoleStoreOwner, authmodels.RoleStaff}
	adminRoles  = []string{authmodels.RoleSuperAdmin}
)

// Register đăng ký route danh mục, sản phẩm, cửa hàng
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := commercesvc.RegisterCategoryProductSync(); err != nil {
		return fmt.Errorf("failed to register category sync: %w", err)
	}
	if err := registerCategoryRoutes(v1, r); err != nil {
		return err
	}
	if err := registerProductRoutes(v1, r); err != nil {
		return err
	}
	return registerShopRoutes(v1, r)
}

func registerCategoryRoutes(router fiber.Router, r *apirouter.Router) error {
	h, err := commercehdl.NewCategoryHandler()
	if err != nil {
		return fmt.Errorf("failed to create category handler: %w", err)
	}
	router.Get("/commerce/categories/tree", h.HandleTree)
	r.RegisterCRUDRoutes(router, "/commerce/categories", h, apirouter.CRUDConfig{
		InsOne: true, InsMany: true,
		Find: true, FindOne: true, FindById: true, FindIds: true, Paginate: true,
		UpdById: true, DelById: true,
		Count: true, Distinct: true, Exists: true,
	}, apirouter.CRUDAccess{PublicRead: true, WriteRoles: adminRoles})
	return nil
}

func registerProductRoutes(router fiber.Router, r *apirouter.Router) error {
	h, err := commercehdl.NewProductHandler()
	if err != nil {
		return fmt.Errorf("failed to create product handler: %w", err)
	}
	router.Get("/commerce/products/grid", h.HandleGrid)
	router.Get("/popular-products", h.HandlePopular)
	r.RegisterCRUDRoutes(router, "/commerce/products", h, apirouter.ResourceConfig,
		apirouter.CRUDAccess{PublicRead: true, WriteRoles: vendorRoles, Shop: apirouter.ShopRequired})
	return nil
}

func registerShopRoutes(router fiber.Router, r *apirouter.Router) error {
	h, err := commercehdl.NewShopHandler()
	if err != nil {
		return fmt.Errorf("failed to create shop handler: %w", err)
	}
	r.RegisterCRUDRoutes(router, "/commerce/shops", h, apirouter.CRUDConfig{
		InsOne: true,
		Find:   true, FindOne: true, FindById: true, Paginate: true,
		UpdById: true,
		Count:   true, Exists: true,
	}, apirouter.CRUDAccess{PublicRead: true, WriteRoles: []string{authmodels.RoleStoreOwner}})

	admin := apirouter.Chain(middleware.AuthMiddleware(adminRoles...))
	owner := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleStoreOwner))
	authOnly := apirouter.Chain(middleware.AuthMiddleware())
	apirouter.RegisterRouteWithMiddleware(router, "/commerce/shops", "DELETE", "/delete-by-id/:id", admin, h.DeleteById)
	apirouter.RegisterRouteWithMiddleware(router, "/commerce/shops", "POST", "/:id/approve", admin, h.HandleApprove)
	apirouter.RegisterRouteWithMiddleware(router, "/commerce/shops", "POST", "/:id/disapprove", admin, h.HandleDisapprove)
	apirouter.RegisterRouteWithMiddleware(router, "/commerce/shops", "POST", "/:id/staffs", owner, h.HandleAddStaff)
	apirouter.RegisterRouteWithMiddleware(router, "/commerce/shops", "DELETE", "/:id/staffs", owner, h.HandleRemoveStaff)
	apirouter.RegisterRouteWithMiddleware(router, "/me", "GET", "/shops", authOnly, h.HandleMyShops)
	return nil
}
