// Package router đăng ký route /upload.
package router

import (
	"fmt"

	"vdg_commerce/config"
	authmodels "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/api/middleware"
	apirouter "vdg_commerce/internal/api/router"
	uploadhdl "vdg_commerce/internal/api/upload/handler"
	uploadsvc "vdg_commerce/internal/api/upload/service"
	"vdg_commerce/internal/global"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký route tải tệp; tệp lưu ở UPLOAD_DIR
func Register(v1 fiber.Router, r *apirouter.Router) error {
	dir := "./uploads"
	if cfg := global.MongoDB_ServerConfig; cfg != nil && cfg.UploadDir != "" {
		dir = config.ResolvePath(cfg.UploadDir)
	}
	store, err := uploadsvc.NewLocalStorage(dir)
	if err != nil {
		return err
	}
	h, err := uploadhdl.NewUploadHandler(store)
	if err != nil {
		return fmt.Errorf("failed to create upload handler: %w", err)
	}

	authOnly := apirouter.Chain(middleware.AuthMiddleware())
	admin := apirouter.Chain(middleware.AuthMiddleware(authmodels.RoleSuperAdmin))
	v1.Get("/upload/files/:name", h.HandleServe)
	apirouter.RegisterRouteWithMiddleware(v1, "/upload", "POST", "", authOnly, h.HandleUpload)
	r.RegisterCRUDRoutes(v1, "/upload", h, apirouter.CRUDConfig{FindById: true, Paginate: true, Count: true},
		apirouter.CRUDAccess{ReadRoles: []string{authmodels.RoleSuperAdmin}})
	apirouter.RegisterRouteWithMiddleware(v1, "/upload", "DELETE", "/:id", admin, h.HandleRemove)
	return nil
}
