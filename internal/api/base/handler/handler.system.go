package basehdl

import (
	"context"
	"time"

	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"github.com/gofiber/fiber/v3"
)

// SystemHandler xử lý các route hệ thống
type SystemHandler struct {
	startedAt time.Time
}

// NewSystemHandler tạo SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startedAt: time.Now()}
}

// HandleHealth kiểm tra API và kết nối MongoDB; trả 503 khi DB lỗi
// @Router /system/health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"services":  services,
	}

	if global.MongoDB_Session == nil {
		health["status"] = "degraded"
		services["database"] = "not_initialized"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Hệ thống đang gặp sự cố",
			"data":    health,
			"status":  "error",
		})
	}

	if err := global.MongoDB_Session.Ping(ctx, nil); err != nil {
		health["status"] = "degraded"
		services["database"] = "error"
		health["database_error"] = err.Error()
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "Hệ thống đang gặp sự cố",
			"data":    health,
			"status":  "error",
		})
	}
	services["database"] = "ok"

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    health,
		"status":  "success",
	})
}
