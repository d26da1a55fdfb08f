package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động audit (ai làm gì, từ đâu)
func LogAction(action string, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now().UnixMilli(),
	}
	if uid, ok := c.Locals("user_id").(string); ok {
		fields["user_id"] = uid
	}
	if sid, ok := c.Locals("shop_id").(string); ok {
		fields["shop_id"] = sid
	}
	if rid := requestID(c); rid != "" {
		fields["request_id"] = rid
	}
	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD ghi audit cho thao tác trên một tài nguyên
func LogCRUD(operation, resourceType, resourceID string, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID
	LogAction("crud_"+operation, c, details)
}

// LogAuth ghi audit cho đăng nhập, đăng xuất, đổi mật khẩu...
func LogAuth(action string, c fiber.Ctx, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["auth_action"] = action
	LogAction("auth_"+action, c, details)
}
