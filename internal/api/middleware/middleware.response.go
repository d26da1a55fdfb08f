package middleware

import (
	"errors"

	"vdg_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả JSON với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data any) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleErrorResponse trả error envelope cho client.
// Nằm ở middleware để không import ngược package handler.
func HandleErrorResponse(c fiber.Ctx, err error) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		_ = JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
		return
	}
	_ = JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"details": err.Error(),
		"status":  "error",
	})
}
