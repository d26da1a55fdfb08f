package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả JSON với Content-Type có charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data any) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler bọc handler với recover, luôn trả response kể cả khi panic
func (h *BaseHandler[T, CreateInput, UpdateInput]) SafeHandler(c fiber.Ctx, handler func() error) error {
	return SafeHandlerWrapper(c, handler)
}

// SafeHandlerWrapper dùng cho handler domain không embed BaseHandler
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			debug.PrintStack()
			logger.WithRequest(c).WithField("panic", r).Error("🔥 Panic trong handler")
			HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
			err = nil
		}
	}()
	return fn()
}

// HandleResponse chuẩn hoá response: {code, message, data|details, status}
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleResponse(c fiber.Ctx, data any, err error) {
	HandleResponse(c, data, err)
}

// HandleResponse là bản dùng chung cho mọi handler
func HandleResponse(c fiber.Ctx, data any, err error) {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			if customErr.StatusCode >= common.StatusInternalServerError {
				logger.WithRequest(c).WithError(err).Error("Lỗi xử lý request")
			}
			_ = JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
			return
		}
		logger.WithRequest(c).WithError(err).Error("Lỗi không xác định")
		_ = JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"details": err.Error(),
			"status":  "error",
		})
		return
	}

	_ = JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleCreated trả 201 cho thao tác tạo mới
func HandleCreated(c fiber.Ctx, data any, err error) {
	if err != nil {
		HandleResponse(c, nil, err)
		return
	}
	_ = JSONResponse(c, common.StatusCreated, fiber.Map{
		"code":    common.StatusCreated,
		"message": common.MsgCreated,
		"data":    data,
		"status":  "success",
	})
}
