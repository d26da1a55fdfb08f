// Package withdrawhdl - handler rút tiền.
package withdrawhdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	"vdg_commerce/internal/api/middleware"
	withdrawdto "vdg_commerce/internal/api/withdraw/dto"
	models "vdg_commerce/internal/api/withdraw/models"
	withdrawsvc "vdg_commerce/internal/api/withdraw/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawHandler xử lý rút tiền
type WithdrawHandler struct {
	*basehdl.BaseHandler[models.Withdraw, withdrawdto.WithdrawRequestInput, withdrawdto.WithdrawStatusInput]
	withdrawService *withdrawsvc.WithdrawService
}

// NewWithdrawHandler tạo WithdrawHandler
func NewWithdrawHandler() (*WithdrawHandler, error) {
	svc, err := withdrawsvc.NewWithdrawService()
	if err != nil {
		return nil, fmt.Errorf("failed to create withdraw service: %w", err)
	}
	return &WithdrawHandler{
		BaseHandler:     basehdl.NewBaseHandler[models.Withdraw, withdrawdto.WithdrawRequestInput, withdrawdto.WithdrawStatusInput](svc),
		withdrawService: svc,
	}, nil
}

// scope trả cửa hàng hiện hành; chỉ admin được bỏ trống X-Shop-ID
func (h *WithdrawHandler) scope(c fiber.Ctx) (*primitive.ObjectID, error) {
	shopID := basehdl.GetShopID(c)
	if shopID != nil {
		return shopID, nil
	}
	if user := middleware.CurrentUser(c); user != nil && user.IsAdmin() {
		return nil, nil
	}
	return nil, common.NewError(common.ErrCodeValidationInput, "Thiếu header "+middleware.HeaderShopID, common.StatusBadRequest, nil)
}

// HandleRequest tạo yêu cầu rút tiền cho cửa hàng trong X-Shop-ID
func (h *WithdrawHandler) HandleRequest(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input withdrawdto.WithdrawRequestInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		shopID, userID := basehdl.GetShopID(c), basehdl.GetUserID(c)
		if shopID == nil || userID == nil {
			h.HandleResponse(c, nil, common.ErrShopAccessDenied)
			return nil
		}
		w, err := h.withdrawService.Request(c.Context(), *shopID, *userID, &input)
		if err == nil {
			logger.LogCRUD("create", "withdraw", w.ID.Hex(), c, map[string]any{"amount": w.Amount})
		}
		basehdl.HandleCreated(c, w, err)
		return nil
	})
}

// HandleList trả danh sách rút tiền (?page=&limit=&orderBy=&sortedBy=&status=)
func (h *WithdrawHandler) HandleList(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		shopID, err := h.scope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var q withdrawdto.WithdrawListQuery
		if err := h.ParseRequestQuery(c, &q); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, err := h.withdrawService.List(c.Context(), shopID, &q)
		h.HandleResponse(c, page, err)
		return nil
	})
}

func (h *WithdrawHandler) changeStatus(c fiber.Ctx, status, note string) {
	id, err := h.GetIDFromContext(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return
	}
	w, err := h.withdrawService.UpdateStatus(c.Context(), id, status, note)
	if err == nil {
		logger.LogAction("withdraw_status", c, map[string]any{"number": w.Number, "status": w.Status})
	}
	h.HandleResponse(c, w, err)
}

// HandleUpdateStatus đổi trạng thái yêu cầu (admin)
func (h *WithdrawHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input withdrawdto.WithdrawStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.changeStatus(c, input.Status, input.Note)
		return nil
	})
}

// HandleApprove duyệt yêu cầu (admin)
func (h *WithdrawHandler) HandleApprove(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		h.changeStatus(c, models.StatusApproved, "")
		return nil
	})
}

// HandleDelete xoá yêu cầu còn chờ duyệt
func (h *WithdrawHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		shopID, err := h.scope(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.withdrawService.DeletePending(c.Context(), id, shopID)
		if err == nil {
			logger.LogCRUD("delete", "withdraw", id.Hex(), c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}
