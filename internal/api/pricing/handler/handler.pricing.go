// Package pricinghdl - handler thuế, vận chuyển, mã giảm giá.
package pricinghdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	pricingdto "vdg_commerce/internal/api/pricing/dto"
	models "vdg_commerce/internal/api/pricing/models"
	pricingsvc "vdg_commerce/internal/api/pricing/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// TaxHandler xử lý thuế
type TaxHandler struct {
	*basehdl.BaseHandler[models.Tax, pricingdto.TaxInput, pricingdto.TaxUpdateInput]
}

// NewTaxHandler tạo TaxHandler
func NewTaxHandler() (*TaxHandler, error) {
	svc, err := pricingsvc.NewTaxService()
	if err != nil {
		return nil, fmt.Errorf("failed to create tax service: %w", err)
	}
	return &TaxHandler{BaseHandler: basehdl.NewBaseHandler[models.Tax, pricingdto.TaxInput, pricingdto.TaxUpdateInput](svc)}, nil
}

// ShippingHandler xử lý hạng vận chuyển
type ShippingHandler struct {
	*basehdl.BaseHandler[models.Shipping, pricingdto.ShippingInput, pricingdto.ShippingUpdateInput]
}

// NewShippingHandler tạo ShippingHandler
func NewShippingHandler() (*ShippingHandler, error) {
	svc, err := pricingsvc.NewShippingService()
	if err != nil {
		return nil, fmt.Errorf("failed to create shipping service: %w", err)
	}
	return &ShippingHandler{BaseHandler: basehdl.NewBaseHandler[models.Shipping, pricingdto.ShippingInput, pricingdto.ShippingUpdateInput](svc)}, nil
}

// CouponHandler xử lý mã giảm giá
type CouponHandler struct {
	*basehdl.BaseHandler[models.Coupon, pricingdto.CouponInput, pricingdto.CouponUpdateInput]
	couponService *pricingsvc.CouponService
}

// NewCouponHandler tạo CouponHandler
func NewCouponHandler() (*CouponHandler, error) {
	svc, err := pricingsvc.NewCouponService()
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon service: %w", err)
	}
	return &CouponHandler{
		BaseHandler:   basehdl.NewBaseHandler[models.Coupon, pricingdto.CouponInput, pricingdto.CouponUpdateInput](svc),
		couponService: svc,
	}, nil
}

// HandleVerify kiểm tra mã giảm giá với giá trị giỏ hàng và trả số tiền được giảm
func (h *CouponHandler) HandleVerify(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input pricingdto.VerifyCouponInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		coupon, err := h.couponService.Verify(c.Context(), input.Code, input.Amount)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		discount := utility.RoundMoney(pricingsvc.CouponDiscount(coupon, input.Amount, input.DeliveryFee))
		h.HandleResponse(c, fiber.Map{"isValid": true, "coupon": coupon, "discount": discount}, nil)
		return nil
	})
}

// UpdateById cập nhật mã giảm giá; giá trị mới được kiểm tra với loại mã đang lưu
func (h *CouponHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input pricingdto.CouponUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		set, err := input.ToUpdate()
		if err == nil && len(set) == 0 {
			err = common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
		}
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		current, err := h.couponService.FindOneById(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := input.CheckAgainst(&current); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		updated, err := h.couponService.UpdateGuarded(c.Context(), &current, set)
		if err == nil {
			logger.LogCRUD("update", "coupon", id.Hex(), c, nil)
		}
		h.HandleResponse(c, updated, err)
		return nil
	})
}
