// Package marketinghdl - handler slider và ưu đãi.
package marketinghdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	marketingdto "vdg_commerce/internal/api/marketing/dto"
	models "vdg_commerce/internal/api/marketing/models"
	marketingsvc "vdg_commerce/internal/api/marketing/service"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SliderHandler xử lý slider
type SliderHandler struct {
	*basehdl.BaseHandler[models.Slider, marketingdto.SliderInput, marketingdto.SliderUpdateInput]
	sliderService *marketingsvc.SliderService
}

// NewSliderHandler tạo SliderHandler
func NewSliderHandler() (*SliderHandler, error) {
	svc, err := marketingsvc.NewSliderService()
	if err != nil {
		return nil, fmt.Errorf("failed to create slider service: %w", err)
	}
	return &SliderHandler{
		BaseHandler:   basehdl.NewBaseHandler[models.Slider, marketingdto.SliderInput, marketingdto.SliderUpdateInput](svc),
		sliderService: svc,
	}, nil
}

// HandleActive trả slider đang bật
func (h *SliderHandler) HandleActive(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		items, err := h.sliderService.Active(c.Context())
		h.HandleResponse(c, items, err)
		return nil
	})
}

// OfferHandler xử lý ưu đãi
type OfferHandler struct {
	*basehdl.BaseHandler[models.Offer, marketingdto.OfferInput, marketingdto.OfferUpdateInput]
	offerService *marketingsvc.OfferService
}

// NewOfferHandler tạo OfferHandler
func NewOfferHandler() (*OfferHandler, error) {
	svc, err := marketingsvc.NewOfferService()
	if err != nil {
		return nil, fmt.Errorf("failed to create offer service: %w", err)
	}
	return &OfferHandler{
		BaseHandler:  basehdl.NewBaseHandler[models.Offer, marketingdto.OfferInput, marketingdto.OfferUpdateInput](svc),
		offerService: svc,
	}, nil
}

// HandleRunning trả ưu đãi đang chạy (?product=<id>)
func (h *OfferHandler) HandleRunning(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var productID *primitive.ObjectID
		if raw := c.Query("product"); raw != "" {
			id := utility.String2ObjectID(raw)
			productID = &id
		}
		items, err := h.offerService.Running(c.Context(), productID)
		h.HandleResponse(c, items, err)
		return nil
	})
}
