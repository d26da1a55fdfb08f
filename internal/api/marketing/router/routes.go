// Package router đăng ký route /slider và /offers.
package router

import (
	"fmt"

	authmodels "vdg_commerce/internal/api/auth/models"
	marketinghdl "vdg_commerce/internal/api/marketing/handler"
	apirouter "vdg_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

var adminWrite = apirouter.CRUDAccess{PublicRead: true, WriteRoles: []string{authmodels.RoleSuperAdmin}}

// Register đăng ký route slider và ưu đãi
func Register(v1 fiber.Router, r *apirouter.Router) error {
	slider, err := marketinghdl.NewSliderHandler()
	if err != nil {
		return fmt.Errorf("failed to create slider handler: %w", err)
	}
	v1.Get("/slider/active", slider.HandleActive)
	r.RegisterCRUDRoutes(v1, "/slider", slider, apirouter.ResourceConfig, adminWrite)

	offer, err := marketinghdl.NewOfferHandler()
	if err != nil {
		return fmt.Errorf("failed to create offer handler: %w", err)
	}
	v1.Get("/offers/running", offer.HandleRunning)
	r.RegisterCRUDRoutes(v1, "/offers", offer, apirouter.ResourceConfig, adminWrite)
	return nil
}
