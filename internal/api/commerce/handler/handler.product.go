package commercehdl

import (
	"fmt"

	basehdl "vdg_commerce/internal/api/base/handler"
	commercedto "vdg_commerce/internal/api/commerce/dto"
	models "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// ProductHandler xử lý sản phẩm
type ProductHandler struct {
	*basehdl.BaseHandler[models.Product, commercedto.ProductCreateInput, commercedto.ProductUpdateInput]
	productService *commercesvc.ProductService
}

// NewProductHandler tạo ProductHandler
func NewProductHandler() (*ProductHandler, error) {
	productService, err := commercesvc.NewProductService()
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %w", err)
	}
	return &ProductHandler{
		BaseHandler:    basehdl.NewBaseHandler[models.Product, commercedto.ProductCreateInput, commercedto.ProductUpdateInput](productService),
		productService: productService,
	}, nil
}

// InsertOne tạo sản phẩm cho cửa hàng trong X-Shop-ID
func (h *ProductHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input commercedto.ProductCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		model, _ := input.ToModel()
		if shopID := basehdl.GetShopID(c); shopID != nil {
			model.ShopID = *shopID
		}
		created, err := h.productService.Create(c.Context(), *model)
		if err == nil {
			logger.LogCRUD("create", "product", created.ID.Hex(), c, map[string]any{"shop_id": created.ShopID.Hex()})
		}
		basehdl.HandleCreated(c, created, err)
		return nil
	})
}

// HandleGrid trả lưới sản phẩm dạng "xem thêm" (?page=&limit=&shop=&category=&search=&orderBy=&sortedBy=)
func (h *ProductHandler) HandleGrid(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var q commercedto.ProductGridQuery
		if err := h.ParseRequestQuery(c, &q); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		grid, err := h.productService.LoadMore(c.Context(), &q)
		h.HandleResponse(c, grid, err)
		return nil
	})
}

// HandlePopular trả sản phẩm bán chạy (?shop=&limit=)
func (h *ProductHandler) HandlePopular(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var q commercedto.PopularProductsQuery
		if err := h.ParseRequestQuery(c, &q); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		shop := basehdl.GetShopID(c)
		if q.Shop != "" {
			id := utility.String2ObjectID(q.Shop)
			shop = &id
		}
		items, err := h.productService.Popular(c.Context(), shop, q.Limit)
		h.HandleResponse(c, items, err)
		return nil
	})
}
