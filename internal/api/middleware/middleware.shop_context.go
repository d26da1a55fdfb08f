package middleware

import (
	"errors"

	models "vdg_commerce/internal/api/auth/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HeaderShopID là header chọn cửa hàng đang làm việc
const HeaderShopID = "X-Shop-ID"

// ShopContextMiddleware đọc X-Shop-ID, kiểm tra user là chủ/nhân viên của cửa hàng
// (super_admin được vào mọi cửa hàng) rồi gắn shop_id vào context.
// Phải đặt sau AuthMiddleware. required = false thì thiếu header vẫn cho qua.
func ShopContextMiddleware(required bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Get(HeaderShopID)
		if raw == "" {
			if required {
				HandleErrorResponse(c, common.NewError(common.ErrCodeValidationInput, "Thiếu header "+HeaderShopID, common.StatusBadRequest, nil))
				return nil
			}
			return c.Next()
		}
		shopID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat, HeaderShopID+" không hợp lệ", common.StatusBadRequest, nil))
			return nil
		}

		user := CurrentUser(c)
		if user == nil {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		am, err := GetAuthManager()
		if err != nil {
			HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, nil))
			return nil
		}
		shop, err := am.Shops.FindOneById(c.Context(), shopID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				HandleErrorResponse(c, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy cửa hàng", common.StatusNotFound, nil))
				return nil
			}
			HandleErrorResponse(c, err)
			return nil
		}
		if user.Role != models.RoleSuperAdmin && !shop.HasMember(user.ID) {
			logger.WithRequest(c).WithField("shop_id", raw).Warn("⚠️ [SHOP] User không thuộc cửa hàng")
			HandleErrorResponse(c, common.ErrShopAccessDenied)
			return nil
		}

		c.Locals("shop_id", shopID.Hex())
		c.Locals("shop", &shop)
		return c.Next()
	}
}
