package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	models "vdg_commerce/internal/api/auth/models"
	authsvc "vdg_commerce/internal/api/auth/service"
	commercemodels "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thời gian giữ user đã xác thực theo token
const tokenCacheTTL = 30 * time.Second

// TokenVerifier xác thực access token và trả user sở hữu token
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// ShopFinder tìm cửa hàng theo id
type ShopFinder interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (commercemodels.Shop, error)
}

// AuthManager giữ các service dùng cho xác thực và ngữ cảnh cửa hàng
type AuthManager struct {
	Users TokenVerifier
	Shops ShopFinder
	Cache *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerErr      error
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager, khởi tạo ở lần gọi đầu
func GetAuthManager() (*AuthManager, error) {
	authManagerOnce.Do(func() {
		authManagerInstance, authManagerErr = newAuthManager()
	})
	return authManagerInstance, authManagerErr
}

// SetAuthManager thay AuthManager (dùng trong test hoặc khi khởi tạo thủ công)
func SetAuthManager(am *AuthManager) {
	authManagerOnce.Do(func() {})
	authManagerInstance, authManagerErr = am, nil
}

func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	shopService, err := commercesvc.NewShopService()
	if err != nil {
		return nil, fmt.Errorf("failed to create shop service: %w", err)
	}
	return &AuthManager{
		Users: userService,
		Shops: shopService,
		Cache: utility.NewCache(tokenCacheTTL, 2*tokenCacheTTL),
	}, nil
}

// ForgetToken xoá token khỏi cache (sau logout)
func ForgetToken(token string) {
	if am, err := GetAuthManager(); err == nil && am != nil && am.Cache != nil {
		am.Cache.Delete("token:" + token)
	}
}

// BearerToken tách token từ header Authorization: Bearer <token>
func BearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", common.ErrTokenMissing
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", common.ErrTokenInvalid
	}
	return parts[1], nil
}

func (am *AuthManager) authenticate(ctx context.Context, token string) (*models.User, error) {
	key := "token:" + token
	if am.Cache != nil {
		if cached, found := am.Cache.Get(key); found {
			return cached.(*models.User), nil
		}
	}
	user, err := am.Users.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if am.Cache != nil {
		am.Cache.Set(key, user)
	}
	return user, nil
}

// AuthMiddleware yêu cầu access token hợp lệ; roles rỗng nghĩa là mọi vai trò đều được
func AuthMiddleware(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Thiếu hoặc sai header Authorization")
			HandleErrorResponse(c, err)
			return nil
		}

		am, err := GetAuthManager()
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("🔥 [AUTH] Không khởi tạo được AuthManager")
			HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, nil))
			return nil
		}

		user, err := am.authenticate(c.Context(), token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token không hợp lệ")
			HandleErrorResponse(c, err)
			return nil
		}

		if !authsvc.HasAnyRole(user.Role, roles...) {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":     c.Path(),
				"user_id":  user.ID.Hex(),
				"role":     user.Role,
				"required": roles,
			}).Warn("⚠️ [AUTH] Không đủ quyền")
			HandleErrorResponse(c, common.ErrPermissionDenied)
			return nil
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_role", user.Role)
		c.Locals("user", user)
		c.Locals("token", token)
		return c.Next()
	}
}

// CurrentUser lấy user do AuthMiddleware gắn vào
func CurrentUser(c fiber.Ctx) *models.User {
	u, _ := c.Locals("user").(*models.User)
	return u
}
