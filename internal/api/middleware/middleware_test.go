package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	models "vdg_commerce/internal/api/auth/models"
	commercemodels "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeVerifier struct {
	users map[string]*models.User
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, common.ErrTokenInvalid
}

type fakeShops struct {
	shops map[primitive.ObjectID]commercemodels.Shop
}

func (f *fakeShops) FindOneById(_ context.Context, id primitive.ObjectID) (commercemodels.Shop, error) {
	if s, ok := f.shops[id]; ok {
		return s, nil
	}
	return commercemodels.Shop{}, common.ErrNotFound
}

var (
	owner    = &models.User{ID: primitive.NewObjectID(), Role: models.RoleStoreOwner}
	customer = &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}
	admin    = &models.User{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}
	shopID   = primitive.NewObjectID()
)

func setup(t *testing.T) *fiber.App {
	t.Helper()
	SetAuthManager(&AuthManager{
		Users: &fakeVerifier{users: map[string]*models.User{
			"owner-token":    owner,
			"customer-token": customer,
			"admin-token":    admin,
		}},
		Shops: &fakeShops{shops: map[primitive.ObjectID]commercemodels.Shop{
			shopID: {ID: shopID, OwnerID: owner.ID},
		}},
	})

	// Fiber v3: handler chính truyền trước, middleware phía sau và được chạy trước handler
	app := fiber.New()
	app.Get("/me", func(c fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	}, AuthMiddleware())
	app.Get("/vendor", func(c fiber.Ctx) error {
		return c.SendString("ok")
	}, AuthMiddleware(models.RoleStoreOwner))
	app.Get("/shop", func(c fiber.Ctx) error {
		return c.SendString(c.Locals("shop_id").(string))
	}, AuthMiddleware(), ShopContextMiddleware(true))
	return app
}

func call(t *testing.T, app *fiber.App, path, token, shop string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if shop != "" {
		req.Header.Set(HeaderShopID, shop)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddleware(t *testing.T) {
	app := setup(t)

	t.Run("thiếu token", func(t *testing.T) {
		status, body := call(t, app, "/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "AUTH_001", body["code"])
		assert.Equal(t, "error", body["status"])
	})

	t.Run("sai định dạng", func(t *testing.T) {
		status, _ := call(t, app, "/me", "Token abc", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token không tồn tại", func(t *testing.T) {
		status, body := call(t, app, "/me", "Bearer nope", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "AUTH_001", body["code"])
	})

	t.Run("token hợp lệ", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer customer-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("không đủ vai trò", func(t *testing.T) {
		status, body := call(t, app, "/vendor", "Bearer customer-token", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "AUTH_003", body["code"])
	})

	t.Run("super_admin bao gồm store_owner", func(t *testing.T) {
		status, _ := call(t, app, "/vendor", "Bearer admin-token", "")
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestShopContextMiddleware(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name   string
		token  string
		shop   string
		status int
	}{
		{"thiếu header", "Bearer owner-token", "", http.StatusBadRequest},
		{"header sai định dạng", "Bearer owner-token", "xyz", http.StatusBadRequest},
		{"cửa hàng không tồn tại", "Bearer owner-token", primitive.NewObjectID().Hex(), http.StatusNotFound},
		{"không thuộc cửa hàng", "Bearer customer-token", shopID.Hex(), http.StatusForbidden},
		{"chủ cửa hàng", "Bearer owner-token", shopID.Hex(), http.StatusOK},
		{"super_admin", "Bearer admin-token", shopID.Hex(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, "/shop", tt.token, tt.shop)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestHandleErrorResponse_NonCustomError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		HandleErrorResponse(c, assert.AnError)
		return nil
	})
	status, body := call(t, app, "/", "", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "SYS_001", body["code"])
}
