package basehdl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	basesvc "vdg_commerce/internal/api/base/service"
	"vdg_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type item struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ShopID primitive.ObjectID `json:"shopId" bson:"shopId"`
	Name   string             `json:"name" bson:"name"`
}

type itemInput struct {
	Name string `json:"name" bson:"name" validate:"required"`
}

// fakeService chỉ triển khai các phương thức được test gọi tới
type fakeService struct {
	basesvc.BaseServiceMongo[item]
	lastFilter any
	inserted   []item
}

func (f *fakeService) Find(_ context.Context, filter any, _ *options.FindOptions) ([]item, error) {
	f.lastFilter = filter
	return []item{{Name: "a"}}, nil
}

func (f *fakeService) FindOne(_ context.Context, filter any, _ *options.FindOneOptions) (item, error) {
	f.lastFilter = filter
	return item{}, common.ErrNotFound
}

func (f *fakeService) InsertOne(_ context.Context, data item) (item, error) {
	f.inserted = append(f.inserted, data)
	data.ID = primitive.NewObjectID()
	return data, nil
}

func newTestApp(svc *fakeService) *fiber.App {
	h := NewBaseHandler[item, itemInput, itemInput](svc)
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		if shop := c.Get("X-Shop-ID"); shop != "" {
			c.Locals("shop_id", shop)
		}
		return c.Next()
	})
	app.Get("/find", h.Find)
	app.Get("/find-by-id/:id", h.FindOneById)
	app.Post("/insert-one", h.InsertOne)
	app.Get("/panic", func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error { panic("boom") })
	})
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestFindFilter(t *testing.T) {
	t.Run("filter hợp lệ và tự gắn shopId", func(t *testing.T) {
		svc := &fakeService{}
		app := newTestApp(svc)
		shopID := primitive.NewObjectID()

		q := url.Values{"filter": {`{"name":"a"}`}}
		req := httptest.NewRequest(http.MethodGet, "/find?"+q.Encode(), nil)
		req.Header.Set("X-Shop-ID", shopID.Hex())
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "charset=utf-8")

		filter := svc.lastFilter.(map[string]any)
		assert.Equal(t, "a", filter["name"])
		assert.Equal(t, shopID, filter["shopId"])
	})

	t.Run("trường bị cấm trả 400", func(t *testing.T) {
		app := newTestApp(&fakeService{})
		q := url.Values{"filter": {`{"password":"x"}`}}
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/find?"+q.Encode(), nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, "VAL_002", decode(t, resp)["code"])
	})

	t.Run("toán tử không cho phép trả 400", func(t *testing.T) {
		app := newTestApp(&fakeService{})
		q := url.Values{"filter": {`{"name":{"$where":"1"}}`}}
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/find?"+q.Encode(), nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("options lạ trả 400", func(t *testing.T) {
		app := newTestApp(&fakeService{})
		q := url.Values{"options": {`{"hint":1}`}}
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/find?"+q.Encode(), nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestNormalizeFilter(t *testing.T) {
	id := primitive.NewObjectID()
	out := normalizeFilter(map[string]any{
		"categoryId": id.Hex(),
		"name":       id.Hex(),
		"_id":        map[string]any{"$in": []any{id.Hex()}},
	})
	assert.Equal(t, id, out["categoryId"])
	assert.Equal(t, id.Hex(), out["name"], "field không phải id giữ nguyên chuỗi")
	assert.Equal(t, []any{id}, out["_id"].(map[string]any)["$in"])
}

func TestParseSortKeepsOrder(t *testing.T) {
	sort, err := parseSort(json.RawMessage(`{"createdAt":-1,"name":1}`))
	require.NoError(t, err)
	require.Len(t, sort, 2)
	assert.Equal(t, "createdAt", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)

	_, err = parseSort(json.RawMessage(`{"name":2}`))
	assert.Error(t, err)
}

func TestFindOneByIdResponses(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/find-by-id/not-an-id", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/find-by-id/"+primitive.NewObjectID().Hex(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "error", body["status"])
}

func TestInsertOne(t *testing.T) {
	t.Run("thiếu trường bắt buộc", func(t *testing.T) {
		app := newTestApp(&fakeService{})
		req := httptest.NewRequest(http.MethodPost, "/insert-one", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, "VAL_001", decode(t, resp)["code"])
	})

	t.Run("gắn shop hiện hành vào model", func(t *testing.T) {
		svc := &fakeService{}
		app := newTestApp(svc)
		shopID := primitive.NewObjectID()
		req := httptest.NewRequest(http.MethodPost, "/insert-one", strings.NewReader(`{"name":"Áo thun"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shop-ID", shopID.Hex())
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		require.Len(t, svc.inserted, 1)
		assert.Equal(t, shopID, svc.inserted[0].ShopID)
		assert.Equal(t, "Áo thun", svc.inserted[0].Name)
	})
}

func TestSafeHandlerRecoversPanic(t *testing.T) {
	app := newTestApp(&fakeService{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "SYS_001", decode(t, resp)["code"])
}
