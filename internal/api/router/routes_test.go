package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func reply(name string) fiber.Handler {
	return func(c fiber.Ctx) error { return c.SendString(name) }
}

func (echoHandler) InsertOne(c fiber.Ctx) error          { return reply("insert-one")(c) }
func (echoHandler) InsertMany(c fiber.Ctx) error         { return reply("insert-many")(c) }
func (echoHandler) Find(c fiber.Ctx) error               { return reply("find")(c) }
func (echoHandler) FindOne(c fiber.Ctx) error            { return reply("find-one")(c) }
func (echoHandler) FindOneById(c fiber.Ctx) error        { return reply("find-by-id")(c) }
func (echoHandler) FindManyByIds(c fiber.Ctx) error      { return reply("find-by-ids")(c) }
func (echoHandler) FindWithPagination(c fiber.Ctx) error { return reply("paginate")(c) }
func (echoHandler) UpdateOne(c fiber.Ctx) error          { return reply("update-one")(c) }
func (echoHandler) UpdateMany(c fiber.Ctx) error         { return reply("update-many")(c) }
func (echoHandler) UpdateById(c fiber.Ctx) error         { return reply("update-by-id")(c) }
func (echoHandler) FindOneAndUpdate(c fiber.Ctx) error   { return reply("find-one-and-update")(c) }
func (echoHandler) DeleteOne(c fiber.Ctx) error          { return reply("delete-one")(c) }
func (echoHandler) DeleteMany(c fiber.Ctx) error         { return reply("delete-many")(c) }
func (echoHandler) DeleteById(c fiber.Ctx) error         { return reply("delete-by-id")(c) }
func (echoHandler) FindOneAndDelete(c fiber.Ctx) error   { return reply("find-one-and-delete")(c) }
func (echoHandler) CountDocuments(c fiber.Ctx) error     { return reply("count")(c) }
func (echoHandler) Distinct(c fiber.Ctx) error           { return reply("distinct")(c) }
func (echoHandler) Upsert(c fiber.Ctx) error             { return reply("upsert")(c) }
func (echoHandler) DocumentExists(c fiber.Ctx) error     { return reply("exists")(c) }

func do(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRegisterRouteWithMiddleware_Order(t *testing.T) {
	app := fiber.New()
	var trace []string
	mw := func(name string) fiber.Handler {
		return func(c fiber.Ctx) error {
			trace = append(trace, name)
			return c.Next()
		}
	}
	RegisterRouteWithMiddleware(app, "/x", "get", "/y", Chain(mw("a"), nil, mw("b")), func(c fiber.Ctx) error {
		trace = append(trace, "handler")
		return c.SendString("ok")
	})

	status, _ := do(t, app, http.MethodGet, "/x/y")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"a", "b", "handler"}, trace)

	status, _ = do(t, app, http.MethodGet, "/x/z")
	assert.Equal(t, http.StatusNotFound, status, "middleware không được lan sang route khác")
	assert.Len(t, trace, 3)
}

func TestRegisterCRUDRoutes(t *testing.T) {
	app := fiber.New()
	r := NewRouter(app)
	v1 := app.Group(NewRoutePrefix().V1)
	r.RegisterCRUDRoutes(v1, "/taxes", echoHandler{}, ResourceConfig, CRUDAccess{PublicRead: true})

	t.Run("đọc công khai", func(t *testing.T) {
		status, body := do(t, app, http.MethodGet, "/api/v1/taxes/find-with-pagination")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "paginate", body)
	})

	t.Run("ghi cần đăng nhập", func(t *testing.T) {
		status, _ := do(t, app, http.MethodPost, "/api/v1/taxes/insert-one")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("thao tác hàng loạt không được bật", func(t *testing.T) {
		status, _ := do(t, app, http.MethodDelete, "/api/v1/taxes/delete-many")
		assert.NotEqual(t, http.StatusOK, status)
	})
}
