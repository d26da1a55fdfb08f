// Package router đăng ký route cho API: cấu hình CRUD dùng chung và SetupRoutes gom các domain router.
package router

import (
	"strings"

	"vdg_commerce/internal/api/middleware"

	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// LƯU Ý FIBER V3 - THỨ TỰ HANDLER
// ============================================================================
//
// Trong Fiber v3, Get/Post/... có chữ ký (path, handler, middleware...) và
// handler (tham số thứ hai) luôn chạy CUỐI CÙNG:
//
//    router.Get("/path", middleware.AuthMiddleware(), handler)   ❌ handler chạy trước, middleware sau
//    router.Get("/path", handler, middleware.AuthMiddleware())   ✅ middleware chạy trước handler
//
// Luôn đăng ký qua RegisterRouteWithMiddleware để không nhầm thứ tự.
// Không dùng group.Use(mw) cho từng route: middleware sẽ áp lên mọi route cùng prefix.
// ============================================================================

// CRUDHandler là tập handler CRUD generic (basehdl.BaseHandler triển khai)
type CRUDHandler interface {
	InsertOne(c fiber.Ctx) error
	InsertMany(c fiber.Ctx) error

	Find(c fiber.Ctx) error
	FindOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindManyByIds(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error

	UpdateOne(c fiber.Ctx) error
	UpdateMany(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	FindOneAndUpdate(c fiber.Ctx) error

	DeleteOne(c fiber.Ctx) error
	DeleteMany(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
	FindOneAndDelete(c fiber.Ctx) error

	CountDocuments(c fiber.Ctx) error
	Distinct(c fiber.Ctx) error
	Upsert(c fiber.Ctx) error
	DocumentExists(c fiber.Ctx) error
}

// Router giữ app để các domain đăng ký route
type Router struct {
	app *fiber.App
}

// CRUDConfig bật/tắt từng operation CRUD của một collection
type CRUDConfig struct {
	// Create
	InsOne  bool
	InsMany bool

	// Read
	Find     bool
	FindOne  bool
	FindById bool
	FindIds  bool
	Paginate bool

	// Update
	UpdOne  bool
	UpdMany bool
	UpdById bool
	FindUpd bool

	// Delete
	DelOne  bool
	DelMany bool
	DelById bool
	FindDel bool

	// Other
	Count    bool
	Distinct bool
	Upsert   bool
	Exists   bool
}

var (
	// ReadOnlyConfig chỉ cho phép đọc
	ReadOnlyConfig = CRUDConfig{
		Find: true, FindOne: true, FindById: true, FindIds: true, Paginate: true,
		Count: true, Distinct: true, Exists: true,
	}

	// ReadWriteConfig cho phép đầy đủ CRUD
	ReadWriteConfig = CRUDConfig{
		InsOne: true, InsMany: true,
		Find: true, FindOne: true, FindById: true, FindIds: true, Paginate: true,
		UpdOne: true, UpdMany: true, UpdById: true, FindUpd: true,
		DelOne: true, DelMany: true, DelById: true, FindDel: true,
		Count: true, Distinct: true, Upsert: true, Exists: true,
	}

	// ResourceConfig là CRUD theo id (tạo, đọc, sửa, xoá từng bản ghi); không có thao tác hàng loạt
	ResourceConfig = CRUDConfig{
		InsOne: true,
		Find:   true, FindOne: true, FindById: true, FindIds: true, Paginate: true,
		UpdById: true, DelById: true,
		Count: true, Exists: true,
	}
)

// ShopScope quy định route có cần ngữ cảnh cửa hàng (X-Shop-ID) hay không
type ShopScope int

const (
	ShopNone     ShopScope = iota // dữ liệu toàn hệ thống
	ShopOptional                  // có header thì lọc theo cửa hàng
	ShopRequired                  // bắt buộc có header
)

// CRUDAccess là quyền truy cập cho nhóm route đọc và ghi
type CRUDAccess struct {
	PublicRead bool     // đọc không cần đăng nhập
	ReadRoles  []string // rỗng = mọi user đã đăng nhập
	WriteRoles []string
	Shop       ShopScope
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix tạo RoutePrefix mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware đăng ký một route, middleware chạy theo thứ tự truyền vào rồi tới handler
func RegisterRouteWithMiddleware(router fiber.Router, prefix, method, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	full := prefix + path
	router.Add([]string{strings.ToUpper(method)}, full, handler, middlewares...)
}

// Chain ghép các middleware
func Chain(mws ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}

func (a CRUDAccess) readChain() []fiber.Handler {
	if a.PublicRead {
		return nil
	}
	chain := Chain(middleware.AuthMiddleware(a.ReadRoles...))
	if a.Shop != ShopNone {
		chain = append(chain, middleware.ShopContextMiddleware(false))
	}
	return chain
}

func (a CRUDAccess) writeChain() []fiber.Handler {
	chain := Chain(middleware.AuthMiddleware(a.WriteRoles...))
	switch a.Shop {
	case ShopRequired:
		chain = append(chain, middleware.ShopContextMiddleware(true))
	case ShopOptional:
		chain = append(chain, middleware.ShopContextMiddleware(false))
	}
	return chain
}

// RegisterCRUDRoutes đăng ký các route CRUD bật trong config cho một collection
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig, access CRUDAccess) {
	read := access.readChain()
	write := access.writeChain()

	// Create
	if config.InsOne {
		RegisterRouteWithMiddleware(router, prefix, "POST", "/insert-one", write, h.InsertOne)
	}
	if config.InsMany {
		RegisterRouteWithMiddleware(router, prefix, "POST", "/insert-many", write, h.InsertMany)
	}

	// Read
	if config.Find {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find", read, h.Find)
	}
	if config.FindOne {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-one", read, h.FindOne)
	}
	if config.FindById {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-by-id/:id", read, h.FindOneById)
	}
	if config.FindIds {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-by-ids", read, h.FindManyByIds)
	}
	if config.Paginate {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-with-pagination", read, h.FindWithPagination)
	}

	// Update
	if config.UpdOne {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/update-one", write, h.UpdateOne)
	}
	if config.UpdMany {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/update-many", write, h.UpdateMany)
	}
	if config.UpdById {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/update-by-id/:id", write, h.UpdateById)
	}
	if config.FindUpd {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/find-one-and-update", write, h.FindOneAndUpdate)
	}

	// Delete
	if config.DelOne {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/delete-one", write, h.DeleteOne)
	}
	if config.DelMany {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/delete-many", write, h.DeleteMany)
	}
	if config.DelById {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/delete-by-id/:id", write, h.DeleteById)
	}
	if config.FindDel {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/find-one-and-delete", write, h.FindOneAndDelete)
	}

	// Other
	if config.Count {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/count", read, h.CountDocuments)
	}
	if config.Distinct {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/distinct/:field", read, h.Distinct)
	}
	if config.Upsert {
		RegisterRouteWithMiddleware(router, prefix, "POST", "/upsert-one", write, h.Upsert)
	}
	if config.Exists {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/exists", read, h.DocumentExists)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export)
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes đăng ký route của mọi domain dưới /api/v1.
// Caller truyền Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
