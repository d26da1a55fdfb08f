package main

import (
	"fmt"
	"strings"
	"time"

	"vdg_commerce/config"
	analyticsrouter "vdg_commerce/internal/api/analytics/router"
	authrouter "vdg_commerce/internal/api/auth/router"
	commercerouter "vdg_commerce/internal/api/commerce/router"
	marketingrouter "vdg_commerce/internal/api/marketing/router"
	"vdg_commerce/internal/api/middleware"
	pricingrouter "vdg_commerce/internal/api/pricing/router"
	"vdg_commerce/internal/api/router"
	salesrouter "vdg_commerce/internal/api/sales/router"
	settingsrouter "vdg_commerce/internal/api/settings/router"
	uploadrouter "vdg_commerce/internal/api/upload/router"
	withdrawrouter "vdg_commerce/internal/api/withdraw/router"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// domainRoutes là Register của từng domain, theo thứ tự đăng ký
var domainRoutes = []router.RegisterFunc{
	authrouter.Register,      // /system, /auth, /token, /me, /admin
	commercerouter.Register,  // /commerce, /popular-products, /me/shops
	pricingrouter.Register,   // /taxes, /shippings, /coupons
	salesrouter.Register,     // /orders, /payment, /me/orders
	withdrawrouter.Register,  // /withdraws
	marketingrouter.Register, // /slider, /offers
	settingsrouter.Register,  // /settings
	uploadrouter.Register,    // /upload
	analyticsrouter.Register, // /analytics
}

// errorHandler trả lỗi Fiber theo format chung {code, message, status}
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	errorCode := common.ErrCodeInternalServer.Code

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
		switch code {
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			errorCode = common.ErrCodeValidationInput.Code
		case fiber.StatusUnauthorized:
			errorCode = common.ErrCodeAuthToken.Code
		case fiber.StatusForbidden:
			errorCode = common.ErrCodeAuthRole.Code
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			errorCode = common.ErrCodeDatabaseQuery.Code
		}
	}

	// HTTPS gửi tới server HTTP: không log, trả hướng dẫn
	errMsg := err.Error()
	if strings.Contains(errMsg, "unsupported http request method") && strings.Contains(errMsg, "\x16\x03\x01") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    common.ErrCodeValidationInput.Code,
			"message": "Server chỉ hỗ trợ HTTP. Vui lòng sử dụng http:// thay vì https://",
			"status":  "error",
		})
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithRequest(c).WithFields(map[string]any{
			"code":      code,
			"errorCode": errorCode,
			"message":   message,
		}).Error("Request error")
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    errorCode,
		"message": message,
		"status":  "error",
	})
}

// splitOrigins đọc CORS_ORIGINS: "*" hoặc danh sách phân tách bằng dấu phẩy
func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "*" || strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// skipInfra bỏ qua health check và preflight
func skipInfra(c fiber.Ctx) bool {
	return c.Path() == "/api/v1/system/health" || c.Method() == fiber.MethodOptions
}

// NewFiberApp dựng app với middleware chung; chưa gắn route
func NewFiberApp(cfg *config.Configuration) *fiber.App {
	bodyLimit := 10 * 1024 * 1024
	if cfg.UploadMaxMB > 0 {
		// multipart có thể chứa nhiều tệp
		bodyLimit = (cfg.UploadMaxMB*4 + 1) << 20
	}

	app := fiber.New(fiber.Config{
		// =========================================
		// 1. CẤU HÌNH CƠ BẢN
		// =========================================
		AppName:       "VDG Commerce API",
		ServerHeader:  "VDG Commerce API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		// =========================================
		// 2. PERFORMANCE / TIMEOUT
		// =========================================
		BodyLimit:    bodyLimit,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID để trace
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// 2. CORS đặt trước các middleware khác để xử lý preflight
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.CORS_Origins),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Request-ID", "X-Requested-With", "X-Hwid",
			middleware.HeaderShopID,
		},
		AllowCredentials: cfg.CORS_AllowCredentials && cfg.CORS_Origins != "*",
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limit theo IP
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Quá nhiều yêu cầu, vui lòng thử lại sau",
					"status":  "error",
				})
			},
			Next: skipInfra,
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover toàn app; handler đã có SafeHandler riêng
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			logger.WithRequest(c).WithField("panic", e).Error("🔥 Panic recovered")
		},
		Next: skipInfra,
	}))

	return app
}

// InitFiberApp dựng app và đăng ký route của mọi domain
func InitFiberApp(cfg *config.Configuration) (*fiber.App, error) {
	app := NewFiberApp(cfg)
	if err := router.SetupRoutes(app, domainRoutes...); err != nil {
		return nil, err
	}
	return app, nil
}
