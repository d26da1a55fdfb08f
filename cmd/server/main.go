package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"vdg_commerce/config"
	marketingsvc "vdg_commerce/internal/api/marketing/service"
	pricingsvc "vdg_commerce/internal/api/pricing/service"
	salessvc "vdg_commerce/internal/api/sales/service"
	"vdg_commerce/internal/database"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/notification"
	"vdg_commerce/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// initLogger khởi tạo logger cho toàn bộ ứng dụng
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startWorkers chạy các background worker, dừng khi ctx bị huỷ
func startWorkers(ctx context.Context, cfg *config.Configuration, wg *sync.WaitGroup) error {
	log := logger.GetAppLogger()

	coupons, err := pricingsvc.NewCouponService()
	if err != nil {
		return err
	}
	offers, err := marketingsvc.NewOfferService()
	if err != nil {
		return err
	}
	promo := worker.NewPromotionExpiryWorker(
		time.Duration(cfg.WorkerPromotionIntervalSeconds)*time.Second,
		map[string]worker.Expirer{"coupons": coupons, "offers": offers},
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		promo.Start(ctx)
	}()
	log.Info("✅ Promotion expiry worker started")

	if cfg.WorkerStaleOrderHours <= 0 {
		log.Info("Stale order worker disabled")
		return nil
	}
	orders, err := salessvc.NewOrderService()
	if err != nil {
		return err
	}
	stale := worker.NewStaleOrderWorker(
		orders,
		time.Duration(cfg.WorkerStaleOrderIntervalSeconds)*time.Second,
		time.Duration(cfg.WorkerStaleOrderHours)*time.Hour,
		0,
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale.Start(ctx)
	}()
	log.Info("✅ Stale order worker started")
	return nil
}

// listen chạy server HTTP hoặc HTTPS theo cấu hình; block tới khi app shutdown
func listen(app *fiber.App, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	listenCfg := fiber.ListenConfig{DisableStartupMessage: true}

	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		log.WithFields(map[string]any{"address": cfg.Address, "protocol": "HTTP"}).Info("Starting server with HTTP")
		return app.Listen(cfg.Address, listenCfg)
	}

	certPath := config.ResolvePath(cfg.TLSCertFile)
	keyPath := config.ResolvePath(cfg.TLSKeyFile)
	for _, p := range []string{certPath, keyPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("TLS file not found: %s: %w", p, err)
		}
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	log.WithFields(map[string]any{
		"address": cfg.Address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, listenCfg)
}

func main() {
	initLogger()
	log := logger.GetAppLogger()

	InitGlobal()
	InitRegistry()
	InitDefaultData()

	cfg := global.MongoDB_ServerConfig
	notification.SetDefault(notification.NewEmailNotifier(cfg))

	app, err := InitFiberApp(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to setup routes: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if err := startWorkers(ctx, cfg, &wg); err != nil {
		log.Fatalf("❌ Failed to start workers: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(app, cfg)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.WithField("signal", s.String()).Info("🔄 Shutting down...")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("❌ Server stopped")
		}
	}

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Warn("⚠️ Fiber shutdown")
	}
	wg.Wait()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	_ = database.CloseInstance(closeCtx, global.MongoDB_Session)
	log.Info("✅ Server stopped")
}
