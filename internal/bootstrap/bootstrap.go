// Package bootstrap gom các bước khởi tạo dùng chung cho server và ecomctl:
// tên collection, cấu hình, kết nối MongoDB, registry collection và index.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"vdg_commerce/config"
	authmodels "vdg_commerce/internal/api/auth/models"
	commercemodels "vdg_commerce/internal/api/commerce/models"
	marketingmodels "vdg_commerce/internal/api/marketing/models"
	pricingmodels "vdg_commerce/internal/api/pricing/models"
	salesmodels "vdg_commerce/internal/api/sales/models"
	settingsmodels "vdg_commerce/internal/api/settings/models"
	uploadmodels "vdg_commerce/internal/api/upload/models"
	withdrawmodels "vdg_commerce/internal/api/withdraw/models"
	"vdg_commerce/internal/database"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// InitColNames đặt tên các collection
func InitColNames() {
	global.MongoDB_ColNames = global.MongoDB_CollectionName{
		Users:          "users",
		PasswordResets: "password_resets",
		Shops:          "shops",
		Categories:     "categories",
		Products:       "products",
		Orders:         "orders",
		Payments:       "payments",
		Withdraws:      "withdraws",
		Taxes:          "taxes",
		Shippings:      "shippings",
		Coupons:        "coupons",
		Sliders:        "sliders",
		Offers:         "offers",
		Settings:       "settings",
		Attachments:    "attachments",
		Sequences:      "sequences",
	}
}

// CollectionSpec là collection và model dùng để dựng index (nil = không có index khai báo)
type CollectionSpec struct {
	Name  string
	Model any
}

// CollectionSpecs trả danh sách collection của hệ thống; gọi sau InitColNames
func CollectionSpecs() []CollectionSpec {
	n := global.MongoDB_ColNames
	return []CollectionSpec{
		{n.Users, authmodels.User{}},
		{n.PasswordResets, authmodels.PasswordReset{}},
		{n.Shops, commercemodels.Shop{}},
		{n.Categories, commercemodels.Category{}},
		{n.Products, commercemodels.Product{}},
		{n.Sequences, nil},
		{n.Orders, salesmodels.Order{}},
		{n.Payments, salesmodels.Payment{}},
		{n.Withdraws, withdrawmodels.Withdraw{}},
		{n.Taxes, pricingmodels.Tax{}},
		{n.Shippings, pricingmodels.Shipping{}},
		{n.Coupons, pricingmodels.Coupon{}},
		{n.Sliders, marketingmodels.Slider{}},
		{n.Offers, marketingmodels.Offer{}},
		{n.Settings, settingsmodels.Setting{}},
		{n.Attachments, uploadmodels.Attachment{}},
	}
}

// InitConfig đọc cấu hình và khởi tạo validator
func InitConfig(files ...string) (*config.Configuration, error) {
	global.InitValidator()
	cfg := config.NewConfig(files...)
	if cfg == nil {
		return nil, fmt.Errorf("không đọc được cấu hình")
	}
	global.MongoDB_ServerConfig = cfg
	return cfg, nil
}

// Connect kết nối MongoDB và lưu client vào global
func Connect(cfg *config.Configuration) (*mongo.Client, error) {
	client, err := database.GetInstance(cfg)
	if err != nil {
		return nil, err
	}
	global.MongoDB_Session = client
	return client, nil
}

// RegisterCollections tạo collection còn thiếu, đăng ký vào registry và (tuỳ chọn) đồng bộ index
func RegisterCollections(ctx context.Context, client *mongo.Client, cfg *config.Configuration, withIndexes bool) error {
	log := logger.GetAppLogger()
	db := client.Database(cfg.MongoDB_DBName)
	specs := CollectionSpecs()

	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	if err := database.EnsureCollections(ctx, db, names); err != nil {
		return err
	}

	for _, s := range specs {
		if _, err := global.RegistryCollections.Register(s.Name, db.Collection(s.Name)); err != nil {
			return fmt.Errorf("đăng ký collection %s: %w", s.Name, err)
		}
		if !withIndexes || s.Model == nil {
			continue
		}
		idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := database.CreateIndexes(idxCtx, db.Collection(s.Name), s.Model)
		cancel()
		if err != nil {
			return fmt.Errorf("tạo index cho %s: %w", s.Name, err)
		}
	}
	log.WithField("collections", len(specs)).Info("✅ Initialized collection registry")
	return nil
}
