// Package initsvc khởi tạo dữ liệu ban đầu: tài khoản super admin, cấu hình mặc định, id cho danh mục cũ.
// Tách ra package riêng để tránh import cycle giữa auth, commerce và settings.
package initsvc

import (
	"context"
	"errors"
	"fmt"

	"vdg_commerce/config"
	authdto "vdg_commerce/internal/api/auth/dto"
	authmodels "vdg_commerce/internal/api/auth/models"
	authsvc "vdg_commerce/internal/api/auth/service"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	settingssvc "vdg_commerce/internal/api/settings/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// InitService gom các bước khởi tạo dữ liệu, dùng chung cho server và ecomctl
type InitService struct {
	userService     *authsvc.UserService
	categoryService *commercesvc.CategoryService
}

// NewInitService tạo InitService
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	categoryService, err := commercesvc.NewCategoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}
	return &InitService{userService: userService, categoryService: categoryService}, nil
}

// EnsureSuperAdmin tạo super admin nếu email chưa có; email đã có thì nâng quyền.
// Email rỗng thì bỏ qua. Trả true khi có thay đổi.
func (s *InitService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	log := logger.WithContext(ctx).WithField("email", email)

	user, err := s.userService.FindOne(ctx, bson.M{"email": email}, nil)
	switch {
	case err == nil:
		if user.Role == authmodels.RoleSuperAdmin {
			return false, nil
		}
		if _, err := s.userService.UpdateById(ctx, user.ID, bson.M{"role": authmodels.RoleSuperAdmin}); err != nil {
			return false, err
		}
		log.Info("✅ [INIT] Đã nâng quyền super admin")
		return true, nil
	case !errors.Is(err, common.ErrNotFound):
		return false, err
	}

	if !global.IsStrongPassword(password) {
		return false, fmt.Errorf("mật khẩu super admin quá yếu: %w", common.ErrWeakPassword)
	}
	created, err := s.userService.Register(ctx, &authdto.RegisterInput{Name: "Super Admin", Email: email, Password: password})
	if err != nil {
		return false, err
	}
	if _, err := s.userService.UpdateById(ctx, created.ID, bson.M{"role": authmodels.RoleSuperAdmin}); err != nil {
		return false, err
	}
	log.Info("✅ [INIT] Đã tạo tài khoản super admin")
	return true, nil
}

// SeedDefaults nạp cấu hình, thuế, phí ship mặc định từ file YAML (chỉ ghi phần còn thiếu)
func (s *InitService) SeedDefaults(ctx context.Context, path string) (*settingssvc.SeedResult, error) {
	if path == "" {
		return &settingssvc.SeedResult{}, nil
	}
	seed, err := settingssvc.LoadSeed(config.ResolvePath(path))
	if err != nil {
		return nil, err
	}
	return settingssvc.ApplySeed(ctx, seed)
}

// BackfillCategoryIDs gán id/uuid cho danh mục thiếu
func (s *InitService) BackfillCategoryIDs(ctx context.Context) (int, error) {
	return s.categoryService.BackfillIdentity(ctx)
}

// Run chạy toàn bộ bước khởi tạo theo cấu hình; bước nào lỗi thì ghi log và chạy tiếp
func (s *InitService) Run(ctx context.Context, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	var errs []error

	if _, err := s.EnsureSuperAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Error("❌ [INIT] Không khởi tạo được super admin")
		errs = append(errs, err)
	}
	if _, err := s.SeedDefaults(ctx, cfg.SeedSettingsFile); err != nil {
		log.WithError(err).Error("❌ [INIT] Không nạp được dữ liệu mặc định")
		errs = append(errs, err)
	}
	if _, err := s.BackfillCategoryIDs(ctx); err != nil {
		log.WithError(err).Error("❌ [INIT] Không gán được id cho danh mục")
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
