// Package authsvc - service người dùng: đăng ký, đăng nhập, token, mật khẩu, profile.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	authdto "vdg_commerce/internal/api/auth/dto"
	models "vdg_commerce/internal/api/auth/models"
	basesvc "vdg_commerce/internal/api/base/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/notification"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thời hạn mã đặt lại mật khẩu
const passwordResetTTL = time.Hour

// rolePermissions là các quyền suy ra từ vai trò
var rolePermissions = map[string][]string{
	models.RoleSuperAdmin: {models.RoleSuperAdmin, models.RoleStoreOwner, models.RoleCustomer},
	models.RoleStoreOwner: {models.RoleStoreOwner, models.RoleCustomer},
	models.RoleStaff:      {models.RoleStaff, models.RoleCustomer},
	models.RoleCustomer:   {models.RoleCustomer},
}

// PermissionsOf trả danh sách quyền của vai trò (vai trò lạ coi như customer)
func PermissionsOf(role string) []string {
	if p, ok := rolePermissions[role]; ok {
		return p
	}
	return rolePermissions[models.RoleCustomer]
}

// HasAnyRole kiểm tra quyền của vai trò có chứa một trong các vai trò yêu cầu
func HasAnyRole(role string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	perms := PermissionsOf(role)
	for _, r := range required {
		if utility.Contains(perms, r) {
			return true
		}
	}
	return false
}

// UserService là service người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	resetService *basesvc.BaseServiceMongoImpl[models.PasswordReset]
	notifier     notification.Notifier
}

// NewUserService tạo UserService từ registry collection
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %w", common.ErrNotFound)
	}
	resetCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.PasswordResets)
	if !exist {
		return nil, fmt.Errorf("failed to get password_resets collection: %w", common.ErrNotFound)
	}
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		resetService:         basesvc.NewBaseServiceMongo[models.PasswordReset](resetCollection),
		notifier:             notification.Default(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register tạo tài khoản mới với mật khẩu bcrypt
func (s *UserService) Register(ctx context.Context, input *authdto.RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	exists, err := s.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewError(common.ErrCodeValidationInput, "Email đã được sử dụng", common.StatusConflict, nil)
	}

	hash, err := utility.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user, err := s.InsertOne(ctx, models.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Phone:     input.Phone,
		Password:  hash,
		Role:      role,
		Addresses: []models.Address{},
		Tokens:    []models.Token{},
	})
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{"user_id": user.ID.Hex(), "role": role}).Info("✅ Đăng ký tài khoản")
	return &user, nil
}

// issueTokens ký access token mới, sinh refresh token và lưu theo hwid
func (s *UserService) issueTokens(ctx context.Context, user *models.User, hwid string) (*authdto.AuthResult, error) {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Chưa nạp cấu hình server", common.StatusInternalServerError, nil)
	}

	now := time.Now()
	tokenMap, err := utility.CreateToken(cfg.JwtSecret, utility.JwtClaims{
		UserID:       user.ID.Hex(),
		Role:         user.Role,
		Time:         strconv.FormatInt(now.Unix(), 16),
		RandomNumber: strconv.Itoa(rand.Intn(100)),
	}, time.Duration(cfg.JwtAccessTTLMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	refresh := utility.NewOpaqueToken()
	entry := models.Token{
		Hwid:             hwid,
		JwtToken:         tokenMap["token"],
		RefreshToken:     refresh,
		RefreshExpiresAt: now.Add(time.Duration(cfg.JwtRefreshTTLHours) * time.Hour).UnixMilli(),
	}
	replaced := false
	for i := range user.Tokens {
		if user.Tokens[i].Hwid == hwid {
			user.Tokens[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		user.Tokens = append(user.Tokens, entry)
	}
	user.Token = tokenMap["token"]

	updated, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{Set: map[string]any{
		"token":  user.Token,
		"tokens": user.Tokens,
	}})
	if err != nil {
		return nil, err
	}
	*user = updated

	return &authdto.AuthResult{
		Token:        tokenMap["token"],
		ExpiresAt:    tokenMap["expiresAt"],
		RefreshToken: refresh,
		Role:         user.Role,
		Permissions:  PermissionsOf(user.Role),
	}, nil
}

// Login đăng nhập bằng email/mật khẩu
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (*models.User, *authdto.AuthResult, error) {
	user, err := s.FindOne(ctx, bson.M{"email": normalizeEmail(input.Email)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.IsBlock {
		return nil, nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}
	if err := utility.CheckPassword(user.Password, input.Password); err != nil {
		return nil, nil, err
	}

	result, err := s.issueTokens(ctx, &user, input.Hwid)
	if err != nil {
		return nil, nil, err
	}
	return &user, result, nil
}

// Logout xoá token của thiết bị hwid
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, hwid string) error {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	tokens := make([]models.Token, 0, len(user.Tokens))
	for _, t := range user.Tokens {
		if t.Hwid != hwid {
			tokens = append(tokens, t)
		}
	}
	_, err = s.UpdateById(ctx, userID, &basesvc.UpdateData{Set: map[string]any{
		"tokens": tokens,
		"token":  "",
	}})
	return err
}

// RefreshToken đổi refresh token còn hạn lấy cặp token mới (refresh token cũ bị thay thế)
func (s *UserService) RefreshToken(ctx context.Context, input *authdto.RefreshTokenInput) (*authdto.AuthResult, error) {
	user, err := s.FindOne(ctx, bson.M{
		"tokens": bson.M{"$elemMatch": bson.M{"refreshToken": input.RefreshToken, "hwid": input.Hwid}},
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if user.IsBlock {
		return nil, common.ErrUserBlocked
	}
	for _, t := range user.Tokens {
		if t.Hwid == input.Hwid && t.RefreshExpiresAt < time.Now().UnixMilli() {
			return nil, common.ErrTokenExpired
		}
	}
	return s.issueTokens(ctx, &user, input.Hwid)
}

// VerifyToken kiểm tra access token còn hiệu lực và còn được lưu cho user
func (s *UserService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil {
		return nil, common.ErrTokenInvalid
	}
	claims, err := utility.ParseToken(cfg.JwtSecret, token)
	if err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	user, err := s.FindOne(ctx, bson.M{
		"_id": userID,
		"$or": bson.A{bson.M{"token": token}, bson.M{"tokens.jwtToken": token}},
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if user.IsBlock {
		return nil, common.ErrUserBlocked
	}
	return &user, nil
}

// ForgotPassword tạo mã đặt lại mật khẩu và gửi email.
// Email không tồn tại vẫn trả nil để không lộ danh sách tài khoản.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			logger.WithContext(ctx).WithField("email", email).Warn("⚠️ Quên mật khẩu với email không tồn tại")
			return nil
		}
		return err
	}

	if _, err := s.resetService.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return err
	}
	token := utility.NewOpaqueToken()
	if _, err := s.resetService.InsertOne(ctx, models.PasswordReset{
		Email:    email,
		Token:    token,
		ExpireAt: time.Now().Add(passwordResetTTL),
	}); err != nil {
		return err
	}

	return s.notifier.Notify(ctx, notification.EventPasswordReset, user.Email, map[string]any{
		"token": token,
		"ttl":   passwordResetTTL.String(),
		"link":  "/reset-password?email=" + email + "&token=" + token,
	})
}

// VerifyResetToken kiểm tra mã đặt lại mật khẩu còn hạn
func (s *UserService) VerifyResetToken(ctx context.Context, email, token string) (*models.PasswordReset, error) {
	reset, err := s.resetService.FindOne(ctx, bson.M{
		"email":    normalizeEmail(email),
		"token":    token,
		"expireAt": bson.M{"$gt": time.Now()},
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeAuthToken, "Mã đặt lại mật khẩu không hợp lệ hoặc đã hết hạn", common.StatusBadRequest, nil)
		}
		return nil, err
	}
	return &reset, nil
}

// ResetPassword đặt mật khẩu mới và thu hồi mọi phiên đăng nhập
func (s *UserService) ResetPassword(ctx context.Context, input *authdto.ResetPasswordInput) error {
	reset, err := s.VerifyResetToken(ctx, input.Email, input.Token)
	if err != nil {
		return err
	}
	hash, err := utility.HashPassword(input.Password)
	if err != nil {
		return err
	}
	if _, err := s.UpdateOne(ctx, bson.M{"email": reset.Email}, &basesvc.UpdateData{Set: map[string]any{
		"password": hash,
		"token":    "",
		"tokens":   []models.Token{},
	}}, nil); err != nil {
		return err
	}
	_, err = s.resetService.DeleteMany(ctx, bson.M{"email": reset.Email})
	return err
}

// ChangePassword đổi mật khẩu khi biết mật khẩu cũ
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.ChangePasswordInput) error {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if err := utility.CheckPassword(user.Password, input.OldPassword); err != nil {
		return common.NewError(common.ErrCodeAuthCredentials, "Mật khẩu cũ không đúng", common.StatusBadRequest, nil)
	}
	hash, err := utility.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.UpdateById(ctx, userID, &basesvc.UpdateData{Set: map[string]any{"password": hash}})
	return err
}

// UpdateProfile cập nhật các trường profile được gửi lên
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input *authdto.UpdateProfileInput) (*models.User, error) {
	set, err := utility.ToMap(input)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	if len(set) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}
	user, err := s.UpdateById(ctx, userID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	user.Sanitize()
	return &user, nil
}
