package authsvc

import (
	"context"
	"fmt"
	"regexp"

	authdto "vdg_commerce/internal/api/auth/dto"
	models "vdg_commerce/internal/api/auth/models"
	basemodels "vdg_commerce/internal/api/base/models"
	basesvc "vdg_commerce/internal/api/base/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// AdminService là các thao tác quản trị người dùng
type AdminService struct {
	userService *UserService
}

// NewAdminService tạo AdminService
func NewAdminService() (*AdminService, error) {
	userService, err := NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &AdminService{userService: userService}, nil
}

// ListUsers trả danh sách người dùng có phân trang, tìm theo tên/email
func (s *AdminService) ListUsers(ctx context.Context, q *authdto.UserListQuery) (*basemodels.PaginateResult[models.User], error) {
	filter := bson.M{}
	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.Role != "" {
		filter["role"] = q.Role
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	result, err := s.userService.FindWithPagination(ctx, filter, q.Page, q.Limit, opts)
	if err != nil {
		return nil, err
	}
	for i := range result.Items {
		result.Items[i].Sanitize()
	}
	return result, nil
}

// SetRole gán vai trò cho người dùng theo email
func (s *AdminService) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	user, err := s.userService.UpdateOne(ctx, bson.M{"email": normalizeEmail(email)}, &basesvc.UpdateData{
		Set: map[string]any{"role": role},
	}, nil)
	if err != nil {
		return nil, err
	}
	user.Sanitize()
	return &user, nil
}

// BlockUser khoá/mở khoá người dùng; khoá thì thu hồi mọi token
func (s *AdminService) BlockUser(ctx context.Context, email string, block bool, note string) (*models.User, error) {
	set := map[string]any{
		"isBlock":   block,
		"blockNote": note,
	}
	if block {
		set["token"] = ""
		set["tokens"] = []models.Token{}
	}
	user, err := s.userService.UpdateOne(ctx, bson.M{"email": normalizeEmail(email)}, &basesvc.UpdateData{Set: set}, nil)
	if err != nil {
		return nil, err
	}
	user.Sanitize()
	return &user, nil
}

// UnBlockUser mở khoá người dùng
func (s *AdminService) UnBlockUser(ctx context.Context, email string) (*models.User, error) {
	return s.BlockUser(ctx, email, false, "")
}

// DashboardCounts là số lượng bản ghi chính của hệ thống
type DashboardCounts struct {
	Users    int64 `json:"users"`
	Shops    int64 `json:"shops"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
	Blocked  int64 `json:"blockedUsers"`
}

// Dashboard đếm song song số user, cửa hàng, sản phẩm, đơn hàng
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	out := &DashboardCounts{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(collection string, filter bson.M, dst *int64) {
		g.Go(func() error {
			coll, err := global.RegistryCollections.MustGet(collection)
			if err != nil {
				return err
			}
			n, err := coll.CountDocuments(gctx, filter)
			if err != nil {
				return common.ConvertMongoError(err)
			}
			*dst = n
			return nil
		})
	}
	count(global.MongoDB_ColNames.Users, bson.M{}, &out.Users)
	count(global.MongoDB_ColNames.Users, bson.M{"isBlock": true}, &out.Blocked)
	count(global.MongoDB_ColNames.Shops, bson.M{}, &out.Shops)
	count(global.MongoDB_ColNames.Products, bson.M{}, &out.Products)
	count(global.MongoDB_ColNames.Orders, bson.M{}, &out.Orders)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
