package commercesvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	basesvc "vdg_commerce/internal/api/base/service"
	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShopService là service cửa hàng
type ShopService struct {
	*basesvc.BaseServiceMongoImpl[models.Shop]
}

// NewShopService tạo ShopService từ registry collection
func NewShopService() (*ShopService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Shops)
	if !exist {
		return nil, fmt.Errorf("failed to get shops collection: %w", common.ErrNotFound)
	}
	return &ShopService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Shop](coll)}, nil
}

func defaultCommissionRate() float64 {
	if global.MongoDB_ServerConfig != nil {
		return global.MongoDB_ServerConfig.AdminCommissionRate
	}
	return 0
}

// Create mở cửa hàng cho owner; cửa hàng chờ admin duyệt
func (s *ShopService) Create(ctx context.Context, ownerID primitive.ObjectID, shop models.Shop) (models.Shop, error) {
	shop.OwnerID = ownerID
	shop.IsActive = false
	shop.Staffs = []primitive.ObjectID{}
	if shop.Slug == "" {
		shop.Slug = utility.Slugify(shop.Name)
	}
	taken, err := s.DocumentExists(ctx, bson.M{"slug": shop.Slug})
	if err != nil {
		return models.Shop{}, err
	}
	if taken {
		shop.Slug = shop.Slug + "-" + strconv.FormatInt(utility.CurrentTimeInMilli()%100000, 10)
	}
	shop.Balance.AdminCommissionRate = defaultCommissionRate()
	shop.Balance.TotalEarnings = 0
	shop.Balance.WithdrawnAmount = 0
	shop.Balance.CurrentBalance = 0
	return s.InsertOne(ctx, shop)
}

// SetActive duyệt hoặc ngừng cửa hàng; rate != nil thì đổi tỉ lệ hoa hồng
func (s *ShopService) SetActive(ctx context.Context, id primitive.ObjectID, active bool, rate *float64) (models.Shop, error) {
	set := bson.M{"isActive": active}
	if rate != nil {
		set["balance.adminCommissionRate"] = *rate
	}
	return s.UpdateById(ctx, id, set)
}

// FindForMember lấy cửa hàng nếu user là chủ hoặc nhân viên
func (s *ShopService) FindForMember(ctx context.Context, shopID, userID primitive.ObjectID) (models.Shop, error) {
	shop, err := s.FindOneById(ctx, shopID)
	if err != nil {
		return models.Shop{}, err
	}
	if !shop.HasMember(userID) {
		return models.Shop{}, common.ErrShopAccessDenied
	}
	return shop, nil
}

// MyShops trả các cửa hàng user sở hữu hoặc làm nhân viên
func (s *ShopService) MyShops(ctx context.Context, userID primitive.ObjectID) ([]models.Shop, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"ownerId": userID},
		bson.M{"staffs": userID},
	}}
	return s.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// AddStaff thêm nhân viên (chỉ chủ cửa hàng)
func (s *ShopService) AddStaff(ctx context.Context, shopID, ownerID, staffID primitive.ObjectID) (models.Shop, error) {
	if staffID == ownerID {
		return models.Shop{}, common.NewError(common.ErrCodeBusinessOperation, "Chủ cửa hàng không thể là nhân viên", common.StatusBadRequest, nil)
	}
	return s.updateOwned(ctx, shopID, ownerID, basesvc.UpdateData{AddToSet: map[string]any{"staffs": staffID}})
}

// RemoveStaff gỡ nhân viên (chỉ chủ cửa hàng)
func (s *ShopService) RemoveStaff(ctx context.Context, shopID, ownerID, staffID primitive.ObjectID) (models.Shop, error) {
	return s.updateOwned(ctx, shopID, ownerID, basesvc.UpdateData{Pull: map[string]any{"staffs": staffID}})
}

func (s *ShopService) updateOwned(ctx context.Context, shopID, ownerID primitive.ObjectID, update basesvc.UpdateData) (models.Shop, error) {
	shop, err := s.UpdateOne(ctx, bson.M{"_id": shopID, "ownerId": ownerID}, &update, nil)
	if errors.Is(err, common.ErrNotFound) {
		return models.Shop{}, common.ErrShopAccessDenied
	}
	return shop, err
}

// SplitEarnings tách tiền đơn hàng thành phần của sàn và phần của cửa hàng
func SplitEarnings(gross, commissionRate float64) (commission, net float64) {
	commission = utility.RoundMoney(gross * commissionRate / 100)
	net = utility.RoundMoney(gross - commission)
	return commission, net
}

// NetEarnings là phần doanh thu cửa hàng nhận sau hoa hồng theo tỉ lệ hiện tại
func (s *ShopService) NetEarnings(ctx context.Context, shopID primitive.ObjectID, gross float64) (float64, error) {
	shop, err := s.FindOneById(ctx, shopID)
	if err != nil {
		return 0, err
	}
	_, net := SplitEarnings(gross, shop.Balance.AdminCommissionRate)
	return net, nil
}

// AdjustEarnings cộng (net > 0) hoặc trừ (net < 0) doanh thu và số đơn của cửa hàng.
// Trừ có thể làm currentBalance âm khi tiền đã được rút.
func (s *ShopService) AdjustEarnings(ctx context.Context, shopID primitive.ObjectID, net float64, orders int64) (models.Shop, error) {
	return s.UpdateById(ctx, shopID, &basesvc.UpdateData{Inc: map[string]any{
		"balance.totalEarnings":  net,
		"balance.currentBalance": net,
		"ordersCount":            orders,
	}})
}

// DebitWithdraw trừ số dư khi rút tiền được duyệt; điều kiện số dư nằm trong filter nên thao tác là nguyên tử
func (s *ShopService) DebitWithdraw(ctx context.Context, shopID primitive.ObjectID, amount float64) (models.Shop, error) {
	shop, err := s.UpdateOne(ctx,
		bson.M{"_id": shopID, "balance.currentBalance": bson.M{"$gte": amount}},
		&basesvc.UpdateData{Inc: map[string]any{
			"balance.currentBalance":  -amount,
			"balance.withdrawnAmount": amount,
		}},
		nil,
	)
	if errors.Is(err, common.ErrNotFound) {
		return models.Shop{}, common.ErrInsufficientFunds
	}
	return shop, err
}
