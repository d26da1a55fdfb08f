// Package pricingsvc - service thuế, vận chuyển và mã giảm giá.
package pricingsvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	basesvc "vdg_commerce/internal/api/base/service"
	models "vdg_commerce/internal/api/pricing/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func collection(name string) (*mongo.Collection, error) {
	coll, exist := global.RegistryCollections.Get(name)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %w", name, common.ErrNotFound)
	}
	return coll, nil
}

// ====================================
// TAX
// ====================================

// TaxService là service thuế
type TaxService struct {
	*basesvc.BaseServiceMongoImpl[models.Tax]
}

// NewTaxService tạo TaxService
func NewTaxService() (*TaxService, error) {
	coll, err := collection(global.MongoDB_ColNames.Taxes)
	if err != nil {
		return nil, err
	}
	return &TaxService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Tax](coll)}, nil
}

// TaxLocation là địa chỉ dùng để chọn mức thuế
type TaxLocation struct {
	Country string
	State   string
	City    string
	Zip     string
}

// matchScore: -1 là không khớp; mỗi field cụ thể khớp được cộng điểm
func matchScore(t models.Tax, loc TaxLocation) int {
	score := 0
	for _, f := range []struct{ want, got string }{
		{t.Country, loc.Country}, {t.State, loc.State}, {t.City, loc.City}, {t.Zip, loc.Zip},
	} {
		if f.want == "" {
			continue
		}
		if !strings.EqualFold(f.want, f.got) {
			return -1
		}
		score++
	}
	if score == 0 && !t.IsGlobal {
		return -1
	}
	return score
}

// PickTax chọn mức thuế khớp địa chỉ nhất; bằng điểm thì ưu tiên priority cao hơn.
// Mức global chỉ dùng khi không có mức theo khu vực nào khớp.
func PickTax(taxes []models.Tax, loc TaxLocation) *models.Tax {
	type cand struct {
		tax   models.Tax
		score int
	}
	var cands []cand
	for _, t := range taxes {
		if s := matchScore(t, loc); s >= 0 {
			cands = append(cands, cand{t, s})
		}
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].tax.Priority > cands[j].tax.Priority
	})
	best := cands[0].tax
	return &best
}

// Resolve lấy mức thuế áp dụng cho địa chỉ giao hàng (nil nếu không có)
func (s *TaxService) Resolve(ctx context.Context, loc TaxLocation) (*models.Tax, error) {
	taxes, err := s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "priority", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return PickTax(taxes, loc), nil
}

// ====================================
// SHIPPING
// ====================================

// ShippingService là service hạng vận chuyển
type ShippingService struct {
	*basesvc.BaseServiceMongoImpl[models.Shipping]
}

// NewShippingService tạo ShippingService
func NewShippingService() (*ShippingService, error) {
	coll, err := collection(global.MongoDB_ColNames.Shippings)
	if err != nil {
		return nil, err
	}
	return &ShippingService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Shipping](coll)}, nil
}

// Resolve lấy hạng vận chuyển theo id; id nil thì lấy hạng global (nil nếu không có)
func (s *ShippingService) Resolve(ctx context.Context, id *primitive.ObjectID) (*models.Shipping, error) {
	filter := bson.M{"isGlobal": true}
	if id != nil {
		filter = bson.M{"_id": *id}
	}
	ship, err := s.FindOne(ctx, filter, nil)
	if err != nil {
		if id == nil && errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ship, nil
}

// ====================================
// COUPON
// ====================================

// CouponService là service mã giảm giá
type CouponService struct {
	*basesvc.BaseServiceMongoImpl[models.Coupon]
}

// NewCouponService tạo CouponService
func NewCouponService() (*CouponService, error) {
	coll, err := collection(global.MongoDB_ColNames.Coupons)
	if err != nil {
		return nil, err
	}
	return &CouponService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Coupon](coll)}, nil
}

// ValidateCoupon kiểm tra mã còn dùng được cho giỏ hàng có tiền hàng amount tại thời điểm now
func ValidateCoupon(c *models.Coupon, amount float64, now time.Time) error {
	if c == nil || !c.IsActive {
		return common.ErrCouponInvalid
	}
	ms := now.UnixMilli()
	if c.ActiveFrom > ms {
		return common.ErrCouponInvalid
	}
	if c.ExpireAt > 0 && c.ExpireAt <= ms {
		return common.ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return common.ErrCouponUsageExceeded
	}
	if amount < c.MinimumCartAmount {
		return common.ErrCouponMinimumAmount
	}
	return nil
}

// FindByCode tìm mã giảm giá theo code (không phân biệt hoa thường); không có thì ErrCouponInvalid
func (s *CouponService) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	c, err := s.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrCouponInvalid
		}
		return nil, err
	}
	return &c, nil
}

// Verify tìm và kiểm tra mã với tiền hàng
func (s *CouponService) Verify(ctx context.Context, code string, amount float64) (*models.Coupon, error) {
	c, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := ValidateCoupon(c, amount, time.Now()); err != nil {
		return nil, err
	}
	return c, nil
}

// Redeem tăng usedCount nếu còn lượt; hết lượt thì ErrCouponUsageExceeded
func (s *CouponService) Redeem(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":      id,
		"isActive": true,
		"$or": bson.A{
			bson.M{"usageLimit": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$usageLimit"}}},
		},
	}
	_, err := s.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"usedCount": 1}}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrCouponUsageExceeded
	}
	return err
}

// Release trả lại một lượt dùng (đơn bị huỷ)
func (s *CouponService) Release(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.FindOneAndUpdate(ctx, bson.M{"_id": id, "usedCount": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"usedCount": -1}}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

// UpdateGuarded cập nhật mã khi loại và giá trị chưa bị đổi kể từ lúc đọc current;
// bị đổi đồng thời thì trả ErrInvalidState để client đọc lại
func (s *CouponService) UpdateGuarded(ctx context.Context, current *models.Coupon, set map[string]any) (models.Coupon, error) {
	updated, err := s.UpdateOne(ctx,
		bson.M{"_id": current.ID, "type": current.Type, "amount": current.Amount},
		&basesvc.UpdateData{Set: set}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return models.Coupon{}, common.ErrInvalidState
	}
	return updated, err
}

// DeactivateExpired tắt các mã đã hết hạn, trả số mã bị tắt
func (s *CouponService) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.UpdateMany(ctx,
		bson.M{"isActive": true, "expireAt": bson.M{"$gt": 0, "$lte": now.UnixMilli()}},
		bson.M{"$set": bson.M{"isActive": false}}, nil)
}

// CouponDiscount tính số tiền giảm: fixed tối đa bằng tiền hàng, percentage theo tiền hàng,
// free_shipping bằng phí vận chuyển
func CouponDiscount(c *models.Coupon, amount, deliveryFee float64) float64 {
	if c == nil {
		return 0
	}
	switch c.Type {
	case models.TypeFixed:
		return min(amount, c.Amount)
	case models.TypePercentage:
		return min(amount, amount*c.Amount/100)
	case models.TypeFreeShipping:
		return deliveryFee
	default:
		return 0
	}
}
