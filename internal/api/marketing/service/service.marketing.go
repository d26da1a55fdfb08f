// Package marketingsvc - service slider và ưu đãi.
package marketingsvc

import (
	"context"
	"fmt"
	"time"

	basesvc "vdg_commerce/internal/api/base/service"
	models "vdg_commerce/internal/api/marketing/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SliderService là service slider
type SliderService struct {
	*basesvc.BaseServiceMongoImpl[models.Slider]
}

// NewSliderService tạo SliderService
func NewSliderService() (*SliderService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Sliders)
	if !exist {
		return nil, fmt.Errorf("failed to get sliders collection: %w", common.ErrNotFound)
	}
	return &SliderService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Slider](coll)}, nil
}

// Active trả các slider đang bật theo thứ tự hiển thị
func (s *SliderService) Active(ctx context.Context) ([]models.Slider, error) {
	return s.Find(ctx, bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
}

// OfferService là service ưu đãi
type OfferService struct {
	*basesvc.BaseServiceMongoImpl[models.Offer]
}

// NewOfferService tạo OfferService
func NewOfferService() (*OfferService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Offers)
	if !exist {
		return nil, fmt.Errorf("failed to get offers collection: %w", common.ErrNotFound)
	}
	return &OfferService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Offer](coll)}, nil
}

// RunningFilter là filter các ưu đãi đang chạy tại now; productID khác nil thì chỉ lấy ưu đãi có sản phẩm đó
func RunningFilter(now time.Time, productID *primitive.ObjectID) bson.M {
	ms := now.UnixMilli()
	filter := bson.M{
		"isActive": true,
		"startAt":  bson.M{"$lte": ms},
		"$or":      bson.A{bson.M{"endAt": 0}, bson.M{"endAt": bson.M{"$gt": ms}}},
	}
	if productID != nil {
		filter["productIds"] = *productID
	}
	return filter
}

// Running trả các ưu đãi đang chạy, kết thúc sớm nhất trước
func (s *OfferService) Running(ctx context.Context, productID *primitive.ObjectID) ([]models.Offer, error) {
	return s.Find(ctx, RunningFilter(time.Now(), productID),
		options.Find().SetSort(bson.D{{Key: "endAt", Value: 1}}))
}

// DeactivateExpired tắt các ưu đãi đã kết thúc, trả số ưu đãi bị tắt
func (s *OfferService) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.UpdateMany(ctx,
		bson.M{"isActive": true, "endAt": bson.M{"$gt": 0, "$lte": now.UnixMilli()}},
		bson.M{"$set": bson.M{"isActive": false}}, nil)
}
