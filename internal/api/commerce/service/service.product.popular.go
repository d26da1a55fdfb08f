package commercesvc

import (
	"context"
	"fmt"

	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Số sản phẩm bán chạy mặc định
const DefaultPopularLimit int64 = 10

// Trạng thái đơn không tính vào sản phẩm bán chạy
var excludedOrderStatuses = bson.A{"cancelled", "failed", "refunded"}

// PopularPipeline dựng pipeline đếm số lượng bán theo sản phẩm trên collection orders
func PopularPipeline(productsCollection string, shopID *primitive.ObjectID, limit int64) bson.A {
	match := bson.M{"status": bson.M{"$nin": excludedOrderStatuses}}
	if shopID != nil && !shopID.IsZero() {
		match["shopId"] = *shopID
	}
	return bson.A{
		bson.M{"$match": match},
		bson.M{"$unwind": "$products"},
		bson.M{"$group": bson.M{
			"_id":          "$products.productId",
			"orderedCount": bson.M{"$sum": "$products.quantity"},
		}},
		bson.M{"$sort": bson.D{{Key: "orderedCount", Value: -1}, {Key: "_id", Value: 1}}},
		bson.M{"$limit": limit},
		bson.M{"$lookup": bson.M{
			"from":         productsCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}},
		bson.M{"$unwind": "$product"},
		bson.M{"$replaceRoot": bson.M{"newRoot": bson.M{
			"$mergeObjects": bson.A{"$product", bson.M{"orderedCount": "$orderedCount"}},
		}}},
	}
}

// Popular trả các sản phẩm bán chạy nhất, có thể lọc theo cửa hàng
func (s *ProductService) Popular(ctx context.Context, shopID *primitive.ObjectID, limit int64) ([]models.PopularProduct, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	orders, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %w", common.ErrNotFound)
	}
	cursor, err := orders.Aggregate(ctx, PopularPipeline(s.Collection().Name(), shopID, limit))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	out := []models.PopularProduct{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}
