package commercesvc

import (
	"context"
	"fmt"

	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/api/events"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterCategoryProductSync giữ danh sách products của danh mục khớp với sản phẩm:
// tạo/cập nhật thì thêm vào danh mục được gán và gỡ khỏi danh mục khác, xoá thì gỡ khỏi mọi danh mục.
func RegisterCategoryProductSync() error {
	categories, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return fmt.Errorf("failed to get categories collection: %w", common.ErrNotFound)
	}
	events.OnCollectionChanged(global.MongoDB_ColNames.Products, nil, func(ctx context.Context, e events.DataChangeEvent) {
		if err := syncCategoryProducts(ctx, categories, e); err != nil {
			logger.WithCollection(categories.Name()).WithError(err).
				WithField("operation", e.Operation).
				Error("❌ [CATEGORY] Không đồng bộ được products của danh mục")
		}
	})
	return nil
}

func productRef(doc any) (primitive.ObjectID, []primitive.ObjectID) {
	switch p := doc.(type) {
	case models.Product:
		return p.ID, p.Categories
	case *models.Product:
		if p != nil {
			return p.ID, p.Categories
		}
	}
	return events.GetObjectIDField(doc, "ID"), events.GetObjectIDSliceField(doc, "Categories")
}

func syncCategoryProducts(ctx context.Context, categories *mongo.Collection, e events.DataChangeEvent) error {
	id, cats := productRef(e.Document)
	if id.IsZero() {
		return nil
	}

	if e.Operation == events.OpDelete {
		_, err := categories.UpdateMany(ctx, bson.M{"products": id}, bson.M{"$pull": bson.M{"products": id}})
		return err
	}

	if cats == nil {
		cats = []primitive.ObjectID{}
	}
	if len(cats) > 0 {
		if _, err := categories.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": cats}},
			bson.M{"$addToSet": bson.M{"products": id}},
		); err != nil {
			return err
		}
	}
	_, err := categories.UpdateMany(ctx,
		bson.M{"products": id, "_id": bson.M{"$nin": cats}},
		bson.M{"$pull": bson.M{"products": id}},
	)
	return err
}
