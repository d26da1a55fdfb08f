// Package commercesvc - service danh mục, sản phẩm, cửa hàng và bộ đếm sequence.
package commercesvc

import (
	"context"
	"errors"
	"fmt"

	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceGenerator cấp số tăng dần theo tên thực thể
type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// SequenceService lưu bộ đếm trong collection sequences
type SequenceService struct {
	collection *mongo.Collection
}

// NewSequenceService tạo SequenceService từ registry collection
func NewSequenceService() (*SequenceService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Sequences)
	if !exist {
		return nil, fmt.Errorf("failed to get sequences collection: %w", common.ErrNotFound)
	}
	return &SequenceService{collection: coll}, nil
}

// Next tăng bộ đếm và trả giá trị sau khi tăng.
// Document được tạo khi chưa có nên giá trị đầu tiên là 1.
func (s *SequenceService) Next(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, common.ErrRequiredField
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var seq models.Sequence
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&seq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, common.ErrNotFound
		}
		return 0, common.ConvertMongoError(err)
	}
	return seq.Seq, nil
}

// Current trả giá trị hiện tại mà không tăng (0 nếu chưa có)
func (s *SequenceService) Current(ctx context.Context, name string) (int64, error) {
	var seq models.Sequence
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&seq)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return seq.Seq, nil
}
