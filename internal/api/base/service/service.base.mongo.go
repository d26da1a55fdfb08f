// Package basesvc cung cấp service CRUD generic trên MongoDB, dùng chung cho mọi domain.
package basesvc

import (
	"context"
	"errors"
	"time"

	basemodels "vdg_commerce/internal/api/base/models"
	"vdg_commerce/internal/api/events"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateData là partial update theo toán tử MongoDB
type UpdateData struct {
	Set         map[string]any `bson:"$set,omitempty"`
	SetOnInsert map[string]any `bson:"$setOnInsert,omitempty"`
	Unset       map[string]any `bson:"$unset,omitempty"`
	Inc         map[string]any `bson:"$inc,omitempty"`
	Push        map[string]any `bson:"$push,omitempty"`
	AddToSet    map[string]any `bson:"$addToSet,omitempty"`
	Pull        map[string]any `bson:"$pull,omitempty"`
}

// ToUpdateData chuyển dữ liệu bất kỳ thành UpdateData.
// Map/struct đã có toán tử ($set, $inc...) được tách theo toán tử, còn lại được bọc trong $set.
func ToUpdateData(data any) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	}

	m, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}

	hasOperator := false
	for k := range m {
		if len(k) > 0 && k[0] == '$' {
			hasOperator = true
			break
		}
	}
	if !hasOperator {
		return &UpdateData{Set: m}, nil
	}

	u := &UpdateData{}
	pick := func(key string) map[string]any {
		if v, ok := m[key].(map[string]any); ok {
			return v
		}
		return nil
	}
	u.Set = pick("$set")
	u.SetOnInsert = pick("$setOnInsert")
	u.Unset = pick("$unset")
	u.Inc = pick("$inc")
	u.Push = pick("$push")
	u.AddToSet = pick("$addToSet")
	u.Pull = pick("$pull")
	return u, nil
}

func (u *UpdateData) touch(now int64) {
	if u.Set == nil {
		u.Set = make(map[string]any)
	}
	u.Set["updatedAt"] = now
}

// BaseServiceMongo là các thao tác CRUD chuẩn
type BaseServiceMongo[T any] interface {
	InsertOne(ctx context.Context, data T) (T, error)
	InsertMany(ctx context.Context, data []T) ([]T, error)
	FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (T, error)
	Find(ctx context.Context, filter any, opts *options.FindOptions) ([]T, error)
	UpdateOne(ctx context.Context, filter any, update any, opts *options.UpdateOptions) (T, error)
	UpdateMany(ctx context.Context, filter any, update any, opts *options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter any) error
	DeleteMany(ctx context.Context, filter any) (int64, error)
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts *options.FindOneAndUpdateOptions) (T, error)
	FindOneAndDelete(ctx context.Context, filter any, opts *options.FindOneAndDeleteOptions) (T, error)
	CountDocuments(ctx context.Context, filter any) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter any) ([]any, error)

	FindOneById(ctx context.Context, id primitive.ObjectID) (T, error)
	FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error)
	FindWithPagination(ctx context.Context, filter any, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data any) (T, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	Upsert(ctx context.Context, filter any, data any) (T, error)
	DocumentExists(ctx context.Context, filter any) (bool, error)
}

// BaseServiceMongoImpl triển khai BaseServiceMongo trên một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo service cho collection
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// Collection trả về collection gốc (cho aggregate hoặc thao tác đặc thù)
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

func (s *BaseServiceMongoImpl[T]) emit(ctx context.Context, op string, doc any) {
	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      op,
		Document:       doc,
	})
}

func orEmpty(filter any) any {
	if filter == nil {
		return bson.D{}
	}
	if m, ok := filter.(map[string]any); ok && len(m) == 0 {
		return bson.D{}
	}
	return filter
}

// prepareInsert chuyển model sang map, bỏ chuỗi rỗng (để sparse unique index bỏ qua) và gắn timestamps
func prepareInsert(data any, now int64) (map[string]any, error) {
	m, err := utility.ToMap(data)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	for k, v := range m {
		if str, ok := v.(string); ok && str == "" {
			delete(m, k)
		}
	}
	if id, ok := m["_id"].(primitive.ObjectID); ok && id.IsZero() {
		delete(m, "_id")
	}
	if created, ok := m["createdAt"].(int64); !ok || created == 0 {
		m["createdAt"] = now
	}
	m["updatedAt"] = now
	return m, nil
}

// InsertOne tạo mới một bản ghi và trả bản ghi đọc lại từ DB
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	doc, err := prepareInsert(data, time.Now().UnixMilli())
	if err != nil {
		return zero, err
	}

	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpInsert, created)
	return created, nil
}

// InsertMany tạo nhiều bản ghi
func (s *BaseServiceMongoImpl[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	now := time.Now().UnixMilli()
	docs := make([]any, 0, len(data))
	for _, item := range data {
		doc, err := prepareInsert(item, now)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	res, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	created, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": res.InsertedIDs}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range created {
		s.emit(ctx, events.OpInsert, created[i])
	}
	return created, nil
}

// FindOne tìm một bản ghi, không có thì trả ErrNotFound
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (T, error) {
	var zero, result T
	if opts == nil {
		opts = options.FindOne()
	}
	err := s.collection.FindOne(ctx, orEmpty(filter), opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find trả danh sách (không bao giờ nil)
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter any, opts *options.FindOptions) ([]T, error) {
	if opts == nil {
		opts = options.Find()
	}
	cursor, err := s.collection.Find(ctx, orEmpty(filter), opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// UpdateOne cập nhật bản ghi đầu tiên khớp filter và trả bản ghi sau cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter any, update any, opts *options.UpdateOptions) (T, error) {
	var zero T
	u, err := ToUpdateData(update)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	u.touch(time.Now().UnixMilli())

	after := options.After
	fopts := options.FindOneAndUpdate().SetReturnDocument(after)
	if opts != nil && opts.Upsert != nil {
		fopts.SetUpsert(*opts.Upsert)
	}

	var updated T
	if err := s.collection.FindOneAndUpdate(ctx, orEmpty(filter), u, fopts).Decode(&updated); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpdate, updated)
	return updated, nil
}

// UpdateMany cập nhật nhiều bản ghi, trả số bản ghi bị thay đổi
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter any, update any, opts *options.UpdateOptions) (int64, error) {
	u, err := ToUpdateData(update)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	u.touch(time.Now().UnixMilli())

	res, err := s.collection.UpdateMany(ctx, orEmpty(filter), u, opts)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return res.ModifiedCount, nil
}

// DeleteOne xoá bản ghi đầu tiên khớp filter
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter any) error {
	_, err := s.FindOneAndDelete(ctx, filter, nil)
	return err
}

// DeleteMany xoá nhiều bản ghi, trả số bản ghi đã xoá
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter any) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, orEmpty(filter))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return res.DeletedCount, nil
}

// FindOneAndUpdate cập nhật nguyên tử; opts quyết định trả bản trước hay sau
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter any, update any, opts *options.FindOneAndUpdateOptions) (T, error) {
	var zero T
	u, err := ToUpdateData(update)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	u.touch(time.Now().UnixMilli())
	if opts == nil {
		opts = options.FindOneAndUpdate()
	}

	var result T
	if err := s.collection.FindOneAndUpdate(ctx, orEmpty(filter), u, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	op := events.OpUpdate
	if opts.Upsert != nil && *opts.Upsert {
		op = events.OpUpsert
	}
	s.emit(ctx, op, result)
	return result, nil
}

// FindOneAndDelete xoá nguyên tử và trả bản ghi đã xoá
func (s *BaseServiceMongoImpl[T]) FindOneAndDelete(ctx context.Context, filter any, opts *options.FindOneAndDeleteOptions) (T, error) {
	var zero, deleted T
	if opts == nil {
		opts = options.FindOneAndDelete()
	}
	if err := s.collection.FindOneAndDelete(ctx, orEmpty(filter), opts).Decode(&deleted); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpDelete, deleted)
	return deleted, nil
}

// CountDocuments đếm số bản ghi khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter any) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, orEmpty(filter))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return n, nil
}

// Distinct lấy các giá trị khác nhau của một field
func (s *BaseServiceMongoImpl[T]) Distinct(ctx context.Context, fieldName string, filter any) ([]any, error) {
	values, err := s.collection.Distinct(ctx, fieldName, orEmpty(filter))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return values, nil
}

// FindOneById tìm theo _id
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindManyByIds tìm theo danh sách _id
func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// FindWithPagination tìm có phân trang; page < 1 thành 1, limit <= 0 thành mặc định
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter any, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	page, limit, skip := basemodels.NormalizePaging(page, limit)
	if opts == nil {
		opts = options.Find()
	}
	opts.SetSkip(skip).SetLimit(limit)

	filter = orEmpty(filter)
	total, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(items, page, limit, total), nil
}

// UpdateById cập nhật theo _id và trả bản ghi sau cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data any) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, data, nil)
}

// DeleteById xoá theo _id
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// Upsert cập nhật nếu có, tạo mới nếu chưa; createdAt chỉ gắn khi tạo mới
func (s *BaseServiceMongoImpl[T]) Upsert(ctx context.Context, filter any, data any) (T, error) {
	var zero T
	u, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	now := time.Now().UnixMilli()
	u.touch(now)
	if u.SetOnInsert == nil {
		u.SetOnInsert = make(map[string]any)
	}
	u.SetOnInsert["createdAt"] = now
	delete(u.Set, "createdAt")
	delete(u.Set, "_id")

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var result T
	if err := s.collection.FindOneAndUpdate(ctx, orEmpty(filter), u, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpsert, result)
	return result, nil
}

// DocumentExists kiểm tra có bản ghi khớp filter hay không
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter any) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, orEmpty(filter), options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return n > 0, nil
}

// Aggregate chạy pipeline và giải mã kết quả vào out (con trỏ tới slice)
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline any, out any) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
