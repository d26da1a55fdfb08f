package commercesvc

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	basemodels "vdg_commerce/internal/api/base/models"
	basesvc "vdg_commerce/internal/api/base/service"
	commercedto "vdg_commerce/internal/api/commerce/dto"
	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Số sản phẩm mỗi lần "xem thêm"
const ProductsPerPage int64 = 30

// ProductService là service sản phẩm
type ProductService struct {
	*basesvc.BaseServiceMongoImpl[models.Product]
}

// NewProductService tạo ProductService từ registry collection
func NewProductService() (*ProductService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Products)
	if !exist {
		return nil, fmt.Errorf("failed to get products collection: %w", common.ErrNotFound)
	}
	return &ProductService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Product](coll)}, nil
}

// Create tạo sản phẩm cho cửa hàng; slug trùng thì thêm hậu tố
func (s *ProductService) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ShopID.IsZero() {
		return models.Product{}, common.NewError(common.ErrCodeValidationInput, "Thiếu cửa hàng (X-Shop-ID)", common.StatusBadRequest, nil)
	}
	if p.Slug == "" {
		p.Slug = utility.Slugify(p.Name)
	}
	taken, err := s.DocumentExists(ctx, bson.M{"slug": p.Slug})
	if err != nil {
		return models.Product{}, err
	}
	if taken {
		p.Slug = p.Slug + "-" + strconv.FormatInt(utility.CurrentTimeInMilli()%100000, 10)
	}
	if p.Status == "" {
		p.Status = models.ProductStatusDraft
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Categories == nil {
		p.Categories = []primitive.ObjectID{}
	}
	return s.InsertOne(ctx, p)
}

// BuildGridFilter dựng filter cho lưới sản phẩm.
// Mặc định chỉ lấy sản phẩm đã publish.
func BuildGridFilter(q *commercedto.ProductGridQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	} else {
		filter["status"] = models.ProductStatusPublish
	}
	if q.Shop != "" {
		filter["shopId"] = utility.String2ObjectID(q.Shop)
	}
	if q.Category != "" {
		filter["categories"] = utility.String2ObjectID(q.Category)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	}
	return filter
}

// ParseProductSort trả thứ tự sắp xếp; mặc định mới nhất trước
func ParseProductSort(orderBy, sortedBy string) bson.D {
	if orderBy == "" {
		orderBy = "createdAt"
	}
	dir := -1
	if strings.EqualFold(sortedBy, "asc") {
		dir = 1
	}
	sort := bson.D{{Key: orderBy, Value: dir}}
	if orderBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return sort
}

// NewProductGrid gói một trang kết quả; hasMore khi còn sản phẩm sau trang này
func NewProductGrid(items []models.Product, page, limit, total int64) *models.ProductGrid {
	if items == nil {
		items = []models.Product{}
	}
	return &models.ProductGrid{
		Items:   items,
		HasMore: page*limit < total,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}
}

// LoadMore trả một trang của lưới sản phẩm
func (s *ProductService) LoadMore(ctx context.Context, q *commercedto.ProductGridQuery) (*models.ProductGrid, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = ProductsPerPage
	}
	page, limit, skip := basemodels.NormalizePaging(q.Page, limit)

	filter := BuildGridFilter(q)
	total, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(ParseProductSort(q.OrderBy, q.SortedBy)).
		SetSkip(skip).
		SetLimit(limit)
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return NewProductGrid(items, page, limit, total), nil
}

// ReserveStock trừ tồn kho; không đủ số lượng thì trả ErrOutOfStock
func (s *ProductService) ReserveStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	res, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": productID, "quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantity": -qty}, "$set": bson.M{"updatedAt": utility.CurrentTimeInMilli()}},
	)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrOutOfStock
	}
	return nil
}

// ReleaseStock hoàn lại tồn kho (đơn bị huỷ)
func (s *ProductService) ReleaseStock(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	_, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"quantity": qty}, "$set": bson.M{"updatedAt": utility.CurrentTimeInMilli()}},
	)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// IncrementSold cộng số lượng đã bán cho từng sản phẩm
func (s *ProductService) IncrementSold(ctx context.Context, sold map[primitive.ObjectID]int64) error {
	for id, qty := range sold {
		if _, err := s.Collection().UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$inc": bson.M{"soldCount": qty}},
		); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("product_id", id.Hex()).Error("❌ [PRODUCT] Không cập nhật được soldCount")
			return common.ConvertMongoError(err)
		}
	}
	return nil
}
