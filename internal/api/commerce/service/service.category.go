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
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// categoryStore là phần lưu trữ CategoryService cần
type categoryStore interface {
	InsertOne(ctx context.Context, data models.Category) (models.Category, error)
	FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (models.Category, error)
	Find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Category, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data any) (models.Category, error)
	DocumentExists(ctx context.Context, filter any) (bool, error)
}

// CategoryService là service danh mục
type CategoryService struct {
	*basesvc.BaseServiceMongoImpl[models.Category]
	store     categoryStore
	sequences SequenceGenerator
	newUUID   func() (uuid.UUID, error)
}

// NewCategoryService tạo CategoryService từ registry collection
func NewCategoryService() (*CategoryService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Categories)
	if !exist {
		return nil, fmt.Errorf("failed to get categories collection: %w", common.ErrNotFound)
	}
	sequences, err := NewSequenceService()
	if err != nil {
		return nil, err
	}
	base := basesvc.NewBaseServiceMongo[models.Category](coll)
	return &CategoryService{
		BaseServiceMongoImpl: base,
		store:                base,
		sequences:            sequences,
		newUUID:              uuid.NewRandom,
	}, nil
}

// newCategoryServiceWith dựng service với các phụ thuộc tuỳ chọn (dùng trong test)
func newCategoryServiceWith(store categoryStore, sequences SequenceGenerator, newUUID func() (uuid.UUID, error)) *CategoryService {
	return &CategoryService{store: store, sequences: sequences, newUUID: newUUID}
}

// AssignIdentity gán id số và uuid cho danh mục chưa có id.
// Danh mục đã có id được giữ nguyên, không đụng tới bộ đếm.
func (s *CategoryService) AssignIdentity(ctx context.Context, c *models.Category) error {
	if c.ID != 0 {
		return nil
	}
	seq, err := s.sequences.Next(ctx, models.SequenceCategory)
	if err != nil {
		return err
	}
	u, err := s.newUUID()
	if err != nil {
		return err
	}
	c.ID = seq
	c.UUID = u.String()
	return nil
}

// Create kiểm tra danh mục cha, sinh slug, gán định danh rồi lưu.
// Lỗi ở bất kỳ bước nào đều huỷ việc lưu.
func (s *CategoryService) Create(ctx context.Context, c models.Category) (models.Category, error) {
	if c.Identity == "" {
		return models.Category{}, common.NewError(common.ErrCodeValidationInput, "Thiếu tên danh mục", common.StatusBadRequest, nil)
	}
	if c.Slug == "" {
		c.Slug = utility.Slugify(c.Identity)
	}

	c.IsChild = c.Parent != nil && !c.Parent.IsZero()
	if c.Parent != nil && c.Parent.IsZero() {
		c.Parent = nil
	}
	if c.IsChild {
		ok, err := s.store.DocumentExists(ctx, bson.M{"_id": *c.Parent})
		if err != nil {
			return models.Category{}, err
		}
		if !ok {
			return models.Category{}, common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, nil)
		}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Products == nil {
		c.Products = []primitive.ObjectID{}
	}

	if err := s.AssignIdentity(ctx, &c); err != nil {
		logger.WithContext(ctx).WithError(err).Error("❌ [CATEGORY] Không gán được id/uuid cho danh mục")
		return models.Category{}, err
	}

	taken, err := s.store.DocumentExists(ctx, bson.M{"slug": c.Slug})
	if err != nil {
		return models.Category{}, err
	}
	if taken {
		c.Slug = c.Slug + "-" + strconv.FormatInt(c.ID, 10)
	}

	return s.store.InsertOne(ctx, c)
}

// Update cập nhật danh mục; đổi parent thì cập nhật lại is_child
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (models.Category, error) {
	delete(set, "id")
	delete(set, "uuid")
	if raw, ok := set["parent"]; ok {
		switch p := raw.(type) {
		case nil:
			set["is_child"] = false
		case primitive.ObjectID:
			if err := s.checkParent(ctx, id, p); err != nil {
				return models.Category{}, err
			}
			set["is_child"] = true
		}
	}
	return s.store.UpdateById(ctx, id, set)
}

// maxCategoryDepth giới hạn số bước đi lên khi kiểm tra tổ tiên
const maxCategoryDepth = 64

// checkParent kiểm tra parent tồn tại và không nằm trong cây con của id (tránh vòng lặp cha-con)
func (s *CategoryService) checkParent(ctx context.Context, id, parent primitive.ObjectID) error {
	errCycle := common.NewError(common.ErrCodeValidationInput, "Danh mục cha không được là chính nó hoặc danh mục con của nó", common.StatusBadRequest, nil)
	cur := parent
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if cur == id {
			return errCycle
		}
		c, err := s.store.FindOne(ctx, bson.M{"_id": cur}, options.FindOne().SetProjection(bson.M{"parent": 1}))
		if errors.Is(err, common.ErrNotFound) {
			if cur == parent {
				return common.NewError(common.ErrCodeValidationInput, "Danh mục cha không tồn tại", common.StatusBadRequest, nil)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if c.Parent == nil {
			return nil
		}
		cur = *c.Parent
	}
	return errCycle
}

// Delete xoá danh mục không còn danh mục con
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	hasChildren, err := s.store.DocumentExists(ctx, bson.M{"parent": id})
	if err != nil {
		return err
	}
	if hasChildren {
		return common.NewError(common.ErrCodeBusinessOperation, "Danh mục còn danh mục con", common.StatusConflict, nil)
	}
	return s.DeleteById(ctx, id)
}

// Tree trả toàn bộ danh mục dạng cây, sắp theo id
func (s *CategoryService) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	list, err := s.store.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(list), nil
}

// BuildCategoryTree dựng cây từ danh sách phẳng; danh mục có parent không tồn tại được đưa lên gốc.
// Dữ liệu có vòng lặp cha-con thì phần tử đầu tiên của vòng (theo thứ tự list) được đưa lên gốc.
func BuildCategoryTree(list []models.Category) []*models.CategoryNode {
	nodes := make(map[primitive.ObjectID]*models.CategoryNode, len(list))
	for i := range list {
		nodes[list[i].MongoID] = &models.CategoryNode{Category: list[i], Children: []*models.CategoryNode{}}
	}
	parentOf := func(id primitive.ObjectID) (primitive.ObjectID, bool) {
		p := nodes[id].Parent
		if p == nil || *p == id {
			return primitive.NilObjectID, false
		}
		_, ok := nodes[*p]
		return *p, ok
	}

	cutAt := map[primitive.ObjectID]bool{}
	for i := range list {
		id := list[i].MongoID
		cur := id
		for step := 0; step <= len(list); step++ {
			if cutAt[cur] {
				break
			}
			p, ok := parentOf(cur)
			if !ok {
				break
			}
			if p == id {
				cutAt[id] = true
				break
			}
			cur = p
		}
	}

	roots := []*models.CategoryNode{}
	for i := range list {
		id := list[i].MongoID
		node := nodes[id]
		if p, ok := parentOf(id); ok && !cutAt[id] {
			nodes[p].Children = append(nodes[p].Children, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

// BackfillIdentity gán id/uuid cho các danh mục cũ còn thiếu, theo thứ tự tạo
func (s *CategoryService) BackfillIdentity(ctx context.Context) (int, error) {
	missing := bson.M{"$or": bson.A{
		bson.M{"id": bson.M{"$exists": false}},
		bson.M{"id": 0},
	}}
	list, err := s.store.Find(ctx, missing, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range list {
		c := list[i]
		if err := s.AssignIdentity(ctx, &c); err != nil {
			return done, err
		}
		if _, err := s.store.UpdateById(ctx, c.MongoID, bson.M{"id": c.ID, "uuid": c.UUID}); err != nil {
			return done, err
		}
		done++
	}
	logger.WithContext(ctx).WithField("count", done).Info("✅ [CATEGORY] Đã gán id/uuid cho danh mục cũ")
	return done, nil
}
