package commercesvc

import (
	"context"
	"errors"
	"testing"

	models "vdg_commerce/internal/api/commerce/models"
	"vdg_commerce/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeSequence struct {
	next  int64
	err   error
	calls int
}

func (f *fakeSequence) Next(_ context.Context, name string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

type fakeCategoryStore struct {
	inserted []models.Category
	existing map[string]bool
	// parents là danh mục đã lưu: id -> parent (nil là gốc)
	parents map[primitive.ObjectID]*primitive.ObjectID
	updated map[string]any
}

func (f *fakeCategoryStore) InsertOne(_ context.Context, c models.Category) (models.Category, error) {
	c.MongoID = primitive.NewObjectID()
	f.inserted = append(f.inserted, c)
	return c, nil
}

func (f *fakeCategoryStore) FindOne(_ context.Context, filter any, _ *options.FindOneOptions) (models.Category, error) {
	m, _ := filter.(bson.M)
	id, _ := m["_id"].(primitive.ObjectID)
	parent, ok := f.parents[id]
	if !ok {
		return models.Category{}, common.ErrNotFound
	}
	return models.Category{MongoID: id, Parent: parent}, nil
}

func (f *fakeCategoryStore) Find(context.Context, any, *options.FindOptions) ([]models.Category, error) {
	return nil, nil
}

func (f *fakeCategoryStore) UpdateById(_ context.Context, id primitive.ObjectID, data any) (models.Category, error) {
	f.updated, _ = data.(map[string]any)
	return models.Category{MongoID: id}, nil
}

func (f *fakeCategoryStore) DocumentExists(_ context.Context, filter any) (bool, error) {
	m, _ := filter.(bson.M)
	if slug, ok := m["slug"].(string); ok {
		return f.existing["slug:"+slug], nil
	}
	if id, ok := m["_id"].(primitive.ObjectID); ok {
		return f.existing["id:"+id.Hex()], nil
	}
	return false, nil
}

var fixedUUID = uuid.MustParse("6f1c2b8e-3d4a-4f5e-8a9b-0c1d2e3f4a5b")

func okUUID() (uuid.UUID, error) { return fixedUUID, nil }

func TestAssignIdentity(t *testing.T) {
	t.Run("gán id và uuid khi chưa có id", func(t *testing.T) {
		seq := &fakeSequence{next: 6}
		svc := newCategoryServiceWith(&fakeCategoryStore{}, seq, okUUID)

		c := &models.Category{Identity: "Rau củ"}
		require.NoError(t, svc.AssignIdentity(context.Background(), c))
		assert.Equal(t, int64(7), c.ID)
		assert.Equal(t, fixedUUID.String(), c.UUID)
		assert.Equal(t, 1, seq.calls)
	})

	t.Run("giữ nguyên khi đã có id", func(t *testing.T) {
		seq := &fakeSequence{}
		svc := newCategoryServiceWith(&fakeCategoryStore{}, seq, okUUID)

		c := &models.Category{ID: 42, UUID: "old"}
		require.NoError(t, svc.AssignIdentity(context.Background(), c))
		assert.Equal(t, int64(42), c.ID)
		assert.Equal(t, "old", c.UUID)
		assert.Zero(t, seq.calls, "không được tăng bộ đếm")
	})

	t.Run("lỗi bộ đếm được trả nguyên", func(t *testing.T) {
		boom := errors.New("counter down")
		svc := newCategoryServiceWith(&fakeCategoryStore{}, &fakeSequence{err: boom}, okUUID)

		c := &models.Category{}
		err := svc.AssignIdentity(context.Background(), c)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, c.ID)
		assert.Empty(t, c.UUID)
	})

	t.Run("lỗi sinh uuid được trả nguyên", func(t *testing.T) {
		boom := errors.New("entropy")
		svc := newCategoryServiceWith(&fakeCategoryStore{}, &fakeSequence{}, func() (uuid.UUID, error) {
			return uuid.Nil, boom
		})

		c := &models.Category{}
		assert.ErrorIs(t, svc.AssignIdentity(context.Background(), c), boom)
		assert.Zero(t, c.ID)
	})
}

func TestCreateCategory(t *testing.T) {
	t.Run("tạo danh mục gốc", func(t *testing.T) {
		store := &fakeCategoryStore{}
		svc := newCategoryServiceWith(store, &fakeSequence{}, okUUID)

		c, err := svc.Create(context.Background(), models.Category{Identity: "Đồ uống"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, "do-uong", c.Slug)
		assert.False(t, c.IsChild)
		assert.NotNil(t, c.Tags)
		assert.NotNil(t, c.Products)
		require.Len(t, store.inserted, 1)
	})

	t.Run("danh mục con cần cha tồn tại", func(t *testing.T) {
		parent := primitive.NewObjectID()
		store := &fakeCategoryStore{existing: map[string]bool{"id:" + parent.Hex(): true}}
		svc := newCategoryServiceWith(store, &fakeSequence{}, okUUID)

		c, err := svc.Create(context.Background(), models.Category{Identity: "Trà", Parent: &parent})
		require.NoError(t, err)
		assert.True(t, c.IsChild)

		missing := primitive.NewObjectID()
		_, err = svc.Create(context.Background(), models.Category{Identity: "Cà phê", Parent: &missing})
		assert.Error(t, err)
		assert.Len(t, store.inserted, 1)
	})

	t.Run("slug trùng thì thêm id", func(t *testing.T) {
		store := &fakeCategoryStore{existing: map[string]bool{"slug:snack": true}}
		svc := newCategoryServiceWith(store, &fakeSequence{next: 2}, okUUID)

		c, err := svc.Create(context.Background(), models.Category{Identity: "Snack"})
		require.NoError(t, err)
		assert.Equal(t, "snack-3", c.Slug)
	})

	t.Run("lỗi gán định danh thì không lưu", func(t *testing.T) {
		store := &fakeCategoryStore{}
		svc := newCategoryServiceWith(store, &fakeSequence{err: errors.New("down")}, okUUID)

		_, err := svc.Create(context.Background(), models.Category{Identity: "Bánh"})
		assert.Error(t, err)
		assert.Empty(t, store.inserted)
	})

	t.Run("thiếu identity", func(t *testing.T) {
		store := &fakeCategoryStore{}
		seq := &fakeSequence{}
		svc := newCategoryServiceWith(store, seq, okUUID)

		_, err := svc.Create(context.Background(), models.Category{})
		assert.Error(t, err)
		assert.Zero(t, seq.calls)
	})
}

func TestBuildCategoryTree(t *testing.T) {
	root := models.Category{MongoID: primitive.NewObjectID(), ID: 1, Identity: "Thực phẩm"}
	childID := primitive.NewObjectID()
	child := models.Category{MongoID: childID, ID: 2, Identity: "Rau", Parent: &root.MongoID, IsChild: true}
	orphanParent := primitive.NewObjectID()
	orphan := models.Category{MongoID: primitive.NewObjectID(), ID: 3, Identity: "Lẻ", Parent: &orphanParent}

	tree := BuildCategoryTree([]models.Category{root, child, orphan})
	require.Len(t, tree, 2)
	assert.Equal(t, int64(1), tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, childID, tree[0].Children[0].MongoID)
	assert.Equal(t, int64(3), tree[1].ID, "cha không tồn tại thì đưa lên gốc")
}

func TestUpdateCategoryParent(t *testing.T) {
	root, a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	// root <- a <- b <- c
	newStore := func() *fakeCategoryStore {
		return &fakeCategoryStore{parents: map[primitive.ObjectID]*primitive.ObjectID{
			root: nil, a: &root, b: &a, c: &b,
		}}
	}

	t.Run("từ chối gán cha là chính nó", func(t *testing.T) {
		svc := newCategoryServiceWith(newStore(), &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), a, map[string]any{"parent": a})
		assert.Error(t, err)
	})

	t.Run("từ chối gán cha là con trực tiếp", func(t *testing.T) {
		store := newStore()
		svc := newCategoryServiceWith(store, &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), a, map[string]any{"parent": b})
		assert.Error(t, err)
		assert.Nil(t, store.updated, "không được ghi khi tạo vòng")
	})

	t.Run("từ chối gán cha là cháu", func(t *testing.T) {
		svc := newCategoryServiceWith(newStore(), &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), root, map[string]any{"parent": c})
		assert.Error(t, err)
	})

	t.Run("cha không tồn tại", func(t *testing.T) {
		svc := newCategoryServiceWith(newStore(), &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), a, map[string]any{"parent": primitive.NewObjectID()})
		assert.Error(t, err)
	})

	t.Run("chuyển sang nhánh khác hợp lệ", func(t *testing.T) {
		store := newStore()
		svc := newCategoryServiceWith(store, &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), c, map[string]any{"parent": a})
		require.NoError(t, err)
		assert.Equal(t, true, store.updated["is_child"])
	})

	t.Run("bỏ cha thì thành gốc", func(t *testing.T) {
		store := newStore()
		svc := newCategoryServiceWith(store, &fakeSequence{}, okUUID)
		_, err := svc.Update(context.Background(), b, map[string]any{"parent": nil})
		require.NoError(t, err)
		assert.Equal(t, false, store.updated["is_child"])
	})
}

func TestBuildCategoryTreeCycle(t *testing.T) {
	root := models.Category{MongoID: primitive.NewObjectID(), ID: 1}
	aID, bID := primitive.NewObjectID(), primitive.NewObjectID()
	a := models.Category{MongoID: aID, ID: 2, Parent: &bID}
	b := models.Category{MongoID: bID, ID: 3, Parent: &aID}
	leaf := models.Category{MongoID: primitive.NewObjectID(), ID: 4, Parent: &bID}

	tree := BuildCategoryTree([]models.Category{root, a, b, leaf})

	var count func(nodes []*models.CategoryNode) int
	count = func(nodes []*models.CategoryNode) int {
		n := 0
		for _, node := range nodes {
			n += 1 + count(node.Children)
		}
		return n
	}
	assert.Equal(t, 4, count(tree), "mọi danh mục đều xuất hiện đúng một lần")
	require.Len(t, tree, 2)
	assert.Equal(t, aID, tree[1].MongoID, "phần tử đầu của vòng được đưa lên gốc")
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, bID, tree[1].Children[0].MongoID)
	assert.Len(t, tree[1].Children[0].Children, 1)
}
