package commercesvc

import (
	"testing"

	commercedto "vdg_commerce/internal/api/commerce/dto"
	models "vdg_commerce/internal/api/commerce/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewProductGrid(t *testing.T) {
	tests := []struct {
		name    string
		page    int64
		limit   int64
		total   int64
		hasMore bool
	}{
		{"còn trang sau", 1, 30, 31, true},
		{"vừa đủ", 1, 30, 30, false},
		{"trang cuối", 3, 30, 75, false},
		{"rỗng", 1, 30, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewProductGrid(nil, tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.hasMore, g.HasMore)
			assert.NotNil(t, g.Items)
			assert.Equal(t, tt.total, g.Total)
		})
	}
}

func TestParseProductSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, ParseProductSort("", ""))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}, ParseProductSort("price", "ASC"))
}

func TestBuildGridFilter(t *testing.T) {
	shop := primitive.NewObjectID()
	cat := primitive.NewObjectID()

	f := BuildGridFilter(&commercedto.ProductGridQuery{Shop: shop.Hex(), Category: cat.Hex(), Search: "a.b"})
	assert.Equal(t, models.ProductStatusPublish, f["status"])
	assert.Equal(t, shop, f["shopId"])
	assert.Equal(t, cat, f["categories"])
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, f["name"])

	f = BuildGridFilter(&commercedto.ProductGridQuery{Status: models.ProductStatusDraft})
	assert.Equal(t, models.ProductStatusDraft, f["status"])
	assert.NotContains(t, f, "name")
}

func TestPopularPipeline(t *testing.T) {
	shop := primitive.NewObjectID()
	p := PopularPipeline("products", &shop, 5)
	require.Len(t, p, 8)

	match := p[0].(bson.M)["$match"].(bson.M)
	assert.Equal(t, shop, match["shopId"])
	assert.Equal(t, int64(5), p[4].(bson.M)["$limit"])

	p = PopularPipeline("products", nil, 5)
	assert.NotContains(t, p[0].(bson.M)["$match"].(bson.M), "shopId")
}

func TestSplitEarnings(t *testing.T) {
	commission, net := SplitEarnings(200, 10)
	assert.Equal(t, 20.0, commission)
	assert.Equal(t, 180.0, net)

	commission, net = SplitEarnings(99.99, 0)
	assert.Zero(t, commission)
	assert.Equal(t, 99.99, net)
}

func TestShopHasMember(t *testing.T) {
	owner, staff, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	s := models.Shop{OwnerID: owner, Staffs: []primitive.ObjectID{staff}}
	assert.True(t, s.HasMember(owner))
	assert.True(t, s.HasMember(staff))
	assert.False(t, s.HasMember(other))
}
