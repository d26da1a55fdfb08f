package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedModel struct {
	ID        int64  `bson:"id" index:"unique"`
	Email     string `bson:"email,omitempty" index:"unique,sparse"`
	Name      string `bson:"name" index:"text"`
	CreatedAt int64  `bson:"createdAt" index:"single,order:-1"`
	ExpireAt  int64  `bson:"expireAt" index:"ttl:3600"`
	ShopID    string `bson:"shopId" index:"compound:shop_slug_unique"`
	Slug      string `bson:"slug" index:"compound:shop_slug_unique"`
	Ignored   string `bson:"-" index:"single"`
	NoIndex   string `bson:"noIndex"`
}

func TestBuildIndexSpecs(t *testing.T) {
	specs, err := buildIndexSpecs(&indexedModel{})
	require.NoError(t, err)

	byName := map[string]indexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	require.Len(t, byName, 6)

	assert.True(t, byName["id_unique"].Unique)
	assert.False(t, byName["id_unique"].Sparse)
	assert.True(t, byName["email_unique"].Sparse, "tag bson có omitempty vẫn phải lấy đúng tên field")
	assert.Equal(t, bson.D{{Key: "name", Value: "text"}}, byName["name_text"].Keys)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, byName["createdAt_single"].Keys)
	require.NotNil(t, byName["expireAt_ttl"].TTL)
	assert.EqualValues(t, 3600, *byName["expireAt_ttl"].TTL)

	c := byName["shop_slug_unique"]
	assert.True(t, c.Unique)
	assert.Equal(t, bson.D{{Key: "shopId", Value: 1}, {Key: "slug", Value: 1}}, c.Keys)
}

func TestBuildIndexSpecs_TTLSai(t *testing.T) {
	type bad struct {
		At int64 `bson:"at" index:"ttl:abc"`
	}
	_, err := buildIndexSpecs(bad{})
	assert.Error(t, err)
}

func TestSameIndex(t *testing.T) {
	spec := indexSpec{Name: "slug_unique", Keys: bson.D{{Key: "slug", Value: 1}}, Unique: true}
	assert.True(t, sameIndex(bson.M{"key": bson.M{"slug": int32(1)}, "unique": true}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"slug": int32(1)}}, spec), "thiếu unique")
	assert.False(t, sameIndex(bson.M{"key": bson.M{"slug": int32(-1)}, "unique": true}, spec))
}
