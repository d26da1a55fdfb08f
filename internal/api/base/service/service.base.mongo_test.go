package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sample struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Price     float64            `bson:"price"`
	CreatedAt int64              `bson:"createdAt"`
}

func TestToUpdateData(t *testing.T) {
	t.Run("struct thường được bọc trong $set", func(t *testing.T) {
		u, err := ToUpdateData(sample{Name: "Áo", Price: 10})
		require.NoError(t, err)
		assert.Equal(t, "Áo", u.Set["name"])
		assert.Nil(t, u.Inc)
	})

	t.Run("map có toán tử được tách theo toán tử", func(t *testing.T) {
		u, err := ToUpdateData(bson.M{
			"$set": bson.M{"status": "approved"},
			"$inc": bson.M{"balance.withdrawnAmount": 100},
		})
		require.NoError(t, err)
		assert.Equal(t, "approved", u.Set["status"])
		assert.EqualValues(t, 100, u.Inc["balance.withdrawnAmount"])
	})

	t.Run("UpdateData giữ nguyên", func(t *testing.T) {
		in := &UpdateData{Set: map[string]any{"a": 1}}
		out, err := ToUpdateData(in)
		require.NoError(t, err)
		assert.Same(t, in, out)
	})
}

func TestPrepareInsert(t *testing.T) {
	doc, err := prepareInsert(sample{Name: "Áo", CreatedAt: 0}, 1700)
	require.NoError(t, err)

	_, hasID := doc["_id"]
	assert.False(t, hasID, "_id rỗng phải để MongoDB tự sinh")
	_, hasEmail := doc["email"]
	assert.False(t, hasEmail, "chuỗi rỗng bị bỏ để sparse index bỏ qua")
	assert.EqualValues(t, 1700, doc["createdAt"])
	assert.EqualValues(t, 1700, doc["updatedAt"])

	doc, err = prepareInsert(sample{Name: "Áo", CreatedAt: 99}, 1700)
	require.NoError(t, err)
	assert.EqualValues(t, 99, doc["createdAt"], "giữ createdAt có sẵn (import dữ liệu cũ)")
}
