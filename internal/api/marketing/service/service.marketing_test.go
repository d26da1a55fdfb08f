package marketingsvc

import (
	"testing"
	"time"

	models "vdg_commerce/internal/api/marketing/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRunningFilter(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	f := RunningFilter(now, nil)
	assert.Equal(t, true, f["isActive"])
	assert.Equal(t, bson.M{"$lte": now.UnixMilli()}, f["startAt"])
	assert.NotContains(t, f, "productIds")

	pid := primitive.NewObjectID()
	assert.Equal(t, pid, RunningFilter(now, &pid)["productIds"])
}

func TestOfferRunningAt(t *testing.T) {
	o := models.Offer{IsActive: true, StartAt: 100, EndAt: 200}
	assert.False(t, o.RunningAt(99))
	assert.True(t, o.RunningAt(100))
	assert.False(t, o.RunningAt(200))

	o.EndAt = 0
	assert.True(t, o.RunningAt(10_000))
	o.IsActive = false
	assert.False(t, o.RunningAt(150))
}
