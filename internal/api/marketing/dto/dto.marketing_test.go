package marketingdto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOfferInputToModel(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pid := primitive.NewObjectID()

	o, err := (&OfferInput{Title: "Tết", ProductIDs: []string{pid.Hex(), "bad"}, DiscountPercent: 20, StartAt: start, EndAt: start.Add(24 * time.Hour)}).ToModel()
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{pid}, o.ProductIDs)
	assert.True(t, o.IsActive)
	assert.Equal(t, start.UnixMilli(), o.StartAt)

	_, err = (&OfferInput{Title: "x", DiscountPercent: 5, StartAt: start, EndAt: start}).ToModel()
	assert.ErrorIs(t, err, errOfferWindow)
}

func TestOfferUpdateInputToUpdate(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := (&OfferUpdateInput{StartAt: &start, EndAt: &end}).ToUpdate()
	assert.ErrorIs(t, err, errOfferWindow)

	pct := 30.0
	set, err := (&OfferUpdateInput{DiscountPercent: &pct}).ToUpdate()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"discountPercent": 30.0}, set)
}
