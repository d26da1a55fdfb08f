package pricingdto

import (
	"testing"
	"time"

	models "vdg_commerce/internal/api/pricing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponInputToModel(t *testing.T) {
	expire := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	in := CouponInput{Code: " sale10 ", Type: models.TypePercentage, Amount: 10, ExpireAt: expire}

	c, err := in.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "SALE10", c.Code)
	assert.True(t, c.IsActive)
	assert.Equal(t, expire.UnixMilli(), c.ExpireAt)
	assert.NotZero(t, c.ActiveFrom)

	in.Amount = 120
	_, err = in.ToModel()
	assert.Error(t, err)
}

func TestCouponUpdateInputToUpdate(t *testing.T) {
	active := false
	set, err := (&CouponUpdateInput{IsActive: &active}).ToUpdate()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"isActive": false}, set)
}

func TestCouponUpdateCheckAgainst(t *testing.T) {
	percent := &models.Coupon{Type: models.TypePercentage, Amount: 10}
	fixed := &models.Coupon{Type: models.TypeFixed, Amount: 500}
	f := func(v float64) *float64 { return &v }
	s := func(v string) *string { return &v }

	t.Run("mã phần trăm không nhận giá trị trên 100", func(t *testing.T) {
		err := (&CouponUpdateInput{Amount: f(150)}).CheckAgainst(percent)
		assert.ErrorIs(t, err, ErrPercentTooHigh)
		assert.NoError(t, (&CouponUpdateInput{Amount: f(100)}).CheckAgainst(percent))
	})

	t.Run("mã cố định nhận giá trị lớn", func(t *testing.T) {
		assert.NoError(t, (&CouponUpdateInput{Amount: f(150)}).CheckAgainst(fixed))
	})

	t.Run("đổi sang phần trăm thì xét giá trị đang lưu", func(t *testing.T) {
		assert.ErrorIs(t, (&CouponUpdateInput{Type: s(models.TypePercentage)}).CheckAgainst(fixed), ErrPercentTooHigh)
		assert.NoError(t, (&CouponUpdateInput{Type: s(models.TypePercentage), Amount: f(20)}).CheckAgainst(fixed))
	})

	t.Run("đổi loại được đưa vào $set", func(t *testing.T) {
		set, err := (&CouponUpdateInput{Type: s(models.TypeFixed)}).ToUpdate()
		require.NoError(t, err)
		assert.Equal(t, models.TypeFixed, set["type"])
	})
}

func TestCouponInputPercentLimit(t *testing.T) {
	expire := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := (&CouponInput{Code: "BIG", Type: models.TypePercentage, Amount: 150, ExpireAt: expire}).ToModel()
	assert.ErrorIs(t, err, ErrPercentTooHigh)

	c, err := (&CouponInput{Code: "BIG", Type: models.TypeFixed, Amount: 150, ExpireAt: expire}).ToModel()
	require.NoError(t, err)
	assert.Equal(t, 150.0, c.Amount)
}
