package pricingsvc

import (
	"testing"
	"time"

	models "vdg_commerce/internal/api/pricing/models"
	"vdg_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickTax(t *testing.T) {
	taxes := []models.Tax{
		{Name: "global", Rate: 5, IsGlobal: true},
		{Name: "vn", Rate: 8, Country: "VN", Priority: 1},
		{Name: "vn-hcm", Rate: 10, Country: "VN", City: "HCM"},
		{Name: "us", Rate: 7, Country: "US"},
	}

	t.Run("khớp chi tiết nhất", func(t *testing.T) {
		got := PickTax(taxes, TaxLocation{Country: "vn", City: "hcm"})
		require.NotNil(t, got)
		assert.Equal(t, "vn-hcm", got.Name)
	})
	t.Run("chỉ khớp quốc gia", func(t *testing.T) {
		got := PickTax(taxes, TaxLocation{Country: "VN", City: "HN"})
		require.NotNil(t, got)
		assert.Equal(t, "vn", got.Name)
	})
	t.Run("không khớp khu vực thì dùng global", func(t *testing.T) {
		got := PickTax(taxes, TaxLocation{Country: "JP"})
		require.NotNil(t, got)
		assert.Equal(t, "global", got.Name)
	})
	t.Run("không có mức nào", func(t *testing.T) {
		assert.Nil(t, PickTax(taxes[1:2], TaxLocation{Country: "JP"}))
	})
}

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	base := models.Coupon{
		Code: "SALE", Type: models.TypeFixed, Amount: 10, IsActive: true,
		ActiveFrom: now.Add(-time.Hour).UnixMilli(), ExpireAt: now.Add(time.Hour).UnixMilli(),
		MinimumCartAmount: 50,
	}

	tests := []struct {
		name   string
		mutate func(c *models.Coupon)
		amount float64
		want   error
	}{
		{"hợp lệ", func(*models.Coupon) {}, 60, nil},
		{"đã tắt", func(c *models.Coupon) { c.IsActive = false }, 60, common.ErrCouponInvalid},
		{"chưa tới ngày", func(c *models.Coupon) { c.ActiveFrom = now.Add(time.Hour).UnixMilli() }, 60, common.ErrCouponInvalid},
		{"hết hạn", func(c *models.Coupon) { c.ExpireAt = now.UnixMilli() }, 60, common.ErrCouponExpired},
		{"hết lượt", func(c *models.Coupon) { c.UsageLimit, c.UsedCount = 2, 2 }, 60, common.ErrCouponUsageExceeded},
		{"chưa đạt tối thiểu", func(*models.Coupon) {}, 49.99, common.ErrCouponMinimumAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := ValidateCoupon(&c, tt.amount, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.ErrorIs(t, ValidateCoupon(nil, 100, now), common.ErrCouponInvalid)
}

func TestCouponDiscount(t *testing.T) {
	assert.Equal(t, 30.0, CouponDiscount(&models.Coupon{Type: models.TypeFixed, Amount: 50}, 30, 5))
	assert.Equal(t, 10.0, CouponDiscount(&models.Coupon{Type: models.TypeFixed, Amount: 10}, 30, 5))
	assert.Equal(t, 15.0, CouponDiscount(&models.Coupon{Type: models.TypePercentage, Amount: 50}, 30, 5))
	assert.Equal(t, 30.0, CouponDiscount(&models.Coupon{Type: models.TypePercentage, Amount: 150}, 30, 5), "không giảm quá tiền hàng")
	assert.Equal(t, 5.0, CouponDiscount(&models.Coupon{Type: models.TypeFreeShipping}, 30, 5))
	assert.Zero(t, CouponDiscount(nil, 30, 5))
}

func TestShippingFee(t *testing.T) {
	assert.Equal(t, 7.0, (&models.Shipping{Type: models.TypeFixed, Amount: 7}).Fee(200))
	assert.Equal(t, 20.0, (&models.Shipping{Type: models.TypePercentage, Amount: 10}).Fee(200))
	assert.Zero(t, (&models.Shipping{Type: models.TypeFreeShipping, Amount: 10}).Fee(200))
	var none *models.Shipping
	assert.Zero(t, none.Fee(200))
}
