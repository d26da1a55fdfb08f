package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePaging(t *testing.T) {
	cases := []struct {
		name                string
		page, limit         int64
		wantPage, wantLimit int64
		wantSkip            int64
	}{
		{"mặc định khi thiếu", 0, 0, 1, 10, 0},
		{"page âm", -3, 20, 1, 20, 0},
		{"trang 3", 3, 30, 3, 30, 60},
		{"limit vượt trần", 2, 1000, 2, MaxLimit, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, l, s := NormalizePaging(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p)
			assert.Equal(t, tc.wantLimit, l)
			assert.Equal(t, tc.wantSkip, s)
		})
	}
}

func TestCalcTotalPage(t *testing.T) {
	assert.EqualValues(t, 0, CalcTotalPage(0, 10))
	assert.EqualValues(t, 1, CalcTotalPage(1, 10))
	assert.EqualValues(t, 1, CalcTotalPage(10, 10))
	assert.EqualValues(t, 2, CalcTotalPage(11, 10))
	assert.EqualValues(t, 0, CalcTotalPage(5, 0))
}

func TestNewPaginateResult(t *testing.T) {
	r := NewPaginateResult[string](nil, 2, 10, 15)
	assert.NotNil(t, r.Items)
	assert.EqualValues(t, 0, r.ItemCount)
	assert.EqualValues(t, 2, r.TotalPage)
}
