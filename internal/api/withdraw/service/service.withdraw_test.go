package withdrawsvc

import (
	"testing"

	models "vdg_commerce/internal/api/withdraw/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseWithdrawSort(t *testing.T) {
	tests := []struct {
		name     string
		orderBy  string
		sortedBy string
		want     bson.D
	}{
		{"mặc định", "", "", bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{"theo số tiền tăng dần", "amount", "asc", bson.D{{Key: "amount", Value: 1}, {Key: "_id", Value: 1}}},
		{"theo trạng thái giảm dần", "status", "DESC", bson.D{{Key: "status", Value: -1}, {Key: "_id", Value: -1}}},
		{"created_at là createdAt", "created_at", "ASC", bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
		{"field lạ", "shopId", "asc", bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWithdrawSort(tt.orderBy, tt.sortedBy))
		})
	}
}

func TestNewPaginatorInfo(t *testing.T) {
	assert.Equal(t, models.PaginatorInfo{Total: 21, CurrentPage: 2, PerPage: 10, LastPage: 3}, NewPaginatorInfo(21, 2, 10))
	assert.Equal(t, models.PaginatorInfo{Total: 0, CurrentPage: 1, PerPage: 10, LastPage: 1}, NewPaginatorInfo(0, 1, 10))
}

func TestBadgeFor(t *testing.T) {
	for _, s := range []string{"approved", "PENDING", "On_Hold", "rejected", "processing"} {
		assert.NotNil(t, BadgeFor(s), s)
	}
	b := BadgeFor("approved")
	require.NotNil(t, b)
	assert.Equal(t, "bg-accent", b.Color)
	assert.Nil(t, BadgeFor("unknown"))
}

func TestWithdrawTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{models.StatusPending, models.StatusApproved, true},
		{models.StatusPending, models.StatusOnHold, true},
		{models.StatusProcessing, models.StatusRejected, true},
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusOnHold, models.StatusProcessing, true},
		{models.StatusApproved, models.StatusRejected, false},
		{models.StatusRejected, models.StatusApproved, false},
		{"pending", "approved", true},
	}
	for _, tt := range tests {
		t.Run(tt.from+"→"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.ok, models.CanTransition(tt.from, tt.to))
		})
	}
}

func TestNewWithdrawView(t *testing.T) {
	shop := &models.ShopRef{ID: primitive.NewObjectID(), Name: "Shop A"}
	v := NewWithdrawView(models.Withdraw{Amount: 1234.5, Status: "pending"}, shop, "INR")
	assert.Equal(t, "₹1,234.50", v.Price)
	require.NotNil(t, v.StatusBadge)
	assert.Equal(t, "bg-purple-500", v.StatusBadge.Color)
	assert.Equal(t, "Shop A", v.Shop.Name)
}
