package analyticssvc

import (
	"testing"
	"time"

	analyticsdto "vdg_commerce/internal/api/analytics/dto"
	salesmodels "vdg_commerce/internal/api/sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFillDays(t *testing.T) {
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := []analyticsdto.DayRevenue{
		{Date: "2026-02-28", Revenue: 10.005, Orders: 1},
		{Date: "2026-03-02", Revenue: 5, Orders: 2},
		{Date: "2026-01-01", Revenue: 99, Orders: 9},
	}
	got := FillDays(rows, end, 4)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"},
		[]string{got[0].Date, got[1].Date, got[2].Date, got[3].Date})
	assert.Equal(t, 0.0, got[0].Revenue)
	assert.Equal(t, int64(1), got[1].Orders)
	assert.Equal(t, int64(0), got[2].Orders)
	assert.Equal(t, 5.0, got[3].Revenue)
}

func TestOrderStatusCounts(t *testing.T) {
	got := OrderStatusCounts([]analyticsdto.StatusCount{
		{Status: salesmodels.OrderStatusPlaced, Count: 3},
		{Status: salesmodels.OrderStatusCancelled, Count: 1},
		{Status: "unknown", Count: 7},
	})
	require.Len(t, got, len(salesmodels.OrderStatuses))
	byStatus := map[string]int64{}
	for _, c := range got {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(3), byStatus[salesmodels.OrderStatusPlaced])
	assert.Equal(t, int64(1), byStatus[salesmodels.OrderStatusCancelled])
	assert.Equal(t, int64(0), byStatus[salesmodels.OrderStatusDelivered])
	assert.NotContains(t, byStatus, "unknown")
	assert.Equal(t, salesmodels.OrderStatuses[0].Status, got[0].Status)
}

func TestRevenuePipelines(t *testing.T) {
	t.Run("toàn hệ thống", func(t *testing.T) {
		match := RevenuePipeline(nil, 0)[0].(bson.M)["$match"].(bson.M)
		assert.NotContains(t, match, "shopId")
		assert.NotContains(t, match, "createdAt")
		assert.Equal(t, bson.M{"$nin": nonRevenueStatuses}, match["status"])
	})

	t.Run("theo cửa hàng từ mốc thời gian", func(t *testing.T) {
		shop := primitive.NewObjectID()
		match := RevenueByDayPipeline(&shop, 1000, "Asia/Kolkata")[0].(bson.M)["$match"].(bson.M)
		assert.Equal(t, shop, match["shopId"])
		assert.Equal(t, bson.M{"$gte": int64(1000)}, match["createdAt"])
	})

	t.Run("đếm trạng thái không lọc trạng thái", func(t *testing.T) {
		match := StatusPipeline(nil)[0].(bson.M)["$match"].(bson.M)
		assert.Empty(t, match)
	})
}
