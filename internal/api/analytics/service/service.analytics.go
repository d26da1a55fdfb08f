// Package analyticssvc - thống kê doanh thu và đơn hàng, toàn hệ thống hoặc theo cửa hàng.
package analyticssvc

import (
	"context"
	"fmt"
	"time"

	analyticsdto "vdg_commerce/internal/api/analytics/dto"
	authmodels "vdg_commerce/internal/api/auth/models"
	salesmodels "vdg_commerce/internal/api/sales/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRevenueDays = 30
	dayLayout          = "2006-01-02"
	// Khách mới là khách đăng ký trong số ngày này
	newCustomerDays = 30
)

// Đơn ở các trạng thái này không tính doanh thu
var nonRevenueStatuses = bson.A{
	salesmodels.OrderStatusCancelled,
	salesmodels.OrderStatusFailed,
	salesmodels.OrderStatusRefunded,
}

// AnalyticsService đọc trực tiếp các collection orders, shops, users
type AnalyticsService struct {
	orders *mongo.Collection
	shops  *mongo.Collection
	users  *mongo.Collection
}

// NewAnalyticsService tạo AnalyticsService
func NewAnalyticsService() (*AnalyticsService, error) {
	get := func(name string) (*mongo.Collection, error) {
		coll, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %w", name, common.ErrNotFound)
		}
		return coll, nil
	}
	s := &AnalyticsService{}
	var err error
	if s.orders, err = get(global.MongoDB_ColNames.Orders); err != nil {
		return nil, err
	}
	if s.shops, err = get(global.MongoDB_ColNames.Shops); err != nil {
		return nil, err
	}
	if s.users, err = get(global.MongoDB_ColNames.Users); err != nil {
		return nil, err
	}
	return s, nil
}

// revenueMatch là điều kiện đơn tính doanh thu, từ mốc since (ms, 0 = mọi thời điểm)
func revenueMatch(shopID *primitive.ObjectID, since int64) bson.M {
	match := bson.M{"status": bson.M{"$nin": nonRevenueStatuses}}
	if shopID != nil {
		match["shopId"] = *shopID
	}
	if since > 0 {
		match["createdAt"] = bson.M{"$gte": since}
	}
	return match
}

// revenueExpr là doanh thu của một đơn: amount - discount, không âm
var revenueExpr = bson.M{"$max": bson.A{bson.M{"$subtract": bson.A{"$amount", "$discount"}}, 0}}

// RevenuePipeline tính tổng doanh thu
func RevenuePipeline(shopID *primitive.ObjectID, since int64) bson.A {
	return bson.A{
		bson.M{"$match": revenueMatch(shopID, since)},
		bson.M{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": revenueExpr}}},
	}
}

// RevenueByDayPipeline nhóm doanh thu theo ngày theo múi giờ tz
func RevenueByDayPipeline(shopID *primitive.ObjectID, since int64, tz string) bson.A {
	return bson.A{
		bson.M{"$match": revenueMatch(shopID, since)},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     bson.M{"$toDate": "$createdAt"},
				"timezone": tz,
			}},
			"revenue": bson.M{"$sum": revenueExpr},
			"orders":  bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}
}

// StatusPipeline đếm đơn theo trạng thái
func StatusPipeline(shopID *primitive.ObjectID) bson.A {
	match := bson.M{}
	if shopID != nil {
		match["shopId"] = *shopID
	}
	return bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
}

// FillDays trả đủ `days` ngày kết thúc ở `end`, ngày không có đơn thì bằng 0
func FillDays(rows []analyticsdto.DayRevenue, end time.Time, days int) []analyticsdto.DayRevenue {
	byDate := make(map[string]analyticsdto.DayRevenue, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := make([]analyticsdto.DayRevenue, 0, days)
	start := end.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format(dayLayout)
		r, ok := byDate[d]
		if !ok {
			r = analyticsdto.DayRevenue{Date: d}
		}
		r.Revenue = utility.RoundMoney(r.Revenue)
		out = append(out, r)
	}
	return out
}

// OrderStatusCounts sắp xếp kết quả đếm theo thứ tự trạng thái đơn; trạng thái không có đơn vẫn hiện với 0
func OrderStatusCounts(rows []analyticsdto.StatusCount) []analyticsdto.StatusCount {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	out := make([]analyticsdto.StatusCount, 0, len(salesmodels.OrderStatuses))
	for _, st := range salesmodels.OrderStatuses {
		out = append(out, analyticsdto.StatusCount{Status: st.Status, Count: counts[st.Status]})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *AnalyticsService) aggregate(ctx context.Context, pipeline bson.A, out any) error {
	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

func (s *AnalyticsService) sumRevenue(ctx context.Context, shopID *primitive.ObjectID, since int64) (float64, error) {
	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := s.aggregate(ctx, RevenuePipeline(shopID, since), &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utility.RoundMoney(rows[0].Revenue), nil
}

// Totals tính song song các chỉ số tổng; shopID khác nil thì chỉ tính cho cửa hàng đó
func (s *AnalyticsService) Totals(ctx context.Context, shopID *primitive.ObjectID, loc *time.Location) (*analyticsdto.Totals, error) {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	out := &analyticsdto.Totals{}
	if cfg := global.MongoDB_ServerConfig; cfg != nil {
		out.Currency = cfg.Currency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.sumRevenue(gctx, shopID, 0)
		return err
	})
	g.Go(func() (err error) {
		out.TodaysRevenue, err = s.sumRevenue(gctx, shopID, startOfDay(now).UnixMilli())
		return err
	})
	g.Go(func() error {
		filter := bson.M{}
		if shopID != nil {
			filter["shopId"] = *shopID
		}
		n, err := s.orders.CountDocuments(gctx, filter)
		out.TotalOrders = n
		return common.ConvertMongoError(err)
	})

	if shopID != nil {
		out.TotalShops = 1
		g.Go(func() error {
			ids, err := s.orders.Distinct(gctx, "customerId", bson.M{"shopId": *shopID})
			out.TotalCustomers = int64(len(ids))
			return common.ConvertMongoError(err)
		})
		g.Go(func() error {
			since := now.AddDate(0, 0, -newCustomerDays).UnixMilli()
			ids, err := s.orders.Distinct(gctx, "customerId", bson.M{"shopId": *shopID, "createdAt": bson.M{"$gte": since}})
			out.NewCustomers = int64(len(ids))
			return common.ConvertMongoError(err)
		})
	} else {
		g.Go(func() error {
			n, err := s.shops.CountDocuments(gctx, bson.M{})
			out.TotalShops = n
			return common.ConvertMongoError(err)
		})
		g.Go(func() error {
			n, err := s.users.CountDocuments(gctx, bson.M{"role": authmodels.RoleCustomer})
			out.TotalCustomers = n
			return common.ConvertMongoError(err)
		})
		g.Go(func() error {
			since := now.AddDate(0, 0, -newCustomerDays).UnixMilli()
			n, err := s.users.CountDocuments(gctx, bson.M{"role": authmodels.RoleCustomer, "createdAt": bson.M{"$gte": since}})
			out.NewCustomers = n
			return common.ConvertMongoError(err)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RevenueByDay trả doanh thu `days` ngày gần nhất, đủ từng ngày
func (s *AnalyticsService) RevenueByDay(ctx context.Context, shopID *primitive.ObjectID, days int, loc *time.Location) ([]analyticsdto.DayRevenue, error) {
	if days <= 0 {
		days = DefaultRevenueDays
	}
	if loc == nil {
		loc = time.UTC
	}
	today := startOfDay(time.Now().In(loc))
	since := today.AddDate(0, 0, -(days - 1)).UnixMilli()

	var rows []analyticsdto.DayRevenue
	if err := s.aggregate(ctx, RevenueByDayPipeline(shopID, since, loc.String()), &rows); err != nil {
		return nil, err
	}
	return FillDays(rows, today, days), nil
}

// StatusCounts đếm đơn theo trạng thái
func (s *AnalyticsService) StatusCounts(ctx context.Context, shopID *primitive.ObjectID) ([]analyticsdto.StatusCount, error) {
	var rows []analyticsdto.StatusCount
	if err := s.aggregate(ctx, StatusPipeline(shopID), &rows); err != nil {
		return nil, err
	}
	return OrderStatusCounts(rows), nil
}

// Overview gom Totals, RevenueByDay và StatusCounts
func (s *AnalyticsService) Overview(ctx context.Context, shopID *primitive.ObjectID, days int, loc *time.Location) (*analyticsdto.Overview, error) {
	out := &analyticsdto.Overview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.Totals(gctx, shopID, loc)
		if err == nil {
			out.Totals = *t
		}
		return err
	})
	g.Go(func() (err error) {
		out.RevenueByDay, err = s.RevenueByDay(gctx, shopID, days, loc)
		return err
	})
	g.Go(func() (err error) {
		out.OrderStatus, err = s.StatusCounts(gctx, shopID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
