// Package analyticsdto - tham số và kết quả thống kê.
package analyticsdto

// RevenueQuery là tham số doanh thu theo ngày
type RevenueQuery struct {
	Days     int    `query:"days" validate:"omitempty,min=1,max=365"`
	Timezone string `query:"tz" validate:"omitempty,timezone"`
}

// Totals là các chỉ số tổng
type Totals struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TodaysRevenue  float64 `json:"todaysRevenue"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalShops     int64   `json:"totalShops"`
	TotalCustomers int64   `json:"totalCustomers"`
	NewCustomers   int64   `json:"newCustomers"`
	Currency       string  `json:"currency"`
}

// DayRevenue là doanh thu của một ngày (yyyy-mm-dd)
type DayRevenue struct {
	Date    string  `json:"date" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Orders  int64   `json:"orders" bson:"orders"`
}

// StatusCount là số đơn theo trạng thái
type StatusCount struct {
	Status string `json:"status" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

// Overview gom toàn bộ số liệu cho dashboard
type Overview struct {
	Totals       Totals        `json:"totals"`
	RevenueByDay []DayRevenue  `json:"revenueByDay"`
	OrderStatus  []StatusCount `json:"orderStatus"`
}
