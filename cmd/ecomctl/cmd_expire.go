package main

import (
	"sort"
	"time"

	marketingsvc "vdg_commerce/internal/api/marketing/service"
	pricingsvc "vdg_commerce/internal/api/pricing/service"
	salessvc "vdg_commerce/internal/api/sales/service"
	"vdg_commerce/internal/worker"

	"github.com/spf13/cobra"
)

var expireStaleOrders bool

// expireCmd chạy một vòng worker: tắt coupon/offer hết hạn, tuỳ chọn huỷ đơn chưa thanh toán quá hạn
var expireCmd = &cobra.Command{
	Use:   "expire-promotions",
	Short: "Deactivate expired coupons and offers once",
	Args:  cobra.NoArgs,
	RunE:  runExpire,
}

func init() {
	expireCmd.Flags().BoolVar(&expireStaleOrders, "stale-orders", false, "also fail unpaid orders older than WORKER_STALE_ORDER_HOURS")
}

func runExpire(cmd *cobra.Command, _ []string) error {
	s, err := connect(cmd)
	if err != nil {
		return err
	}
	defer s.cancel()

	coupons, err := pricingsvc.NewCouponService()
	if err != nil {
		return err
	}
	offers, err := marketingsvc.NewOfferService()
	if err != nil {
		return err
	}
	counts := worker.NewPromotionExpiryWorker(0, map[string]worker.Expirer{
		"coupons": coupons,
		"offers":  offers,
	}).RunOnce(s.ctx)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("%s deactivated: %d\n", name, counts[name])
	}

	if !expireStaleOrders || s.cfg.WorkerStaleOrderHours <= 0 {
		return nil
	}
	orders, err := salessvc.NewOrderService()
	if err != nil {
		return err
	}
	failed := worker.NewStaleOrderWorker(orders, 0, time.Duration(s.cfg.WorkerStaleOrderHours)*time.Hour, 0).RunOnce(s.ctx)
	cmd.Printf("stale orders failed: %d\n", failed)
	return nil
}
