package main

import (
	"context"
	"time"

	"vdg_commerce/internal/api/initsvc"
	"vdg_commerce/internal/global"

	"github.com/sirupsen/logrus"
)

// InitDefaultData tạo super admin, seed cấu hình mặc định và bổ sung id cho category cũ.
// Lỗi ở bước này chỉ được ghi log, server vẫn chạy.
func InitDefaultData() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	svc, err := initsvc.NewInitService()
	if err != nil {
		logrus.Warnf("⚠️ Default data skipped: %v", err)
		return
	}
	if err := svc.Run(ctx, global.MongoDB_ServerConfig); err != nil {
		logrus.Warnf("⚠️ Default data not fully initialized: %v", err)
		return
	}
	logrus.Info("Initialized default data")
}
