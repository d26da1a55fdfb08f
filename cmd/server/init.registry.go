package main

import (
	"context"

	"vdg_commerce/internal/bootstrap"
	"vdg_commerce/internal/global"

	"github.com/sirupsen/logrus"
)

// InitRegistry tạo collection còn thiếu, đăng ký vào registry và đồng bộ index
func InitRegistry() {
	ctx := context.Background()
	if err := bootstrap.RegisterCollections(ctx, global.MongoDB_Session, global.MongoDB_ServerConfig, true); err != nil {
		logrus.Fatalf("Failed to register collections: %v", err)
	}
	logrus.Info("Initialized registry")
}
