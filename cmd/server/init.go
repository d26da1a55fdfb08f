package main

import (
	"vdg_commerce/internal/bootstrap"
	"vdg_commerce/internal/global"

	"github.com/sirupsen/logrus"
)

// InitGlobal đọc cấu hình, khởi tạo validator, tên collection và kết nối MongoDB
func InitGlobal() {
	bootstrap.InitColNames()
	logrus.Info("Initialized collection names")

	if _, err := bootstrap.InitConfig(); err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}
	logrus.Info("Initialized configuration")

	if _, err := bootstrap.Connect(global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	logrus.Info("Initialized MongoDB")
}
