// Command ecomctl chạy các tác vụ bảo trì một lần trên database: seed dữ liệu mặc định,
// bổ sung id cho category, tắt khuyến mãi hết hạn.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"vdg_commerce/config"
	"vdg_commerce/internal/bootstrap"
	"vdg_commerce/internal/database"
	"vdg_commerce/internal/logger"

	"github.com/spf13/cobra"
)

var (
	// envFile là file env truyền qua --env; rỗng thì dùng config/env/<GO_ENV>.env
	envFile string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "ecomctl",
	Short:         "Maintenance tasks for the VDG Commerce database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to env file (default config/env/<GO_ENV>.env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout for the task")

	rootCmd.AddCommand(seedCmd, backfillCmd, expireCmd)
}

// session là cấu hình và context đã kết nối database cho một lệnh
type session struct {
	cfg    *config.Configuration
	ctx    context.Context
	cancel context.CancelFunc
}

// connect đọc cấu hình, kết nối MongoDB và đăng ký collection (không đồng bộ index)
func connect(cmd *cobra.Command) (*session, error) {
	if err := logger.Init(nil); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	bootstrap.InitColNames()

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := bootstrap.InitConfig(files...)
	if err != nil {
		return nil, err
	}
	client, err := bootstrap.Connect(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	if err := bootstrap.RegisterCollections(ctx, client, cfg, false); err != nil {
		cancel()
		_ = database.CloseInstance(context.Background(), client)
		return nil, err
	}
	return &session{
		cfg: cfg,
		ctx: ctx,
		cancel: func() {
			cancel()
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = database.CloseInstance(closeCtx, client)
		},
	}, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
