package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa cấu hình tĩnh để chạy server và công cụ quản trị
type Configuration struct {
	Address   string `env:"ADDRESS" envDefault:":8080"`
	JwtSecret string `env:"JWT_SECRET,required"`
	// Thời hạn access token (phút) và refresh token (giờ)
	JwtAccessTTLMinutes int `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JwtRefreshTTLHours  int `env:"JWT_REFRESH_TTL_HOURS" envDefault:"720"`

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // giây

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// SMTP; để trống SMTP_HOST thì email chỉ được ghi log
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@localhost"`

	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"http://localhost:8080/api/v1/upload/files"`
	UploadMaxMB   int    `env:"UPLOAD_MAX_MB" envDefault:"10"`

	Currency string `env:"CURRENCY" envDefault:"INR"`
	// Hoa hồng mặc định của sàn trên mỗi đơn (%)
	AdminCommissionRate float64 `env:"ADMIN_COMMISSION_RATE" envDefault:"10"`

	// Tài khoản super admin tạo lúc khởi tạo dữ liệu
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SeedSettingsFile string `env:"SEED_SETTINGS_FILE" envDefault:"config/seed/settings.yaml"`

	WorkerPromotionIntervalSeconds int `env:"WORKER_PROMOTION_INTERVAL_SECONDS" envDefault:"300"`
	// Đơn initiated chưa thanh toán quá số giờ này sẽ bị chuyển failed; 0 = tắt worker
	WorkerStaleOrderHours           int `env:"WORKER_STALE_ORDER_HOURS" envDefault:"24"`
	WorkerStaleOrderIntervalSeconds int `env:"WORKER_STALE_ORDER_INTERVAL_SECONDS" envDefault:"600"`
}

// getEnvPath tìm config/env/<GO_ENV>.env bằng cách đi lên từ thư mục hiện tại
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}
	for {
		envDir := filepath.Join(dir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, goEnv+".env")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewConfig đọc file env theo GO_ENV (hoặc các file truyền vào) rồi parse vào Configuration.
// Trả về nil nếu thiếu biến bắt buộc.
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		if p := getEnvPath(); p != "" {
			files = []string{p}
		}
	}
	for _, f := range files {
		// Biến đã có trong môi trường được ưu tiên, file env chỉ bổ sung
		if err := godotenv.Load(f); err != nil {
			fmt.Printf("Không thể load file env tại %s: %v\n", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	return &cfg
}

// ResolvePath trả về đường dẫn tuyệt đối cho các path tương đối trong cấu hình (upload dir, seed file)
// tính từ thư mục chứa config/
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if envPath := getEnvPath(); envPath != "" {
		return filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(envPath))), p)
	}
	return p
}
