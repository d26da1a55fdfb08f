package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// LogConfig chứa cấu hình cho hệ thống logging, đọc từ biến môi trường
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`  // trace, debug, info, warn, error
	Format string `env:"LOG_FORMAT" envDefault:"text"` // json, text
	Output string `env:"LOG_OUTPUT" envDefault:"both"` // file, stdout, both

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // ngày
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Bộ lọc, dạng "a,b,c" hoặc "*" (rỗng = cho phép tất cả)
	FilterModules     string `env:"LOG_FILTER_MODULES"`
	FilterCollections string `env:"LOG_FILTER_COLLECTIONS"`
	FilterEndpoints   string `env:"LOG_FILTER_ENDPOINTS"`
	FilterMethods     string `env:"LOG_FILTER_METHODS"`
	FilterLogTypes    string `env:"LOG_FILTER_LOG_TYPES"`

	BufferSize int `env:"LOG_BUFFER_SIZE" envDefault:"1000"`
}

// DefaultConfig trả về cấu hình mặc định, có override từ biến môi trường.
// Môi trường khác development mặc định ghi log dạng json.
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		cfg = &LogConfig{
			Level: "info", Format: "text", Output: "both",
			MaxSize: 100, MaxBackups: 7, MaxAge: 7, Compress: true,
			LogPath: "./logs", AppFile: "app.log", AuditFile: "audit.log", ErrorFile: "error.log",
			BufferSize: 1000,
		}
	}

	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		if os.Getenv("LOG_LEVEL") == "" {
			cfg.Level = "debug"
		}
	} else if os.Getenv("LOG_FORMAT") == "" {
		cfg.Format = "json"
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}
