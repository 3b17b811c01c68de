package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	// engine defaults, overridable per request
	HeaderRow int // 1-based; POS exports put a title block above the header

	CatalogFile string // YAML department taxonomy; empty = built-in default
	ColumnsFile string // YAML column alias lists; empty = built-in default
	DatabaseURL string // empty disables the persistence collaborator
}

func Load() Config {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	headerRow, _ := strconv.Atoi(getenv("HEADER_ROW", "6"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/incentive-service.log"),
		MaxUploadMB:  mb,
		HeaderRow:    headerRow,
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		ColumnsFile:  os.Getenv("COLUMNS_FILE"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
