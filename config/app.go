package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName          string
	Port             string
	Env              string
	Debug            bool
	APIBaseURL       string
	APITimeout       time.Duration
	PerPage          int
	FallbackPerPage  int
	FallbackMaxPages int
	CartMaxPerItem   int
	WhatsAppNumber   string
	ClickDebounce    time.Duration
	ScrollThreshold  int
	SQLitePath       string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName:          os.Getenv("APP_NAME"),
			Port:             os.Getenv("PORT"),
			Env:              os.Getenv("APP_ENV"),
			Debug:            os.Getenv("DEBUG") == "true",
			APIBaseURL:       envOr("API_BASE_URL", "https://admin.ismatindia.com:7000"),
			APITimeout:       envDuration("API_TIMEOUT", 15*time.Second),
			PerPage:          envInt("PER_PAGE", 12),
			FallbackPerPage:  50,
			FallbackMaxPages: 5,
			CartMaxPerItem:   envInt("CART_MAX_PER_ITEM", 10),
			WhatsAppNumber:   envOr("WHATSAPP_NUMBER", "917738096075"),
			ClickDebounce:    envDuration("CLICK_DEBOUNCE", 500*time.Millisecond),
			ScrollThreshold:  envInt("SCROLL_THRESHOLD", 200),
			SQLitePath:       envOr("SQLITE_PATH", "storefront.db"),
		}
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
