package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"levelup/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL          string
	ListenAddr      string
	RefreshInterval time.Duration
	NotificationTTL time.Duration
	HTTPTimeout     time.Duration
	RedisURL        string
	Profile         string
	Env             string
	Debug           bool
}

const (
	DefaultAPIURL          = "http://localhost:5000"
	DefaultListenAddr      = ":8090"
	DefaultRefreshInterval = 60 * time.Second
	DefaultNotificationTTL = 5 * time.Second
	DefaultHTTPTimeout     = 15 * time.Second
	DefaultProfile         = "default"
)

// LoadEnvFile loads a .env file. A missing default file is not an error;
// an explicitly named one is.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error loading .env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	return Config{
		APIURL:          utils.GetEnvAsString("LEVELUP_API_URL", DefaultAPIURL),
		ListenAddr:      utils.GetEnvAsString("LEVELUP_LISTEN_ADDR", DefaultListenAddr),
		RefreshInterval: utils.GetEnvAsDuration("LEVELUP_REFRESH_INTERVAL", DefaultRefreshInterval),
		NotificationTTL: utils.GetEnvAsDuration("LEVELUP_NOTIFICATION_TTL", DefaultNotificationTTL),
		HTTPTimeout:     utils.GetEnvAsDuration("LEVELUP_HTTP_TIMEOUT", DefaultHTTPTimeout),
		RedisURL:        utils.GetEnvAsString("LEVELUP_REDIS_URL", ""),
		Profile:         utils.GetEnvAsString("LEVELUP_PROFILE", DefaultProfile),
		Env:             utils.GetEnvAsString("GO_ENV", "production"),
		Debug:           utils.GetEnvAsBool("LEVELUP_DEBUG", false),
	}
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid LEVELUP_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("LEVELUP_API_URL must be http or https, got %q", c.APIURL)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LEVELUP_LISTEN_ADDR is empty")
	}
	return nil
}
