package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Client struct {
		Env     string `yaml:"env" validate:"omitempty,oneof=development production"`
		APIBase string `yaml:"api_base" validate:"required,url"`
		WSBase  string `yaml:"ws_base" validate:"required"`
	} `yaml:"client"`

	Realtime struct {
		KeepaliveSeconds int    `yaml:"keepalive_seconds"` // интервал ping для сокета уведомлений
		RetryPolicy      string `yaml:"retry_policy" validate:"omitempty,oneof=none fixed backoff"`
		RetryDelayMS     int    `yaml:"retry_delay_ms"`
		RetryMaxAttempts int    `yaml:"retry_max_attempts"`
	} `yaml:"realtime"`

	Storage struct {
		AuthStatePath string `yaml:"auth_state_path"` // файл с {user, isAuthenticated}
		CacheDBPath   string `yaml:"cache_db_path"`   // sqlite оффлайн-кэш
	} `yaml:"storage"`
}

// KeepaliveInterval возвращает интервал keepalive как Duration
func (c *Config) KeepaliveInterval() time.Duration {
	if c.Realtime.KeepaliveSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(c.Realtime.KeepaliveSeconds) * time.Second
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	apiBase := os.Getenv("API_BASE")
	wsBase := os.Getenv("WS_BASE")
	clientEnv := os.Getenv("CLIENT_ENV")

	if apiBase == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Загрузка из переменных окружения (режим теста)
	cfg.Client.APIBase = apiBase
	cfg.Client.WSBase = wsBase
	cfg.Client.Env = clientEnv
	if cfg.Client.Env == "" {
		cfg.Client.Env = "development"
	}

	if s := os.Getenv("KEEPALIVE_SECONDS"); s != "" {
		cfg.Realtime.KeepaliveSeconds, _ = strconv.Atoi(s)
	}
	cfg.Realtime.RetryPolicy = os.Getenv("RETRY_POLICY")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Client.Env == "" {
		cfg.Client.Env = "production"
	}
	if cfg.Realtime.KeepaliveSeconds == 0 {
		cfg.Realtime.KeepaliveSeconds = 25
	}
	if cfg.Realtime.RetryPolicy == "" {
		// наблюдаемое поведение источника: упавшее соединение не переподключается
		cfg.Realtime.RetryPolicy = "none"
	}
	if cfg.Realtime.RetryDelayMS == 0 {
		cfg.Realtime.RetryDelayMS = 2000
	}
	if cfg.Realtime.RetryMaxAttempts == 0 {
		cfg.Realtime.RetryMaxAttempts = 5
	}
	if cfg.Storage.AuthStatePath == "" {
		cfg.Storage.AuthStatePath = "auth-storage.json"
	}
	if cfg.Storage.CacheDBPath == "" {
		cfg.Storage.CacheDBPath = "jobportal-cache.db"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
