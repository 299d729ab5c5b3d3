package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
		Debug  bool   `yaml:"debug"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type     string `yaml:"type"`      // local | r2
		BasePath string `yaml:"base_path"` // корень для local
		BaseURL  string `yaml:"base_url"`  // публичный префикс

		Endpoint  string `yaml:"endpoint"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"storage"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Currency struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		CacheTTL int    `yaml:"cache_ttl"` // секунды, 0 = без кеша
		Timeout  int    `yaml:"timeout"`   // секунды
	} `yaml:"currency"`

	Broker struct {
		Type       string `yaml:"type"` // memory, redis
		BufferSize int    `yaml:"buffer_size"`
	} `yaml:"broker"`

	Workers struct {
		StatusInterval string `yaml:"status_interval"` // "1h"; "0" выключает
	} `yaml:"workers"`
}

var AppConfig *Config

// Load читает конфигурацию.
// Если задан DATABASE_URL, конфиг собирается из переменных окружения (тесты, docker),
// иначе из YAML по пути CONFIG_PATH (по умолчанию config/config.yaml).
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	} else {
		fromEnv(&cfg)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func fromEnv(cfg *Config) {
	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL, _ = strconv.Atoi(os.Getenv("JWT_TTL"))

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Broker.Type = os.Getenv("BROKER_TYPE")

	cfg.Currency.BaseURL = os.Getenv("CURRENCY_API_URL")
	cfg.Currency.APIKey = os.Getenv("CURRENCY_API_KEY")

	cfg.Email.Enabled = os.Getenv("SMTP_HOST") != ""
	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.Storage.Type = os.Getenv("STORAGE_TYPE")
	cfg.Storage.BasePath = os.Getenv("STORAGE_PATH")
	cfg.Storage.Endpoint = os.Getenv("R2_ENDPOINT")
	cfg.Storage.Bucket = os.Getenv("R2_BUCKET")
	cfg.Storage.AccessKey = os.Getenv("R2_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("R2_SECRET_KEY")
	cfg.Workers.StatusInterval = os.Getenv("STATUS_INTERVAL")
}

func (c *Config) applyDefaults() {
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 60 * 24
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = "./uploads"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = "/api/v1/files"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Broker.Type == "" {
		c.Broker.Type = "memory"
	}
	if c.Broker.BufferSize == 0 {
		c.Broker.BufferSize = 64
	}
	if c.Currency.BaseURL == "" {
		c.Currency.BaseURL = "https://v6.exchangerate-api.com/v6"
	}
	if c.Currency.Timeout == 0 {
		c.Currency.Timeout = 10
	}
	if c.Workers.StatusInterval == "" {
		c.Workers.StatusInterval = "1h"
	}
}

// StatusInterval: период StatusWorker, 0 означает "выключен"
func (c *Config) StatusInterval() (time.Duration, error) {
	if c.Workers.StatusInterval == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Workers.StatusInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid workers.status_interval %q: %w", c.Workers.StatusInterval, err)
	}
	return d, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// LoadConfig загружает конфиг в AppConfig и завершает процесс при ошибке
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
