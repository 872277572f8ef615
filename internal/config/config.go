package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Picker   PickerConfig   `json:"picker"`
	Audit    AuditConfig    `json:"audit"`
	Cache    CacheConfig    `json:"cache"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type PickerConfig struct {
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

type AuditConfig struct {
	Directory string `json:"directory"`
}

type CacheConfig struct {
	ProductTTLSeconds int `json:"product_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	if config.Picker.PollIntervalSeconds <= 0 {
		config.Picker.PollIntervalSeconds = 2
	}
	if config.Cache.ProductTTLSeconds <= 0 {
		config.Cache.ProductTTLSeconds = 60
	}
	if config.Audit.Directory == "" {
		config.Audit.Directory = "order-info"
	}
	if config.Database.MigrationsPath == "" {
		config.Database.MigrationsPath = "migrations"
	}

	return &config, nil
}

func (c *PickerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *CacheConfig) ProductTTL() time.Duration {
	return time.Duration(c.ProductTTLSeconds) * time.Second
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
