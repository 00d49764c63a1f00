package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type LogConfig struct {
	Level       string
	Development bool
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	GoogleAPI GoogleAPIConfig
	SMTP      SMTPConfig
	Log       LogConfig
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env (if present) and the environment into the process-wide
// config. Safe to call more than once; only the first call loads.
func Load() (*Config, error) {
	var loadErr error
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		v.SetDefault("SERVER_HOST", "0.0.0.0")
		v.SetDefault("SERVER_PORT", 7070)
		v.SetDefault("SERVER_BASE_URL", "")
		v.SetDefault("DB_HOST", "localhost")
		v.SetDefault("DB_PORT", 5432)
		v.SetDefault("DB_USER", "postgres")
		v.SetDefault("DB_PASSWORD", "")
		v.SetDefault("DB_NAME", "bookwise")
		v.SetDefault("DB_SSLMODE", "disable")
		v.SetDefault("REDIS_ADDR", "localhost:6379")
		v.SetDefault("REDIS_PASSWORD", "")
		v.SetDefault("REDIS_DB", 0)
		v.SetDefault("SMTP_PORT", 587)
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_DEVELOPMENT", false)

		c := &Config{
			Server: ServerConfig{
				Host:    v.GetString("SERVER_HOST"),
				Port:    v.GetInt("SERVER_PORT"),
				BaseURL: v.GetString("SERVER_BASE_URL"),
			},
			Database: DatabaseConfig{
				Host:     v.GetString("DB_HOST"),
				Port:     v.GetInt("DB_PORT"),
				User:     v.GetString("DB_USER"),
				Password: v.GetString("DB_PASSWORD"),
				DBName:   v.GetString("DB_NAME"),
				SSLMode:  v.GetString("DB_SSLMODE"),
			},
			Redis: RedisConfig{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			GoogleAPI: GoogleAPIConfig{
				ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
				ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			},
			SMTP: SMTPConfig{
				Host:     v.GetString("SMTP_HOST"),
				Port:     v.GetInt("SMTP_PORT"),
				Username: v.GetString("SMTP_USERNAME"),
				Password: v.GetString("SMTP_PASSWORD"),
				From:     v.GetString("SMTP_FROM"),
			},
			Log: LogConfig{
				Level:       v.GetString("LOG_LEVEL"),
				Development: v.GetBool("LOG_DEVELOPMENT"),
			},
		}

		if c.Server.BaseURL == "" {
			c.Server.BaseURL = fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
		}

		cfg = c
	})
	return cfg, loadErr
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	if cfg == nil {
		panic("config: Get called before Load")
	}
	return cfg
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	return cfg, cfg != nil
}
