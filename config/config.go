package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port           int      `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	DB struct {
		Driver         string `mapstructure:"driver"` // postgres или sqlite
		Host           string `mapstructure:"host"`
		Port           int    `mapstructure:"port"`
		User           string `mapstructure:"user"`
		Password       string `mapstructure:"password"`
		DBName         string `mapstructure:"name"`
		SQLitePath     string `mapstructure:"sqlite_path"`
		MigrationsPath string `mapstructure:"migrations_path"`
	} `mapstructure:"db"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
		ExpiresIn int    `mapstructure:"expires_in"` // в часах
	} `mapstructure:"jwt"`
	SMTP struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`
	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		TimeFormat string `mapstructure:"time_format"`
		Output     string `mapstructure:"output"`
	} `mapstructure:"log"`
	Scheduler struct {
		Enabled          bool          `mapstructure:"enabled"`
		OverdueAfterDays int           `mapstructure:"overdue_after_days"`
		OverdueInterval  time.Duration `mapstructure:"overdue_interval"`
		RecalcInterval   time.Duration `mapstructure:"recalc_interval"`
	} `mapstructure:"scheduler"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`
	PIX struct {
		Key          string `mapstructure:"key"`
		MerchantName string `mapstructure:"merchant_name"`
		MerchantCity string `mapstructure:"merchant_city"`
	} `mapstructure:"pix"`
}

// NewConfig создает новый экземпляр конфигурации.
// Значения берутся из файла (CLINIC_CONFIG или ./config.yaml) и переменных окружения с префиксом CLINIC_.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults задает значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("config", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "clinic_db")
	v.SetDefault("db.sqlite_path", "clinic.db")
	v.SetDefault("db.migrations_path", "migrations")

	v.SetDefault("jwt.secret_key", "your-secret-key-here")
	v.SetDefault("jwt.expires_in", 24)

	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "no-reply@clinic.local")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.output", "stdout")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.overdue_after_days", 30)
	v.SetDefault("scheduler.overdue_interval", time.Hour)
	v.SetDefault("scheduler.recalc_interval", 8*time.Hour)

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("pix.key", "")
	v.SetDefault("pix.merchant_name", "CLINICA")
	v.SetDefault("pix.merchant_city", "SAO PAULO")
}

// validate проверяет согласованность конфигурации
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("неверный порт сервера: %d", c.Server.Port)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %q", c.DB.Driver)
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("неверное время жизни JWT: %d", c.JWT.ExpiresIn)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("неверные параметры ограничения запросов")
	}
	return nil
}

// JWTExpiration возвращает время жизни токена
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Hour
}
