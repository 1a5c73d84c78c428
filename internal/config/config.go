package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type ReportsConfig struct {
	Timezone         string
	Location         *time.Location
	MaxRangeDays     int
	FetchTimeout     time.Duration
	TopVehiclesLimit int
	RiskHorizonDays  int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Reports     ReportsConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7091)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("REPORTS_TIMEZONE", "UTC")
	v.SetDefault("REPORTS_MAX_RANGE_DAYS", 365)
	v.SetDefault("REPORTS_FETCH_TIMEOUT", "15s")
	v.SetDefault("REPORTS_TOP_VEHICLES_LIMIT", 5)
	v.SetDefault("REPORTS_RISK_HORIZON_DAYS", 30)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Reports: ReportsConfig{
			Timezone:         strings.TrimSpace(v.GetString("REPORTS_TIMEZONE")),
			MaxRangeDays:     v.GetInt("REPORTS_MAX_RANGE_DAYS"),
			FetchTimeout:     v.GetDuration("REPORTS_FETCH_TIMEOUT"),
			TopVehiclesLimit: v.GetInt("REPORTS_TOP_VEHICLES_LIMIT"),
			RiskHorizonDays:  v.GetInt("REPORTS_RISK_HORIZON_DAYS"),
		},
	}

	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Reports.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTS_TIMEZONE %q: %w", cfg.Reports.Timezone, err)
	}
	cfg.Reports.Location = loc
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Reports.MaxRangeDays <= 0 {
		return fmt.Errorf("REPORTS_MAX_RANGE_DAYS must be positive")
	}
	if cfg.Reports.FetchTimeout <= 0 {
		return fmt.Errorf("REPORTS_FETCH_TIMEOUT must be positive")
	}
	if cfg.Reports.TopVehiclesLimit <= 0 {
		return fmt.Errorf("REPORTS_TOP_VEHICLES_LIMIT must be positive")
	}
	if cfg.Reports.RiskHorizonDays <= 0 {
		return fmt.Errorf("REPORTS_RISK_HORIZON_DAYS must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
