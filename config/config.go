package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port          string
	Env           string
	AllowedOrigin string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig carries the scheduling policy knobs.
type BookingConfig struct {
	// MaxHorizonDays caps how far ahead slots may be generated or queried.
	MaxHorizonDays int
	// CancelLeadTime is the minimum time before an appointment after which
	// cancellation is refused.
	CancelLeadTime time.Duration
	// TxTimeout bounds the booking transaction.
	TxTimeout time.Duration
	// AvailabilityCacheTTL is how long cached availability responses live.
	AvailabilityCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	maxHorizonDays := viper.GetInt("BOOKING_MAX_HORIZON_DAYS")
	if maxHorizonDays <= 0 {
		maxHorizonDays = 92
	}

	cancelLeadTime, err := time.ParseDuration(viper.GetString("BOOKING_CANCEL_LEAD_TIME"))
	if err != nil {
		cancelLeadTime = 24 * time.Hour
	}

	txTimeout, err := time.ParseDuration(viper.GetString("BOOKING_TX_TIMEOUT"))
	if err != nil {
		txTimeout = 5 * time.Second
	}

	availabilityCacheTTL, err := time.ParseDuration(viper.GetString("BOOKING_AVAILABILITY_CACHE_TTL"))
	if err != nil {
		availabilityCacheTTL = 30 * time.Second
	}

	allowedOrigin := viper.GetString("APP_ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}

	config := &Config{
		App: AppConfig{
			Port:          viper.GetString("APP_PORT"),
			Env:           viper.GetString("APP_ENV"),
			AllowedOrigin: allowedOrigin,
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: BookingConfig{
			MaxHorizonDays:       maxHorizonDays,
			CancelLeadTime:       cancelLeadTime,
			TxTimeout:            txTimeout,
			AvailabilityCacheTTL: availabilityCacheTTL,
		},
	}

	return config, nil
}
