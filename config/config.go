package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Upload UploadConfig
	Clinic ClinicConfig
	Seed   SeedConfig
}

type AppConfig struct {
	Port       string
	Env        string
	CORSOrigin string
}

// IsDevelopment reports whether verbose logging should be enabled
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "local"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type UploadConfig struct {
	Dir          string
	URLPrefix    string
	MaxBytes     int64
	MaxDimension int
}

type ClinicConfig struct {
	DefaultAppointmentPrice decimal.Decimal
	RankingCacheTTL         time.Duration
}

// SeedConfig holds the optional first administrator created by the seed command
type SeedConfig struct {
	AdminName     string
	AdminUsername string
	AdminPassword string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("UPLOAD_DIR", "assets")
	viper.SetDefault("ASSETS_URL_PREFIX", "/assets")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("UPLOAD_MAX_DIMENSION", 512)
	viper.SetDefault("DEFAULT_APPOINTMENT_PRICE", "100.00")
	viper.SetDefault("SEED_ADMIN_NAME", "Administrador")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional, the environment alone is enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 12 * time.Hour
	}

	rankingTTL, err := time.ParseDuration(viper.GetString("RANKING_CACHE_TTL"))
	if err != nil {
		rankingTTL = 5 * time.Minute
	}

	defaultPrice, err := decimal.NewFromString(viper.GetString("DEFAULT_APPOINTMENT_PRICE"))
	if err != nil {
		return nil, errors.New("DEFAULT_APPOINTMENT_PRICE must be a decimal number")
	}

	config := &Config{
		App: AppConfig{
			Port:       viper.GetString("APP_PORT"),
			Env:        viper.GetString("APP_ENV"),
			CORSOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Upload: UploadConfig{
			Dir:          viper.GetString("UPLOAD_DIR"),
			URLPrefix:    viper.GetString("ASSETS_URL_PREFIX"),
			MaxBytes:     viper.GetInt64("UPLOAD_MAX_BYTES"),
			MaxDimension: viper.GetInt("UPLOAD_MAX_DIMENSION"),
		},
		Clinic: ClinicConfig{
			DefaultAppointmentPrice: defaultPrice,
			RankingCacheTTL:         rankingTTL,
		},
		Seed: SeedConfig{
			AdminName:     viper.GetString("SEED_ADMIN_NAME"),
			AdminUsername: viper.GetString("SEED_ADMIN_USERNAME"),
			AdminPassword: viper.GetString("SEED_ADMIN_PASSWORD"),
		},
	}

	return config, nil
}
