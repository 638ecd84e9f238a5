package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// GatewayConfig holds the iNPAY Checkout module options. SystemURL is the
// host billing system's public base URL, resolved once at startup and passed
// down — there is no hidden request-time URL detection.
type GatewayConfig struct {
	SecretKey       string
	PublicKey       string
	APIBase         string
	GatewayLogs     bool
	WebhookURL      string // public callback endpoint; registered with the processor and used as the per-session return URL
	ConvertTo       string // settlement currency code, empty = no conversion
	SystemURL       string
	ReplayTolerance time.Duration
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("INPAY_API_BASE", "https://api.inpaycheckout.com")
	viper.SetDefault("GATEWAY_LOGS", false)
	viper.SetDefault("REPLAY_TOLERANCE", "5m")

	tolerance, err := time.ParseDuration(viper.GetString("REPLAY_TOLERANCE"))
	if err != nil {
		tolerance = 5 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Gateway: GatewayConfig{
			SecretKey:       viper.GetString("INPAY_SECRET_KEY"),
			PublicKey:       viper.GetString("INPAY_PUBLIC_KEY"),
			APIBase:         viper.GetString("INPAY_API_BASE"),
			GatewayLogs:     viper.GetBool("GATEWAY_LOGS"),
			WebhookURL:      viper.GetString("WEBHOOK_URL"),
			ConvertTo:       viper.GetString("CONVERT_TO"),
			SystemURL:       viper.GetString("SYSTEM_URL"),
			ReplayTolerance: tolerance,
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Gateway.SecretKey == "" {
		log.Println("WARNING: INPAY_SECRET_KEY is not set")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
