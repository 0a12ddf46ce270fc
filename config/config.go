package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// PublicBaseURL is the externally reachable base URL; Twilio signs
	// webhooks over the absolute callback URL, so this must match what the
	// provider was configured with.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// Redis configuration (webhook dedup cache).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDedupDB  int    `mapstructure:"REDIS_DEDUP_DB"`

	// Dispatch worker.
	WorkerPollIntervalSeconds int    `mapstructure:"WORKER_POLL_INTERVAL_SECONDS"`
	WorkerBatchSize           int    `mapstructure:"WORKER_BATCH_SIZE"`
	CallProvider              string `mapstructure:"CALL_PROVIDER"`

	// Twilio credentials.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	// Vapi (voice AI) credentials.
	VapiBaseURL       string `mapstructure:"VAPI_BASE_URL"`
	VapiAPIKey        string `mapstructure:"VAPI_API_KEY"`
	VapiWebhookSecret string `mapstructure:"VAPI_WEBHOOK_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "remindcall")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DEDUP_DB", 0)
	viper.SetDefault("WORKER_POLL_INTERVAL_SECONDS", 60)
	viper.SetDefault("WORKER_BATCH_SIZE", 50)
	viper.SetDefault("CALL_PROVIDER", "twilio")
	viper.SetDefault("VAPI_BASE_URL", "https://api.vapi.ai")
	viper.SetDefault("VAPI_WEBHOOK_SECRET", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
