package environments

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Twilio   TwilioConfig
	Dispatch DispatchConfig
	Message  MessageConfig
	Alert    AlertConfig
	Auth     AuthConfig
	Events   EventsConfig
	Debug    bool
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// FromNumbers is the allowed sender pool. When empty, the pool is
	// discovered from the provider at startup.
	FromNumbers []string
	BaseURL     string
	Timeout     time.Duration
}

type DispatchConfig struct {
	// ExternalBaseURL is the public base URL of the platform's file server,
	// used to resolve local media references. Stored without a trailing slash.
	ExternalBaseURL string
	SendTimeout     time.Duration
	MaxConcurrency  int
}

type MessageConfig struct {
	BatchSize     int
	SendInterval  time.Duration
	MaxBodyLength int
}

type AlertConfig struct {
	WebhookURL     string
	IterationCount int
}

type AuthConfig struct {
	MessagesAPIKey  string
	SchedulerAPIKey string
}

type EventsConfig struct {
	URL      string
	Exchange string
}

func Load() *Config {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_USER", "gateway")
	viper.SetDefault("DB_PASSWORD", "gateway123")
	viper.SetDefault("DB_NAME", "twilio_dispatch")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_FROM_NUMBERS", "")
	viper.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com")
	viper.SetDefault("TWILIO_TIMEOUT_SECONDS", 30)

	viper.SetDefault("EXTERNAL_BASE_URL", "")
	viper.SetDefault("DISPATCH_SEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("DISPATCH_MAX_CONCURRENCY", 4)

	viper.SetDefault("MESSAGE_BATCH_SIZE", 10)
	viper.SetDefault("MESSAGE_SEND_INTERVAL_MINUTES", 2)
	viper.SetDefault("MESSAGE_MAX_BODY_LENGTH", 1600)

	viper.SetDefault("ALERT_WEBHOOK_URL", "")
	viper.SetDefault("ALERT_ITERATION_COUNT", 0)

	viper.SetDefault("MESSAGES_API_KEY", "")
	viper.SetDefault("SCHEDULER_API_KEY", "")

	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "notifications")

	viper.SetDefault("DEBUG", false)

	viper.AutomaticEnv()

	// Read .env if present; real environment variables still win.
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Twilio: TwilioConfig{
			AccountSID:  viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:   viper.GetString("TWILIO_AUTH_TOKEN"),
			FromNumbers: SplitList(viper.GetString("TWILIO_FROM_NUMBERS")),
			BaseURL:     viper.GetString("TWILIO_BASE_URL"),
			Timeout:     time.Duration(viper.GetInt("TWILIO_TIMEOUT_SECONDS")) * time.Second,
		},
		Dispatch: DispatchConfig{
			ExternalBaseURL: strings.TrimRight(viper.GetString("EXTERNAL_BASE_URL"), "/"),
			SendTimeout:     time.Duration(viper.GetInt("DISPATCH_SEND_TIMEOUT_SECONDS")) * time.Second,
			MaxConcurrency:  viper.GetInt("DISPATCH_MAX_CONCURRENCY"),
		},
		Message: MessageConfig{
			BatchSize:     viper.GetInt("MESSAGE_BATCH_SIZE"),
			SendInterval:  time.Duration(viper.GetInt("MESSAGE_SEND_INTERVAL_MINUTES")) * time.Minute,
			MaxBodyLength: viper.GetInt("MESSAGE_MAX_BODY_LENGTH"),
		},
		Alert: AlertConfig{
			WebhookURL:     viper.GetString("ALERT_WEBHOOK_URL"),
			IterationCount: viper.GetInt("ALERT_ITERATION_COUNT"),
		},
		Auth: AuthConfig{
			MessagesAPIKey:  viper.GetString("MESSAGES_API_KEY"),
			SchedulerAPIKey: viper.GetString("SCHEDULER_API_KEY"),
		},
		Events: EventsConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Debug: viper.GetBool("DEBUG"),
	}
}

// SplitList parses a comma-separated env value into a trimmed string slice.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
