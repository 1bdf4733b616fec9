package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

type Config struct {
	Server    ServerConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Challenge ChallengeConfig
	Delivery  DeliveryConfig
	Triggers  TriggerConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type ChallengeConfig struct {
	MaxAttempts     int
	SessionTTL      time.Duration
	DeliveryTimeout time.Duration
	Brand           string
	AutoProvision   bool
	DefaultRegion   string
}

const (
	DeliveryProviderSNS  = "sns"
	DeliveryProviderHTTP = "http"
	DeliveryProviderLog  = "log"
)

type DeliveryConfig struct {
	Provider    string
	SNSRegion   string
	SNSEndpoint string
	SMSType     string
	SenderID    string
	HTTPBaseURL string
	HTTPAPIKey  string
}

type TriggerConfig struct {
	SharedKey string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 35*time.Second),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "FyntrixAuth"),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:     getEnv("JWT_SECRET_KEY", ""),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Challenge: ChallengeConfig{
			MaxAttempts:     getEnvAsInt("CHALLENGE_MAX_ATTEMPTS", 3),
			SessionTTL:      getEnvAsDuration("CHALLENGE_SESSION_TTL", 3*time.Minute),
			DeliveryTimeout: getEnvAsDuration("CHALLENGE_DELIVERY_TIMEOUT", 30*time.Second),
			Brand:           getEnv("CHALLENGE_BRAND", "Fyntrix"),
			AutoProvision:   getEnvAsBool("CHALLENGE_AUTO_PROVISION", true),
			DefaultRegion:   strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "IN")),
		},
		Delivery: DeliveryConfig{
			Provider:    getEnv("DELIVERY_PROVIDER", DeliveryProviderSNS),
			SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
			SNSEndpoint: getEnv("SNS_ENDPOINT", ""),
			SMSType:     getEnv("SNS_SMS_TYPE", "Transactional"),
			SenderID:    getEnv("SNS_SENDER_ID", ""),
			HTTPBaseURL: getEnv("SMS_HTTP_BASE_URL", ""),
			HTTPAPIKey:  getEnv("SMS_HTTP_API_KEY", ""),
		},
		Triggers: TriggerConfig{
			SharedKey: getEnv("TRIGGER_SHARED_KEY", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if len(cfg.JWT.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	if cfg.Challenge.MaxAttempts < 1 {
		return nil, fmt.Errorf("CHALLENGE_MAX_ATTEMPTS must be at least 1")
	}

	if cfg.Challenge.SessionTTL <= 0 {
		return nil, fmt.Errorf("CHALLENGE_SESSION_TTL must be positive")
	}

	if cfg.Challenge.DefaultRegion != "" && phonenumbers.GetCountryCodeForRegion(cfg.Challenge.DefaultRegion) == 0 {
		return nil, fmt.Errorf("unknown PHONE_DEFAULT_REGION %q", cfg.Challenge.DefaultRegion)
	}

	switch cfg.Delivery.Provider {
	case DeliveryProviderSNS, DeliveryProviderLog:
	case DeliveryProviderHTTP:
		if cfg.Delivery.HTTPAPIKey == "" {
			return nil, fmt.Errorf("SMS_HTTP_API_KEY is required for the http delivery provider")
		}
	default:
		return nil, fmt.Errorf("unknown DELIVERY_PROVIDER %q", cfg.Delivery.Provider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
