package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMySQL    = "mysql"
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	PostStore string `env:"POST_STORE" envDefault:"mysql"`
	DBDSN     string `env:"DB_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string `env:"JWT_SECRET,required"`

	Provider         string        `env:"GENERATION_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiURL        string        `env:"GEMINI_API_URL"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIModel      string        `env:"OPENAI_MODEL"`
	OpenAIImageModel string        `env:"OPENAI_IMAGE_MODEL"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`

	DynamoTable      string `env:"DYNAMODB_TABLE" envDefault:"posts"`
	DynamoOwnerIndex string `env:"DYNAMODB_OWNER_INDEX" envDefault:"owner_id-index"`
	AWSEndpoint      string `env:"AWS_ENDPOINT"`

	PublishBatchSize int           `env:"PUBLISH_BATCH_SIZE" envDefault:"100"`
	PublishInterval  time.Duration `env:"PUBLISH_INTERVAL" envDefault:"1s"`
}

// Load بارگذاری .env و خواندن تنظیمات از متغیرهای محیطی
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && Logger != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.PostStore {
	case StoreMySQL:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is not set")
		}
	case StoreDynamoDB:
		if c.DynamoTable == "" {
			return errors.New("DYNAMODB_TABLE is not set")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown POST_STORE %q", c.PostStore)
	}

	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is not set")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unknown GENERATION_PROVIDER %q", c.Provider)
	}

	if c.PublishBatchSize <= 0 {
		c.PublishBatchSize = 100
	}
	return nil
}
