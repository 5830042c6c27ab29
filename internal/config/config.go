package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Estoque"`
		Port int    `envconfig:"PORT" default:"1409"`
	}

	Mongo struct {
		URI                string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database           string        `envconfig:"MONGO_DATABASE" default:"Estoque"`
		ProductsCollection string        `envconfig:"MONGO_PRODUCTS_COLLECTION" default:"Produtos"`
		InvoicesCollection string        `envconfig:"MONGO_INVOICES_COLLECTION" default:"Notas"`
		ImagesCollection   string        `envconfig:"MONGO_IMAGES_COLLECTION" default:"imagens"`
		ConnectTimeout     time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Server.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.Server.MaxUploadBytes)
	}

	return &cfg, nil
}
