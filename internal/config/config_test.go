package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/estoque/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1409, cfg.App.Port)
	assert.Equal(t, ":1409", cfg.Addr())
	assert.Equal(t, "Estoque", cfg.Mongo.Database)
	assert.Equal(t, "Produtos", cfg.Mongo.ProductsCollection)
	assert.Equal(t, "Notas", cfg.Mongo.InvoicesCollection)
	assert.Equal(t, "imagens", cfg.Mongo.ImagesCollection)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://estoque.example.com")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, []string{"http://localhost:3000", "https://estoque.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
