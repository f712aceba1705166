package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"FEED_URL": "https://docs.google.com/spreadsheets/d/e/x/pub?output=csv",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicBaseURL)
	assert.Equal(t, 20*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Zero(t, cfg.Catalog.RefreshInterval)
	assert.Equal(t, "542954476558", cfg.Checkout.WhatsAppPhone)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Feed.UsesDrive())
	assert.Equal(t, "cache/images", cfg.Images.CacheDir)
	assert.False(t, cfg.Images.WarmOnUpdate)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":                           ":9000",
		"PUBLIC_BASE_URL":                "https://tienda.example.com/",
		"DRIVE_SHEET_ID":                 "sheet-1",
		"GOOGLE_APPLICATION_CREDENTIALS": "/secrets/sa.json",
		"CATALOG_PAGE_SIZE":              "24",
		"CATALOG_REFRESH_INTERVAL":       "5m",
		"CORS_ALLOWED_ORIGINS":           "https://a.example.com, https://b.example.com ,",
		"DB_HOST":                        "db",
		"DB_USER":                        "tienda",
		"DB_NAME":                        "catalogo",
		"ENV":                            "production",
		"IMAGE_WARM_ON_UPDATE":           "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "https://tienda.example.com", cfg.Server.PublicBaseURL)
	assert.True(t, cfg.Feed.UsesDrive())
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "host=db port=5432 user=tienda password= dbname=catalogo sslmode=disable", cfg.Database.URL)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Images.WarmOnUpdate)
}

func TestFromLookupValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "no feed", values: map[string]string{}},
		{name: "two feeds", values: map[string]string{"FEED_URL": "https://x", "DRIVE_SHEET_ID": "s", "GOOGLE_APPLICATION_CREDENTIALS": "c"}},
		{name: "drive without credentials", values: map[string]string{"DRIVE_SHEET_ID": "s"}},
		{name: "bad page size", values: map[string]string{"FEED_URL": "https://x", "CATALOG_PAGE_SIZE": "0"}},
		{name: "bad duration", values: map[string]string{"FEED_URL": "https://x", "FEED_TIMEOUT": "soon"}},
		{name: "bad boolean", values: map[string]string{"FEED_URL": "https://x", "IMAGE_WARM_ON_UPDATE": "maybe"}},
		{name: "bad integer", values: map[string]string{"FEED_URL": "https://x", "RATE_LIMIT_PER_MINUTE": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.values))
			assert.Error(t, err)
		})
	}
}
