package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultFeedTimeout     = 20 * time.Second
	defaultPageSize        = 12
	defaultRateLimit       = 120
	defaultCartSessionTTL  = 24 * time.Hour
	defaultImageCacheDir   = "cache/images"
	defaultWhatsAppPhone   = "542954476558"
	defaultShutdownTimeout = 10 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Feed     FeedConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Sessions SessionConfig
	Database DatabaseConfig
	Images   ImageConfig
	Print    PrintConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port               string
	PublicBaseURL      string
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration
}

// FeedConfig selects where the catalog spreadsheet comes from.
// Exactly one of URL or DriveSheetID must be set.
type FeedConfig struct {
	URL             string
	Timeout         time.Duration
	DriveSheetID    string
	CredentialsFile string
}

// CatalogConfig tunes the catalog store and browsing.
type CatalogConfig struct {
	PageSize        int
	RefreshInterval time.Duration
	TaxonomyFile    string
}

// CheckoutConfig holds the WhatsApp hand-off settings.
type CheckoutConfig struct {
	WhatsAppPhone string
}

// SessionConfig controls cart sessions.
type SessionConfig struct {
	RedisURL string
	TTL      time.Duration
}

// DatabaseConfig enables the optional catalog mirror.
type DatabaseConfig struct {
	URL string
}

// ImageConfig controls the image proxy cache.
type ImageConfig struct {
	CacheDir string
	// WarmOnUpdate regenerates every cached image after each catalog load
	WarmOnUpdate bool
}

// PrintConfig configures the printable catalog.
type PrintConfig struct {
	ChromePath string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// UsesDrive reports whether the feed is read through the Drive API
func (f FeedConfig) UsesDrive() bool {
	return f.DriveSheetID != ""
}

// IsProduction reports whether ENV=production
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads the environment into a Config. Outside production a .env file in the
// working directory is loaded first and overrides the process environment.
func Load() (Config, error) {
	if !strings.EqualFold(os.Getenv("ENV"), "production") {
		_ = godotenv.Overload(defaultEnvFile)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the Config using the provided lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		if lookup == nil {
			return ""
		}
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	var errs []error
	cfg := Config{
		Env:      get("ENV"),
		LogLevel: get("LOG_LEVEL"),
	}

	cfg.Server = ServerConfig{
		Port:               strings.TrimPrefix(firstNonEmpty(get("PORT"), defaultPort), ":"),
		PublicBaseURL:      strings.TrimRight(get("PUBLIC_BASE_URL"), "/"),
		CORSAllowedOrigins: splitList(get("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMinute: parseInt(get("RATE_LIMIT_PER_MINUTE"), defaultRateLimit, "RATE_LIMIT_PER_MINUTE", &errs),
		ShutdownTimeout:    parseDuration(get("SHUTDOWN_TIMEOUT"), defaultShutdownTimeout, "SHUTDOWN_TIMEOUT", &errs),
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = "http://localhost:" + cfg.Server.Port
	}

	cfg.Feed = FeedConfig{
		URL:             get("FEED_URL"),
		Timeout:         parseDuration(get("FEED_TIMEOUT"), defaultFeedTimeout, "FEED_TIMEOUT", &errs),
		DriveSheetID:    get("DRIVE_SHEET_ID"),
		CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS"),
	}

	cfg.Catalog = CatalogConfig{
		PageSize:        parseInt(get("CATALOG_PAGE_SIZE"), defaultPageSize, "CATALOG_PAGE_SIZE", &errs),
		RefreshInterval: parseDuration(get("CATALOG_REFRESH_INTERVAL"), 0, "CATALOG_REFRESH_INTERVAL", &errs),
		TaxonomyFile:    get("TAXONOMY_FILE"),
	}

	cfg.Checkout = CheckoutConfig{
		WhatsAppPhone: firstNonEmpty(get("WHATSAPP_PHONE"), defaultWhatsAppPhone),
	}

	cfg.Sessions = SessionConfig{
		RedisURL: get("REDIS_URL"),
		TTL:      parseDuration(get("CART_SESSION_TTL"), defaultCartSessionTTL, "CART_SESSION_TTL", &errs),
	}

	cfg.Database = DatabaseConfig{URL: databaseURL(get)}
	cfg.Images = ImageConfig{
		CacheDir:     firstNonEmpty(get("IMAGE_CACHE_DIR"), defaultImageCacheDir),
		WarmOnUpdate: parseBool(get("IMAGE_WARM_ON_UPDATE"), "IMAGE_WARM_ON_UPDATE", &errs),
	}
	cfg.Print = PrintConfig{ChromePath: get("CHROME_PATH")}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch {
	case c.Feed.URL == "" && c.Feed.DriveSheetID == "":
		errs = append(errs, errors.New("FEED_URL or DRIVE_SHEET_ID must be set"))
	case c.Feed.URL != "" && c.Feed.DriveSheetID != "":
		errs = append(errs, errors.New("set only one of FEED_URL and DRIVE_SHEET_ID"))
	}
	if c.Feed.UsesDrive() && c.Feed.CredentialsFile == "" {
		errs = append(errs, errors.New("GOOGLE_APPLICATION_CREDENTIALS is required with DRIVE_SHEET_ID"))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, errors.New("CATALOG_PAGE_SIZE must be positive"))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.Catalog.RefreshInterval < 0 {
		errs = append(errs, errors.New("CATALOG_REFRESH_INTERVAL must not be negative"))
	}
	return errors.Join(errs...)
}

// databaseURL prefers DATABASE_URL, otherwise builds a DSN from DB_* variables
func databaseURL(get func(string) string) string {
	if url := get("DATABASE_URL"); url != "" {
		return url
	}
	host, user, dbname := get("DB_HOST"), get("DB_USER"), get("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, firstNonEmpty(get("DB_PORT"), "5432"), user, get("DB_PASSWORD"), dbname,
		firstNonEmpty(get("DB_SSLMODE"), "disable"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw string, def int, key string, errs *[]error) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return v
}

func parseBool(raw, key string, errs *[]error) bool {
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return false
	}
	return v
}

func parseDuration(raw string, def time.Duration, key string, errs *[]error) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}
