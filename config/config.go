package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	// Extraction limits
	MaxListingsPerSource int
	MinTitleLength       int

	// Price sanity band (target currency). Converted prices outside the
	// band are treated as extraction errors and dropped.
	MinSanePrice float64
	MaxSanePrice float64

	// Sell-side sanity band for marketplace reference prices.
	MinSellPrice float64
	MaxSellPrice float64

	// Bulk run shape
	MaxCardsPerURL   int
	PartialSaveEvery int
	PostgresEnabled  bool

	// Profitability thresholds
	MinMarginPercent  float64
	MinROIPercent     float64
	MinReturnMultiple float64

	// Grading cost structure (GBP)
	AceGradingCost float64
	PsaGradingCost float64
	ShippingCost   float64

	// Exchange rates
	FallbackJPYUSD float64
	FallbackEURGBP float64
	FallbackUSDGBP float64

	PricingAPIHost string
	PricingAPIKey  string

	InputCSVPath string
	OutputDir    string
	ProgressLog  string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "card_arbitrage"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		MaxListingsPerSource: getEnvInt("MAX_LISTINGS_PER_SOURCE", 50),
		MinTitleLength:       getEnvInt("MIN_TITLE_LENGTH", 15),

		MinSanePrice: getEnvFloat("MIN_SANE_PRICE", 0.67),
		MaxSanePrice: getEnvFloat("MAX_SANE_PRICE", 335),

		MinSellPrice: getEnvFloat("MIN_SELL_PRICE", 1),
		MaxSellPrice: getEnvFloat("MAX_SELL_PRICE", 1000),

		MaxCardsPerURL:   getEnvInt("MAX_CARDS_PER_URL", 2),
		PartialSaveEvery: getEnvInt("PARTIAL_SAVE_EVERY", 5),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		MinMarginPercent:  getEnvFloat("MIN_MARGIN_PERCENT", 20),
		MinROIPercent:     getEnvFloat("MIN_ROI_PERCENT", 100),
		MinReturnMultiple: getEnvFloat("MIN_RETURN_MULTIPLE", 3.0),

		AceGradingCost: getEnvFloat("ACE_GRADING_COST", 25),
		PsaGradingCost: getEnvFloat("PSA_GRADING_COST", 20),
		ShippingCost:   getEnvFloat("SHIPPING_COST", 8),

		FallbackJPYUSD: getEnvFloat("FALLBACK_JPY_USD", 0.0067),
		FallbackEURGBP: getEnvFloat("FALLBACK_EUR_GBP", 0.8547),
		FallbackUSDGBP: getEnvFloat("FALLBACK_USD_GBP", 0.7874),

		PricingAPIHost: getEnv("PRICING_API_HOST", "pokemon-tcg-api.p.rapidapi.com"),
		PricingAPIKey:  getEnv("PRICING_API_KEY", ""),

		InputCSVPath: getEnv("INPUT_CSV_PATH", "./input.csv"),
		OutputDir:    getEnv("OUTPUT_DIR", "./output"),
		ProgressLog:  getEnv("PROGRESS_LOG", "./output/progress.log"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[config] Invalid int for %s: %q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("[config] Invalid bool for %s: %q, using default %t", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[config] Invalid float for %s: %q, using default %.4f", key, v, fallback)
	}
	return fallback
}
