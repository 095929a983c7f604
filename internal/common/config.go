package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Lexicon  LexiconConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN          string
	DialTimeout  time.Duration
	QueryTimeout time.Duration
}

// ImportConfig holds the tunables of the extraction pipeline. The defaults
// are the documented contract; they are configuration, not learned values.
type ImportConfig struct {
	// MaxDocumentBytes is the hard size ceiling; oversized documents fail
	// fast before any strategy executes.
	MaxDocumentBytes int64
	// DetectionThreshold is the minimum fingerprint score for a vendor
	// match; below it the generic fallback strategy is used.
	DetectionThreshold float64
	// LowConfidenceFloor: candidates at or below the floor default to
	// unselected ("needs manual review"). A candidate with neither a
	// resolved numeric nor a qualitative value never scores above it.
	LowConfidenceFloor float64
	// DedupRelTolerance is the relative tolerance when comparing numeric
	// values of intra-batch duplicates (absorbs rounding).
	DedupRelTolerance float64
	// DedupWindowDays is the +/- window around the collection date when
	// querying storage for existing results.
	DedupWindowDays int
	// MaxNameEditDistance bounds the fuzzy lexicon lookup.
	MaxNameEditDistance int

	// Confidence weights. They sum to 1; see score.DefaultWeights.
	WeightStrategy     float64
	WeightCompleteness float64
	WeightName         float64
	WeightValue        float64
}

// LexiconConfig holds lexicon and fingerprint file locations.
type LexiconConfig struct {
	Path             string // JSON lexicon file; empty means built-in entries
	FingerprintsPath string // YAML vendor fingerprints; empty means built-ins
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:          getEnv("DB_URL", "file:labvault.db?_pragma=busy_timeout(5000)"),
			DialTimeout:  getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Import: ImportConfig{
			MaxDocumentBytes:    getEnvAsInt64("IMPORT_MAX_BYTES", 20<<20),
			DetectionThreshold:  getEnvAsFloat("DETECTION_THRESHOLD", 0.40),
			LowConfidenceFloor:  getEnvAsFloat("CONFIDENCE_FLOOR", 0.40),
			DedupRelTolerance:   getEnvAsFloat("DEDUP_REL_TOLERANCE", 0.01),
			DedupWindowDays:     getEnvAsInt("DEDUP_WINDOW_DAYS", 1),
			MaxNameEditDistance: getEnvAsInt("LEXICON_MAX_DISTANCE", 2),
			WeightStrategy:      getEnvAsFloat("WEIGHT_STRATEGY", 0.25),
			WeightCompleteness:  getEnvAsFloat("WEIGHT_COMPLETENESS", 0.30),
			WeightName:          getEnvAsFloat("WEIGHT_NAME", 0.25),
			WeightValue:         getEnvAsFloat("WEIGHT_VALUE", 0.20),
		},
		Lexicon: LexiconConfig{
			Path:             getEnv("LEXICON_PATH", ""),
			FingerprintsPath: getEnv("FINGERPRINTS_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Import.MaxDocumentBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "IMPORT_MAX_BYTES must be positive", ErrInvalidInput)
	}
	if c.Import.LowConfidenceFloor < 0 || c.Import.LowConfidenceFloor > 1 {
		return NewAppError("CONFIG_ERROR", "CONFIDENCE_FLOOR must be in [0,1]", ErrInvalidInput)
	}
	if c.Import.DetectionThreshold < 0 || c.Import.DetectionThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "DETECTION_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	return nil
}
