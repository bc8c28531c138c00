package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTExpireHours string

	// API
	APIPort     string
	FrontendURL string

	// Super Admin (seed)
	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminFullName string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Evidence storage
	EvidenceStorage string // "local" or "minio"
	UploadDir       string
	MaxUploadSize   int64

	// Upload policy
	AllowedFileExtensions []string
	BlockedFileExtensions []string

	// i18n
	DefaultLanguage    string
	SupportedLanguages []string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string
}

var cfg *Config

// Extensions accepted for evidence uploads: images, office documents,
// text and plain archives.
const defaultAllowedExtensions = ".jpg,.jpeg,.png,.gif,.webp,.svg," +
	".pdf,.doc,.docx,.xls,.xlsx,.ppt,.pptx," +
	".txt,.csv,.md," +
	".zip,.rar,.7z"

// Executable and script extensions are refused regardless of the allowlist.
const defaultBlockedExtensions = ".exe,.bat,.cmd,.com,.scr,.vbs,.js,.jar," +
	".sh,.bash,.ps1,.py,.rb,.pl,.php,.asp,.aspx," +
	".html,.htm,.xhtml,.dll,.so,.dylib"

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "auditgate"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "24"),

		// API
		APIPort:     getEnv("API_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Super Admin
		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", "admin@auditgate.com"),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", "admin123"),
		SuperAdminFullName: getEnv("SUPER_ADMIN_FULL_NAME", "Platform Admin"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Evidence storage
		EvidenceStorage: getEnv("EVIDENCE_STORAGE", "local"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 10485760), // 10MB

		// Upload policy
		AllowedFileExtensions: splitList(getEnv("ALLOWED_FILE_EXTENSIONS", defaultAllowedExtensions)),
		BlockedFileExtensions: splitList(getEnv("BLOCKED_FILE_EXTENSIONS", defaultBlockedExtensions)),

		// i18n
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "tr"),
		SupportedLanguages: splitList(getEnv("SUPPORTED_LANGUAGES", "tr,en")),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "auditgate-evidences"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// SetConfig replaces the active configuration (used by tests)
func SetConfig(c *Config) {
	cfg = c
}

// IsLanguageSupported reports whether code is one of the configured languages
func (c *Config) IsLanguageSupported(code string) bool {
	for _, l := range c.SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets environment variable as int64 with default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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

// splitList parses a comma-separated env value into a trimmed slice
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
