package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type Mail struct {
	Server   string
	Port     int
	Username string
	Password string
	UseTLS   bool
	Sender   string
	Admins   []string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Config struct {
	ServerPort    int
	BaseURL       string
	DB            DB
	Mail          Mail
	MinIO         MinIO
	SecretKey     string
	PostsPerPage  int
	ResetTokenTTL time.Duration
	MaxUploadSize int64
}

// SecureCookies - cookie с флагом Secure только для https-развертываний,
// иначе браузер отбросит CSRF-cookie и каждый POST получит 403
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// parseAdmins splits the comma-separated list of admin addresses
func parseAdmins(value string) []string {
	if value == "" {
		return nil
	}

	var admins []string
	for _, addr := range strings.Split(value, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			admins = append(admins, addr)
		}
	}
	return admins
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "microblog"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMail() Mail {
	return Mail{
		Server:   getEnv("MAIL_SERVER", ""),
		Port:     getEnvAsInt("MAIL_PORT", 25),
		Username: getEnv("MAIL_USERNAME", ""),
		Password: getEnv("MAIL_PASSWORD", ""),
		UseTLS:   getEnvBool("MAIL_USE_TLS", false),
		Sender:   getEnv("MAIL_SENDER", "no-reply@microblog.local"),
		Admins:   parseAdmins(getEnv("ADMINS", "")),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:    getEnvAsInt("SERVER_PORT", 8080),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		DB:            LoadDB(),
		Mail:          LoadMail(),
		MinIO:         LoadMinIO(),
		SecretKey:     getEnv("SECRET_KEY", ""),
		PostsPerPage:  getEnvAsInt("POSTS_PER_PAGE", 3),
		ResetTokenTTL: parseDuration(getEnv("RESET_TOKEN_TTL", "1h"), time.Hour),
		MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
	}
}
