package config

import (
	"os"
	"strconv"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Facebook struct {
	AppID      string
	AppSecret  string
	APIVersion string
	// Fallback credentials for environments where no admin has linked a
	// Page through the UI.
	PageID      string
	AccessToken string
}

type Google struct {
	ClientID        string
	ClientSecret    string
	AllowedAccounts []string
}

type Push struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

type Config struct {
	PostgresURI    string
	RunMigrations  bool
	AppBaseURL     string
	FrontendURL    string
	UploadDir      string
	StorageBackend string // "local" or "r2"
	R2             R2
	Facebook       Facebook
	Google         Google
	Push           Push
	JWTSecret      string
	SecretKey      string
	CookieName     string
	ListenAddr     string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Facebook: Facebook{
			AppID:       getEnv("FB_APP_ID", ""),
			AppSecret:   getEnv("FB_APP_SECRET", ""),
			APIVersion:  getEnv("FB_API_VERSION", "v19.0"),
			PageID:      getEnv("FB_PAGE_ID", ""),
			AccessToken: getEnv("FB_ACCESS_TOKEN", ""),
		},
		Google: Google{
			ClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
			AllowedAccounts: splitList(getEnv("GOOGLE_ACCOUNT", "")),
		},
		Push: Push{
			VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
			VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
			Subscriber:      getEnv("VAPID_SUBSCRIBER", "mailto:admin@localhost"),
		},
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "refreshToken"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
