package api

import (
	"errors"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from .env and the environment.
type Config struct {
	Addr          string
	GRPCAddr      string
	StoreDriver   string
	DatabaseURL   string
	PGSSLMode     string
	MongoURI      string
	MongoDatabase string
	AllowedOrigin string
	StaticDir     string
	JWTSecret     string
	JWTIssuer     string
	AdminPassword string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	GameConfig    string
	PlayFPS       int
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] .env not loaded: %v", err)
	}
	cfg := Config{
		Addr:          getEnv("ADDR", ":8080"),
		GRPCAddr:      getEnv("GRPC_ADDR", ":9090"),
		StoreDriver:   getEnv("STORE_DRIVER", "memory"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		PGSSLMode:     os.Getenv("PGSSLMODE"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "dive"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		StaticDir:     getEnv("STATIC_DIR", "./public"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:     getEnv("JWT_ISSUER", "dive-server"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		ReadTimeout:   parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:  parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		GameConfig:    os.Getenv("GAME_CONFIG"),
		PlayFPS:       parseInt(getEnv("PLAY_FPS", "30"), 30),
	}
	if cfg.JWTSecret == "dev-secret-change-me" {
		log.Println("[WARN] Using default JWT secret; set JWT_SECRET in production")
	}
	if cfg.AdminPassword == "" {
		log.Println("[WARN] ADMIN_PASSWORD not set; admin routes are disabled")
	} else if err := ValidatePassword(cfg.AdminPassword); err != nil {
		log.Printf("[WARN] Weak ADMIN_PASSWORD: %v", err)
	}
	return cfg
}

// PostgresDSN applies PGSSLMODE to DatabaseURL. TLS is on unless the mode is
// "disable"; an sslmode already in the URL wins.
func (c Config) PostgresDSN() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil || u.Scheme == "" {
		return c.DatabaseURL
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return c.DatabaseURL
	}
	mode := c.PGSSLMode
	if mode == "" {
		mode = "require"
	}
	q.Set("sslmode", mode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
