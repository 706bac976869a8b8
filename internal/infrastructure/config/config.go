package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string // local, production
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogFile         string // optional rotated JSON log file
	SessionTTL      time.Duration

	Store StoreConfig

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type StoreConfig struct {
	Driver string // sqlite, postgres, redis, minio, memory
	DSN    string
	Key    string // key the quiz document is stored under

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment, after loading the given
// env files (.env when none are named). A missing default .env is fine; a
// named file that cannot be read is an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_env", "local")
	v.SetDefault("server_address", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("log_file", "")
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("store_driver", "sqlite")
	v.SetDefault("store_dsn", "quizdrill.db")
	v.SetDefault("store_key", "quizData")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "quizdrill")
	v.SetDefault("minio_secure", false)
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT=%q is not a valid duration: %w", v.GetString("shutdown_timeout"), err)
	}

	sessionTTL, err := time.ParseDuration(v.GetString("session_ttl"))
	if err != nil {
		return nil, fmt.Errorf("config: SESSION_TTL=%q is not a valid duration: %w", v.GetString("session_ttl"), err)
	}

	cfg := &Config{
		Env:             v.GetString("app_env"),
		ServerAddress:   v.GetString("server_address"),
		ShutdownTimeout: timeout,
		LogFile:         v.GetString("log_file"),
		SessionTTL:      sessionTTL,
		Store: StoreConfig{
			Driver:         v.GetString("store_driver"),
			DSN:            v.GetString("store_dsn"),
			Key:            v.GetString("store_key"),
			RedisAddr:      v.GetString("redis_addr"),
			RedisPassword:  v.GetString("redis_password"),
			RedisDB:        v.GetInt("redis_db"),
			MinioEndpoint:  v.GetString("minio_endpoint"),
			MinioAccessKey: v.GetString("minio_access_key"),
			MinioSecretKey: v.GetString("minio_secret_key"),
			MinioBucket:    v.GetString("minio_bucket"),
			MinioSecure:    v.GetBool("minio_secure"),
		},
		CORSOrigins:    splitCSV(v.GetString("cors_origins")),
		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
	}

	if cfg.Store.Key == "" {
		return nil, fmt.Errorf("config: STORE_KEY must not be empty")
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
