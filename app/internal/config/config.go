package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"
	// StoreMemory keeps reservations in process; single replica only.
	StoreMemory = "memory"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	MySQLDSN         string
	PostgresDSN      string
	ReservationStore string
	RunMigrations    bool

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	ReservationTTL time.Duration
	SweepInterval  time.Duration
	SweepLockTTL   time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getenv("APP_ENV", "development"),
		Port:     getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", ""),

		MySQLDSN:         getenv("MYSQL_DSN", "user:pass@tcp(mysql:3306)/appdb?parseTime=true&clientFoundRows=true"),
		PostgresDSN:      getenv("PG_DSN", ""),
		ReservationStore: getenv("RESERVATION_STORE", StoreMySQL),

		RedisURL:      getenv("REDIS_URL", ""),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		JWTSecret: getenv("JWT_SECRET", "secret"),
	}

	var err error
	if cfg.RunMigrations, err = getbool("RUN_MIGRATIONS", true); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getint("BCRYPT_COST", 0); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = getduration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReservationTTL, err = getduration("RESERVATION_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getduration("SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepLockTTL, err = getduration("SWEEP_LOCK_TTL", time.Minute); err != nil {
		return nil, err
	}

	switch cfg.ReservationStore {
	case StoreMySQL, StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("RESERVATION_STORE=postgres requires PG_DSN")
		}
	default:
		return nil, fmt.Errorf("unknown RESERVATION_STORE %q", cfg.ReservationStore)
	}

	return cfg, nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisAddr != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return d, nil
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", k, err)
	}
	return n, nil
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", k, err)
	}
	return b, nil
}
