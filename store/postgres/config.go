package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
)

// Config holds PostgreSQL connection settings, loaded from BAZAAR_DB_*
// environment variables.
type Config struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"bazaar"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Database string `envconfig:"DB_NAME" default:"bazaar"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

// LoadConfig reads the connection settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("bazaar", &cfg); err != nil {
		return Config{}, fmt.Errorf("bazaar/postgres: load config: %w", err)
	}
	return cfg, nil
}

// DSN renders the config as a pgx connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, c.MaxConns, c.MinConns,
	)
}

// Open connects a pool using the given config and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("bazaar/postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bazaar/postgres: ping: %w", err)
	}
	return pool, nil
}

// NewFromEnv loads config from the environment, connects, and returns a
// ready store.
func NewFromEnv(ctx context.Context) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	pool, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}
