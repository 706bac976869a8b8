package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizdrill/backend/internal/infrastructure/config"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)

// Store is the key-value surface the trainer persists its document to.
// Get returns ErrNotFound when the key was never set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverMinio    Driver = "minio"
	DriverMemory   Driver = "memory"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// Options selects and configures a backend. DSN is used by the SQL drivers.
type Options struct {
	Driver Driver
	DSN    string
	Redis  RedisOptions
	Minio  MinioOptions
}

// OptionsFromConfig maps the store section of the app config to Options.
func OptionsFromConfig(c config.StoreConfig) Options {
	return Options{
		Driver: Driver(c.Driver),
		DSN:    c.DSN,
		Redis: RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Minio: MinioOptions{
			Endpoint:  c.MinioEndpoint,
			AccessKey: c.MinioAccessKey,
			SecretKey: c.MinioSecretKey,
			Bucket:    c.MinioBucket,
			Secure:    c.MinioSecure,
		},
	}
}

// Open connects the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, DriverPostgres:
		return NewSQL(ctx, opts.Driver, opts.DSN)
	case DriverRedis:
		return NewRedis(ctx, opts.Redis)
	case DriverMinio:
		return NewMinio(ctx, opts.Minio)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}
}
