package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

func Drivers() []string {
	return []string{DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverMongo}
}

// Options selects and configures a driver
type Options struct {
	Driver        string
	SQLitePath    string
	Postgres      PostgresConfig
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDB       string
}

// Open builds the store for the configured driver
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		db, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQL(db, DriverSQLite)
	case DriverPostgres:
		db, err := OpenPostgres(opts.Postgres)
		if err != nil {
			return nil, err
		}
		return NewSQL(db, DriverPostgres)
	case DriverRedis:
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr, Password: opts.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedis(rdb), nil
	case DriverMongo:
		return ConnectMongo(ctx, opts.MongoURI, opts.MongoDB)
	default:
		return nil, fmt.Errorf("%q: %w", opts.Driver, ErrUnknownDriver)
	}
}
