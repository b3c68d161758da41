package memo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/datedmemo/datedmemo/internal/errors"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and locates a Store backend.
type Config struct {
	Driver string
	// DSN is the database source for sqlite and postgres.
	DSN string
	// RedisAddr is host:port of the Redis server.
	RedisAddr string
	// Migrate runs pending migrations on SQL backends.
	Migrate bool
}

// Open returns the Store cfg describes. SQL backends are pinged.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil

	case DriverSQLite, DriverPostgres:
		dialect := Dialect(cfg.Driver)
		db, err := OpenDB(ctx, dialect, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := Migrate(ctx, db, dialect); err != nil {
				db.Close()
				return nil, err
			}
		}
		return NewSQLStore(db, dialect), nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, errors.New("E200").WithDetail("Redis at " + cfg.RedisAddr + " did not answer.").Wrap(err)
		}
		return NewRedisStore(client), nil
	}

	return nil, errors.New("E203").WithDetail(fmt.Sprintf("%q is not a store driver.", cfg.Driver))
}

// OpenDB opens and pings a database for dialect.
func OpenDB(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	driver := dialect.DriverName()
	if driver == "" {
		return nil, errors.New("E203").WithDetail(fmt.Sprintf("%q is not an SQL dialect.", dialect))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	if dialect == DialectSQLite {
		// A second connection to ":memory:" would see an empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.New("E200").Wrap(err)
	}
	return db, nil
}
