package redis

import "time"

// Config holds Redis connection parameters, read from the environment.
type Config struct {
	URL             string        `env:"REDIS_URL"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"10m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"30m"`
	ReadTimeout     time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout    time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	DialTimeout     time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	RetryAttempts   int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}
