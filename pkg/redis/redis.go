package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// RedisAdapter is the cache surface the application uses. SafeZone keeps a
// short-lived copy of the active-alert list here so dashboard polling does
// not hit the store on every refresh.
type RedisAdapter interface {
	Set(key string, value []byte, ttl time.Duration) error
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)
	Get(key string) ([]byte, error)
	Del(key string) error
	Exist(key string) (int64, error)
	Client() goredis.UniversalClient
}

type redisAdapter struct {
	prefix   string
	Conn     goredis.UniversalClient
	ConnName string
}

var redisLock = &sync.RWMutex{}
var redisInstance map[string]RedisAdapter

func NewRedisAdapter(connName string, keysPrefix string, opts *goredis.UniversalOptions) (RedisAdapter, error) {
	redisLock.RLock()
	if redisInstance != nil {
		if adapter, ok := redisInstance[connName]; ok {
			redisLock.RUnlock()
			return adapter, nil
		}
	}
	redisLock.RUnlock()

	redisLock.Lock()
	defer redisLock.Unlock()

	if redisInstance == nil {
		redisInstance = make(map[string]RedisAdapter)
	}
	if adapter, ok := redisInstance[connName]; ok {
		return adapter, nil
	}

	conn := goredis.NewUniversalClient(opts)
	if err := conn.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis %q: %w", connName, err)
	}

	adapter := &redisAdapter{
		prefix:   keysPrefix,
		Conn:     conn,
		ConnName: connName,
	}
	redisInstance[connName] = adapter
	return adapter, nil
}

func (r *redisAdapter) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *redisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return r.Conn.Set(context.Background(), r.key(key), value, ttl).Err()
}

func (r *redisAdapter) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	return r.Conn.SetNX(context.Background(), r.key(key), value, ttl).Result()
}

func (r *redisAdapter) Get(key string) ([]byte, error) {
	return r.Conn.Get(context.Background(), r.key(key)).Bytes()
}

func (r *redisAdapter) Del(key string) error {
	return r.Conn.Del(context.Background(), r.key(key)).Err()
}

func (r *redisAdapter) Exist(key string) (int64, error) {
	return r.Conn.Exists(context.Background(), r.key(key)).Result()
}

func (r *redisAdapter) Client() goredis.UniversalClient {
	return r.Conn
}
