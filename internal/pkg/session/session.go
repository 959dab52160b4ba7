package session

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/genbuddy/GenBuddy/internal/pkg/cache"
	"github.com/genbuddy/GenBuddy/internal/pkg/env"
)

// Sessions live in Redis DB 1 so a cache flush (DB 0) never logs users out.
const sessionDatabase = 1

var sessionStore *session.Store

// NewSessionStore builds the Redis-backed session store and remembers it as
// the package-wide store. The Redis endpoint is taken from the cache client
// when one is configured, with the CACHE_* env values as fallback.
func NewSessionStore() *session.Store {
	host, port, password := redisEndpoint()

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: sessionDatabase,
		Reset:    false,
	})

	ttl := time.Hour
	if v, err := strconv.Atoi(env.GetEnv("SESSION_TTL_MINUTES", "")); err == nil && v > 0 {
		ttl = time.Duration(v) * time.Minute
	}

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		Expiration:     ttl,
		KeyLookup:      "cookie:session_id",
	})
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

func redisEndpoint() (host string, port int, password string) {
	host, port = "localhost", 6379
	password = env.GetEnv("CACHE_PASSWORD", "")

	client := cache.GetClient()
	if client == nil {
		return host, port, password
	}
	if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	if p := client.Options().Password; p != "" {
		password = p
	}
	return host, port, password
}

// GetSessionValue reads a string value from the caller's session, returning
// the empty string when there is no session or the key is unset.
func GetSessionValue(c *fiber.Ctx, key string) string {
	if sessionStore == nil {
		return ""
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}
	if s, ok := sess.Get(key).(string); ok {
		return s
	}
	return ""
}
