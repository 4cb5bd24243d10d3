package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateRPS   = 10
	defaultRateBurst = 20
)

// rateLimitLua implements a token bucket per client IP. Rate is tokens
// per second, refilled continuously from the last-seen timestamp.
const rateLimitLua = `
local tkey = KEYS[1]..":t"
local lastkey = KEYS[1]..":ts"
local now = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local burst = tonumber(ARGV[3])
local tokens = tonumber(redis.call('GET', tkey) or burst)
local last = tonumber(redis.call('GET', lastkey) or now)
local delta = math.max(0, now - last) * rate / 1000
tokens = math.min(burst, tokens + delta)
if tokens < 1 then
  redis.call('SET', tkey, tokens)
  redis.call('SET', lastkey, now)
  return 0
else
  redis.call('SET', tkey, tokens - 1)
  redis.call('SET', lastkey, now)
  return 1
end`

// RateLimit returns a per-IP token-bucket middleware backed by Redis.
// A Redis failure rejects the request rather than open the gate.
func RateLimit(rdb *redis.Client, rps, burst int) fiber.Handler {
	if rps <= 0 {
		rps = defaultRateRPS
	}
	if burst <= 0 {
		burst = defaultRateBurst
	}
	return func(c *fiber.Ctx) error {
		key := "rl:" + c.IP()
		now := time.Now().UnixMilli()
		res := rdb.Eval(c.Context(), rateLimitLua, []string{key}, now, rps, burst)
		ok, err := res.Int()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if ok == 0 {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limited")
		}
		return c.Next()
	}
}
