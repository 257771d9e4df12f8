package redis_test

import (
	"barber/config"
	"barber/infras/redis"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Redis.Enable = false

	assert.Nil(t, redis.New(cfg))
}

func TestNew_Unreachable(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Redis.Enable = true
	cfg.Cache.Redis.Primary.Host = "127.0.0.1"
	cfg.Cache.Redis.Primary.Port = "1"

	assert.Nil(t, redis.New(cfg))
}
