package common

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/songquanpeng/finlogs/common/config"
)

func TestInitRedisClient(t *testing.T) {
	origConn := config.RedisConnString
	origMaster := config.RedisMasterName
	origRDB := RDB
	t.Cleanup(func() {
		config.RedisConnString = origConn
		config.RedisMasterName = origMaster
		RDB = origRDB
		SetRedisEnabled(false)
	})

	t.Run("disabled without connection string", func(t *testing.T) {
		config.RedisConnString = ""
		require.NoError(t, InitRedisClient())
		require.False(t, IsRedisEnabled())
	})

	t.Run("connects to server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		config.RedisConnString = "redis://" + mr.Addr()
		require.NoError(t, InitRedisClient())
		require.True(t, IsRedisEnabled())
		require.NoError(t, CloseRedis())
	})

	t.Run("sentinel mode against a plain server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		config.RedisConnString = mr.Addr()
		config.RedisMasterName = "mymaster"
		t.Cleanup(func() { config.RedisMasterName = "" })

		SetRedisEnabled(false)
		require.Error(t, InitRedisClient())
		require.False(t, IsRedisEnabled())
		_ = CloseRedis()
	})

	t.Run("bad url", func(t *testing.T) {
		config.RedisConnString = "://nope"
		require.Error(t, InitRedisClient())
	})
}
