package database_test

import (
	"net"
	"testing"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := database.NewRedisClient(&config.Config{RedisURL: "://nope"}, logging.Discard())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestNewRedisClient_Container(t *testing.T) {
	existing := testhelpers.StartRedis(t)
	host, port, err := net.SplitHostPort(existing.Options().Addr)
	require.NoError(t, err)

	client, err := database.NewRedisClient(&config.Config{RedisHost: host, RedisPort: port}, logging.Discard())
	require.NoError(t, err)
	defer client.Close()

	viaURL, err := database.NewRedisClient(&config.Config{RedisURL: "redis://" + existing.Options().Addr + "/1"}, logging.Discard())
	require.NoError(t, err)
	defer viaURL.Close()
	assert.Equal(t, 1, viaURL.Options().DB)
}
