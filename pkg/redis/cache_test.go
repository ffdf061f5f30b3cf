package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a closed port so Get misses and Set fails.
func unreachableClient() *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
		enabled: true,
	}
}

func disabledClient() *Client {
	return &Client{enabled: false}
}

func TestGetOrSetDisabledFallsThrough(t *testing.T) {
	cache := NewCache(disabledClient(), "test")

	var got string
	err := cache.GetOrSet(context.Background(), "k", &got, TTLShort, func() (interface{}, error) {
		return "value", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestGetOrSetKeepsValueWhenWriteFails(t *testing.T) {
	cache := NewCache(unreachableClient(), "test")

	var got string
	err := cache.GetOrSet(context.Background(), "k", &got, TTLShort, func() (interface{}, error) {
		return "value", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestGetOrSetPropagatesFetchError(t *testing.T) {
	cache := NewCache(disabledClient(), "test")

	var got string
	err := cache.GetOrSet(context.Background(), "k", &got, TTLShort, func() (interface{}, error) {
		return nil, errors.New("upstream down")
	})
	assert.ErrorContains(t, err, "upstream down")
	assert.Empty(t, got)
}

func TestGetMissIsNotAnError(t *testing.T) {
	cache := NewCache(unreachableClient(), "test")

	var got string
	found, err := cache.Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
