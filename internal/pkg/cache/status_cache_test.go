package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*StatusCache{nil, NewStatusCache(nil, time.Minute)} {
		assert.False(t, c.Enabled())
		require.NoError(t, c.Set(ctx, "HOD", 1, true))

		active, found, err := c.Get(ctx, "HOD", 1)
		require.NoError(t, err)
		assert.False(t, found)
		assert.False(t, active)

		require.NoError(t, c.Evict(ctx, "HOD", 1))
		require.NoError(t, c.Close())
	}
}

func TestConnect_EmptyAddr(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), Options{}, zerolog.Nop()))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "account:active:STUDENT:17", Key("STUDENT", 17))
}
