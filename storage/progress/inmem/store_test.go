package inmemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "setupProgress")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "setupProgress", "1"))
	require.NoError(t, s.Set(ctx, "setupCampusId", "c1"))
	v, ok, err := s.Get(ctx, "setupProgress")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Delete(ctx, "setupProgress", "unknown"))
	assert.Equal(t, map[string]string{"setupCampusId": "c1"}, s.Snapshot())
}
