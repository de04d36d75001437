package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLinkRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryLinkRepository()
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Minute)

	created, err := repo.Create(ctx, "abc1234", "https://example.com", &expiresAt)
	require.NoError(t, err)
	assert.Equal(t, "abc1234", created.Code)
	assert.Equal(t, int64(0), created.HitCount)
	assert.False(t, created.CreatedAt.IsZero())
	require.NotNil(t, created.ExpiresAt)
	assert.True(t, created.ExpiresAt.Equal(expiresAt))

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	exists, err := repo.Exists(ctx, "abc1234")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryLinkRepository_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	repo := NewMemoryLinkRepository(WithMemoryClock(func() time.Time { return fixed }))

	created, err := repo.Create(context.Background(), "clock", "https://example.com", nil)
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(fixed))
	assert.Equal(t, time.UTC, created.CreatedAt.Location())
	assert.Nil(t, created.ExpiresAt)
}

func TestMemoryLinkRepository_FindMissing(t *testing.T) {
	repo := NewMemoryLinkRepository()

	_, err := repo.FindByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.IncrementHitCount(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLinkRepository_DuplicateCode(t *testing.T) {
	repo := NewMemoryLinkRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "dup", "https://one.example", nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "dup", "https://two.example", nil)
	require.ErrorIs(t, err, ErrDuplicateCode)

	found, err := repo.FindByCode(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "https://one.example", found.TargetURL)
}

func TestMemoryLinkRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryLinkRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, "copy", "https://example.com", nil)
	require.NoError(t, err)
	created.TargetURL = "https://mutated.example"
	created.HitCount = 42

	found, err := repo.FindByCode(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.TargetURL)
	assert.Equal(t, int64(0), found.HitCount)
}

func TestMemoryLinkRepository_ConcurrentIncrements(t *testing.T) {
	repo := NewMemoryLinkRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, "hot", "https://example.com", nil)
	require.NoError(t, err)

	const hits = 200
	var wg sync.WaitGroup
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementHitCount(ctx, "hot")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	found, err := repo.FindByCode(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(hits), found.HitCount)
}
