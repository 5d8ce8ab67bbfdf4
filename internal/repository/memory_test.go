package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/imagine/internal/model"
)

func TestMemoryRepository_SavePrebooking(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p := model.Prebooking{ID: "id-1", FullName: "Asha", Phone: "919000000001", Total: 1299, CreatedAt: time.Now()}
	require.NoError(t, repo.SavePrebooking(ctx, p))

	assert.Equal(t, p, repo.prebookings["id-1"])

	err := repo.SavePrebooking(ctx, p)
	assert.ErrorIs(t, err, ErrPrebookingExists)
}

func TestMemoryRepository_MarkRedeemedIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	already, err := repo.MarkRedeemed(ctx, "919000000001")
	require.NoError(t, err)
	assert.False(t, already)

	already, err = repo.MarkRedeemed(ctx, "919000000001")
	require.NoError(t, err)
	assert.True(t, already)

	already, err = repo.MarkRedeemed(ctx, "919000000002")
	require.NoError(t, err)
	assert.False(t, already)
}

func TestMemoryRepository_ConcurrentMarkRedeemed(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			already, err := repo.MarkRedeemed(ctx, "919000000001")
			assert.NoError(t, err)
			if !already {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
}
