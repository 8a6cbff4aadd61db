package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*archiveRepository, *sql.DB) {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewArchiveRepository(db).(*archiveRepository)
	return repo, db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM archive_emails`).Scan(&n))
	return n
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))
	assert.Equal(t, 0, countRows(t, db))
}

func TestInsert_DuplicateIsNoop(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	created, err := repo.Insert(ctx, "foo@bar.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Insert(ctx, "foo@bar.com")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, countRows(t, db))
}

func TestInsert_ConcurrentSameEmail(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.Insert(ctx, "race@x.io")
			assert.NoError(t, err)
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, createdCount)
	assert.Equal(t, 1, countRows(t, db))
}

func TestListAll_NewestFirst(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, email := range []string{"t1@x.io", "t2@x.io", "t3@x.io"} {
		at := base.Add(time.Duration(i) * 1500 * time.Millisecond)
		repo.now = func() time.Time { return at }
		_, err := repo.Insert(ctx, email)
		require.NoError(t, err)
	}

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "t3@x.io", records[0].Email)
	assert.Equal(t, "t2@x.io", records[1].Email)
	assert.Equal(t, "t1@x.io", records[2].Email)
	assert.True(t, records[0].CreatedAt.Equal(base.Add(3*time.Second)))
	assert.True(t, records[2].CreatedAt.Equal(base))
}

func TestListAll_SameTimestampFallsBackToInsertOrder(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, fmt.Sprintf("n%d@x.io", i))
		require.NoError(t, err)
	}

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "n2@x.io", records[0].Email)
	assert.Equal(t, "n0@x.io", records[2].Email)
}

func TestListAll_Empty(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
