package store

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
)

// MemoryRepo は domain.SnapshotRepository のプロセス内実装です
// 再起動でキャッシュは失われます
type MemoryRepo struct {
	mu     sync.RWMutex
	record *domain.SnapshotRecord
}

var _ domain.SnapshotRepository = (*MemoryRepo)(nil)

// NewMemoryRepo は空のメモリリポジトリを生成します
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (repo *MemoryRepo) Get(ctx context.Context) (*domain.SnapshotRecord, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if repo.record == nil {
		return nil, domain.ErrNotFound
	}

	r := *repo.record
	return &r, nil
}

func (repo *MemoryRepo) Save(ctx context.Context, r *domain.SnapshotRecord) error {
	if err := r.Validate(); err != nil {
		return goerr.Wrap(err, "memory: Save検証失敗")
	}

	copied := *r

	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.record = &copied

	return nil
}

// Close は何もしません
func (repo *MemoryRepo) Close() error {
	return nil
}
