package domain

import (
	"context"
)

// SnapshotRepository は単一スロットのスナップショットキャッシュを永続化します
type SnapshotRepository interface {
	// Get は現在のキャッシュレコードを取得します
	// レコードが存在しない場合は domain.ErrNotFound を返します
	Get(ctx context.Context) (*SnapshotRecord, error)

	// Save はキャッシュレコードを保存します
	// 既存レコードはマージせずに丸ごと上書きします（後勝ち）
	// バリデーションエラー時は domain.ErrInvalid を返します
	Save(ctx context.Context, r *SnapshotRecord) error
}
