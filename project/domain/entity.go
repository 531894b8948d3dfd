package domain

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// SnapshotCacheWindow はスナップショットURLをキャッシュとして再利用する期間です
// ダッシュボード側の有効期限（1時間）とは独立しています
const SnapshotCacheWindow = 30 * time.Minute

// ダッシュボードスナップショットのキャッシュレコード
type SnapshotRecord struct {
	// URL は共有用スナップショットのURL
	URL string `firestore:"url"`

	// Created はスナップショットを生成した時刻
	Created time.Time `firestore:"created"`

	// Expires はキャッシュの有効期限。Created + SnapshotCacheWindow 固定
	Expires time.Time `firestore:"expires"`
}

// NewSnapshotRecord は now を作成時刻とするキャッシュレコードを生成します
func NewSnapshotRecord(url string, now time.Time) *SnapshotRecord {
	return &SnapshotRecord{
		URL:     url,
		Created: now,
		Expires: now.Add(SnapshotCacheWindow),
	}
}

// Expired は now 時点でキャッシュが失効しているかを返します
func (r *SnapshotRecord) Expired(now time.Time) bool {
	return !now.Before(r.Expires)
}

// Validate はSnapshotRecordの必須項目を検証します
func (r *SnapshotRecord) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return goerr.Wrap(ErrInvalid, "URLは必須項目です")
	}
	if r.Created.IsZero() {
		return goerr.Wrap(ErrInvalid, "Createdは必須項目です")
	}
	if !r.Expires.After(r.Created) {
		return goerr.Wrap(ErrInvalid, "ExpiresはCreatedより後である必要があります",
			goerr.V("created", r.Created), goerr.V("expires", r.Expires))
	}
	return nil
}
