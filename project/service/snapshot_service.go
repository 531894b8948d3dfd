package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/logging"
)

const (
	// snapshotName はダッシュボードAPIに登録するスナップショット名
	snapshotName = "Events API Snapshot"

	// snapshotUpstreamExpiry はダッシュボード側でスナップショットを保持する期間
	snapshotUpstreamExpiry = time.Hour
)

// SnapshotService はダッシュボードスナップショットのキャッシュを管理するサービスです
type SnapshotService interface {
	// Latest は有効なスナップショットURLを含む返信テキストを返します
	// キャッシュが無い・失効している場合は新しいスナップショットを生成して保存します
	Latest(ctx context.Context) (string, error)
}

// snapshotService は SnapshotService の実装です
type snapshotService struct {
	repo domain.SnapshotRepository
	dp   DashboardPort
	now  func() time.Time
}

// SnapshotOption は snapshotService のオプションです
type SnapshotOption func(*snapshotService)

// WithClock は現在時刻の取得関数を差し替えます
func WithClock(now func() time.Time) SnapshotOption {
	return func(s *snapshotService) {
		s.now = now
	}
}

// NewSnapshotService は SnapshotService のインスタンスを作成します
func NewSnapshotService(repo domain.SnapshotRepository, dp DashboardPort, opts ...SnapshotOption) SnapshotService {
	s := &snapshotService{
		repo: repo,
		dp:   dp,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latest はキャッシュを確認し、必要な場合のみスナップショットを生成します
func (s *snapshotService) Latest(ctx context.Context) (string, error) {
	now := s.now()

	record, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// 読み込み失敗はキャッシュミスとして扱う
		logging.From(ctx).Warn("snapshot cache read failed", "error", err)
	}

	if err == nil && !record.Expired(now) {
		return formatCachedSnapshot(record, now), nil
	}

	return s.regenerate(ctx, now)
}

// regenerate はダッシュボード取得・スナップショット生成・キャッシュ保存を順に行います
func (s *snapshotService) regenerate(ctx context.Context, now time.Time) (string, error) {
	dashboard, err := s.dp.GetDashboard(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "ダッシュボード取得失敗")
	}

	snapshot, err := s.dp.CreateSnapshot(ctx, dashboard, snapshotName, snapshotUpstreamExpiry)
	if err != nil {
		return "", goerr.Wrap(err, "スナップショット生成失敗")
	}

	record := domain.NewSnapshotRecord(snapshot.URL, now)
	if err := s.repo.Save(ctx, record); err != nil {
		return "", goerr.Wrap(err, "スナップショット保存失敗", goerr.V("url", snapshot.URL))
	}

	logging.From(ctx).Info("snapshot created", "url", snapshot.URL, "expires", record.Expires)

	return fmt.Sprintf("Here is the latest Events API snapshot: %s\nThis snapshot will expire in %d minutes.",
		record.URL, int(domain.SnapshotCacheWindow/time.Minute)), nil
}

// formatCachedSnapshot はキャッシュ済みスナップショットの経過時間・残り時間付きテキストを整形します
func formatCachedSnapshot(record *domain.SnapshotRecord, now time.Time) string {
	elapsed := minutesWithinHour(now.Sub(record.Created))
	remaining := minutesWithinHour(record.Expires.Sub(now))

	return fmt.Sprintf("Here is the latest Events API snapshot: %s\nThis snapshot was created %d minute(s) timelate and will expire in %d minutes.",
		record.URL, elapsed, remaining)
}

const (
	msPerDay    = 24 * 60 * 60 * 1000
	msPerHour   = 60 * 60 * 1000
	msPerMinute = 60 * 1000
)

// minutesWithinHour は差分をミリ秒に直し、日・時間の剰余を取った上で分に切り捨てます
func minutesWithinHour(d time.Duration) int64 {
	ms := d.Milliseconds()
	return ms % msPerDay % msPerHour / msPerMinute
}
