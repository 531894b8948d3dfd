package service

import (
	"context"
	"encoding/json"
	"time"
)

// SlackPort は Slack への送信のポートです
type SlackPort interface {
	// PostDM は指定されたユーザーにBotとしてDMを送信します
	PostDM(ctx context.Context, userID, text string) error

	// Respond はスラッシュコマンドの response_url にエフェメラル応答を送信します
	Respond(ctx context.Context, responseURL, text string) error
}

// RepositoryPort は GitHub 組織のリポジトリ一覧取得のポートです
type RepositoryPort interface {
	// ListRepositories はAPIが返した順序のままリポジトリ一覧を返します
	ListRepositories(ctx context.Context) ([]Repository, error)
}

// DashboardPort はダッシュボードAPIのポートです
type DashboardPort interface {
	// GetDashboard はスナップショット対象のダッシュボード定義を取得します
	GetDashboard(ctx context.Context) (json.RawMessage, error)

	// CreateSnapshot はダッシュボード定義からスナップショットを生成します
	// expires はダッシュボード側でスナップショットを保持する期間です
	CreateSnapshot(ctx context.Context, dashboard json.RawMessage, name string, expires time.Duration) (*Snapshot, error)
}
