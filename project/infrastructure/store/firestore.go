package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
)

// snapshotDocID はキャッシュレコードを保存する単一ドキュメントのIDです
const snapshotDocID = "stats-snapshot"

// isNotFound は Firestore の NotFound エラーを判定するヘルパー関数です
func isNotFound(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}

// FirestoreRepo は domain.SnapshotRepository の Firestore 実装です
type FirestoreRepo struct {
	cli        *firestore.Client
	collection string
}

var _ domain.SnapshotRepository = (*FirestoreRepo)(nil)

// NewFirestoreRepo は Firestore リポジトリを初期化します
func NewFirestoreRepo(ctx context.Context, cfg *config.Config) (*FirestoreRepo, error) {
	databaseID := cfg.FirestoreDatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.FirestoreProjectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "firestore: クライアント初期化失敗",
			goerr.V("project", cfg.FirestoreProjectID),
			goerr.V("database", databaseID))
	}

	return &FirestoreRepo{
		cli:        client,
		collection: cfg.FirestoreCollection,
	}, nil
}

// Get は現在のキャッシュレコードを取得します
func (repo *FirestoreRepo) Get(ctx context.Context) (*domain.SnapshotRecord, error) {
	doc, err := repo.cli.Collection(repo.collection).Doc(snapshotDocID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, goerr.Wrap(err, "firestore: スナップショット取得失敗",
			goerr.V("collection", repo.collection), goerr.T(domain.TagPersistence))
	}

	var r domain.SnapshotRecord
	if err := doc.DataTo(&r); err != nil {
		return nil, goerr.Wrap(err, "firestore: スナップショット構造体変換失敗",
			goerr.V("collection", repo.collection), goerr.T(domain.TagPersistence))
	}

	return &r, nil
}

// Save はキャッシュレコードを上書き保存します
// MergeAll は使わず、ドキュメント全体を置き換えます
func (repo *FirestoreRepo) Save(ctx context.Context, r *domain.SnapshotRecord) error {
	if err := r.Validate(); err != nil {
		return goerr.Wrap(err, "firestore: Save検証失敗")
	}

	if _, err := repo.cli.Collection(repo.collection).Doc(snapshotDocID).Set(ctx, r); err != nil {
		return goerr.Wrap(err, "firestore: スナップショット保存失敗",
			goerr.V("collection", repo.collection), goerr.T(domain.TagPersistence))
	}

	return nil
}

// Close は Firestore クライアントを閉じます
func (repo *FirestoreRepo) Close() error {
	if repo.cli != nil {
		return repo.cli.Close()
	}
	return nil
}
