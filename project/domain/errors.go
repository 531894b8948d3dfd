package domain

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// ドメインエラー定義
var (
	// ErrInvalid は不正な値が設定された場合のエラー
	ErrInvalid = errors.New("ドメイン: 不正な値です")

	// ErrNotFound は要求されたリソースが見つからない場合のエラー
	ErrNotFound = errors.New("ドメイン: リソースが見つかりません")

	// ErrUnauthorized は共有トークンが一致しない場合のエラー
	ErrUnauthorized = errors.New("ドメイン: 認証に失敗しました")
)

// エラー分類タグ
var (
	// TagUpstream は外部API（Slack, GitHub, ダッシュボード）の呼び出し失敗
	TagUpstream = goerr.NewTag("upstream")

	// TagParse は外部APIから不正なJSONが返された場合
	TagParse = goerr.NewTag("parse")

	// TagPersistence はキャッシュの読み書き失敗
	TagPersistence = goerr.NewTag("persistence")
)
